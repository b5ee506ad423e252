// Package asset provides a type-safe model for the currencies the scanner
// trades across venues. Identity is chain plus contract address, never the
// ticker symbol: two venues listing "BTC" refer to the same asset, while a
// bridged token and its native coin do not.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AssetID uniquely identifies an asset by chain and contract address.
// For native coins the address is zero. Off-chain assets (fiat, coins with
// no EVM contract) use chainID 0 with a symbol-derived address.
type AssetID struct {
	chainID uint64
	address common.Address
}

// NewNativeAssetID creates an AssetID for a native coin (ETH, MATIC, etc).
func NewNativeAssetID(chainID uint64) AssetID {
	return AssetID{
		chainID: chainID,
		address: common.Address{},
	}
}

// NewTokenAssetID creates an AssetID for an ERC20 token.
func NewTokenAssetID(chainID uint64, addr common.Address) AssetID {
	if addr == (common.Address{}) {
		panic("token address cannot be zero - use NewNativeAssetID for native coins")
	}
	return AssetID{
		chainID: chainID,
		address: addr,
	}
}

// NewOffChainAssetID creates an AssetID for assets with no EVM contract:
// fiat currencies and exchange-listed coins on their own chains (BTC, LTC).
// The address is derived deterministically from the symbol.
func NewOffChainAssetID(symbol string) AssetID {
	addr := common.BytesToAddress(common.RightPadBytes([]byte(symbol), 20))
	return AssetID{
		chainID: ChainIDOffChain,
		address: addr,
	}
}

// ChainID returns the chain ID (0 for off-chain assets).
func (id AssetID) ChainID() uint64 {
	return id.chainID
}

// Address returns the token contract address (zero for native coins).
func (id AssetID) Address() common.Address {
	return id.address
}

// IsNative returns true if this is a native coin on an EVM chain.
func (id AssetID) IsNative() bool {
	return id.chainID != 0 && id.address == (common.Address{})
}

// IsToken returns true if this is an ERC20 token.
func (id AssetID) IsToken() bool {
	return id.chainID != 0 && id.address != (common.Address{})
}

// IsOffChain returns true if this asset has no EVM contract.
func (id AssetID) IsOffChain() bool {
	return id.chainID == 0
}

// String returns a human-readable representation.
func (id AssetID) String() string {
	if id.IsOffChain() {
		return fmt.Sprintf("offchain:%s", id.address.Hex()[:10])
	}
	if id.IsNative() {
		return fmt.Sprintf("chain:%d/native", id.chainID)
	}
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}

// Equals compares two AssetIDs for equality.
func (id AssetID) Equals(other AssetID) bool {
	return id.chainID == other.chainID && id.address == other.address
}
