package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
	ChainIDBase     = 8453
	ChainIDOffChain = 0 // fiat or non-EVM coins
)

// Well-known token addresses on Ethereum Mainnet
var (
	AddrUSDCEthereum = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	AddrUSDTEthereum = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	AddrDAIEthereum  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	AddrWETHEthereum = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrWBTCEthereum = common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599")
)

// Well-known AssetIDs
var (
	IDEthereumETH  = NewNativeAssetID(ChainIDEthereum)
	IDEthereumUSDC = NewTokenAssetID(ChainIDEthereum, AddrUSDCEthereum)
	IDEthereumUSDT = NewTokenAssetID(ChainIDEthereum, AddrUSDTEthereum)
	IDEthereumDAI  = NewTokenAssetID(ChainIDEthereum, AddrDAIEthereum)
	IDEthereumWETH = NewTokenAssetID(ChainIDEthereum, AddrWETHEthereum)
	IDEthereumWBTC = NewTokenAssetID(ChainIDEthereum, AddrWBTCEthereum)

	// Coins on their own chains, as listed by centralized venues
	IDBTC = NewOffChainAssetID("BTC")
	IDLTC = NewOffChainAssetID("LTC")

	// Fiat
	IDUSD = NewOffChainAssetID("USD")
	IDEUR = NewOffChainAssetID("EUR")
)

// Well-known Assets
var (
	ETH  = NewAssetWithName(IDEthereumETH, "ETH", "Ethereum", 18)
	USDC = NewAssetWithName(IDEthereumUSDC, "USDC", "USD Coin", 6)
	USDT = NewAssetWithName(IDEthereumUSDT, "USDT", "Tether USD", 6)
	DAI  = NewAssetWithName(IDEthereumDAI, "DAI", "Dai Stablecoin", 18)
	WETH = NewAssetWithName(IDEthereumWETH, "WETH", "Wrapped Ether", 18)
	WBTC = NewAssetWithName(IDEthereumWBTC, "WBTC", "Wrapped Bitcoin", 8)

	BTC = NewAssetWithName(IDBTC, "BTC", "Bitcoin", 8)
	LTC = NewAssetWithName(IDLTC, "LTC", "Litecoin", 8)

	USD = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
	EUR = NewAssetWithName(IDEUR, "EUR", "Euro", 2)
)

// DefaultRegistry returns a registry pre-populated with the assets the
// default venue configuration trades.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(ETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	r.Register(WETH)
	r.Register(WBTC)

	r.Register(BTC)
	r.Register(LTC)

	r.Register(USD)
	r.Register(EUR)

	return r
}

// MustNewToken creates a new ERC20 token asset.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewOffChain creates a new off-chain asset for a venue-listed coin.
func MustNewOffChain(symbol, name string, decimals uint8) *Asset {
	id := NewOffChainAssetID(symbol)
	return NewAssetWithName(id, symbol, name, decimals)
}
