package asset

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe registry of known assets. The scanner uses it
// to resolve venue ticker symbols to stable asset identities.
type Registry struct {
	byID     map[AssetID]*Asset
	bySymbol map[string][]*Asset
	mu       sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[AssetID]*Asset),
		bySymbol: make(map[string][]*Asset),
	}
}

// Register adds an asset to the registry.
// Panics if an asset with the same ID is already registered.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := a.ID()
	if _, exists := r.byID[id]; exists {
		panic(fmt.Sprintf("asset: %s already registered", id))
	}

	r.byID[id] = a
	r.bySymbol[a.Symbol()] = append(r.bySymbol[a.Symbol()], a)
}

// Get retrieves an asset by its ID.
func (r *Registry) Get(id AssetID) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	return a, ok
}

// MustGet retrieves an asset by its ID, panics if not found.
func (r *Registry) MustGet(id AssetID) *Asset {
	a, ok := r.Get(id)
	if !ok {
		panic(fmt.Sprintf("asset: %s not found in registry", id))
	}
	return a
}

// GetBySymbol retrieves all assets with the given symbol.
// A symbol can resolve to several assets on different chains.
func (r *Registry) GetBySymbol(symbol string) []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := r.bySymbol[symbol]
	if len(assets) == 0 {
		return nil
	}

	result := make([]*Asset, len(assets))
	copy(result, assets)
	return result
}

// Resolve returns the single asset for a venue ticker symbol, preferring
// the off-chain listing when a symbol exists on several chains.
func (r *Registry) Resolve(symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := r.bySymbol[symbol]
	if len(assets) == 0 {
		return nil, false
	}
	for _, a := range assets {
		if a.IsOffChain() {
			return a, true
		}
	}
	return assets[0], true
}

// GetToken retrieves a token by chain and address.
func (r *Registry) GetToken(chainID uint64, address common.Address) (*Asset, bool) {
	id := NewTokenAssetID(chainID, address)
	return r.Get(id)
}

// All returns all registered assets.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, 0, len(r.byID))
	for _, a := range r.byID {
		result = append(result, a)
	}
	return result
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Has returns true if an asset with the given ID is registered.
func (r *Registry) Has(id AssetID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}
