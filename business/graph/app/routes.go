package app

import (
	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

// GenerateRoutes enumerates permutation routes over a fixed symbol set:
// every ordering of two or more of the declared pairs whose chained
// currencies form a closed loop from startCurrency back to itself. Pairs
// not involved in a loop are left out, so a universe carrying unrelated
// symbols still yields its closable sub-loops. Each pair may be used in
// direct or reversed orientation; the orientation is forced by the
// currency the chain has reached. The full-universe ordering identical to
// the input is excluded. Unlike FindCycles, the result is shaped entirely
// by the caller's symbol universe, not by what the graph happens to
// contain.
func GenerateRoutes(symbols []marketdata.Symbol, startCurrency marketdata.Currency) []graphdomain.Route {
	if len(symbols) == 0 {
		return nil
	}

	var routes []graphdomain.Route

	for mask := 1; mask < 1<<len(symbols); mask++ {
		indices := subsetIndices(mask, len(symbols))
		if len(indices) < 2 {
			continue
		}
		full := len(indices) == len(symbols)

		permute(indices, 0, func(perm []int) {
			if full && isIdentity(perm) {
				return
			}
			if hops, ok := chain(symbols, perm, startCurrency); ok {
				routes = append(routes, graphdomain.Route{
					Kind:  graphdomain.KindPermutation,
					Start: startCurrency,
					Hops:  hops,
				})
			}
		})
	}

	return routes
}

func subsetIndices(mask, n int) []int {
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

// chain orients each pair of the permutation so its source currency matches
// the currency reached so far. Returns false if any pair cannot link or the
// loop does not close at startCurrency.
func chain(symbols []marketdata.Symbol, perm []int, startCurrency marketdata.Currency) ([]graphdomain.Hop, bool) {
	hops := make([]graphdomain.Hop, 0, len(perm))
	current := startCurrency

	for _, idx := range perm {
		next, ok := symbols[idx].Other(current)
		if !ok {
			return nil, false
		}
		hops = append(hops, graphdomain.Hop{From: current, To: next})
		current = next
	}

	if current != startCurrency {
		return nil, false
	}
	return hops, true
}

func isIdentity(perm []int) bool {
	for i, v := range perm {
		if i != v {
			return false
		}
	}
	return true
}

// permute visits every permutation of indices, calling visit with a slice
// valid only for the duration of the call.
func permute(indices []int, k int, visit func([]int)) {
	if k == len(indices) {
		visit(indices)
		return
	}
	for i := k; i < len(indices); i++ {
		indices[k], indices[i] = indices[i], indices[k]
		permute(indices, k+1, visit)
		indices[k], indices[i] = indices[i], indices[k]
	}
}
