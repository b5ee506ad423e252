package app

import (
	graphdomain "github.com/lmoreno/cyclearb/business/graph/domain"
	marketdata "github.com/lmoreno/cyclearb/business/marketdata/domain"
)

// FindCycles enumerates simple cycles that start and end at startCurrency
// using at most maxDepth edges. The traversal is depth-first over the
// graph's insertion order: from the current currency it follows the
// outgoing edges of every node trading that currency, across all
// exchanges. An intermediate currency may appear at most once per path;
// only the start currency may recur, which closes the cycle. Cycles are
// not deduplicated across economically equivalent edge sequences.
func FindCycles(g *graphdomain.Graph, startCurrency marketdata.Currency, maxDepth int) []graphdomain.Route {
	if maxDepth < 1 {
		return nil
	}

	var cycles []graphdomain.Route
	visited := map[marketdata.Currency]bool{}
	var path []graphdomain.EdgeID

	var dfs func(current marketdata.Currency, depth int)
	dfs = func(current marketdata.Currency, depth int) {
		if depth >= maxDepth {
			return
		}
		for _, nodeID := range g.NodesFor(current) {
			for _, edgeID := range g.OutEdges(nodeID) {
				edge := g.Edge(edgeID)
				dest := g.Node(edge.To).Currency

				if dest == startCurrency {
					if depth > 0 { // skip degenerate single-hop self loops
						cycle := make([]graphdomain.EdgeID, len(path)+1)
						copy(cycle, path)
						cycle[len(path)] = edgeID
						cycles = append(cycles, graphdomain.Route{
							Kind:  graphdomain.KindCycle,
							Start: startCurrency,
							Edges: cycle,
						})
					}
					continue
				}

				if visited[dest] {
					continue
				}

				visited[dest] = true
				path = append(path, edgeID)
				dfs(dest, depth+1)
				path = path[:len(path)-1]
				delete(visited, dest)
			}
		}
	}

	dfs(startCurrency, 0)
	return cycles
}
