// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/lmoreno/cyclearb/business/arbitrage/app"
	"github.com/lmoreno/cyclearb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scanner = di.NewToken[*app.Scanner]("arbitrage.Scanner")
)

// Private dependency tokens - internal to the arbitrage module
var (
	Evaluator = di.NewToken[*app.Evaluator]("arbitrage:evaluator")
	Reporters = di.NewToken[[]app.Reporter]("arbitrage:reporters")
)

// GetScanner resolves the scanner service.
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

// GetEvaluator resolves the route evaluator.
func GetEvaluator(c di.ServiceRegistry) *app.Evaluator {
	return di.GetToken(c, Evaluator)
}

// GetReporters resolves the configured reporters.
func GetReporters(c di.ServiceRegistry) []app.Reporter {
	return di.GetToken(c, Reporters)
}
