// Package di contains dependency injection tokens for the graph context.
package di

import (
	"github.com/lmoreno/cyclearb/business/graph/app"
	"github.com/lmoreno/cyclearb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Builder = di.NewToken[*app.Builder]("graph.Builder")
)

// GetBuilder resolves the graph builder.
func GetBuilder(c di.ServiceRegistry) *app.Builder {
	return di.GetToken(c, Builder)
}
