// Package di provides a minimal service container used to wire bounded
// context modules together at startup.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves services by token name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers service instances and lazy factories.
type Container interface {
	ServiceRegistry

	// Register stores an already-constructed service instance.
	Register(name string, svc any)

	// RegisterFactory stores a factory invoked once on first Get.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
	resolving map[string]bool
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
		resolving: make(map[string]bool),
	}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[name] = svc
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// Get resolves a name, invoking and memoizing its factory if needed.
// Panics on unknown names and on resolution cycles: both are wiring
// bugs, not runtime conditions.
func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.instances[name]; ok {
		c.mu.Unlock()
		return svc
	}

	factory, ok := c.factories[name]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: unknown token %q", name))
	}
	if c.resolving[name] {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: dependency cycle resolving %q", name))
	}
	c.resolving[name] = true
	c.mu.Unlock()

	svc := factory(c)

	c.mu.Lock()
	c.instances[name] = svc
	delete(c.resolving, name)
	c.mu.Unlock()

	return svc
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory for the given token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a token to its typed service.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc, ok := sr.Get(token.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: token %q has unexpected type %T", token.name, sr.Get(token.name)))
	}
	return svc
}
