package di

import (
	"testing"
)

func TestContainer_RegisterAndGet(t *testing.T) {
	c := NewContainer()
	c.Register("config", "value")

	if got := c.Get("config"); got != "value" {
		t.Errorf("Get(config) = %v, want value", got)
	}
}

func TestContainer_FactoryMemoized(t *testing.T) {
	c := NewContainer()

	calls := 0
	c.RegisterFactory("svc", func(sr ServiceRegistry) any {
		calls++
		return &struct{ n int }{n: calls}
	})

	first := c.Get("svc")
	second := c.Get("svc")

	if calls != 1 {
		t.Errorf("factory invoked %d times, want 1", calls)
	}
	if first != second {
		t.Error("Get must return the memoized instance")
	}
}

func TestContainer_FactoryDependsOnInstance(t *testing.T) {
	c := NewContainer()
	c.Register("prefix", "arb")
	c.RegisterFactory("name", func(sr ServiceRegistry) any {
		return sr.Get("prefix").(string) + "-scanner"
	})

	if got := c.Get("name"); got != "arb-scanner" {
		t.Errorf("Get(name) = %v, want arb-scanner", got)
	}
}

func TestContainer_UnknownTokenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Get of unknown token must panic")
		}
	}()
	NewContainer().Get("missing")
}

func TestContainer_CyclePanics(t *testing.T) {
	c := NewContainer()
	c.RegisterFactory("a", func(sr ServiceRegistry) any { return sr.Get("b") })
	c.RegisterFactory("b", func(sr ServiceRegistry) any { return sr.Get("a") })

	defer func() {
		if recover() == nil {
			t.Error("dependency cycle must panic")
		}
	}()
	c.Get("a")
}

type greeter struct{ msg string }

func TestTypedTokens(t *testing.T) {
	c := NewContainer()
	token := NewToken[*greeter]("test.Greeter")

	RegisterToken(c, token, func(sr ServiceRegistry) *greeter {
		return &greeter{msg: "hello"}
	})

	g := GetToken(c, token)
	if g.msg != "hello" {
		t.Errorf("resolved greeter msg = %q, want hello", g.msg)
	}
}

func TestGetToken_WrongTypePanics(t *testing.T) {
	c := NewContainer()
	c.Register("test.Greeter", 42) // not a *greeter

	defer func() {
		if recover() == nil {
			t.Error("type mismatch must panic")
		}
	}()
	GetToken(c, NewToken[*greeter]("test.Greeter"))
}
