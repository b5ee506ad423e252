package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew_CodeAndMessage(t *testing.T) {
	err := New(CodeEmptyDepth)

	if err.Code != CodeEmptyDepth {
		t.Errorf("Code = %v, want %v", err.Code, CodeEmptyDepth)
	}
	if err.Message == "" {
		t.Error("Message must default from the code's message table")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeExchangeUnavailable, "binance")

	if !errors.Is(err, cause) {
		t.Error("wrapped error must unwrap to its cause")
	}
	if err.Context != "binance" {
		t.Errorf("Context = %q, want binance", err.Context)
	}
	if GetCode(err) != CodeExchangeUnavailable {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), CodeExchangeUnavailable)
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeMalformedSnapshot, WithContext("binance BTC/USDT"))

	if !IsCode(err, CodeMalformedSnapshot) {
		t.Error("IsCode must match the error's own code")
	}
	if IsCode(err, CodeEmptyDepth) {
		t.Error("IsCode must not match a different code")
	}

	// Through wrapping layers.
	wrapped := fmt.Errorf("pass failed: %w", err)
	if !IsCode(wrapped, CodeMalformedSnapshot) {
		t.Error("IsCode must see through fmt.Errorf wrapping")
	}

	if IsCode(errors.New("plain"), CodeMalformedSnapshot) {
		t.Error("IsCode on a plain error must be false")
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeInvalidSymbol, WithContext("BTCUSDT"))
	got := err.Error()

	if got == "" {
		t.Fatal("Error() is empty")
	}
	// Code and context both surface in the rendered string.
	if want := string(CodeInvalidSymbol); !strings.Contains(got, want) {
		t.Errorf("Error() = %q, missing code %q", got, want)
	}
	if !strings.Contains(got, "BTCUSDT") {
		t.Errorf("Error() = %q, missing context", got)
	}
}
