package ui

import (
	arbapp "github.com/lmoreno/cyclearb/business/arbitrage/app"
)

// PassResultMsg is sent after every discovery pass.
type PassResultMsg struct {
	Result arbapp.PassResult
}

// LogMsg is sent to display a log line in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI refresh.
type TickMsg struct{}
