package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Market-data errors
	CodeMalformedSnapshot:    "Order book snapshot is malformed",
	CodeExchangeUnavailable:  "No snapshot available for exchange/symbol",
	CodeOrderbookFetchFailed: "Failed to fetch orderbook",
	CodeTickerFetchFailed:    "Failed to fetch ticker",
	CodeInvalidSymbol:        "Invalid trading symbol",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Graph and route-evaluation errors
	CodeEmptyDepth:            "Consolidated order book side has zero size",
	CodeInvalidAction:         "Unrecognized pricing action, use buy or sell",
	CodeInvalidRoute:          "Route legs do not chain into a valid path",
	CodeEdgeNotFound:          "No conversion edge for currency pair",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
