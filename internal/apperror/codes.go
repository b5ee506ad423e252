package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Market-data error codes
const (
	CodeMalformedSnapshot    Code = "MALFORMED_SNAPSHOT"
	CodeExchangeUnavailable  Code = "EXCHANGE_UNAVAILABLE"
	CodeOrderbookFetchFailed Code = "ORDERBOOK_FETCH_FAILED"
	CodeTickerFetchFailed    Code = "TICKER_FETCH_FAILED"
	CodeInvalidSymbol        Code = "INVALID_SYMBOL"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"
)

// Graph and route-evaluation error codes
const (
	CodeEmptyDepth            Code = "EMPTY_DEPTH"
	CodeInvalidAction         Code = "INVALID_ACTION"
	CodeInvalidRoute          Code = "INVALID_ROUTE"
	CodeEdgeNotFound          Code = "EDGE_NOT_FOUND"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
)

// Circuit breaker error codes
const (
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
