package domain

import (
	"errors"
	"fmt"
)

// ErrorCode representa un código de error del dominio de trading.
type ErrorCode string

// Códigos de error estándar
const (
	// ErrNoError indica éxito (sin error)
	ErrNoError ErrorCode = "NO_ERROR"

	// Errores de validación
	ErrInvalidPrice         ErrorCode = "INVALID_PRICE"
	ErrInvalidStops         ErrorCode = "INVALID_STOPS"
	ErrInvalidVolume        ErrorCode = "INVALID_VOLUME"
	ErrInvalidSymbol        ErrorCode = "INVALID_SYMBOL"
	ErrInvalidMagicNumber   ErrorCode = "INVALID_MAGIC_NUMBER"
	ErrInvalidTradeID       ErrorCode = "INVALID_TRADE_ID"
	ErrInvalidCommandID     ErrorCode = "INVALID_COMMAND_ID"
	ErrMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"

	// Errores de codificación de comandos
	ErrNotImplemented       ErrorCode = "NOT_IMPLEMENTED"
	ErrInvalidDiscriminator ErrorCode = "INVALID_DISCRIMINATOR"
	ErrUnexpectedField      ErrorCode = "UNEXPECTED_FIELD"
	ErrInvalidFieldValue    ErrorCode = "INVALID_FIELD_VALUE"
	ErrReservedField        ErrorCode = "RESERVED_FIELD"

	// Errores de mercado/broker
	ErrMarketClosed    ErrorCode = "MARKET_CLOSED"
	ErrNoMoney         ErrorCode = "NO_MONEY"
	ErrPriceChanged    ErrorCode = "PRICE_CHANGED"
	ErrOffQuotes       ErrorCode = "OFF_QUOTES"
	ErrBrokerBusy      ErrorCode = "BROKER_BUSY"
	ErrRequote         ErrorCode = "REQUOTE"
	ErrTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrTimeout         ErrorCode = "TIMEOUT"
	ErrTradeDisabled   ErrorCode = "TRADE_DISABLED"
	ErrLongOnly        ErrorCode = "LONG_ONLY"
	ErrShortOnly       ErrorCode = "SHORT_ONLY"

	// Errores de sistema
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrConnectionLost ErrorCode = "CONNECTION_LOST"
	ErrDuplicateTrade ErrorCode = "DUPLICATE_TRADE"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrTerminal       ErrorCode = "TERMINAL_ERROR"
	ErrTransport      ErrorCode = "TRANSPORT"
)

// TradingError representa un error del dominio de trading con contexto.
type TradingError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implementa la interfaz error.
func (e *TradingError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implementa la interfaz errors.Unwrap.
func (e *TradingError) Unwrap() error {
	return e.Wrapped
}

// Is compara por código: errors.Is(err, domain.NewError(domain.ErrUnexpectedField, ""))
// es verdadero para cualquier TradingError con ese código.
func (e *TradingError) Is(target error) bool {
	t, ok := target.(*TradingError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail agrega un detalle al error.
func (e *TradingError) WithDetail(key string, value interface{}) *TradingError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError crea un nuevo TradingError.
//
// Example:
//
//	err := domain.NewError(domain.ErrInvalidSymbol, "Symbol XAUUSD not allowed")
func NewError(code ErrorCode, message string) *TradingError {
	return &TradingError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError envuelve un error existente con contexto de trading.
//
// Example:
//
//	err := domain.WrapError(domain.ErrConnectionLost, "pipe connection failed", originalErr)
func WrapError(code ErrorCode, message string, wrapped error) *TradingError {
	return &TradingError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: wrapped,
	}
}

// CodeOf extrae el ErrorCode de la cadena de errores, o ErrUnknown si no hay TradingError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrNoError
	}
	var te *TradingError
	if errors.As(err, &te) {
		return te.Code
	}
	return ErrUnknown
}

// HasCode indica si algún TradingError de la cadena tiene el código dado.
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &TradingError{Code: code})
}

// IsRetryable indica si un error es retriable (puede reintentarse).
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrBrokerBusy, ErrRequote, ErrTimeout, ErrTooManyRequests, ErrOffQuotes:
		return true
	default:
		return false
	}
}

// IsFatal indica si un error es fatal (no se debe reintentar).
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrInvalidSymbol, ErrInvalidMagicNumber, ErrInvalidTradeID,
		ErrInvalidCommandID, ErrMissingRequiredField, ErrDuplicateTrade,
		ErrNotImplemented, ErrInvalidDiscriminator, ErrUnexpectedField,
		ErrInvalidFieldValue, ErrReservedField:
		return true
	default:
		return false
	}
}

// ErrorFromMT4Code convierte un código de error MT4 a ErrorCode.
//
// Códigos MT4 comunes:
// - 129: ERR_INVALID_PRICE
// - 130: ERR_INVALID_STOPS
// - 131: ERR_INVALID_TRADE_VOLUME
// - 132: ERR_MARKET_CLOSED
// - 133: ERR_TRADE_DISABLED
// - 134: ERR_NOT_ENOUGH_MONEY
// - 135: ERR_PRICE_CHANGED
// - 136: ERR_OFF_QUOTES
// - 137: ERR_BROKER_BUSY
// - 138: ERR_REQUOTE
// - 141: ERR_TOO_MANY_REQUESTS
func ErrorFromMT4Code(mt4Code int) ErrorCode {
	switch mt4Code {
	case 0:
		return ErrNoError
	case 129:
		return ErrInvalidPrice
	case 130:
		return ErrInvalidStops
	case 131:
		return ErrInvalidVolume
	case 132:
		return ErrMarketClosed
	case 133:
		return ErrTradeDisabled
	case 134:
		return ErrNoMoney
	case 135:
		return ErrPriceChanged
	case 136:
		return ErrOffQuotes
	case 137:
		return ErrBrokerBusy
	case 138:
		return ErrRequote
	case 141:
		return ErrTooManyRequests
	case 4108: // ERR_UNKNOWN_TICKET (no standard pero común)
		return ErrNotFound
	default:
		return ErrUnknown
	}
}

