package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradingErrorIsByCode(t *testing.T) {
	err := NewError(ErrUnexpectedField, "Got unexpected keyword argument 'sl' for action POS_CLOSE").
		WithDetail("field", "sl")

	wrapped := fmt.Errorf("encode: %w", err)
	assert.True(t, HasCode(wrapped, ErrUnexpectedField))
	assert.False(t, HasCode(wrapped, ErrMissingRequiredField))
	assert.Equal(t, ErrUnexpectedField, CodeOf(wrapped))
	assert.Equal(t, "sl", err.Details["field"])

	assert.Equal(t, ErrNoError, CodeOf(nil))
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := WrapError(ErrTransport, "failed to write command", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[TRANSPORT] failed to write command: broken pipe", err.Error())
	assert.Equal(t, "[NOT_FOUND] x", NewError(ErrNotFound, "x").Error())
}

func TestErrorFromMT4Code(t *testing.T) {
	tests := []struct {
		mt4       int
		code      ErrorCode
		retryable bool
	}{
		{0, ErrNoError, false},
		{130, ErrInvalidStops, false},
		{134, ErrNoMoney, false},
		{136, ErrOffQuotes, true},
		{138, ErrRequote, true},
		{141, ErrTooManyRequests, true},
		{4108, ErrNotFound, false},
		{9999, ErrUnknown, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.mt4), func(t *testing.T) {
			code := ErrorFromMT4Code(tt.mt4)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.retryable, IsRetryable(code))
		})
	}
}

func TestIsFatal(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrMissingRequiredField, ErrUnexpectedField, ErrReservedField,
		ErrInvalidFieldValue, ErrInvalidDiscriminator, ErrNotImplemented,
	} {
		assert.True(t, IsFatal(code), code)
	}
	assert.False(t, IsFatal(ErrTransport))
	assert.False(t, IsFatal(ErrRequote))
}
