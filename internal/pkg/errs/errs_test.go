package errs_test

import (
	"errors"
	"testing"

	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	lookup := errors.New("sql: no rows in result set")
	parse := errors.New("mail: missing '@' or angle-addr")

	tests := []struct {
		name     string
		err      error
		sentinel error
		want     string
	}{
		{
			name:     "order not found",
			err:      errs.NewObjectNotFoundError("orderID", "6f1c"),
			sentinel: errs.ErrObjectNotFound,
			want:     "object not found: 6f1c",
		},
		{
			name:     "order not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("orderID", "6f1c", lookup),
			sentinel: errs.ErrObjectNotFound,
			want:     "object not found: param is: orderID, ID is: 6f1c (cause: sql: no rows in result set)",
		},
		{
			name:     "non-string id",
			err:      errs.NewObjectNotFoundError("page", 7),
			sentinel: errs.ErrObjectNotFound,
			want:     "object not found: %!s(int=7)",
		},
		{
			name:     "invalid email",
			err:      errs.NewValueIsInvalidError("email"),
			sentinel: errs.ErrValueIsInvalid,
			want:     "value is invalid: email",
		},
		{
			name:     "invalid email with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("email", parse),
			sentinel: errs.ErrValueIsInvalid,
			want:     "value is invalid: email (cause: mail: missing '@' or angle-addr)",
		},
		{
			name:     "weight out of range",
			err:      errs.NewValueIsOutOfRangeError("weightLbs", -3, 1, 500),
			sentinel: errs.ErrValueIsOutOfRange,
			want:     "value is invalid: -3 is weightLbs, min value is 1, max value is 500",
		},
		{
			name:     "weight out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("weightLbs", 0, 1, 500, errors.New("scale not tared")),
			sentinel: errs.ErrValueIsOutOfRange,
			want:     "value is invalid: 0 is weightLbs, min value is 1, max value is 500 (cause: scale not tared)",
		},
		{
			name:     "missing address",
			err:      errs.NewValueIsRequiredError("address"),
			sentinel: errs.ErrValueIsRequired,
			want:     "value is required: address",
		},
		{
			name:     "missing address with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("address", errors.New("blank after trim")),
			sentinel: errs.ErrValueIsRequired,
			want:     "value is required: address (cause: blank after trim)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestValueIsOutOfRangeError_Fields(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("batch", 0, 1, 1000)

	assert.Equal(t, "batch", err.ParamName)
	assert.Equal(t, 0, err.Value)
	assert.Equal(t, 1, err.Min)
	assert.Equal(t, 1000, err.Max)
	require.NoError(t, err.Cause)
}

func TestValueIsOutOfRangeError_KeepsValueOnOneLine(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("notes", "ring\r\ntwice", 0, 500)

	assert.Contains(t, err.Error(), "ring  twice")
	assert.NotContains(t, err.Error(), "\n")
}

func TestVersionIsInvalidError(t *testing.T) {
	t.Run("NewVersionIsInvalidError", func(t *testing.T) {
		err := errs.NewVersionIsInvalidError("order")

		assert.Equal(t, "order", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "version is invalid: order", err.Error())
		assert.Equal(t, errs.ErrVersionIsInvalid, err.Unwrap())
	})

	t.Run("NewVersionIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("expected version 3")
		err := errs.NewVersionIsInvalidErrorWithCause("order", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "version is invalid: order (cause: expected version 3)", err.Error())
	})
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("status", "delivered cannot move to picked_up")

	assert.Equal(t, "conflict: status: delivered cannot move to picked_up", err.Error())
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestAccessErrors(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		err := errs.NewUnauthenticatedError("invalid credentials")
		assert.Equal(t, "unauthenticated: invalid credentials", err.Error())
		require.ErrorIs(t, err, errs.ErrUnauthenticated)
		require.NotErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unauthenticated with cause", func(t *testing.T) {
		err := errs.NewUnauthenticatedErrorWithCause("invalid token", errors.New("token is expired"))
		assert.Equal(t, "unauthenticated: invalid token (cause: token is expired)", err.Error())
	})

	t.Run("forbidden", func(t *testing.T) {
		err := errs.NewForbiddenError("role admin required")
		assert.Equal(t, "forbidden: role admin required", err.Error())
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestExternalServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.NewExternalServiceError("stripe", cause)

	assert.Equal(t, "external service failure: stripe (cause: connection reset)", err.Error())
	require.ErrorIs(t, err, errs.ErrExternalService)
	require.ErrorIs(t, err, cause)
}

func TestSentinelMessages(t *testing.T) {
	tests := map[error]string{
		errs.ErrObjectNotFound:    "object not found",
		errs.ErrValueIsInvalid:    "value is invalid",
		errs.ErrValueIsOutOfRange: "value is out of range",
		errs.ErrValueIsRequired:   "value is required",
		errs.ErrVersionIsInvalid:  "version is invalid",
	}
	for sentinel, want := range tests {
		assert.Equal(t, want, sentinel.Error())
	}
}
