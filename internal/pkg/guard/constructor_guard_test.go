package guard_test

import (
	"errors"
	"sync"
	"testing"

	"laundry/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTicketNotConstructed = errors.New("ticket must be created via newTicket")

// ticket mimics how commands embed the guard.
type ticket struct {
	weightLbs int64
	guard     guard.ConstructorGuard
}

func newTicket(weightLbs int64) ticket {
	return ticket{weightLbs: weightLbs, guard: guard.NewConstructorGuard()}
}

func (t ticket) Validate() error {
	return t.guard.Validate(errTicketNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	tests := []struct {
		name    string
		guard   guard.ConstructorGuard
		custom  error
		wantErr error
	}{
		{"constructed with custom error", guard.NewConstructorGuard(), errTicketNotConstructed, nil},
		{"constructed without custom error", guard.NewConstructorGuard(), nil, nil},
		{"zero value with custom error", guard.ConstructorGuard{}, errTicketNotConstructed, errTicketNotConstructed},
		{"zero value falls back to default", guard.ConstructorGuard{}, nil, guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.custom)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructorGuard_EmbeddedInValue(t *testing.T) {
	t.Run("constructor path validates", func(t *testing.T) {
		require.NoError(t, newTicket(12).Validate())
	})

	t.Run("literal bypasses constructor", func(t *testing.T) {
		bypassed := ticket{weightLbs: 12}
		assert.ErrorIs(t, bypassed.Validate(), errTicketNotConstructed)
	})

	t.Run("copies keep the constructed flag", func(t *testing.T) {
		original := newTicket(3)
		cp := original
		cp.weightLbs = 4
		require.NoError(t, cp.Validate())
		assert.Equal(t, int64(3), original.weightLbs)
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	var zero guard.ConstructorGuard

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
			assert.ErrorIs(t, zero.Validate(nil), guard.ErrDefaultConstructorGuard)
		}()
	}
	wg.Wait()
}
