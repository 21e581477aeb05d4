package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("should pass for a constructed guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("should return the supplied error for a zero-value guard", func(t *testing.T) {
		var g guard.ConstructorGuard
		notConstructed := errors.New("command must be created via its constructor")

		err := g.Validate(notConstructed)

		assert.Equal(t, notConstructed, err)
	})

	t.Run("should fall back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// Commands embed the guard so a zero-value command fails validation in
// its handler instead of reaching the database.
func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type cancelCommand struct {
		orderID int64
		guard   guard.ConstructorGuard
	}

	errNotConstructed := errors.New("cancelCommand must be created via newCancelCommand")

	newCancelCommand := func(orderID int64) cancelCommand {
		return cancelCommand{orderID: orderID, guard: guard.NewConstructorGuard()}
	}

	t.Run("should accept commands built by the constructor", func(t *testing.T) {
		cmd := newCancelCommand(42)

		require.NoError(t, cmd.guard.Validate(errNotConstructed))
		assert.Equal(t, int64(42), cmd.orderID)
	})

	t.Run("should reject a zero-value command", func(t *testing.T) {
		var cmd cancelCommand

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})
}
