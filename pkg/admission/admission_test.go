package admission_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seen-one/Route-Crafter/pkg/admission"
	"github.com/seen-one/Route-Crafter/pkg/server"
)

func errCode(t *testing.T, err error) error {
	t.Helper()
	var serverErr *server.Error
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected *server.Error, got %v", err)
	}
	return serverErr.Code()
}

func TestAcquire(t *testing.T) {
	t.Run("success within budget", func(t *testing.T) {
		c := admission.NewController(2, time.Second)

		releaseA, err := c.Acquire("a")
		assert.NoError(t, err)
		_, err = c.Acquire("b")
		assert.NoError(t, err)

		_, err = c.Acquire("c")
		assert.Error(t, err)
		assert.Equal(t, server.ErrTooManyRequests, errCode(t, err))
		assert.Equal(t, "Too many requests are being processed. Please try again later.", err.Error())

		releaseA()
		_, err = c.Acquire("c")
		assert.NoError(t, err)
	})

	t.Run("error on duplicate client", func(t *testing.T) {
		c := admission.NewController(2, time.Second)

		release, err := c.Acquire("a")
		assert.NoError(t, err)

		_, err = c.Acquire("a")
		assert.Error(t, err)
		assert.Equal(t, server.ErrTooManyRequests, errCode(t, err))
		assert.Equal(t, "You are already generating a route. Please wait for it to finish.", err.Error())

		release()
		_, err = c.Acquire("a")
		assert.NoError(t, err)
	})

	t.Run("success releasing twice without freeing two slots", func(t *testing.T) {
		c := admission.NewController(1, time.Second)

		release, err := c.Acquire("a")
		assert.NoError(t, err)
		release()
		release()

		_, err = c.Acquire("b")
		assert.NoError(t, err)
		_, err = c.Acquire("c")
		assert.Error(t, err)
	})
}

func TestDo(t *testing.T) {
	t.Run("success returns the job value", func(t *testing.T) {
		c := admission.NewController(1, time.Second)

		got, err := admission.Do(context.Background(), c, "a", func(ctx context.Context) (int, error) {
			return 42, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 42, got)

		// slot is free again once the job is done
		assert.Eventually(t, func() bool {
			release, err := c.Acquire("a")
			if err != nil {
				return false
			}
			release()
			return true
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("error after the timeout keeps the slot held", func(t *testing.T) {
		c := admission.NewController(1, 50*time.Millisecond)

		_, err := admission.Do(context.Background(), c, "a", func(ctx context.Context) (string, error) {
			time.Sleep(500 * time.Millisecond)
			return "late", nil
		})
		assert.Error(t, err)
		assert.Equal(t, server.ErrTimeout, errCode(t, err))
		assert.Equal(t, "Took too long to generate. Please try again with a smaller area.", err.Error())

		// the abandoned job still owns the budget until it returns
		_, err = c.Acquire("b")
		assert.Error(t, err)
		assert.Eventually(t, func() bool {
			release, err := c.Acquire("b")
			if err != nil {
				return false
			}
			release()
			return true
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("error when the job reports its own deadline", func(t *testing.T) {
		c := admission.NewController(1, 50*time.Millisecond)

		_, err := admission.Do(context.Background(), c, "a", func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		assert.Error(t, err)
		assert.Equal(t, server.ErrTimeout, errCode(t, err))
		assert.Equal(t, "Took too long to generate. Please try again with a smaller area.", err.Error())
	})

	t.Run("error when the caller cancels", func(t *testing.T) {
		c := admission.NewController(1, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err := admission.Do(ctx, c, "a", func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("error when the job panics", func(t *testing.T) {
		c := admission.NewController(1, time.Second)

		_, err := admission.Do(context.Background(), c, "a", func(ctx context.Context) (int, error) {
			panic("boom")
		})
		assert.Error(t, err)
		assert.Equal(t, server.ErrInternalServerError, errCode(t, err))

		assert.Eventually(t, func() bool {
			release, err := c.Acquire("a")
			if err != nil {
				return false
			}
			release()
			return true
		}, time.Second, 10*time.Millisecond)
	})
}
