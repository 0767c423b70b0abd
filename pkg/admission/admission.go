// Package admission bounds how many route computations run at once and how
// long each one may take.
package admission

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/seen-one/Route-Crafter/pkg/server"
)

// client facing wording, keep stable
const (
	msgAlreadyRunning = "You are already generating a route. Please wait for it to finish."
	msgBusy           = "Too many requests are being processed. Please try again later."
	msgTimeout        = "Took too long to generate. Please try again with a smaller area."
)

type Controller struct {
	sem     *semaphore.Weighted
	timeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewController(budget int64, timeout time.Duration) *Controller {
	return &Controller{
		sem:      semaphore.NewWeighted(budget),
		timeout:  timeout,
		inflight: make(map[string]struct{}),
	}
}

func (c *Controller) Timeout() time.Duration {
	return c.timeout
}

// Acquire admits one computation for clientID. The duplicate check runs
// before the budget check so a rejected duplicate never consumes a slot. The
// returned release is safe to call more than once.
func (c *Controller) Acquire(clientID string) (func(), error) {
	c.mu.Lock()
	if _, ok := c.inflight[clientID]; ok {
		c.mu.Unlock()
		return nil, server.WrapErrorf(nil, server.ErrTooManyRequests, msgAlreadyRunning)
	}
	c.inflight[clientID] = struct{}{}
	c.mu.Unlock()

	if !c.sem.TryAcquire(1) {
		c.mu.Lock()
		delete(c.inflight, clientID)
		c.mu.Unlock()
		return nil, server.WrapErrorf(nil, server.ErrTooManyRequests, msgBusy)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.inflight, clientID)
			c.mu.Unlock()
			c.sem.Release(1)
		})
	}
	return release, nil
}

// Admitter is what Do needs from a controller.
type Admitter interface {
	Acquire(clientID string) (func(), error)
	Timeout() time.Duration
}

type jobResult[G any] struct {
	val G
	err error
}

// Do runs job under the controller's admission rules. On timeout the caller
// gets an error right away but the slot stays held until the abandoned job
// returns on its own, a running computation cannot be killed mid stage and
// admitting another one on top of it would break the budget.
func Do[G any](ctx context.Context, c Admitter, clientID string, job func(ctx context.Context) (G, error)) (G, error) {
	var zero G

	release, err := c.Acquire(clientID)
	if err != nil {
		return zero, err
	}

	jobCtx, cancel := context.WithTimeout(ctx, c.Timeout())

	results := make(chan jobResult[G], 1)
	go func() {
		defer release()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("route computation panic: %v\n%s", r, debug.Stack())
				results <- jobResult[G]{err: server.WrapErrorf(nil, server.ErrInternalServerError, server.MessageInternalServerError)}
			}
		}()
		val, err := job(jobCtx)
		results <- jobResult[G]{val: val, err: err}
	}()

	select {
	case res := <-results:
		return finishJob(res)
	case <-jobCtx.Done():
		select {
		case res := <-results:
			return finishJob(res)
		default:
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, server.WrapErrorf(jobCtx.Err(), server.ErrTimeout, msgTimeout)
	}
}

// finishJob a job that observed its own deadline reports the same timeout
// error the abandoning path does.
func finishJob[G any](res jobResult[G]) (G, error) {
	if errors.Is(res.err, context.DeadlineExceeded) {
		var zero G
		return zero, server.WrapErrorf(res.err, server.ErrTimeout, msgTimeout)
	}
	return res.val, res.err
}
