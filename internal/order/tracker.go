// SPDX-License-Identifier: MIT

package order

import (
	"context"
	"sync"
	"time"

	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/metrics"
)

// StatusUpdater flips a stored order's status. A miss (order cancelled
// in the meantime) is not an error for the tracker.
type StatusUpdater func(ctx context.Context, orderID string, status Status) error

// Tracker flips orders from preparing to ready after a fixed delay.
// Schedules are fire-and-forget; Close cancels pending timers and waits
// for in-flight updates to finish.
type Tracker struct {
	update StatusUpdater
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker starts a tracker with the given preparation delay.
func NewTracker(update StatusUpdater, delay time.Duration) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{update: update, delay: delay, ctx: ctx, cancel: cancel}
}

// Schedule arms the preparing-to-ready flip for one order.
func (t *Tracker) Schedule(orderID string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-t.ctx.Done():
			return
		case <-timer.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger := log.WithComponent("tracker")
		if err := t.update(ctx, orderID, StatusReady); err != nil {
			logger.Warn().
				Err(err).
				Str(log.FieldOrderID, orderID).
				Msg("order not marked ready")
			return
		}
		metrics.RecordOrderTransition("ready")
		metrics.DecActiveOrders()
		logger.Info().
			Str(log.FieldOrderID, orderID).
			Str(log.FieldOldStatus, string(StatusPreparing)).
			Str(log.FieldNewStatus, string(StatusReady)).
			Msg("order ready")
	}()
}

// Close cancels pending schedules and waits for goroutines to exit.
func (t *Tracker) Close() {
	t.cancel()
	t.wg.Wait()
}
