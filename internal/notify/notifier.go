// Package notify delivers homeowner notifications for new pitches.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/entity"
)

// Sender delivers one notification over one channel (email or SMS).
type Sender interface {
	SendPitchAlert(ctx context.Context, owner *entity.Homeowner, pitch *entity.Pitch) error
}

const queueSize = 64

// Dispatcher fans pitch notifications out to the configured senders from a
// background worker. Delivery is best effort: enqueueing never blocks the
// submission path and failures are only logged.
type Dispatcher struct {
	email Sender
	sms   Sender
	queue chan job
	log   zerolog.Logger

	once sync.Once
	done chan struct{}
}

type job struct {
	owner *entity.Homeowner
	pitch *entity.Pitch
}

// NewDispatcher builds a dispatcher; either sender may be nil.
func NewDispatcher(email, sms Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		email: email,
		sms:   sms,
		queue: make(chan job, queueSize),
		log:   log,
		done:  make(chan struct{}),
	}
}

// Start launches the delivery worker. It runs until the context is canceled
// or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.done:
				return
			case j := <-d.queue:
				d.deliver(ctx, j)
			}
		}
	}()
}

// Stop terminates the worker. Queued notifications are dropped.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.done) })
}

// Enqueue schedules a notification without blocking. When the queue is full
// the notification is dropped and logged.
func (d *Dispatcher) Enqueue(owner *entity.Homeowner, pitch *entity.Pitch) {
	select {
	case d.queue <- job{owner: owner, pitch: pitch}:
	default:
		d.log.Warn().
			Str("homeowner_id", owner.ID.String()).
			Msg("notification queue full, dropping pitch alert")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	if d.email != nil && j.owner.WantsEmail() {
		if err := d.email.SendPitchAlert(ctx, j.owner, j.pitch); err != nil {
			d.log.Error().Err(err).
				Str("homeowner_id", j.owner.ID.String()).
				Str("pitch_id", j.pitch.ID.String()).
				Msg("email notification failed")
		}
	}
	if d.sms != nil && j.owner.WantsSMS() {
		if err := d.sms.SendPitchAlert(ctx, j.owner, j.pitch); err != nil {
			d.log.Error().Err(err).
				Str("homeowner_id", j.owner.ID.String()).
				Str("pitch_id", j.pitch.ID.String()).
				Msg("sms notification failed")
		}
	}
}
