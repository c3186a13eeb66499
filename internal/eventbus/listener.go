package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrListenerCreation wraps failures to open the broker subscription.
	ErrListenerCreation = errors.New("eventbus: failed to create listener")

	// ErrPumpDeserialization is the terminal pump error: a message that
	// cannot be deserialized halts delivery for every receiver of the
	// listener.
	ErrPumpDeserialization = errors.New("eventbus: message deserialization failed, listener halted")

	// ErrListenerClosed is returned by Recv after the listener stopped
	// cleanly (context cancellation or bus shutdown).
	ErrListenerClosed = errors.New("eventbus: listener closed")
)

// Listener owns exactly one broker consumer for a (group, topics) pair and
// fans every successfully parsed envelope out to all registered receivers.
// Each receiver gets its own copy of every message: attaching N receivers
// multiplies processing by N, it does not load-balance across them.
type Listener[T any] struct {
	consumer Consumer
	logger   *zap.Logger
	buffer   int

	mu        sync.Mutex
	receivers []*Receiver[T]
	closed    bool
	err       error
}

// Receiver is one independent subscription handle on a Listener. Its channel
// is bounded: when the buffer is full the pump drops the message for this
// receiver instead of blocking, so a slow receiver lags and loses messages
// while the pump and its siblings carry on.
type Receiver[T any] struct {
	listener *Listener[T]
	ch       chan Envelope[T]
	dropped  uint64
}

// Subscribe opens one broker consumer for (groupID, topics) and starts the
// background pump. The pump runs until ctx is cancelled or it hits a
// deserialization failure; cancelling ctx is the shutdown signal.
func Subscribe[T any](ctx context.Context, bus *Bus, groupID string, topics ...string) (*Listener[T], error) {
	consumer, err := bus.consumers(groupID, topics)
	if err != nil {
		return nil, fmt.Errorf("%w: group %q topics %v: %v", ErrListenerCreation, groupID, topics, err)
	}

	l := &Listener[T]{
		consumer: consumer,
		logger:   bus.logger,
		buffer:   bus.receiverBuffer,
	}
	go l.pump(ctx)
	return l, nil
}

// NewReceiver returns a fresh subscription handle. Receivers registered
// after a message was broadcast do not see it; there is no replay. A
// receiver created on an already terminated listener is born closed.
func (l *Listener[T]) NewReceiver() *Receiver[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := &Receiver[T]{listener: l, ch: make(chan Envelope[T], l.buffer)}
	if l.closed {
		close(r.ch)
		return r
	}
	l.receivers = append(l.receivers, r)
	return r
}

// Err reports the terminal pump error, or nil if the listener is running or
// stopped cleanly.
func (l *Listener[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Listener[T]) pump(ctx context.Context) {
	defer l.consumer.Close()

	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				l.logger.Info("listener pump stopping", zap.Error(err))
				l.terminate(nil)
				return
			}
			// Transport hiccups are not fatal; keep pumping.
			l.logger.Error("error reading from broker", zap.Error(err))
			continue
		}

		var env Envelope[T]
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			// Fatal by design: one poison message stops delivery for every
			// receiver of this listener. The owning service observes the
			// halt through Recv/Err instead of a process crash.
			l.logger.Error("invalid message on wire, halting listener",
				zap.Error(err),
				zap.ByteString("raw_value", msg.Value),
			)
			l.terminate(fmt.Errorf("%w: %v", ErrPumpDeserialization, err))
			return
		}

		l.broadcast(env)
	}
}

func (l *Listener[T]) broadcast(env Envelope[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	for _, r := range l.receivers {
		select {
		case r.ch <- env:
		default:
			r.dropped++
			l.logger.Warn("receiver buffer full, dropping message",
				zap.String("event_type", env.EventType),
				zap.Uint64("dropped_total", r.dropped),
			)
		}
	}
}

func (l *Listener[T]) terminate(cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.err = cause
	for _, r := range l.receivers {
		close(r.ch)
	}
}

// Recv blocks until a message arrives, ctx is cancelled, or the listener
// terminates. After termination it returns the pump's terminal error, or
// ErrListenerClosed for a clean stop.
func (r *Receiver[T]) Recv(ctx context.Context) (Envelope[T], error) {
	var zero Envelope[T]
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case env, ok := <-r.ch:
		if !ok {
			if err := r.listener.Err(); err != nil {
				return zero, err
			}
			return zero, ErrListenerClosed
		}
		return env, nil
	}
}

// Dropped reports how many messages were discarded because this receiver's
// buffer was full.
func (r *Receiver[T]) Dropped() uint64 {
	r.listener.mu.Lock()
	defer r.listener.mu.Unlock()
	return r.dropped
}
