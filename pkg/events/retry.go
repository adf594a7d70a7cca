package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/wono/hostpanel/pkg/logger"
)

// RetryPolicy controls how often a failing handler is re-run before its message
// is Nacked. The delay doubles after each attempt.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// run invokes handler until it succeeds, attempts run out or ctx ends.
func (p RetryPolicy) run(ctx context.Context, msg *message.Message, handler Handler, log logger.Logger) error {
	delay := p.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt >= p.Attempts {
			return fmt.Errorf("events: handler failed after %d attempts: %w", attempt, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"event_id", msg.Metadata.Get(MetadataEventID),
			"attempt", attempt,
			"max_attempts", p.Attempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
