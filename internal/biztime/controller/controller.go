// Package controller implements the BizTime business logic on top of the
// repository and publishes change events for every successful mutation.
package controller

import (
	"github.com/gartstein/biztime/internal/biztime/events"
)

// EventProducer publishes change events. Implementations must not block.
type EventProducer interface {
	Produce(eventType events.EventType, key string, payload interface{})
}
