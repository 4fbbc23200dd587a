package i

import "context"

// EventPublisher broadcasts game events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload map[string]interface{}) error
	Close()
}
