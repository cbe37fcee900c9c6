package services

// EventPublisher is the notification sink for order lifecycle events.
// Implementations must be safe to call from request handlers; publish
// failures are logged by the services and never fail the operation.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}
