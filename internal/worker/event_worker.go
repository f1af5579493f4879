package worker

import (
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/service"
)

// StartEventWorkers registers the event subscribers: notification stubs
// and, when configured, the Kafka relay.
func StartEventWorkers(notifications *service.NotificationService, relay *events.KafkaRelay, dispatcher events.Dispatcher) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if relay != nil {
		relay.Register(dispatcher)
	}
}
