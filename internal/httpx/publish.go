package httpx

import (
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	kafkax "github.com/ariefcatur/go-library-loans.git/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher dipenuhi *kafkax.Producer; nil berarti publish di-skip (tests).
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

func publishEvent(p Publisher, service, traceID, customerID, eventType string, payload any) {
	if p == nil {
		return
	}
	ev := library.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      service,
		TraceID:       traceID,
		CorrelationID: customerID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(library.PartitionKey(customerID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
