package processing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/batebc/backend-challenge/internal/appointment"
)

const (
	eventSource     = "appointments.processor"
	eventDetailType = "AppointmentCompleted"
)

type eventBridgeAPI interface {
	PutEvents(context.Context, *eventbridge.PutEventsInput, ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher emits completion events on the workflow bus.
type EventBridgePublisher struct {
	client  eventBridgeAPI
	busName string
}

var _ CompletionPublisher = (*EventBridgePublisher)(nil)

// NewEventBridgePublisher builds a publisher for the given bus.
func NewEventBridgePublisher(client eventBridgeAPI, busName string) *EventBridgePublisher {
	if client == nil {
		panic("processing: eventbridge client cannot be nil")
	}
	if busName == "" {
		panic("processing: event bus name cannot be empty")
	}
	return &EventBridgePublisher{
		client:  client,
		busName: busName,
	}
}

// PublishCompleted emits one AppointmentCompleted event. PutEvents can
// partially fail without an error, so the failed entry count is checked
// explicitly.
func (p *EventBridgePublisher) PublishCompleted(ctx context.Context, event CompletionEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return appointment.NewMessagingError("marshal completion event for "+event.AppointmentID, err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Source:       aws.String(eventSource),
				DetailType:   aws.String(eventDetailType),
				Detail:       aws.String(string(detail)),
				EventBusName: aws.String(p.busName),
			},
		},
	})
	if err != nil {
		return appointment.NewMessagingError("publish completion event for "+event.AppointmentID, err)
	}
	if out.FailedEntryCount > 0 {
		return appointment.NewMessagingError(
			"publish completion event for "+event.AppointmentID,
			fmt.Errorf("event bus rejected %d entries", out.FailedEntryCount),
		)
	}
	return nil
}
