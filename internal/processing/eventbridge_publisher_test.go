package processing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batebc/backend-challenge/internal/appointment"
)

type mockEventBridge struct {
	input  *eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (m *mockEventBridge) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &eventbridge.PutEventsOutput{FailedEntryCount: 0}, nil
}

func TestPublishCompletedEmitsWorkflowEvent(t *testing.T) {
	client := &mockEventBridge{}
	pub := NewEventBridgePublisher(client, "appointments-bus")

	event := CompletionEvent{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		CountryISO:    "PE",
		CompletedAt:   "2025-06-01T10:30:00.000Z",
	}
	require.NoError(t, pub.PublishCompleted(context.Background(), event))

	require.NotNil(t, client.input)
	require.Len(t, client.input.Entries, 1)
	entry := client.input.Entries[0]

	assert.Equal(t, "appointments.processor", *entry.Source)
	assert.Equal(t, "AppointmentCompleted", *entry.DetailType)
	assert.Equal(t, "appointments-bus", *entry.EventBusName)

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(*entry.Detail), &detail))
	assert.Equal(t, "appt-1", detail["appointmentId"])
	assert.Equal(t, "00123", detail["insuredId"])
	assert.Equal(t, float64(100), detail["scheduleId"])
	assert.Equal(t, "PE", detail["countryISO"])
	assert.Equal(t, "2025-06-01T10:30:00.000Z", detail["completedAt"])
}

func TestPublishCompletedRequestFailure(t *testing.T) {
	client := &mockEventBridge{err: errors.New("bus unavailable")}
	pub := NewEventBridgePublisher(client, "appointments-bus")

	err := pub.PublishCompleted(context.Background(), CompletionEvent{AppointmentID: "appt-1"})
	require.Error(t, err)

	var msgErr *appointment.MessagingError
	assert.ErrorAs(t, err, &msgErr)
}

func TestPublishCompletedRejectedEntry(t *testing.T) {
	client := &mockEventBridge{
		output: &eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{ErrorCode: aws.String("ThrottlingException")},
			},
		},
	}
	pub := NewEventBridgePublisher(client, "appointments-bus")

	err := pub.PublishCompleted(context.Background(), CompletionEvent{AppointmentID: "appt-1"})
	require.Error(t, err, "a rejected entry without a transport error is still a failure")

	var msgErr *appointment.MessagingError
	assert.ErrorAs(t, err, &msgErr)
}
