package appointment

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends dispatch messages straight to a country queue,
// bypassing the SNS topic. Used for local runs where only one country
// processor exists; the body matches what SQS delivers from SNS minus
// the notification envelope, which the processor tolerates.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

var _ DispatchPublisher = (*SQSPublisher)(nil)

// NewSQSPublisher builds a direct-to-queue publisher.
func NewSQSPublisher(client sqsAPI, queueURL string) *SQSPublisher {
	if client == nil {
		panic("appointment: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("appointment: SQS queue URL cannot be empty")
	}
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
	}
}

// Publish sends the dispatch message with its routing attributes.
func (p *SQSPublisher) Publish(ctx context.Context, msg DispatchMessage, attributes map[string]string) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return NewMessagingError("marshal dispatch message for "+msg.AppointmentID, err)
	}

	messageAttributes := make(map[string]types.MessageAttributeValue, len(attributes))
	for key, value := range attributes {
		messageAttributes[key] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(p.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: messageAttributes,
	})
	if err != nil {
		return NewMessagingError("send dispatch message for "+msg.AppointmentID, err)
	}
	return nil
}
