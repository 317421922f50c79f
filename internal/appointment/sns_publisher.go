package appointment

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher fans new appointments out on the dispatch topic. Message
// attributes carry the routing fields so per-country subscriptions can
// apply filter policies.
type SNSPublisher struct {
	client   snsAPI
	topicARN string
}

var _ DispatchPublisher = (*SNSPublisher)(nil)

// NewSNSPublisher builds a publisher for the given topic.
func NewSNSPublisher(client snsAPI, topicARN string) *SNSPublisher {
	if client == nil {
		panic("appointment: SNS client cannot be nil")
	}
	if topicARN == "" {
		panic("appointment: SNS topic ARN cannot be empty")
	}
	return &SNSPublisher{
		client:   client,
		topicARN: topicARN,
	}
}

// Publish sends the dispatch message with its routing attributes.
func (p *SNSPublisher) Publish(ctx context.Context, msg DispatchMessage, attributes map[string]string) error {
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

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(p.topicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: messageAttributes,
	})
	if err != nil {
		return NewMessagingError("publish dispatch message for "+msg.AppointmentID, err)
	}
	return nil
}
