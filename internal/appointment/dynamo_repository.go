package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const insuredIndexName = "GSI1"

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// dynamoItem is the single-table row shape. GSI1 indexes appointments
// by insured person, sorted by creation time.
type dynamoItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	AppointmentID string `dynamodbav:"appointmentId"`
	InsuredID     string `dynamodbav:"insuredId"`
	ScheduleID    int    `dynamodbav:"scheduleId"`
	CountryISO    string `dynamodbav:"countryISO"`
	Status        string `dynamodbav:"status"`
	CreatedAt     string `dynamodbav:"createdAt"`
	UpdatedAt     string `dynamodbav:"updatedAt"`
}

// DynamoRepository persists appointments to the DynamoDB fast store.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided client.
func NewDynamoRepository(client dynamoAPI, tableName string) *DynamoRepository {
	if client == nil {
		panic("appointment: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("appointment: table name cannot be empty")
	}
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
	}
}

func appointmentKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "APPOINTMENT#" + id},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// Save writes a full appointment row.
func (r *DynamoRepository) Save(ctx context.Context, appt Appointment) error {
	createdAt := appt.CreatedAt.UTC().Format(time.RFC3339Nano)
	item, err := attributevalue.MarshalMap(dynamoItem{
		PK:            "APPOINTMENT#" + appt.ID,
		SK:            "METADATA",
		GSI1PK:        "INSURED#" + appt.InsuredID,
		GSI1SK:        "APPOINTMENT#" + createdAt,
		AppointmentID: appt.ID,
		InsuredID:     appt.InsuredID,
		ScheduleID:    appt.ScheduleID,
		CountryISO:    string(appt.Country),
		Status:        string(appt.Status),
		CreatedAt:     createdAt,
		UpdatedAt:     appt.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return NewRepositoryError("marshal appointment "+appt.ID, err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return NewRepositoryError("save appointment "+appt.ID, err)
	}
	return nil
}

// FindByID loads one appointment; (nil, nil) when the id is unknown.
func (r *DynamoRepository) FindByID(ctx context.Context, id string) (*Appointment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       appointmentKey(id),
	})
	if err != nil {
		return nil, NewRepositoryError("find appointment "+id, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	appt, err := unmarshalAppointment(out.Item)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindByInsuredID queries the insured index, most recent first.
func (r *DynamoRepository) FindByInsuredID(ctx context.Context, insuredID string) ([]Appointment, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(insuredIndexName),
		KeyConditionExpression: aws.String("GSI1PK = :insured"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":insured": &types.AttributeValueMemberS{Value: "INSURED#" + insuredID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, NewRepositoryError("find appointments for insured "+insuredID, err)
	}

	appts := make([]Appointment, 0, len(out.Items))
	for _, item := range out.Items {
		appt, err := unmarshalAppointment(item)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

// Update replaces the mutable fields of an existing row.
func (r *DynamoRepository) Update(ctx context.Context, appt Appointment) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              appointmentKey(appt.ID),
		UpdateExpression: aws.String("SET #status = :status, #updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]string{
			"#status":    "status",
			"#updatedAt": "updatedAt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(appt.Status)},
			":updatedAt": &types.AttributeValueMemberS{Value: appt.UpdatedAt.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return NewRepositoryError("update appointment "+appt.ID, err)
	}
	return nil
}

func unmarshalAppointment(item map[string]types.AttributeValue) (Appointment, error) {
	var row dynamoItem
	if err := attributevalue.UnmarshalMap(item, &row); err != nil {
		return Appointment{}, NewRepositoryError("decode appointment item", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return Appointment{}, NewRepositoryError("decode appointment item", fmt.Errorf("bad createdAt %q: %w", row.CreatedAt, err))
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return Appointment{}, NewRepositoryError("decode appointment item", fmt.Errorf("bad updatedAt %q: %w", row.UpdatedAt, err))
	}

	return Reconstitute(row.AppointmentID, row.InsuredID, row.ScheduleID, row.CountryISO, row.Status, createdAt, updatedAt)
}
