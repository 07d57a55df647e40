package cloud

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBClient keeps the raw smart-meter telemetry stream, keyed by meter number and time.
type DynamoDBClient struct {
	svc   dynamoAPI
	table string
}

func NewDynamoDBClient(ctx context.Context, region, table string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &DynamoDBClient{
		svc:   dynamodb.NewFromConfig(cfg),
		table: table,
	}, nil
}

// Telemetry is the DynamoDB item layout of one meter reading.
// Volumes are kept as decimal strings so they round-trip exactly.
type Telemetry struct {
	MeterNo   string `dynamodbav:"meterNo"`
	Timestamp int64  `dynamodbav:"timestamp"`
	HouseID   int64  `dynamodbav:"houseId"`
	ReadingKL string `dynamodbav:"readingKl"`
	Source    string `dynamodbav:"source"`
}

func (c *DynamoDBClient) PutReading(ctx context.Context, meterNo string, r domain.MeterReading) error {
	item, err := attributevalue.MarshalMap(Telemetry{
		MeterNo:   meterNo,
		Timestamp: r.RecordedAt.Unix(),
		HouseID:   r.HouseID,
		ReadingKL: r.ReadingKL.String(),
		Source:    string(r.Source),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	_, err = c.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

// RecentReadings returns the telemetry of a meter recorded after since, oldest first.
func (c *DynamoDBClient) RecentReadings(ctx context.Context, meterNo string, since time.Time) ([]domain.MeterReading, error) {
	result, err := c.svc.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("meterNo = :m AND #ts > :since"),
		ExpressionAttributeNames: map[string]string{
			"#ts": "timestamp",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m":     &types.AttributeValueMemberS{Value: meterNo},
			":since": &types.AttributeValueMemberN{Value: strconv.FormatInt(since.Unix(), 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	var items []Telemetry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal readings: %w", err)
	}

	readings := make([]domain.MeterReading, 0, len(items))
	for _, it := range items {
		kl, err := decimal.NewFromString(it.ReadingKL)
		if err != nil {
			return nil, fmt.Errorf("meter %s at %d: bad reading %q: %w", meterNo, it.Timestamp, it.ReadingKL, err)
		}
		readings = append(readings, domain.MeterReading{
			HouseID:    it.HouseID,
			ReadingKL:  kl,
			RecordedAt: time.Unix(it.Timestamp, 0).UTC(),
			Source:     domain.ReadingSource(it.Source),
		})
	}
	return readings, nil
}
