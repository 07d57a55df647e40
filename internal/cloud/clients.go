package cloud

import (
	"context"
	"fmt"
)

// Clients groups the AWS integrations used when cloud services are enabled.
type Clients struct {
	S3     *S3Client
	SNS    *SNSClient
	Dynamo *DynamoDBClient
}

func NewClients(ctx context.Context, region, bucket, topicArn, table string) (*Clients, error) {
	s3c, err := NewS3Client(ctx, region, bucket)
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}
	snsc, err := NewSNSClient(ctx, region, topicArn)
	if err != nil {
		return nil, fmt.Errorf("sns: %w", err)
	}
	ddb, err := NewDynamoDBClient(ctx, region, table)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: %w", err)
	}
	return &Clients{S3: s3c, SNS: snsc, Dynamo: ddb}, nil
}
