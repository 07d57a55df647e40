package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client archives bill statements in an S3 bucket.
type S3Client struct {
	svc    s3API
	bucket string
}

func NewS3Client(ctx context.Context, region, bucket string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3Client{
		svc:    s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// StatementKey is the object key of a bill's statement, partitioned by village and period.
func StatementKey(b domain.Bill) string {
	return fmt.Sprintf("statements/%d/%04d/%02d/%s.json", b.VillageID, b.Year, b.Month, b.BillNo)
}

// ArchiveStatement stores the bill, payments included, as JSON and returns the object key.
func (c *S3Client) ArchiveStatement(ctx context.Context, b domain.Bill) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("failed to encode statement: %w", err)
	}

	key := StatementKey(b)
	_, err = c.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"bill-no":     b.BillNo,
			"archived-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload statement to S3: %w", err)
	}
	return key, nil
}
