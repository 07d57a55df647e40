package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

// SNS rejects subjects longer than this.
const maxSubjectLen = 100

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes consumer notices to a topic that fans out to SMS and email subscribers.
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

// truncateRunes cuts s to at most n characters without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (c *SNSClient) publish(ctx context.Context, subject, message string) error {
	subject = truncateRunes(subject, maxSubjectLen)
	result, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Debug().Str("message_id", aws.ToString(result.MessageId)).Str("subject", subject).Msg("notice published")
	return nil
}

// BillIssued announces a freshly generated bill to the house owner.
func (c *SNSClient) BillIssued(ctx context.Context, b domain.Bill, h domain.House) error {
	subject := fmt.Sprintf("Water bill %s for %02d/%04d", b.BillNo, b.Month, b.Year)
	message := fmt.Sprintf(
		"Dear %s,\n\n"+
			"House: %s (meter %s)\n"+
			"Usage: %s KL\n"+
			"Current demand: Rs %s\n"+
			"Arrears: Rs %s\n"+
			"Total payable: Rs %s\n"+
			"Due date: %s\n\n"+
			"Please pay at the Gram Panchayat office or online.",
		h.OwnerName,
		h.HouseNo, h.MeterNo,
		b.TotalUsage.StringFixed(2),
		b.CurrentDemand.StringFixed(2),
		b.Arrears.StringFixed(2),
		b.TotalAmount.StringFixed(2),
		b.DueDate.Format("02 Jan 2006"),
	)
	return c.publish(ctx, subject, message)
}

// PaymentReceived sends a receipt for p against bill b.
func (c *SNSClient) PaymentReceived(ctx context.Context, b domain.Bill, p domain.Payment) error {
	subject := fmt.Sprintf("Payment received for bill %s", b.BillNo)
	message := fmt.Sprintf(
		"Received Rs %s by %s on %s.\n"+
			"Paid so far: Rs %s\n"+
			"Remaining: Rs %s\n"+
			"Status: %s",
		p.Amount.StringFixed(2), p.Mode, p.PaidAt.Format(time.RFC3339),
		b.PaidAmount.StringFixed(2),
		b.RemainingAmount.StringFixed(2),
		b.Status,
	)
	return c.publish(ctx, subject, message)
}

// OverdueReminder batches every overdue bill into a single notice.
func (c *SNSClient) OverdueReminder(ctx context.Context, bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("The following water bills are past their due date:\n\n")
	for i, b := range bills {
		fmt.Fprintf(&sb, "%d. %s due %s, outstanding Rs %s\n",
			i+1, b.BillNo, b.DueDate.Format("2006-01-02"), b.RemainingAmount.StringFixed(2))
	}

	return c.publish(ctx, fmt.Sprintf("Water billing: %d overdue bills", len(bills)), sb.String())
}
