package mailer

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	otpDigits = 6
	// A code is discarded after this many wrong guesses.
	maxAttempts = 5
)

var ErrInvalidOTP = errors.New("invalid or expired code")

type otpEntry struct {
	code     string
	attempts int
}

// OTPService issues single-use numeric codes by email.
type OTPService struct {
	sender   Sender
	mu       sync.Mutex
	codes    *gocache.Cache
	ttl      time.Duration
	generate func() (string, error)
}

func NewOTPService(sender Sender, ttl time.Duration) *OTPService {
	return &OTPService{
		sender:   sender,
		codes:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
		generate: randomCode,
	}
}

func randomCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Send issues a new code for email, replacing any earlier one.
func (s *OTPService) Send(ctx context.Context, email string) error {
	email = normalize(email)
	code, err := s.generate()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.codes.Set(email, &otpEntry{code: code}, s.ttl)
	s.mu.Unlock()

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.sender.Send(ctx, email, "Water billing verification code", body); err != nil {
		s.mu.Lock()
		s.codes.Delete(email)
		s.mu.Unlock()
		return errors.Wrapf(err, "send otp to %s", email)
	}
	log.Info().Str("email", email).Msg("otp sent")
	return nil
}

// Verify consumes the code for email. A code can be verified once, and is
// discarded after maxAttempts wrong guesses.
func (s *OTPService) Verify(email, code string) error {
	email = normalize(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.codes.Get(email)
	if !ok {
		return ErrInvalidOTP
	}
	entry := v.(*otpEntry)
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(strings.TrimSpace(code))) != 1 {
		entry.attempts++
		if entry.attempts >= maxAttempts {
			s.codes.Delete(email)
			log.Warn().Str("email", email).Msg("otp discarded after too many attempts")
		}
		return ErrInvalidOTP
	}
	s.codes.Delete(email)
	return nil
}
