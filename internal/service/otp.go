package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/logger"
)

// Verification failure kinds. InvalidCodeError is typed separately because
// it carries the consumed-attempt count.
var (
	ErrOtpNotFound = &internal_errors.ErrorWithStatusCode{Message: "No OTP found for this subject", StatusCode: http.StatusNotFound}
	ErrOtpExpired  = &internal_errors.ErrorWithStatusCode{Message: "OTP expired", StatusCode: http.StatusGone}
	// Entry is kept on this path; the subject must request a fresh code.
	ErrOtpTooManyAttempts = &internal_errors.ErrorWithStatusCode{Message: "Too many invalid attempts. Please request a new OTP", StatusCode: http.StatusTooManyRequests}
)

type otpEntry struct {
	code     string
	issuedAt time.Time
	attempts int
}

// OtpStore issues and verifies short-lived one-time passwords keyed by
// subject email. Entries live only in memory; a process restart simply
// forces users to request a new code. One instance is constructed at
// startup and shared by all request handlers.
type OtpStore struct {
	mu          sync.Mutex
	entries     map[domain.Email]*otpEntry
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOtpStore(ttl time.Duration, maxAttempts int) *OtpStore {
	return &OtpStore{
		entries:     make(map[domain.Email]*otpEntry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Issue generates a fresh 6-digit code for the subject, overwriting any
// prior entry (last write wins) and resetting the attempt counter. Sending
// the code to the subject is the caller's concern; delivery failures must
// not affect store state.
func (s *OtpStore) Issue(subject domain.Email) (string, error) {
	code, err := generateOtpCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[normalizeSubject(subject)] = &otpEntry{code: code, issuedAt: s.now()}
	s.mu.Unlock()

	return code, nil
}

// Verify checks a candidate code. Expired entries are deleted as a side
// effect; locked entries (attempt budget exhausted) are kept so the caller
// keeps getting ErrOtpTooManyAttempts until a re-issue. A match consumes
// the entry.
func (s *OtpStore) Verify(subject domain.Email, candidateCode string) error {
	key := normalizeSubject(subject)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return ErrOtpNotFound
	}

	if s.now().Sub(entry.issuedAt) > s.ttl {
		delete(s.entries, key)
		return ErrOtpExpired
	}

	if entry.attempts >= s.maxAttempts {
		return ErrOtpTooManyAttempts
	}

	if entry.code != candidateCode {
		entry.attempts++
		return &internal_errors.InvalidCodeError{Attempts: entry.attempts, MaxAttempts: s.maxAttempts}
	}

	delete(s.entries, key)
	return nil
}

// SweepExpired deletes every entry older than the TTL and returns how many
// were removed. Best effort only: Verify performs the authoritative expiry
// check, so a missed sweep is never a correctness problem.
func (s *OtpStore) SweepExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for subject, entry := range s.entries {
		if now.Sub(entry.issuedAt) > s.ttl {
			delete(s.entries, subject)
			removed++
		}
	}
	return removed
}

// StartBackgroundSweep starts a goroutine that periodically removes
// expired entries. It stops when ctx is cancelled.
func (s *OtpStore) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started OTP background sweep", "interval", interval, "ttl", s.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := s.SweepExpired(); removed > 0 {
					logger.Log.Debug("swept expired OTP entries", "removed", removed)
				}
			case <-ctx.Done():
				logger.Log.Info("OTP sweep shutting down")
				return
			}
		}
	}()
}

// generateOtpCode draws a 6-digit code uniformly from [100000, 999999].
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return (n.Add(n, big.NewInt(100000))).String(), nil
}

func normalizeSubject(subject domain.Email) domain.Email {
	return strings.ToLower(subject)
}
