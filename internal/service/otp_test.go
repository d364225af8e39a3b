package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTTL         = 180 * time.Second
	testMaxAttempts = 3
)

// newTestOtpStore returns a store with a controllable clock.
func newTestOtpStore(t *testing.T) (*OtpStore, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewOtpStore(testTTL, testMaxAttempts)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestOtpIssue(t *testing.T) {
	t.Run("code is 6 digits", func(t *testing.T) {
		store, _ := newTestOtpStore(t)
		codePattern := regexp.MustCompile(`^[1-9]\d{5}$`)

		for i := 0; i < 50; i++ {
			code, err := store.Issue("user@example.com")
			require.NoError(t, err)
			assert.Regexp(t, codePattern, code)
		}
	})

	t.Run("reissue overwrites previous code", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		first, err := store.Issue("user@example.com")
		require.NoError(t, err)
		second, err := store.Issue("user@example.com")
		require.NoError(t, err)

		if first != second {
			err = store.Verify("user@example.com", first)
			require.Error(t, err)
			assert.True(t, internal_errors.Is[*internal_errors.InvalidCodeError](err))
		}
		// Old entry is gone either way; the latest code must work.
		require.NoError(t, store.Verify("user@example.com", second))
	})

	t.Run("reissue resets attempt counter", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)
		wrong := wrongCode(code)
		for i := 0; i < testMaxAttempts; i++ {
			require.Error(t, store.Verify("user@example.com", wrong))
		}
		assert.Equal(t, ErrOtpTooManyAttempts, store.Verify("user@example.com", code))

		fresh, err := store.Issue("user@example.com")
		require.NoError(t, err)
		assert.NoError(t, store.Verify("user@example.com", fresh))
	})

	t.Run("subjects are independent", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		codeA, err := store.Issue("a@example.com")
		require.NoError(t, err)
		_, err = store.Issue("b@example.com")
		require.NoError(t, err)

		require.NoError(t, store.Verify("a@example.com", codeA))
		// b's entry must still be there
		err = store.Verify("b@example.com", "000000")
		assert.True(t, internal_errors.Is[*internal_errors.InvalidCodeError](err))
	})
}

func TestOtpVerify(t *testing.T) {
	t.Run("match consumes the entry", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)

		require.NoError(t, store.Verify("user@example.com", code))
		assert.Equal(t, ErrOtpNotFound, store.Verify("user@example.com", code))
	})

	t.Run("unknown subject", func(t *testing.T) {
		store, _ := newTestOtpStore(t)
		assert.Equal(t, ErrOtpNotFound, store.Verify("nobody@example.com", "123456"))
	})

	t.Run("wrong code reports consumed attempts", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)
		wrong := wrongCode(code)

		for i := 1; i <= testMaxAttempts; i++ {
			err := store.Verify("user@example.com", wrong)
			require.Error(t, err)
			var invalidErr *internal_errors.InvalidCodeError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, i, invalidErr.Attempts)
			assert.Equal(t, fmt.Sprintf("Invalid OTP. Attempt %d of 3", i), err.Error())
		}
	})

	t.Run("locked after attempt budget, even with correct code", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)
		wrong := wrongCode(code)
		for i := 0; i < testMaxAttempts; i++ {
			require.Error(t, store.Verify("user@example.com", wrong))
		}

		// Entry is kept: repeated calls keep reporting the lock, not absence.
		assert.Equal(t, ErrOtpTooManyAttempts, store.Verify("user@example.com", code))
		assert.Equal(t, ErrOtpTooManyAttempts, store.Verify("user@example.com", wrong))
	})

	t.Run("expired entry is deleted on verify", func(t *testing.T) {
		store, now := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)

		*now = now.Add(testTTL + time.Second)
		assert.Equal(t, ErrOtpExpired, store.Verify("user@example.com", code))
		// Second attempt sees no entry at all.
		assert.Equal(t, ErrOtpNotFound, store.Verify("user@example.com", code))
	})

	t.Run("entry at exactly ttl is still valid", func(t *testing.T) {
		store, now := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)

		*now = now.Add(testTTL)
		assert.NoError(t, store.Verify("user@example.com", code))
	})

	t.Run("expiry wins over lockout", func(t *testing.T) {
		store, now := newTestOtpStore(t)

		code, err := store.Issue("user@example.com")
		require.NoError(t, err)
		wrong := wrongCode(code)
		for i := 0; i < testMaxAttempts; i++ {
			require.Error(t, store.Verify("user@example.com", wrong))
		}

		*now = now.Add(testTTL + time.Second)
		assert.Equal(t, ErrOtpExpired, store.Verify("user@example.com", code))
	})

	t.Run("subject is case-insensitive", func(t *testing.T) {
		store, _ := newTestOtpStore(t)

		code, err := store.Issue("User@Example.COM")
		require.NoError(t, err)
		assert.NoError(t, store.Verify("user@example.com", code))
	})
}

func TestOtpSweepExpired(t *testing.T) {
	store, now := newTestOtpStore(t)

	_, err := store.Issue("old@example.com")
	require.NoError(t, err)

	*now = now.Add(100 * time.Second)
	freshCode, err := store.Issue("fresh@example.com")
	require.NoError(t, err)

	*now = now.Add(100 * time.Second) // old is 200s stale, fresh only 100s

	removed := store.SweepExpired()
	assert.Equal(t, 1, removed)

	assert.Equal(t, ErrOtpNotFound, store.Verify("old@example.com", "123456"))
	assert.NoError(t, store.Verify("fresh@example.com", freshCode))
}

func TestOtpBackgroundSweep(t *testing.T) {
	store := NewOtpStore(1*time.Millisecond, testMaxAttempts)

	_, err := store.Issue("user@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartBackgroundSweep(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.entries) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestOtpConcurrentAccess(t *testing.T) {
	store, _ := newTestOtpStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			subject := fmt.Sprintf("user%d@example.com", n%10)
			code, err := store.Issue(subject)
			assert.NoError(t, err)
			store.Verify(subject, code)
			store.SweepExpired()
		}(i)
	}
	wg.Wait()
}

// wrongCode returns a 6-digit code different from the given one.
func wrongCode(code string) string {
	if code == "100000" {
		return "100001"
	}
	return "100000"
}
