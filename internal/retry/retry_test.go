package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	policy := NewPolicy(3, noDelays)

	attempts := 0
	result, err := policy.Do(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, attempts)
}

func TestDoReturnsImmediatelyOnSuccess(t *testing.T) {
	policy := NewPolicy(3, noDelays)

	attempts := 0
	result, err := policy.Do(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		return "first try", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "first try", result)
	assert.Equal(t, 1, attempts)
}

func TestDoSurfacesLastErrorAfterExhaustion(t *testing.T) {
	policy := NewPolicy(3, noDelays)

	wantErr := errors.New("still broken")
	attempts := 0
	_, err := policy.Do(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 3 {
			return "", wantErr
		}
		return "", errors.New("earlier failure")
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, attempts)
}

func TestRetriesCappedAtScheduleLength(t *testing.T) {
	policy := NewPolicy(5, noDelays)
	assert.Equal(t, 3, policy.Retries)

	attempts := 0
	_, err := policy.Do(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		return "", errors.New("always")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestZeroRetriesFallsBackToSchedule(t *testing.T) {
	policy := NewPolicy(0, noDelays)
	assert.Equal(t, 3, policy.Retries)
}

func TestDefaultSchedule(t *testing.T) {
	policy := NewPolicy(0, nil)
	assert.Equal(t, DefaultDelays, policy.Delays)
	assert.Equal(t, 3, policy.Retries)
}

func TestDoAbortsWaitOnCancel(t *testing.T) {
	policy := NewPolicy(2, []time.Duration{0, time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
			attempts++
			return "", errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
	}()

	// Let the first attempt fail, then cancel during the backoff wait.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	assert.Equal(t, 1, attempts)
}
