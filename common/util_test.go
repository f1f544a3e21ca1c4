package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	SetLog(zap.NewNop(), zap.NewNop())
}

func TestRetryV1SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := RetryV1(
		context.Background(),
		Attempts,
		time.Millisecond,
		func() error {
			calls++
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryV1RecoversAfterFailure(t *testing.T) {
	calls := 0
	err := RetryV1(
		context.Background(),
		Attempts,
		time.Millisecond,
		func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryV1Exhausted(t *testing.T) {
	calls := 0
	wantErr := errors.New("permanent")
	err := RetryV1(
		context.Background(),
		Attempts,
		time.Millisecond,
		func() error {
			calls++
			return wantErr
		})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, Attempts, calls)
}

func TestRetryV4ReturnsOutput(t *testing.T) {
	calls := 0
	err, output := RetryV4(
		context.Background(),
		Attempts,
		time.Millisecond,
		func() (error, interface{}) {
			calls++
			if calls < 2 {
				return errors.New("transient"), nil
			}
			return nil, "result"
		})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "result", output)
}

func TestRetryV4Exhausted(t *testing.T) {
	wantErr := errors.New("permanent")
	err, output := RetryV4(
		context.Background(),
		Attempts,
		time.Millisecond,
		func() (error, interface{}) {
			return wantErr, nil
		})
	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, output)
}
