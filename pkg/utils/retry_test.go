package utils_test

import (
	"errors"
	"testing"
	"time"

	"order-processing-service/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := utils.Retry(cfg, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("temporary error")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		dbErr := errors.New("db error")
		attempts := 0
		err := utils.Retry(cfg, func() error {
			attempts++
			return dbErr
		})

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 3, attempts)
	})

	t.Run("skip errors are not retried", func(t *testing.T) {
		invalid := errors.New("invalid payload")
		attempts := 0
		err := utils.Retry(cfg, func() error {
			attempts++
			return invalid
		}, invalid)

		assert.ErrorIs(t, err, invalid)
		assert.Equal(t, 1, attempts)
	})
}
