package entities_test

import (
	"testing"

	"order-processing-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatusTransition(t *testing.T) {
	testCases := []struct {
		name       string
		current    entities.OrderStatus
		requested  entities.OrderStatus
		wantReason string
	}{
		{name: "pending to processing", current: entities.StatusPending, requested: entities.StatusProcessing},
		{name: "pending to cancelled", current: entities.StatusPending, requested: entities.StatusCancelled},
		{name: "processing to shipped", current: entities.StatusProcessing, requested: entities.StatusShipped},
		{name: "shipped to delivered", current: entities.StatusShipped, requested: entities.StatusDelivered},

		{
			name: "pending to shipped skips processing", current: entities.StatusPending, requested: entities.StatusShipped,
			wantReason: "PENDING orders can only move to PROCESSING or be CANCELLED",
		},
		{
			name: "pending to delivered", current: entities.StatusPending, requested: entities.StatusDelivered,
			wantReason: "PENDING orders can only move to PROCESSING or be CANCELLED",
		},
		{
			name: "processing to delivered", current: entities.StatusProcessing, requested: entities.StatusDelivered,
			wantReason: "PROCESSING orders can only move to SHIPPED",
		},
		{
			name: "processing to cancelled", current: entities.StatusProcessing, requested: entities.StatusCancelled,
			wantReason: "PROCESSING orders can only move to SHIPPED",
		},
		{
			name: "shipped to processing rolls back", current: entities.StatusShipped, requested: entities.StatusProcessing,
			wantReason: "SHIPPED orders can only move to DELIVERED",
		},
		{
			name: "delivered is terminal", current: entities.StatusDelivered, requested: entities.StatusPending,
			wantReason: "Cannot update status of a delivered order",
		},
		{
			name: "cancelled is terminal", current: entities.StatusCancelled, requested: entities.StatusProcessing,
			wantReason: "Cannot update status of a cancelled order",
		},

		// переход в тот же статус всегда отклоняется
		{
			name: "pending to pending", current: entities.StatusPending, requested: entities.StatusPending,
			wantReason: "PENDING orders can only move to PROCESSING or be CANCELLED",
		},
		{
			name: "processing to processing", current: entities.StatusProcessing, requested: entities.StatusProcessing,
			wantReason: "PROCESSING orders can only move to SHIPPED",
		},
		{
			name: "shipped to shipped", current: entities.StatusShipped, requested: entities.StatusShipped,
			wantReason: "SHIPPED orders can only move to DELIVERED",
		},
		{
			name: "delivered to delivered", current: entities.StatusDelivered, requested: entities.StatusDelivered,
			wantReason: "Cannot update status of a delivered order",
		},
		{
			name: "cancelled to cancelled", current: entities.StatusCancelled, requested: entities.StatusCancelled,
			wantReason: "Cannot update status of a cancelled order",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := entities.ValidateStatusTransition(tc.current, tc.requested)

			if tc.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, entities.ErrInvalidOperation)
			assert.EqualError(t, err, tc.wantReason)
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		status, err := entities.ParseOrderStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, status.String())
	}

	for _, invalid := range []string{"", "pending", "DONE", "UNKNOWN"} {
		_, err := entities.ParseOrderStatus(invalid)
		assert.ErrorIs(t, err, entities.ErrInvalidOrder)
	}
}
