package entities

import "fmt"

// OrderStatus описывает статус жизненного цикла заказа.
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED,
// CANCELLED доступен только из PENDING. DELIVERED и CANCELLED терминальны.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus валидирует статус, пришедший извне (query-параметр,
// сообщение из Kafka, строка из базы).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidOrder, s)
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// ValidateStatusTransition проверяет допустимость перехода статуса.
// Правила проверяются в фиксированном порядке, переход в тот же статус
// ни одним правилом не разрешён и всегда отклоняется.
func ValidateStatusTransition(current, requested OrderStatus) error {
	if current == StatusCancelled {
		return &InvalidOperationError{Reason: "Cannot update status of a cancelled order"}
	}

	if current == StatusDelivered {
		return &InvalidOperationError{Reason: "Cannot update status of a delivered order"}
	}

	if current == StatusPending &&
		requested != StatusProcessing &&
		requested != StatusCancelled {
		return &InvalidOperationError{Reason: "PENDING orders can only move to PROCESSING or be CANCELLED"}
	}

	if current == StatusProcessing && requested != StatusShipped {
		return &InvalidOperationError{Reason: "PROCESSING orders can only move to SHIPPED"}
	}

	if current == StatusShipped && requested != StatusDelivered {
		return &InvalidOperationError{Reason: "SHIPPED orders can only move to DELIVERED"}
	}

	return nil
}
