package entities

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidOrder означает, что входные данные заказа не прошли валидацию.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidOperation означает, что операция нарушает машину статусов.
	ErrInvalidOperation = errors.New("invalid order operation")
)

// ValidationError несёт сообщение для клиента, матчится через
// errors.Is(err, ErrInvalidOrder).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidOrder }

// InvalidOperationError несёт точную причину отказа машины статусов,
// матчится через errors.Is(err, ErrInvalidOperation).
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return e.Reason }

func (e *InvalidOperationError) Unwrap() error { return ErrInvalidOperation }
