package entities

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет заказ покупателя вместе с позициями.
// Items хранятся в порядке добавления, TotalAmount всегда
// пересчитывается через CalculateTotalAmount перед сохранением.
type Order struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	Status        OrderStatus
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem хранит одну товарную позицию заказа. OrderID хранит обратную ссылку
// на заказ, жизненным циклом позиции владеет сам заказ.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal всегда вычисляется, отдельно не хранится.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItem добавляет позицию в конец списка и проставляет обратную ссылку.
// Дубликаты не отслеживаются: одинаковые товары хранятся отдельными строками.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
}

// CalculateTotalAmount пересчитывает сумму заказа как сумму subtotal
// всех позиций.
func (o *Order) CalculateTotalAmount() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalAmount = total
}

// CanBeCancelled: отменить можно только заказ в статусе PENDING.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(o); err != nil {
		return ErrInvalidOrder
	}
	return nil
}

func init() {
	gob.Register(Order{})
	gob.Register(OrderItem{})
}
