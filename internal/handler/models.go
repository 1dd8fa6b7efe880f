package handler

import (
	"time"

	"order-processing-service/internal/entities"

	"github.com/shopspring/decimal"
)

func init() {
	// денежные поля сериализуются как числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderItemRequest описывает позицию заказа в запросе на создание
type OrderItemRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gte=1"`
	Price       decimal.Decimal `json:"price"`
}

// OrderRequest описывает запрос на создание заказа
type OrderRequest struct {
	CustomerName  string             `json:"customerName" validate:"required"`
	CustomerEmail string             `json:"customerEmail" validate:"required,email"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse описывает позицию заказа в ответе
type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse описывает заказ в ответе API
type OrderResponse struct {
	ID            int64               `json:"id"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func ItemRequestToEntity(i OrderItemRequest) entities.OrderItem {
	return entities.OrderItem{
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
	}
}

func ItemsRequestToEntities(items []OrderItemRequest) []entities.OrderItem {
	result := make([]entities.OrderItem, 0, len(items))
	for _, it := range items {
		result = append(result, ItemRequestToEntity(it))
	}
	return result
}

func ItemEntityToJSON(i entities.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:          i.ID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Subtotal:    i.Subtotal(),
	}
}

func OrderEntityToJSON(o entities.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status.String(),
		Items:         items,
		TotalAmount:   o.TotalAmount,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	return result
}
