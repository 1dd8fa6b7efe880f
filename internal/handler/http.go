package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"order-processing-service/internal/entities"
	"order-processing-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, customerName, customerEmail string, items []entities.OrderItem) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID int64) (entities.Order, error)
	GetAllOrders(ctx context.Context, status *entities.OrderStatus) ([]entities.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, newStatus entities.OrderStatus) (entities.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (entities.Order, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.GetAllOrders)
		r.Get("/{id}", h.GetOrderByID)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Post("/{id}/cancel", h.CancelOrder)
	})
}

// CreateOrder создаёт новый заказ.
// @Summary      Создать заказ
// @Description  Создаёт заказ с данными покупателя и списком позиций
// @Tags         orders
// @Accept       json
// @Param        request  body  OrderRequest  true  "Данные заказа"
// @Success      201  {object}  OrderResponse
// @Failure      400  {object}  utils.ErrorResponse "Ошибка валидации"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, r, "Malformed request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, r, err)
		return
	}

	order, err := h.svc.CreateOrder(ctx, req.CustomerName, req.CustomerEmail, ItemsRequestToEntities(req.Items))
	if err != nil {
		h.writeServiceError(w, r, 0, err)
		return
	}

	ordersCreated.Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// GetOrderByID возвращает заказ по ID.
// @Summary      Получить заказ по ID
// @Tags         orders
// @Param        id   path      int  true  "Идентификатор заказа"
// @Success      200  {object}  OrderResponse
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /api/orders/{id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.GetOrderByID(ctx, orderID)
	if err != nil {
		h.writeServiceError(w, r, orderID, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// GetAllOrders возвращает все заказы, опционально по статусу.
// @Summary      Список заказов
// @Tags         orders
// @Param        status  query  string  false  "Фильтр по статусу"  Enums(PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED)
// @Success      200  {array}   OrderResponse
// @Failure      400  {object}  utils.ErrorResponse "Неизвестный статус"
// @Router       /api/orders [get]
func (h *HTTPHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status *entities.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := entities.ParseOrderStatus(raw)
		if err != nil {
			utils.WriteError(w, r, fmt.Sprintf("Unknown order status: %s", raw), http.StatusBadRequest)
			return
		}
		status = &parsed
	}

	orders, err := h.svc.GetAllOrders(ctx, status)
	if err != nil {
		h.writeServiceError(w, r, 0, err)
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// UpdateOrderStatus переводит заказ в новый статус.
// @Summary      Обновить статус заказа
// @Tags         orders
// @Param        id      path   int     true  "Идентификатор заказа"
// @Param        status  query  string  true  "Новый статус"  Enums(PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED)
// @Success      200  {object}  OrderResponse
// @Failure      400  {object}  utils.ErrorResponse "Недопустимый переход статуса"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Router       /api/orders/{id}/status [put]
func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("status")
	newStatus, err := entities.ParseOrderStatus(raw)
	if err != nil {
		statusUpdates.WithLabelValues("rejected").Inc()
		utils.WriteError(w, r, fmt.Sprintf("Unknown order status: %s", raw), http.StatusBadRequest)
		return
	}

	order, err := h.svc.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil {
		statusUpdates.WithLabelValues("rejected").Inc()
		h.writeServiceError(w, r, orderID, err)
		return
	}

	statusUpdates.WithLabelValues("applied").Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// CancelOrder отменяет заказ в статусе PENDING.
// @Summary      Отменить заказ
// @Tags         orders
// @Param        id   path      int  true  "Идентификатор заказа"
// @Success      200  {object}  OrderResponse
// @Failure      400  {object}  utils.ErrorResponse "Заказ нельзя отменить"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Router       /api/orders/{id}/cancel [post]
func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.CancelOrder(ctx, orderID)
	if err != nil {
		h.writeServiceError(w, r, orderID, err)
		return
	}

	ordersCancelled.Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.WriteError(w, r, fmt.Sprintf("Invalid order id: %s", raw), http.StatusBadRequest)
		return 0, false
	}
	return orderID, true
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, orderID int64, err error) {
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, r, fmt.Sprintf("Order not found with id: %d", orderID), http.StatusNotFound)
	case errors.Is(err, entities.ErrInvalidOperation) || errors.Is(err, entities.ErrInvalidOrder):
		utils.WriteError(w, r, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		utils.WriteError(w, r, "Internal server error", http.StatusInternalServerError)
	}
}
