package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

type customerInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

type orderItemRequest struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// createOrderRequest — тело запроса оформления заказа. Присылаемые клиентом
// суммы игнорируются: они пересчитываются на сервере по снимку позиций.
type createOrderRequest struct {
	CustomerInfo customerInfoRequest `json:"customerInfo"`
	Items        []orderItemRequest  `json:"items"`
	Notes        string              `json:"notes"`
}

type orderItemResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type orderResponse struct {
	ID           int64               `json:"id"`
	CustomerInfo customerInfoRequest `json:"customerInfo"`
	Items        []orderItemResponse `json:"items"`
	Subtotal     float64             `json:"subtotal"`
	Tax          float64             `json:"tax"`
	Total        float64             `json:"total"`
	Status       string              `json:"status"`
	Notes        string              `json:"notes"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

func newOrderResponse(o model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.Dollars(),
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	return orderResponse{
		ID: o.ID,
		CustomerInfo: customerInfoRequest{
			Name:    o.Customer.Name,
			Email:   o.Customer.Email,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
			City:    o.Customer.City,
			Pincode: o.Customer.Pincode,
		},
		Items:     items,
		Subtotal:  o.Subtotal.Dollars(),
		Tax:       o.Tax.Dollars(),
		Total:     o.Total.Dollars(),
		Status:    string(o.Status),
		Notes:     o.Notes,
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
}

// CreateOrder оформляет новый заказ из снимка корзины и данных покупателя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer := model.CustomerInfo{
		Name:    req.CustomerInfo.Name,
		Email:   req.CustomerInfo.Email,
		Phone:   req.CustomerInfo.Phone,
		Address: req.CustomerInfo.Address,
		City:    req.CustomerInfo.City,
		Pincode: req.CustomerInfo.Pincode,
	}

	items := make([]model.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     money.FromDollars(item.Price),
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order, err := h.service.PlaceOrder(r.Context(), customer, items, req.Notes)
	if err != nil {
		h.serviceError(w, err, "create order error")
		return
	}

	h.okMessage(w, http.StatusCreated, "Order created successfully", newOrderResponse(*order))
}

// ListOrders возвращает все заказы, сначала самые новые (административная операция).
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.serviceError(w, err, "list orders error")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}

	h.ok(w, http.StatusOK, resp)
}

// GetOrdersByEmail возвращает заказы покупателя по email без учёта регистра.
func (h *Handler) GetOrdersByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	orders, err := h.service.ListOrdersByEmail(r.Context(), email)
	if err != nil {
		h.serviceError(w, err, "list user orders error")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}

	h.ok(w, http.StatusOK, resp)
}

// GetOrder возвращает один заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "get order error")
		return
	}

	h.ok(w, http.StatusOK, newOrderResponse(*order))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus переводит заказ в новый статус (административная операция).
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		h.serviceError(w, err, "update order status error")
		return
	}

	h.okMessage(w, http.StatusOK, "Order status updated successfully", newOrderResponse(*order))
}

// DeleteOrder удаляет заказ по идентификатору (административная операция).
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.serviceError(w, err, "delete order error")
		return
	}

	h.okMessage(w, http.StatusOK, "Order deleted successfully", nil)
}
