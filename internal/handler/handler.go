// Package handler содержит HTTP-обработчики API интернет-магазина luxehome.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/luxehome-system/internal/cart"
	"github.com/mmeshcher/luxehome-system/internal/catalog"
	"github.com/mmeshcher/luxehome-system/internal/middleware"
	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/repository"
	"github.com/mmeshcher/luxehome-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListProducts(ctx context.Context, f catalog.Filter) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	PlaceOrder(ctx context.Context, customer model.CustomerInfo, items []model.OrderLine, notes string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	RegisterUser(ctx context.Context, name, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Handler реализует HTTP-обработчики API интернет-магазина.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	carts          cart.Persister
	uploadDir      string
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, carts cart.Persister, uploadDir string) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		carts:          carts,
		uploadDir:      uploadDir,
	}
}

// envelope — стандартная обёртка всех ответов API.
type envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) ok(w http.ResponseWriter, status int, data any) {
	h.writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func (h *Handler) okMessage(w http.ResponseWriter, status int, message string, data any) {
	h.writeEnvelope(w, status, envelope{Success: true, Message: message, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, status, envelope{Success: false, Message: message})
}

// serviceError преобразует ошибку бизнес-логики в ответ API.
func (h *Handler) serviceError(w http.ResponseWriter, err error, logMessage string) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.fail(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		h.fail(w, http.StatusBadRequest, "Invalid status value")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.fail(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, repository.ErrProductNotFound):
		h.fail(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		h.fail(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, repository.ErrUserNotFound):
		h.fail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrUserExists):
		h.fail(w, http.StatusBadRequest, "Email already registered")
	default:
		h.logger.Error(logMessage, zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// Root возвращает краткое описание API.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, http.StatusOK, envelope{
		Success: true,
		Message: "luxehome e-commerce API is running",
		Data: map[string]string{
			"products":    "/api/products",
			"productById": "/api/products/{id}",
			"signup":      "/api/auth/signup",
			"login":       "/api/auth/login",
			"adminLogin":  "/api/auth/admin/login",
			"orders":      "/api/orders",
			"orderById":   "/api/orders/{id}",
			"cart":        "/api/cart",
		},
	})
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
