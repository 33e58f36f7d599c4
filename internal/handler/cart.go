package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/luxehome-system/internal/cart"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

const (
	cartCookieName = "cart_session"
	cartCookieTTL  = 30 * 24 * time.Hour
)

type cartLineResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

type cartResponse struct {
	Items        []cartLineResponse `json:"items"`
	Count        int                `json:"count"`
	Total        float64            `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
}

func newCartResponse(s *cart.Store) cartResponse {
	lines := s.Lines()
	items := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price.Dollars(),
			Image:     l.Image,
			Stock:     l.Stock,
			Quantity:  l.Quantity,
		})
	}

	return cartResponse{
		Items:        items,
		Count:        s.Count(),
		Total:        s.Total().Dollars(),
		TotalDisplay: money.FormatINR(s.Total()),
	}
}

// cartSession возвращает идентификатор корзины из cookie, выдавая новый,
// если cookie отсутствует или не является корректным UUID.
func (h *Handler) cartSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cartCookieName); err == nil {
		if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(cartCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) cartStore(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	store, err := cart.NewStore(h.cartSession(w, r), h.carts)
	if err != nil {
		h.logger.Error("load cart error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return nil, false
	}
	return store, true
}

// GetCart возвращает корзину текущей сессии.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cartStore(w, r)
	if !ok {
		return
	}
	h.ok(w, http.StatusOK, newCartResponse(store))
}

type addCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddCartItem добавляет товар в корзину. Снимок названия, цены, изображения
// и остатка берётся из каталога в момент добавления.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.serviceError(w, err, "add cart item error")
		return
	}

	store, ok := h.cartStore(w, r)
	if !ok {
		return
	}

	if err := store.AddItem(*product, req.Quantity); err != nil {
		h.logger.Error("save cart error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.ok(w, http.StatusOK, newCartResponse(store))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetCartItemQuantity устанавливает количество позиции; ноль и меньше удаляют её.
func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(chi.URLParam(r, "productId"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	store, ok := h.cartStore(w, r)
	if !ok {
		return
	}

	if err := store.SetQuantity(productID, req.Quantity); err != nil {
		h.logger.Error("save cart error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.ok(w, http.StatusOK, newCartResponse(store))
}

// RemoveCartItem удаляет позицию из корзины; отсутствие позиции не ошибка.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(chi.URLParam(r, "productId"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	store, ok := h.cartStore(w, r)
	if !ok {
		return
	}

	if err := store.RemoveItem(productID); err != nil {
		h.logger.Error("save cart error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.ok(w, http.StatusOK, newCartResponse(store))
}

// ClearCart опустошает корзину. Вызывается клиентом после успешного оформления заказа.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.cartStore(w, r)
	if !ok {
		return
	}

	if err := store.Clear(); err != nil {
		h.logger.Error("save cart error", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.ok(w, http.StatusOK, newCartResponse(store))
}
