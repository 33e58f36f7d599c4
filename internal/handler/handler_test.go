package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/luxehome-system/internal/cart"
	"github.com/mmeshcher/luxehome-system/internal/catalog"
	"github.com/mmeshcher/luxehome-system/internal/middleware"
	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
	"github.com/mmeshcher/luxehome-system/internal/repository"
	"github.com/mmeshcher/luxehome-system/internal/service"
)

type stubService struct {
	productsResp []model.Product
	productsErr  error
	lastFilter   catalog.Filter

	productResp *model.Product
	productErr  error

	placeOrderResp *model.Order
	placeOrderErr  error

	orderResp *model.Order
	orderErr  error

	ordersResp []model.Order
	ordersErr  error

	registerResp *model.User
	registerErr  error

	authResp *model.User
	authErr  error

	userResp *model.User
	userErr  error
}

func (s *stubService) ListProducts(ctx context.Context, f catalog.Filter) ([]model.Product, error) {
	s.lastFilter = f
	return s.productsResp, s.productsErr
}

func (s *stubService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.productResp, s.productErr
}

func (s *stubService) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	p.ID = 1
	return &p, nil
}

func (s *stubService) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return &p, nil
}

func (s *stubService) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (s *stubService) PlaceOrder(ctx context.Context, customer model.CustomerInfo, items []model.OrderLine, notes string) (*model.Order, error) {
	return s.placeOrderResp, s.placeOrderErr
}

func (s *stubService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.ordersResp, s.ordersErr
}

func (s *stubService) ListOrdersByEmail(ctx context.Context, email string) ([]model.Order, error) {
	return s.ordersResp, s.ordersErr
}

func (s *stubService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) DeleteOrder(ctx context.Context, id int64) error { return nil }

func (s *stubService) RegisterUser(ctx context.Context, name, email, password string) (*model.User, error) {
	return s.registerResp, s.registerErr
}

func (s *stubService) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	return s.authResp, s.authErr
}

func (s *stubService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userResp, s.userErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret")

	carts, err := cart.NewFilePersister(t.TempDir())
	if err != nil {
		t.Fatalf("new cart persister: %v", err)
	}

	return NewHandler(svc, logger, auth, carts, t.TempDir())
}

func decodeEnvelope(t *testing.T, res *http.Response) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func adminCookie(h *Handler) *http.Cookie {
	rec := httptest.NewRecorder()
	h.authMiddleware.SetAuthCookie(rec, 1, "admin")
	return rec.Result().Cookies()[0]
}

func sampleProduct() model.Product {
	return model.Product{
		ID:        3,
		Name:      "Brass Floor Lamp",
		Category:  "Lighting",
		Price:     money.FromDollars(329.99),
		Stock:     12,
		Rating:    4.5,
		Images:    []string{"/uploads/lamp.jpg"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestListProducts_EnvelopeWithCount(t *testing.T) {
	svc := &stubService{
		productsResp: []model.Product{sampleProduct()},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=Lighting&maxPrice=400", nil)
	rec := httptest.NewRecorder()

	h.ListProducts(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}

	env := decodeEnvelope(t, res)
	if !env.Success {
		t.Fatalf("success = false, want true")
	}
	if env.Count == nil || *env.Count != 1 {
		t.Fatalf("count = %v, want 1", env.Count)
	}

	if svc.lastFilter.Category != "Lighting" {
		t.Errorf("filter category = %q, want Lighting", svc.lastFilter.Category)
	}
	if svc.lastFilter.MaxPrice == nil || *svc.lastFilter.MaxPrice != money.FromDollars(400) {
		t.Errorf("filter maxPrice = %v, want 400 dollars", svc.lastFilter.MaxPrice)
	}
}

func TestCreateProduct_WithoutImagesAndTags(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body := []byte(`{"name":"Lamp","description":"A lamp","price":10,"category":"Lighting","stock":3,"rating":4.5}`)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateProduct(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	env := decodeEnvelope(t, res)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if images, ok := data["images"].([]any); !ok || len(images) != 0 {
		t.Fatalf("images = %v, want empty array", data["images"])
	}
	if tags, ok := data["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("tags = %v, want empty array", data["tags"])
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := &stubService{
		productErr: repository.ErrProductNotFound,
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/99", nil)
	rec := httptest.NewRecorder()

	h.SetupRouter().ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	env := decodeEnvelope(t, res)
	if env.Success {
		t.Fatalf("success = true, want false")
	}
	if env.Message != "Product not found" {
		t.Fatalf("message = %q, want %q", env.Message, "Product not found")
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
	rec := httptest.NewRecorder()

	h.SetupRouter().ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestCreateOrder_Created(t *testing.T) {
	svc := &stubService{
		placeOrderResp: &model.Order{
			ID:       77,
			Subtotal: money.FromDollars(250),
			Tax:      money.FromDollars(25),
			Total:    money.FromDollars(275),
			Status:   model.OrderStatusPending,
		},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(createOrderRequest{
		CustomerInfo: customerInfoRequest{
			Name: "Jane", Email: "jane@example.com", Phone: "123",
			Address: "1 Main St", City: "Springfield", Pincode: "123456",
		},
		Items: []orderItemRequest{
			{ProductID: 1, Name: "Sofa", Price: 100, Quantity: 2},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	env := decodeEnvelope(t, res)
	if !env.Success {
		t.Fatalf("success = false, want true")
	}
	if env.Message != "Order created successfully" {
		t.Fatalf("message = %q", env.Message)
	}

	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if data["total"] != 275.0 {
		t.Fatalf("total = %v, want 275", data["total"])
	}
	if data["status"] != "Pending" {
		t.Fatalf("status = %v, want Pending", data["status"])
	}
}

func TestCreateOrder_ValidationError(t *testing.T) {
	svc := &stubService{
		placeOrderErr: &service.ValidationError{Fields: []string{"items"}},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(createOrderRequest{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	env := decodeEnvelope(t, res)
	if env.Success {
		t.Fatalf("success = true, want false")
	}
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	svc := &stubService{
		orderErr: service.ErrInvalidStatus,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(updateStatusRequest{Status: "Bogus"})

	req := httptest.NewRequest(http.MethodPut, "/api/orders/1/status", bytes.NewReader(body))
	req.AddCookie(adminCookie(h))
	rec := httptest.NewRecorder()

	h.SetupRouter().ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	env := decodeEnvelope(t, res)
	if env.Message != "Invalid status value" {
		t.Fatalf("message = %q, want %q", env.Message, "Invalid status value")
	}
}

func TestAdminRoutes_RequireAuth(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	body, _ := json.Marshal(productRequest{Name: "Lamp"})

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without cookie = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}

	userRec := httptest.NewRecorder()
	h.authMiddleware.SetAuthCookie(userRec, 2, "user")

	req = httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.AddCookie(userRec.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status with user cookie = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(signupRequest{Name: "Jane", Email: "jane@example.com", Password: "12345"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestSignup_WhitespaceOnlyName(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(signupRequest{Name: "   ", Email: "jane@example.com", Password: "secret1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	env := decodeEnvelope(t, res)
	if env.Success {
		t.Fatalf("success = true, want false")
	}
}

func TestLogin_SetsAuthCookie(t *testing.T) {
	svc := &stubService{
		authResp: &model.User{ID: 5, Name: "Jane", Email: "jane@example.com", Role: model.RoleUser},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Email: "jane@example.com", Password: "secret1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var authCookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "auth_token" {
			authCookie = c
		}
	}
	if authCookie == nil {
		t.Fatalf("auth_token cookie not set")
	}

	env := decodeEnvelope(t, res)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if _, found := data["password"]; found {
		t.Fatalf("response must not expose credentials")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := &stubService{
		authErr: service.ErrInvalidCredentials,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Email: "jane@example.com", Password: "wrong"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}

	env := decodeEnvelope(t, res)
	if env.Message != "Invalid email or password" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestAdminLogin_ForbiddenForUserRole(t *testing.T) {
	svc := &stubService{
		authResp: &model.User{ID: 5, Email: "jane@example.com", Role: model.RoleUser},
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Email: "jane@example.com", Password: "secret1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AdminLogin(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusForbidden)
	}
}

func TestCartFlow_AddAndGet(t *testing.T) {
	product := sampleProduct()
	svc := &stubService{
		productResp: &product,
	}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	body, _ := json.Marshal(addCartItemRequest{ProductID: product.ID, Quantity: 2})

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("add status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var sessionCookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == cartCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatalf("cart session cookie not set")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	res = rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	env := decodeEnvelope(t, res)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if data["count"] != 2.0 {
		t.Fatalf("count = %v, want 2", data["count"])
	}
	if data["total"] != 659.98 {
		t.Fatalf("total = %v, want 659.98", data["total"])
	}
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/nothing", nil)
	rec := httptest.NewRecorder()

	h.SetupRouter().ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	env := decodeEnvelope(t, res)
	if env.Success {
		t.Fatalf("success = true, want false")
	}
}
