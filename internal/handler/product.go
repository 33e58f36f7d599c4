package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/luxehome-system/internal/catalog"
	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Tags        []string `json:"tags"`
}

type productResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}

func newProductResponse(p model.Product) productResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Dollars(),
		Category:    p.Category,
		Images:      images,
		Stock:       p.Stock,
		Rating:      p.Rating,
		Tags:        tags,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func (req productRequest) toModel() model.Product {
	return model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       money.FromDollars(req.Price),
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		Rating:      req.Rating,
		Tags:        req.Tags,
	}
}

// parseCatalogFilter читает условия отбора каталога из query-параметров.
// Некорректное число в границе цены равносильно отсутствию границы.
func parseCatalogFilter(r *http.Request) catalog.Filter {
	q := r.URL.Query()

	f := catalog.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}

	if raw := q.Get("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			min := money.FromDollars(v)
			f.MinPrice = &min
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			max := money.FromDollars(v)
			f.MaxPrice = &max
		}
	}

	return f
}

// ListProducts возвращает каталог с учётом фильтров запроса, сначала новые товары.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), parseCatalogFilter(r))
	if err != nil {
		h.serviceError(w, err, "list products error")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}

	count := len(resp)
	h.writeEnvelope(w, http.StatusOK, envelope{Success: true, Count: &count, Data: resp})
}

// GetProduct возвращает один товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "get product error")
		return
	}

	h.ok(w, http.StatusOK, newProductResponse(*p))
}

// CreateProduct создаёт новый товар (административная операция).
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		h.serviceError(w, err, "create product error")
		return
	}

	h.ok(w, http.StatusCreated, newProductResponse(*p))
}

// UpdateProduct обновляет товар по идентификатору (административная операция).
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := req.toModel()
	p.ID = id

	updated, err := h.service.UpdateProduct(r.Context(), p)
	if err != nil {
		h.serviceError(w, err, "update product error")
		return
	}

	h.ok(w, http.StatusOK, newProductResponse(*updated))
}

// DeleteProduct удаляет товар по идентификатору (административная операция).
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.serviceError(w, err, "delete product error")
		return
	}

	h.okMessage(w, http.StatusOK, "Product deleted successfully", nil)
}
