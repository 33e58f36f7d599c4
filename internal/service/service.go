// Package service реализует бизнес-логику интернет-магазина luxehome.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/luxehome-system/internal/catalog"
	"github.com/mmeshcher/luxehome-system/internal/model"
)

// ErrInvalidStatus возвращается при попытке установить нераспознанный статус заказа.
var (
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError описывает нарушение обязательных условий входных данных
// и перечисляет имена пустых или некорректных полей.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid required fields: " + strings.Join(e.Fields, ", ")
}

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateOrder(ctx context.Context, o model.Order) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	CreateUser(ctx context.Context, name, email string, passwordHash []byte, role model.Role) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// Service содержит бизнес-логику интернет-магазина.
type Service struct {
	repo    Repository
	logger  *zap.Logger
	taxRate float64
}

// NewService создаёт новый сервис с указанным репозиторием и ставкой налога.
func NewService(repo Repository, logger *zap.Logger, taxRate float64) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		taxRate: taxRate,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ListProducts возвращает каталог, отфильтрованный по заданным условиям,
// сначала самые новые товары. Один и тот же фильтр обслуживает и витрину,
// и административную панель.
func (s *Service) ListProducts(ctx context.Context, f catalog.Filter) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(products, f), nil
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct проверяет инварианты товара и сохраняет его.
// Не указанный рейтинг получает значение по умолчанию 4.5.
func (s *Service) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if p.Rating == 0 {
		p.Rating = 4.5
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	return s.repo.CreateProduct(ctx, p)
}

// UpdateProduct проверяет инварианты товара и обновляет его.
func (s *Service) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	return s.repo.UpdateProduct(ctx, p)
}

// DeleteProduct удаляет товар по идентификатору.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

func validateProduct(p model.Product) error {
	var fields []string

	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(p.Description) == "" {
		fields = append(fields, "description")
	}
	if strings.TrimSpace(p.Category) == "" {
		fields = append(fields, "category")
	}
	if p.Price < 0 {
		fields = append(fields, "price")
	}
	if p.Stock < 0 {
		fields = append(fields, "stock")
	}
	if p.Rating < 1 || p.Rating > 5 {
		fields = append(fields, "rating")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// RegisterUser регистрирует нового покупателя. Пароль хранится только в виде
// одностороннего солёного хеша bcrypt.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CreateUser(ctx, strings.TrimSpace(name), normalizeEmail(email), hash, model.RoleUser)
}

// AuthenticateUser проверяет email и пароль и возвращает пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
