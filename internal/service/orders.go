package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

// PlaceOrder материализует заказ из снимка корзины и данных покупателя.
//
// Все шесть полей покупателя обязательны после обрезки пробелов, список позиций
// не может быть пустым; нарушение возвращает ValidationError, и запись не
// создаётся. Суммы вычисляются здесь по ценам из снимка, независимо от текущего
// состояния каталога. Очистка исходной корзины остаётся на вызывающей стороне
// и выполняется только после успешного ответа. Повторная отправка той же
// корзины не дедуплицируется.
func (s *Service) PlaceOrder(ctx context.Context, customer model.CustomerInfo, items []model.OrderLine, notes string) (*model.Order, error) {
	customer = model.CustomerInfo{
		Name:    strings.TrimSpace(customer.Name),
		Email:   normalizeEmail(customer.Email),
		Phone:   strings.TrimSpace(customer.Phone),
		Address: strings.TrimSpace(customer.Address),
		City:    strings.TrimSpace(customer.City),
		Pincode: strings.TrimSpace(customer.Pincode),
	}

	var fields []string
	if customer.Name == "" {
		fields = append(fields, "name")
	}
	if customer.Email == "" {
		fields = append(fields, "email")
	}
	if customer.Phone == "" {
		fields = append(fields, "phone")
	}
	if customer.Address == "" {
		fields = append(fields, "address")
	}
	if customer.City == "" {
		fields = append(fields, "city")
	}
	if customer.Pincode == "" {
		fields = append(fields, "pincode")
	}

	if len(items) == 0 {
		fields = append(fields, "items")
	} else {
		for _, item := range items {
			if item.ProductID <= 0 || item.Quantity < 1 || item.Price < 0 || item.Name == "" {
				fields = append(fields, "items")
				break
			}
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var subtotal money.Cents
	for _, item := range items {
		subtotal += money.Line(item.Price, item.Quantity)
	}
	tax := money.Tax(subtotal, s.taxRate)

	order := model.Order{
		Customer: customer,
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
		Status:   model.OrderStatusPending,
		Notes:    strings.TrimSpace(notes),
	}

	return s.repo.CreateOrder(ctx, order)
}

// ListOrders возвращает все заказы, сначала самые новые.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

// ListOrdersByEmail возвращает заказы покупателя по email без учёта регистра.
func (s *Service) ListOrdersByEmail(ctx context.Context, email string) ([]model.Order, error) {
	return s.repo.ListOrdersByEmail(ctx, normalizeEmail(email))
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// UpdateOrderStatus переводит заказ в новый статус.
//
// Принимается любой распознанный статус из любого текущего: выход за пределы
// естественного жизненного цикла фиксируется в журнале, но не запрещается.
// Повторная установка текущего статуса ничего не меняет и возвращает заказ
// как есть.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn("order status set outside the usual lifecycle",
			zap.Int64("orderID", id),
			zap.String("from", string(order.Status)),
			zap.String("to", string(status)),
		)
	}

	return s.repo.UpdateOrderStatus(ctx, id, status)
}

// DeleteOrder удаляет заказ по идентификатору.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.DeleteOrder(ctx, id)
}
