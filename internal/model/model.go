// Package model содержит доменные сущности интернет-магазина luxehome.
package model

import (
	"time"

	"github.com/mmeshcher/luxehome-system/internal/money"
)

// Product представляет товар каталога.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       money.Cents
	Category    string
	Images      []string
	Stock       int
	Rating      float64
	Tags        []string
	CreatedAt   time.Time
}

// OrderStatus описывает стадию жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid сообщает, входит ли статус в перечень распознаваемых значений.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, является ли статус конечным: из него переходов нет.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo описывает естественный жизненный цикл заказа:
// Pending → Processing → Shipped → Delivered, с отменой из любого неконечного статуса.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}

	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// CustomerInfo содержит данные покупателя и адрес доставки.
type CustomerInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Pincode string
}

// OrderLine представляет позицию заказа: снимок товара на момент оформления.
type OrderLine struct {
	ProductID int64
	Name      string
	Price     money.Cents
	Quantity  int
	Image     string
}

// Order представляет оформленный заказ. Состав и суммы после создания не меняются,
// изменяются только статус и примечания.
type Order struct {
	ID        int64
	Customer  CustomerInfo
	Items     []OrderLine
	Subtotal  money.Cents
	Tax       money.Cents
	Total     money.Cents
	Status    OrderStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role описывает роль пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User представляет учётную запись покупателя или администратора.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}
