// Package cart реализует корзину покупателя.
//
// Корзина принадлежит одной клиентской сессии и после каждой мутации синхронно
// записывается хранителем, поэтому сохранённое представление всегда совпадает
// с состоянием в памяти. Порядок добавления позиций сохраняется для отображения.
package cart

import (
	"fmt"

	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

// Line представляет позицию корзины: снимок товара на момент добавления
// и положительное количество.
type Line struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Image     string      `json:"image"`
	Stock     int         `json:"stock"`
	Quantity  int         `json:"quantity"`
}

// Persister сохраняет и загружает строки корзины указанной сессии.
type Persister interface {
	Save(sessionID string, lines []Line) error
	Load(sessionID string) ([]Line, error)
}

// Store управляет корзиной одной сессии.
type Store struct {
	sessionID string
	persister Persister
	lines     []Line
}

// NewStore создаёт корзину сессии, загружая ранее сохранённые позиции.
func NewStore(sessionID string, p Persister) (*Store, error) {
	lines, err := p.Load(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	return &Store{
		sessionID: sessionID,
		persister: p,
		lines:     lines,
	}, nil
}

// AddItem добавляет товар в корзину. Если позиция уже есть, количество
// увеличивается; иначе создаётся новая позиция со снимком текущих
// названия, цены, изображения и остатка. Количество меньше 1 приводится к 1.
func (s *Store) AddItem(p model.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	next := s.copyLines()
	merged := false
	for i := range next {
		if next[i].ProductID == p.ID {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}

	if !merged {
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		next = append(next, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     image,
			Stock:     p.Stock,
			Quantity:  quantity,
		})
	}

	return s.commit(next)
}

// RemoveItem удаляет позицию. Отсутствие позиции не является ошибкой.
func (s *Store) RemoveItem(productID int64) error {
	next := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.ProductID != productID {
			next = append(next, l)
		}
	}

	if len(next) == len(s.lines) {
		return nil
	}
	return s.commit(next)
}

// SetQuantity устанавливает количество позиции точно в указанное значение.
// Значение не больше нуля равносильно удалению позиции.
func (s *Store) SetQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(productID)
	}

	next := s.copyLines()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			return s.commit(next)
		}
	}
	return nil
}

// Clear опустошает корзину.
func (s *Store) Clear() error {
	return s.commit([]Line{})
}

// Count возвращает суммарное количество единиц товара во всех позициях.
func (s *Store) Count() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Total возвращает сумму корзины по ценам на момент добавления.
func (s *Store) Total() money.Cents {
	var total money.Cents
	for _, l := range s.lines {
		total += money.Line(l.Price, l.Quantity)
	}
	return total
}

// Contains сообщает, есть ли товар в корзине.
func (s *Store) Contains(productID int64) bool {
	for _, l := range s.lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Lines возвращает копию позиций корзины в порядке добавления.
func (s *Store) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// commit сначала сохраняет новое состояние, затем применяет его в памяти:
// при ошибке записи корзина остаётся в прежнем состоянии.
func (s *Store) commit(next []Line) error {
	if err := s.persister.Save(s.sessionID, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.lines = next
	return nil
}

func (s *Store) copyLines() []Line {
	return append([]Line(nil), s.lines...)
}
