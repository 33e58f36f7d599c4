// Package catalog реализует фильтрацию каталога товаров.
//
// Один и тот же предикат используется и публичной витриной, и административной
// панелью: фильтры объединяются по И, пустой фильтр возвращает каталог целиком.
package catalog

import (
	"strings"

	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
)

// Filter описывает условия отбора товаров. Нулевые указатели означают
// отсутствие соответствующего условия.
type Filter struct {
	Category string
	MinPrice *money.Cents
	MaxPrice *money.Cents
	Search   string
}

// Empty сообщает, задано ли хотя бы одно условие отбора.
func (f Filter) Empty() bool {
	return f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil && f.Search == ""
}

// Matches проверяет товар на соответствие всем заданным условиям.
// Категория сравнивается точно, с учётом регистра; границы цены включительные;
// поиск — подстрока в названии без учёта регистра.
func (f Filter) Matches(p model.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply возвращает товары, удовлетворяющие фильтру, сохраняя исходный порядок.
func Apply(products []model.Product, f Filter) []model.Product {
	if f.Empty() {
		return products
	}

	res := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			res = append(res, p)
		}
	}
	return res
}
