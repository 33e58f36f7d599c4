// Package money реализует арифметику денежных сумм в целых центах.
package money

import (
	"math"
	"strconv"
	"strings"
)

// Cents представляет денежную сумму в центах (сотых долях доллара).
type Cents int64

// usdToINR — курс пересчёта для отображения цен в рупиях.
const usdToINR = 83

// FromDollars переводит сумму в долларах в центы с округлением до ближайшего цента.
func FromDollars(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Dollars возвращает сумму в долларах.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// Line возвращает стоимость позиции: цена, умноженная на количество.
func Line(price Cents, quantity int) Cents {
	return price * Cents(quantity)
}

// Tax возвращает сумму налога по указанной ставке с округлением до цента.
func Tax(subtotal Cents, rate float64) Cents {
	return Cents(math.Round(float64(subtotal) * rate))
}

// FormatINR форматирует сумму для отображения в рупиях с индийской группировкой разрядов.
// Округление до целой рупии выполняется только здесь, при форматировании.
func FormatINR(c Cents) string {
	rupees := int64(math.Round(c.Dollars() * usdToINR))

	sign := ""
	if rupees < 0 {
		sign = "-"
		rupees = -rupees
	}

	return sign + "₹" + groupIndian(strconv.FormatInt(rupees, 10))
}

// groupIndian расставляет разделители разрядов по индийской системе:
// последние три цифры, далее группы по две (2,07,499).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	// Первая группа может быть короче двух цифр.
	first := len(head) % 2
	if first == 0 {
		first = 2
	}
	b.WriteString(head[:first])
	for i := first; i < len(head); i += 2 {
		b.WriteString(",")
		b.WriteString(head[i : i+2])
	}

	b.WriteString(",")
	b.WriteString(tail)
	return b.String()
}
