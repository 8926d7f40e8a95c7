// Package money содержит функции разбора и форматирования денежных сумм.
// Удалённый API возвращает суммы то числом, то строкой, а списки цен —
// строкой через запятую, поэтому разбор должен быть терпимым: любое
// некорректное значение превращается в 0, а не в NaN.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ParseAmount разбирает денежную сумму из произвольного значения JSON.
// Поддерживаются float64, int и строка (в том числе с пробелами и
// запятыми-разделителями). Некорректное, отрицательное после разбора NaN
// или бесконечное значение даёт 0.
func ParseAmount(v any) float64 {
	switch x := v.(type) {
	case float64:
		return sanitize(x)
	case int:
		return sanitize(float64(x))
	case string:
		return ParseString(x)
	default:
		return 0
	}
}

// ParseString разбирает сумму из строки. Пустая или нечисловая строка
// даёт 0.
func ParseString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₦")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(f)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SumList суммирует список цен, записанный строкой через запятую.
// Нечисловые элементы пропускаются.
func SumList(list string) float64 {
	var total float64
	for _, token := range strings.Split(list, ",") {
		total += ParseString(token)
	}
	return total
}

// CountTokens считает количество непустых элементов в списке через
// запятую. Уникальность не проверяется: API хранит участки так, как их
// ввёл администратор.
func CountTokens(list string) int {
	var n int
	for _, token := range strings.Split(list, ",") {
		if strings.TrimSpace(token) != "" {
			n++
		}
	}
	return n
}

// FormatNaira форматирует сумму в найрах с разделителями тысяч.
func FormatNaira(amount float64) string {
	return printer.Sprintf("₦%.2f", amount)
}
