// Package schedule реализует расчёт графика платежей: нормализацию
// свободного текста payment_schedule к закрытому набору сроков, сумму
// очередного платежа, дату следующего платежа и процент выплат.
package schedule

import (
	"strings"
	"time"
)

// Term — срок рассрочки из закрытого набора значений.
type Term string

// Допустимые сроки рассрочки.
const (
	Term3  Term = "3 Months"
	Term12 Term = "12 Months"
	Term18 Term = "18 Months"
	Term24 Term = "24 Months"
	Term30 Term = "30 Months"
)

// DefaultTerm используется, когда текст графика не удалось распознать.
const DefaultTerm = Term12

// plan описывает правила одного срока рассрочки.
type plan struct {
	installments int // делитель для суммы очередного платежа
	dueAdvance   int // на сколько месяцев сдвигается срок следующего платежа
}

// Во всех тарифах срок следующего платежа сдвигается ровно на один месяц
// независимо от выбранной рассрочки — так ведёт себя исходная система,
// и это поведение сохранено сознательно (ежемесячные взносы при любом
// общем сроке). См. открытый вопрос в DESIGN.md.
var plans = map[Term]plan{
	Term3:  {installments: 3, dueAdvance: 1},
	Term12: {installments: 12, dueAdvance: 1},
	Term18: {installments: 18, dueAdvance: 1},
	Term24: {installments: 24, dueAdvance: 1},
	Term30: {installments: 30, dueAdvance: 1},
}

// Normalize приводит свободный текст payment_schedule к закрытому набору
// сроков. Сравнение нечувствительно к регистру и лишним пробелам;
// нераспознанный текст даёт DefaultTerm.
func Normalize(raw string) Term {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "s")
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "3month":
		return Term3
	case "12month", "1year":
		return Term12
	case "18month":
		return Term18
	case "24month", "2year":
		return Term24
	case "30month":
		return Term30
	default:
		return DefaultTerm
	}
}

// NextPaymentAmount возвращает сумму очередного взноса: остаток
// задолженности, делённый на количество взносов срока. При неположительном
// остатке взнос равен 0 — задолженности нет.
func NextPaymentAmount(term Term, outstanding float64) float64 {
	if outstanding <= 0 {
		return 0
	}
	p, ok := plans[term]
	if !ok {
		p = plans[DefaultTerm]
	}
	return outstanding / float64(p.installments)
}

// NextDueDate возвращает дату следующего платежа: дата последнего платежа
// (или дата оформления подписки, если платежей не было), сдвинутая на
// месяц. Если обе даты отсутствуют, возвращает nil.
func NextDueDate(term Term, lastPayment, dateTaken *time.Time) *time.Time {
	base := lastPayment
	if base == nil {
		base = dateTaken
	}
	if base == nil {
		return nil
	}
	p, ok := plans[term]
	if !ok {
		p = plans[DefaultTerm]
	}
	due := base.AddDate(0, p.dueAdvance, 0)
	return &due
}

// Progress возвращает процент выплат в диапазоне [0, 100].
// Рассогласованные данные (сумма выплат больше общей стоимости,
// отрицательный остаток) не выводят результат за границы диапазона.
func Progress(deposited, outstanding float64) float64 {
	if deposited < 0 {
		deposited = 0
	}
	total := deposited + outstanding
	if total <= 0 {
		if deposited > 0 {
			return 100
		}
		return 0
	}
	percent := deposited / total * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
