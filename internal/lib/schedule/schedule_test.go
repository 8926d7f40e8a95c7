package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Term
	}{
		{name: "точное совпадение", in: "12 Months", want: Term12},
		{name: "нижний регистр", in: "18 months", want: Term18},
		{name: "без пробела", in: "24Months", want: Term24},
		{name: "единственное число", in: "3 Month", want: Term3},
		{name: "максимальный срок", in: "30 Months", want: Term30},
		{name: "неизвестный текст дает срок по умолчанию", in: "installments", want: Term12},
		{name: "пустая строка дает срок по умолчанию", in: "", want: Term12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNextPaymentAmount(t *testing.T) {
	tests := []struct {
		name        string
		term        Term
		outstanding float64
		want        float64
	}{
		{name: "12 месяцев", term: Term12, outstanding: 4500000, want: 375000},
		{name: "3 месяца", term: Term3, outstanding: 300000, want: 100000},
		{name: "30 месяцев", term: Term30, outstanding: 3000000, want: 100000},
		{name: "нулевой остаток", term: Term12, outstanding: 0, want: 0},
		{name: "отрицательный остаток не дает отрицательный взнос", term: Term12, outstanding: -100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPaymentAmount(tt.term, tt.outstanding))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	lastPayment := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	dateTaken := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("от даты последнего платежа", func(t *testing.T) {
		due := NextDueDate(Term12, &lastPayment, &dateTaken)
		require.NotNil(t, due)
		assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *due)
	})

	t.Run("сдвиг на месяц при любом сроке", func(t *testing.T) {
		for _, term := range []Term{Term3, Term12, Term18, Term24, Term30} {
			due := NextDueDate(term, &lastPayment, nil)
			require.NotNil(t, due)
			assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *due)
		}
	})

	t.Run("без платежей берется дата оформления", func(t *testing.T) {
		due := NextDueDate(Term12, nil, &dateTaken)
		require.NotNil(t, due)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *due)
	})

	t.Run("обе даты отсутствуют", func(t *testing.T) {
		assert.Nil(t, NextDueDate(Term12, nil, nil))
	})
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name        string
		deposited   float64
		outstanding float64
		want        float64
	}{
		{name: "половина выплачена", deposited: 500, outstanding: 500, want: 50},
		{name: "ничего не выплачено", deposited: 0, outstanding: 1000, want: 0},
		{name: "все выплачено", deposited: 1000, outstanding: 0, want: 100},
		{name: "переплата зажимается сверху", deposited: 1500, outstanding: -500, want: 100},
		{name: "нулевые данные", deposited: 0, outstanding: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Progress(tt.deposited, tt.outstanding), 0.0001)
		})
	}
}
