package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "число float64", in: 500000.0, want: 500000},
		{name: "строка с числом", in: "250000.50", want: 250000.50},
		{name: "строка с разделителями тысяч", in: "1,250,000", want: 1250000},
		{name: "строка со знаком валюты", in: "₦750000", want: 750000},
		{name: "нечисловая строка дает ноль", in: "abc", want: 0},
		{name: "пустая строка дает ноль", in: "", want: 0},
		{name: "nil дает ноль", in: nil, want: 0},
		{name: "булево значение дает ноль", in: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestSumList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "несколько цен", in: "500000,750000,250000", want: 1500000},
		{name: "одна цена", in: "500000", want: 500000},
		{name: "нечисловые элементы пропускаются", in: "500000,abc,250000", want: 750000},
		{name: "пустая строка", in: "", want: 0},
		{name: "пробелы вокруг элементов", in: " 100 , 200 ", want: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumList(tt.in))
		})
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "три участка", in: "A12,A13,B07", want: 3},
		{name: "повторы не схлопываются", in: "A12,A12", want: 2},
		{name: "пустые элементы не считаются", in: "A12,,B07,", want: 2},
		{name: "пустая строка", in: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountTokens(tt.in))
		})
	}
}

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "₦1,250,000.00", FormatNaira(1250000))
	assert.Equal(t, "₦0.00", FormatNaira(0))
}
