package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_MutationsResetPage(t *testing.T) {
	f := NewFilter(10).WithPage(4)

	assert.Equal(t, 1, f.WithSearch("router").Page)
	assert.Equal(t, 1, f.WithDateRange("2025-01-01", "2025-01-31").Page)
	assert.Equal(t, 1, f.WithSize(25).Page)
}

func TestFilter_PageChangeDoesNotReset(t *testing.T) {
	f := NewFilter(10).WithSearch("router")

	f = f.WithPage(3)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, "router", f.Search)

	f = f.WithPage(0)
	assert.Equal(t, 1, f.Page, "pages below 1 clamp to 1")
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		count int
		size  int
		want  int
	}{
		{"empty", 0, 10, 0},
		{"single record", 1, 10, 1},
		{"exact boundary", 20, 10, 2},
		{"partial last page", 23, 10, 3},
		{"negative count", -5, 10, 0},
		{"zero size", 23, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.count, tt.size))
		})
	}
}

func TestTotal_SumsLineItems(t *testing.T) {
	items := []LineItem{
		{Qty: 2, UnitPrice: 10000},
		{Qty: 1, UnitPrice: 5000},
	}
	assert.Equal(t, int64(25000), Total(items))
	assert.Equal(t, int64(0), Total(nil))
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		got, ok := ParseStage(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseStage("archived")
	assert.False(t, ok)
	_, ok = ParseStage("")
	assert.False(t, ok)
}

func TestDerivePrice(t *testing.T) {
	assert.Equal(t, int64(150000), DerivePrice(100000, 50))
	assert.Equal(t, int64(100000), DerivePrice(100000, 0))
	assert.Equal(t, int64(0), DerivePrice(0, 30))
	// 33% of 99999 rounds to whole rupiah
	assert.Equal(t, int64(132999), DerivePrice(99999, 33))
}
