package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Food & Dining", CategoryFood},
		{"Transportation", CategoryTransport},
		{"Shopping", CategoryShopping},
		{"Entertainment", CategoryEntertainment},
		{"Bills & Utilities", CategoryBills},
		{"Others", CategoryOthers},
		{"", CategoryOthers},
		{"Gadgets", CategoryOthers},
		{"food & dining", CategoryOthers}, // case sensitive, like the fixed UI list
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.in), "input %q", tt.in)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("Misc").Valid())
}
