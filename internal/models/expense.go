package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of expense categories. Values outside the set
// are normalized to CategoryOthers at the API boundary, so a stored expense
// always carries a valid member.
type Category string

const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryOthers        Category = "Others"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryOthers,
}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// NormalizeCategory maps an arbitrary string onto the category set,
// falling back to CategoryOthers.
func NormalizeCategory(s string) Category {
	if c := Category(s); c.Valid() {
		return c
	}
	return CategoryOthers
}

// Expense is a single expense record stored in MongoDB.
type Expense struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	UserID    string             `json:"user_id"    bson:"user_id"`
	Title     string             `json:"title"      bson:"title"`
	Amount    float64            `json:"amount"     bson:"amount"`
	Category  Category           `json:"category"   bson:"category"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateExpenseRequest is the JSON body for POST /api/expenses.
type CreateExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// UpdateExpenseRequest is the JSON body for PUT /api/expenses/{id}.
// Nil fields are left unchanged.
type UpdateExpenseRequest struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
}
