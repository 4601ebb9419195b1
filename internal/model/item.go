package model

import "github.com/shopspring/decimal"

// DefaultCurrency is stored for every item; currency is never supplied or converted.
const DefaultCurrency = "MYR"

// Item represents one perishable good held in stock.
type Item struct {
	ID         int64
	Name       string
	Quantity   float64
	Price      decimal.Decimal
	Currency   string
	ExpiryDate *Date
}

// NewItem holds validated input for creating an item.
type NewItem struct {
	Name       string
	Quantity   float64
	Price      decimal.Decimal
	ExpiryDate *Date
}

// Column names a mutable item column.
type Column string

// Mutable columns.
const (
	ColumnQuantity   Column = "quantity"
	ColumnPrice      Column = "price"
	ColumnName       Column = "name"
	ColumnExpiryDate Column = "expiry_date"
)

// Columns lists the mutable columns in prompt order.
var Columns = []Column{ColumnQuantity, ColumnPrice, ColumnName, ColumnExpiryDate}
