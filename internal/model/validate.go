package model

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AbortSentinel cancels the operation in progress when typed at any prompt.
const AbortSentinel = "abort"

// MaxNameLength matches the VARCHAR(100) name column.
const MaxNameLength = 100

// MaxPrice is the largest value a DECIMAL(10, 2) column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// Validation errors. The message is what the user sees.
var (
	ErrQuantityNotNumber   = errors.New("Invalid input: Quantity should be a number.")
	ErrQuantityNotPositive = errors.New("Invalid input: Quantity should be a positive number.")
	ErrPriceNotPositive    = errors.New("Invalid input: Price should be a positive number.")
	ErrPriceTooLarge       = errors.New("Invalid input: Price should not exceed 99999999.99.")
	ErrExpiryInvalid       = errors.New("Invalid input. Expiry date should be a valid date in the future and in the format YYYY-MM-DD")
	ErrExpiryFormat        = errors.New("Invalid input. Expiry date should be a valid date in the format YYYY-MM-DD.")
	ErrExpiryPast          = errors.New("Invalid input: Expiry date should be a future date.")
	ErrNameEmpty           = errors.New("Invalid input: Name cannot be empty.")
	ErrNameTooLong         = errors.New("Invalid input: Name cannot exceed 100 characters.")
	ErrIDInvalid           = errors.New("Invalid input: ID should be a whole number.")
	ErrUnknownColumn       = errors.New("Invalid input: Column should be one of quantity, price, name, expiry_date.")
)

// IsAbort reports whether raw is the abort sentinel, ignoring case.
func IsAbort(raw string) bool {
	return strings.EqualFold(raw, AbortSentinel)
}

// numberLiteral is a plain decimal number with an optional exponent. It keeps
// out the hex, infinity and NaN forms strconv.ParseFloat also understands.
var numberLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseQuantity accepts any finite number greater than zero.
func ParseQuantity(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !numberLiteral.MatchString(s) {
		return 0, ErrQuantityNotNumber
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, ErrQuantityNotNumber
	}
	if q <= 0 {
		return 0, ErrQuantityNotPositive
	}
	return q, nil
}

// priceCeiling bounds the float64 magnitude check in ParsePrice. Anything at
// or above it is too large whatever the rounding.
const priceCeiling = 1e9

// ParsePrice accepts a number greater than zero and rounds it to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrPriceNotPositive
	}

	// Rescaling a decimal costs time in the size of its exponent, so the
	// magnitude is checked in float64 first. Underflow parses as 0 and
	// overflow as ±Inf, both with ErrRange.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return decimal.Decimal{}, ErrPriceNotPositive
	}
	if f <= 0 || !p.IsPositive() {
		return decimal.Decimal{}, ErrPriceNotPositive
	}
	if f >= priceCeiling {
		return decimal.Decimal{}, ErrPriceTooLarge
	}

	p = p.Round(2)
	if !p.IsPositive() {
		return decimal.Decimal{}, ErrPriceNotPositive
	}
	if p.GreaterThan(MaxPrice) {
		return decimal.Decimal{}, ErrPriceTooLarge
	}
	return p, nil
}

var dateLiteral = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseExpiryOnAdd validates an expiry date entered for a new item. Besides
// being a real date no earlier than today, February days past the 28th are
// rejected in every year and no month may exceed 31 days.
func ParseExpiryOnAdd(raw string, today Date) (Date, error) {
	m := dateLiteral.FindStringSubmatch(raw)
	if m == nil {
		return Date{}, ErrExpiryInvalid
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 {
		return Date{}, ErrExpiryInvalid
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}

	// time.Date normalises overflow, so a round trip detects dates like 04-31.
	if DateOf(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)) != d {
		return Date{}, ErrExpiryInvalid
	}
	if d.Before(today) {
		return Date{}, ErrExpiryInvalid
	}
	if month == 2 && day > 28 {
		return Date{}, ErrExpiryInvalid
	}
	if day > 31 {
		return Date{}, ErrExpiryInvalid
	}
	return d, nil
}

// ParseExpiryOnUpdate validates a replacement expiry date. Unlike
// ParseExpiryOnAdd it accepts 29 February in leap years.
func ParseExpiryOnUpdate(raw string, today Date) (Date, error) {
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, ErrExpiryFormat
	}
	if d.Before(today) {
		return Date{}, ErrExpiryPast
	}
	return d, nil
}

// ParseName checks the raw value without trimming it.
func ParseName(raw string) (string, error) {
	if raw == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(raw) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return raw, nil
}

// ParseID parses an item id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrIDInvalid
	}
	return id, nil
}

// ParseColumn matches raw literally against the mutable columns.
func ParseColumn(raw string) (Column, error) {
	for _, c := range Columns {
		if raw == string(c) {
			return c, nil
		}
	}
	return "", ErrUnknownColumn
}

// ParseValue validates raw according to the column's rule and returns the
// typed value to store.
func (c Column) ParseValue(raw string, today Date) (any, error) {
	switch c {
	case ColumnQuantity:
		return ParseQuantity(raw)
	case ColumnPrice:
		return ParsePrice(raw)
	case ColumnName:
		return ParseName(raw)
	case ColumnExpiryDate:
		return ParseExpiryOnUpdate(raw, today)
	default:
		return nil, ErrUnknownColumn
	}
}
