package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = Date{Year: 2026, Month: 10, Day: 18}

func TestIsAbort(t *testing.T) {
	assert.True(t, IsAbort("abort"))
	assert.True(t, IsAbort("ABORT"))
	assert.True(t, IsAbort("Abort"))
	assert.False(t, IsAbort(" abort"))
	assert.False(t, IsAbort("abort!"))
	assert.False(t, IsAbort(""))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr error
	}{
		{"10", 10, nil},
		{"0.5", 0.5, nil},
		{" 3 ", 3, nil},
		{"1e2", 100, nil},
		{"0", 0, ErrQuantityNotPositive},
		{"-5", 0, ErrQuantityNotPositive},
		{"-0.01", 0, ErrQuantityNotPositive},
		{"ten", 0, ErrQuantityNotNumber},
		{"", 0, ErrQuantityNotNumber},
		{"5kg", 0, ErrQuantityNotNumber},
		{"NaN", 0, ErrQuantityNotNumber},
		{"inf", 0, ErrQuantityNotNumber},
		{".5", 0.5, nil},
		{"+2", 2, nil},
		{"0x1p4", 0, ErrQuantityNotNumber},
		{"0x10", 0, ErrQuantityNotNumber},
		{"Infinity", 0, ErrQuantityNotNumber},
		{"1e400", 0, ErrQuantityNotNumber},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.raw)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "ParseQuantity(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "ParseQuantity(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "ParseQuantity(%q)", tt.raw)
	}
}

func TestParseQuantityMessages(t *testing.T) {
	_, err := ParseQuantity("-5")
	assert.EqualError(t, err, "Invalid input: Quantity should be a positive number.")

	_, err = ParseQuantity("abc")
	assert.EqualError(t, err, "Invalid input: Quantity should be a number.")
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"4.999", "5.00", nil},
		{"7.5", "7.50", nil},
		{"3", "3.00", nil},
		{"0.005", "0.01", nil},
		{" 12.345 ", "12.35", nil},
		{"99999999.99", "99999999.99", nil},
		{"0", "", ErrPriceNotPositive},
		{"-3.00", "", ErrPriceNotPositive},
		{"0.001", "", ErrPriceNotPositive},
		{"free", "", ErrPriceNotPositive},
		{"", "", ErrPriceNotPositive},
		{"100000000", "", ErrPriceTooLarge},
		{"99999999.999", "", ErrPriceTooLarge},
		{"2.5e1", "25.00", nil},
		{"1e200000000", "", ErrPriceTooLarge},
		{"1e-200000000", "", ErrPriceNotPositive},
		{"-1e200000000", "", ErrPriceNotPositive},
		{"1e-300", "", ErrPriceNotPositive},
		{"0x10", "", ErrPriceNotPositive},
		{"NaN", "", ErrPriceNotPositive},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.raw)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "ParsePrice(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "ParsePrice(%q)", tt.raw)
		assert.Equal(t, tt.want, got.StringFixed(2), "ParsePrice(%q)", tt.raw)
	}
}

func TestParseExpiryOnAdd(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2099-01-01", true},
		{"2026-10-18", true}, // today
		{"2026-10-19", true},
		{"2099-02-28", true},
		{"2099-12-31", true},
		{"2026-10-17", false}, // yesterday
		{"2000-01-01", false},
		{"2096-02-29", false}, // leap day, rejected by the February rule
		{"2099-02-29", false},
		{"2099-04-31", false},
		{"2099-13-01", false},
		{"2099-00-10", false},
		{"2099-01-00", false},
		{"2099-01-32", false},
		{"2099-1-1", false},
		{"99-01-01", false},
		{"2099/01/01", false},
		{"tomorrow", false},
		{"", false},
	}

	for _, tt := range tests {
		d, err := ParseExpiryOnAdd(tt.raw, today)
		if tt.ok {
			require.NoError(t, err, "ParseExpiryOnAdd(%q)", tt.raw)
			assert.Equal(t, tt.raw, d.String())
			continue
		}
		assert.ErrorIs(t, err, ErrExpiryInvalid, "ParseExpiryOnAdd(%q)", tt.raw)
	}
}

func TestParseExpiryOnUpdate(t *testing.T) {
	d, err := ParseExpiryOnUpdate("2099-01-01", today)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2099, Month: 1, Day: 1}, d)

	_, err = ParseExpiryOnUpdate("2026-10-18", today)
	assert.NoError(t, err)

	_, err = ParseExpiryOnUpdate("2026-10-17", today)
	assert.ErrorIs(t, err, ErrExpiryPast)

	_, err = ParseExpiryOnUpdate("2099-04-31", today)
	assert.ErrorIs(t, err, ErrExpiryFormat)

	_, err = ParseExpiryOnUpdate("01/01/2099", today)
	assert.ErrorIs(t, err, ErrExpiryFormat)
}

// The February rule only guards the add path.
func TestLeapDayAddUpdateAsymmetry(t *testing.T) {
	_, err := ParseExpiryOnAdd("2096-02-29", today)
	assert.Error(t, err)

	d, err := ParseExpiryOnUpdate("2096-02-29", today)
	require.NoError(t, err)
	assert.Equal(t, "2096-02-29", d.String())
}

func TestParseName(t *testing.T) {
	name, err := ParseName("Milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk", name)

	// Emptiness is checked on the raw value, not a trimmed one.
	name, err = ParseName("  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", name)

	_, err = ParseName("")
	assert.ErrorIs(t, err, ErrNameEmpty)

	long := make([]rune, MaxNameLength+1)
	for i := range long {
		long[i] = 'č'
	}
	_, err = ParseName(string(long))
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = ParseName(string(long[:MaxNameLength]))
	assert.NoError(t, err)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ParseID(" 9999\r")
	require.NoError(t, err)
	assert.Equal(t, int64(9999), id)

	for _, raw := range []string{"", "one", "1.5", "1; DROP TABLE items"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrIDInvalid, "ParseID(%q)", raw)
	}
}

func TestParseColumn(t *testing.T) {
	for _, c := range Columns {
		got, err := ParseColumn(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	for _, raw := range []string{"bogus_column", "Price", "id", "currency", "price = 0 --", ""} {
		_, err := ParseColumn(raw)
		assert.ErrorIs(t, err, ErrUnknownColumn, "ParseColumn(%q)", raw)
	}
}

func TestColumnParseValue(t *testing.T) {
	v, err := ColumnPrice.ParseValue("7.5", today)
	require.NoError(t, err)
	require.IsType(t, decimal.Decimal{}, v)
	assert.Equal(t, "7.50", v.(decimal.Decimal).StringFixed(2))

	v, err = ColumnQuantity.ParseValue("3", today)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = ColumnName.ParseValue("Butter", today)
	require.NoError(t, err)
	assert.Equal(t, "Butter", v)

	v, err = ColumnExpiryDate.ParseValue("2099-06-30", today)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2099, Month: 6, Day: 30}, v)

	_, err = ColumnQuantity.ParseValue("-1", today)
	assert.ErrorIs(t, err, ErrQuantityNotPositive)

	_, err = Column("bogus_column").ParseValue("x", today)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
