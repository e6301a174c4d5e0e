package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// JSON is a generic JSON object column, used for history change maps.
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Money is the unified price type (2 decimal places).
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal builds a Money from a decimal.
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// MarshalJSON renders the amount as a fixed 2-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON accepts either a string or a number.
func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := decimalFromJSON(b)
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value is used for database writes.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan is used for database reads.
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String returns the fixed 2-decimal representation.
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Weight is the cargo weight type in kilograms (3 decimal places).
type Weight struct {
	decimal.Decimal
}

// NewWeightFromDecimal builds a Weight from a decimal.
func NewWeightFromDecimal(amount decimal.Decimal) Weight {
	return Weight{Decimal: amount.Round(3)}
}

// MarshalJSON renders the weight as a fixed 3-decimal string.
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Decimal.Round(3).StringFixed(3))
}

// UnmarshalJSON accepts either a string or a number.
func (w *Weight) UnmarshalJSON(b []byte) error {
	d, err := decimalFromJSON(b)
	if err != nil {
		return err
	}
	w.Decimal = d.Round(3)
	return nil
}

// Value is used for database writes.
func (w Weight) Value() (driver.Value, error) {
	return w.Decimal.Round(3).Value()
}

// Scan is used for database reads.
func (w *Weight) Scan(value interface{}) error {
	if err := w.Decimal.Scan(value); err != nil {
		return err
	}
	w.Decimal = w.Decimal.Round(3)
	return nil
}

// String returns the fixed 3-decimal representation.
func (w Weight) String() string {
	return w.Decimal.Round(3).StringFixed(3)
}

func decimalFromJSON(b []byte) (decimal.Decimal, error) {
	if len(b) == 0 {
		return decimal.Zero, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(f), nil
}
