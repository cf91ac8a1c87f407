package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
)

// Scale is the number of decimal places every monetary amount is kept at.
const Scale int32 = 2

// Money is a fixed-scale decimal amount. The zero value is 0.00. All
// arithmetic goes through decimal.Decimal, so no operation picks up binary
// floating-point error.
type Money struct {
	d decimal.Decimal
}

func Zero() Money {
	return Money{}
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// FromCents builds an amount from integral minor units (1550 -> 15.50).
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -Scale)}
}

func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, apierr.Validation("invalid monetary amount %q: %v", s, err)
	}
	return Money{d: d}, nil
}

// MustFromString is for constants and tests only.
func MustFromString(s string) Money {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money    { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money    { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money           { return Money{d: m.d.Neg()} }
func (m Money) MulInt(n int64) Money { return Money{d: m.d.Mul(decimal.NewFromInt(n))} }

// Div performs exact division and fails when the quotient cannot be
// represented at the monetary scale. Callers that can tolerate rounding must
// ask for it explicitly via DivRound.
func (m Money) Div(n int64) (Money, error) {
	if n == 0 {
		return Money{}, apierr.Arithmetic("division by zero")
	}
	divisor := decimal.NewFromInt(n)
	q := m.d.DivRound(divisor, Scale)
	if !q.Mul(divisor).Equal(m.d) {
		return Money{}, apierr.Arithmetic("%s is not exactly divisible by %d at scale %d", m, n, Scale)
	}
	return Money{d: q}, nil
}

// DivRound divides and rounds half-up to the monetary scale.
func (m Money) DivRound(n int64) (Money, error) {
	if n == 0 {
		return Money{}, apierr.Arithmetic("division by zero")
	}
	return Money{d: m.d.DivRound(decimal.NewFromInt(n), Scale)}, nil
}

func (m Money) Cmp(o Money) int    { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) IsZero() bool       { return m.d.IsZero() }
func (m Money) IsNegative() bool   { return m.d.IsNegative() }

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) String() string {
	return m.d.StringFixed(Scale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("unmarshal money: %w", err)
	}
	m.d = d
	return nil
}

// Value / Scan let gorm persist Money as decimal columns.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	m.d = d
	return nil
}
