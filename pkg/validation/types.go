package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"

	moneyScale     = 2
	moneyIntDigits = 10
)

var (
	ErrInvalidDecimal = errors.New("invalid decimal")
	ErrInvalidDate    = errors.New("invalid date")
)

// Decimal is an optional JSON number. null, an empty string and a missing
// key all decode to an absent value; numbers may also be sent quoted.
type Decimal struct {
	decimal.NullDecimal
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	raw, absent, err := optionalScalar(b)
	if err != nil {
		return ErrInvalidDecimal
	}
	if absent {
		d.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return ErrInvalidDecimal
	}
	d.NullDecimal = decimal.NewNullDecimal(v)
	return nil
}

// MarshalJSON writes the value as a bare JSON number, or null when absent.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(d.Decimal.String()), nil
}

// Date is an optional calendar date in YYYY-MM-DD form.
type Date struct {
	Time  time.Time
	Valid bool
}

func NewDate(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return Date{Time: *t, Valid: true}
}

// Ptr returns the date at midnight UTC, or nil when absent.
func (d Date) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func (d *Date) UnmarshalJSON(b []byte) error {
	raw, absent, err := optionalScalar(b)
	if err != nil {
		return ErrInvalidDate
	}
	if absent {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return ErrInvalidDate
	}
	*d = Date{Time: t, Valid: true}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(dateLayout))
}

// optionalScalar unwraps a JSON string or bare literal and reports whether
// it stands for an absent value.
func optionalScalar(b []byte) (string, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", true, nil
	}
	if b[0] != '"' {
		return string(b), false, nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return "", false, err
	}
	s = string(bytes.TrimSpace([]byte(s)))
	return s, s == "", nil
}

func decimalValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(Decimal)
	if !ok || !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

var maxMoney = decimal.New(1, moneyIntDigits)

// isMoney accepts a non-negative amount that fits NUMERIC(12,2).
func isMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Equal(d.Round(moneyScale)) && d.LessThan(maxMoney)
}
