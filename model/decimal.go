package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a monetary or rating value as sent by the API. The backend
// emits these both as JSON strings ("12.50") and as numbers, so the
// original text is kept next to the parsed value.
type Decimal struct {
	raw   string
	value float64
}

// ParseDecimal parses a decimal string, keeping the text verbatim.
func ParseDecimal(text string) (Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Decimal{}, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", text, err)
	}
	return Decimal{raw: trimmed, value: value}, nil
}

// DecimalFromCents builds a two-digit decimal from an integer amount of cents.
func DecimalFromCents(cents int64) Decimal {
	value := float64(cents) / 100
	return Decimal{raw: strconv.FormatFloat(value, 'f', 2, 64), value: value}
}

// DecimalFromFloat rounds value to cents.
func DecimalFromFloat(value float64) Decimal {
	return DecimalFromCents(int64(math.Round(value * 100)))
}

func (d Decimal) String() string {
	if d.raw == "" {
		return "0.00"
	}
	return d.raw
}

func (d Decimal) Float() float64 {
	return d.value
}

// Cents returns the value rounded to whole cents.
func (d Decimal) Cents() int64 {
	return int64(math.Round(d.value * 100))
}

func (d Decimal) IsZero() bool {
	return d.raw == "" && d.value == 0
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Decimal{}
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		parsed, err := ParseDecimal(text)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	parsed, err := ParseDecimal(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
