package booking

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// PaymentForm holds what the user typed on the payment step. Values are kept
// as entered so a rejected submission can show them again untouched.
type PaymentForm struct {
	CardNumber string
	CardName   string
	Expiry     string
	CVV        string
	Email      string
}

type paymentInput struct {
	CardNumber string `json:"card_number" validate:"required,len=16,number"`
	Expiry     string `json:"expiry" validate:"required,mmyy"`
	CVV        string `json:"cvv" validate:"required,number,min=3,max=4"`
	Email      string `json:"email" validate:"required,email"`
}

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	validate      = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("mmyy", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]string{
	"card_number": "card number must have 16 digits",
	"expiry":      "expiry must be MM/YY",
	"cvv":         "CVV must have 3 or 4 digits",
	"email":       "email is not valid",
}

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := lo.Keys(e.Fields)
	sort.Strings(keys)
	parts := lo.Map(keys, func(k string, _ int) string { return e.Fields[k] })
	return "invalid payment details: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// Validate checks the form as of now. An empty email falls back to
// accountEmail. It returns the email the booking should be sent to.
func (f PaymentForm) Validate(now time.Time, accountEmail string) (string, error) {
	email := strings.TrimSpace(f.Email)
	if email == "" {
		email = strings.TrimSpace(accountEmail)
	}
	input := paymentInput{
		CardNumber: stripSpaces(f.CardNumber),
		Expiry:     strings.TrimSpace(f.Expiry),
		CVV:        strings.TrimSpace(f.CVV),
		Email:      email,
	}

	fields := map[string]string{}
	if err := validate.Struct(input); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return "", err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessages[fe.Field()]
		}
	}
	if _, bad := fields["expiry"]; !bad && expired(input.Expiry, now) {
		fields["expiry"] = "card has expired"
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return email, nil
}

// expired reports whether an MM/YY expiry lies before now's month. A card
// is valid through the last day of its month.
func expired(expiry string, now time.Time) bool {
	month, err := strconv.Atoi(expiry[:2])
	if err != nil {
		return true
	}
	year, err := strconv.Atoi(expiry[3:])
	if err != nil {
		return true
	}
	year += 2000
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

// FormatCardNumber keeps up to 16 digits and groups them by four.
func FormatCardNumber(value string) string {
	digits := onlyDigits(value, 16)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry turns typed digits into MM/YY.
func FormatExpiry(value string) string {
	digits := onlyDigits(value, 4)
	if len(digits) > 2 {
		return fmt.Sprintf("%s/%s", digits[:2], digits[2:])
	}
	return digits
}

// MaskCardNumber hides all but the last four digits.
func MaskCardNumber(value string) string {
	digits := onlyDigits(value, 16)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("•", len(digits)-4) + digits[len(digits)-4:]
}

func stripSpaces(value string) string {
	return strings.Join(strings.Fields(value), "")
}

func onlyDigits(value string, limit int) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			if b.Len() == limit {
				break
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
