package model

import (
	"encoding/json"
	"testing"
)

func TestDecimal_UnmarshalKeepsStringVerbatim(t *testing.T) {
	var prices TicketPrices
	if err := json.Unmarshal([]byte(`{"standard":"10.00","premium":"12.00","vip":"15.00"}`), &prices); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if prices.Standard.String() != "10.00" || prices.Premium.String() != "12.00" || prices.VIP.String() != "15.00" {
		t.Fatalf("unexpected prices: %s %s %s", prices.Standard, prices.Premium, prices.VIP)
	}
	if prices.VIP.Cents() != 1500 {
		t.Fatalf("expected 1500 cents, got %d", prices.VIP.Cents())
	}
}

func TestDecimal_UnmarshalNumberAndNull(t *testing.T) {
	var payload struct {
		Price  Decimal `json:"price"`
		Rating Decimal `json:"rating"`
	}
	if err := json.Unmarshal([]byte(`{"price":12.5,"rating":null}`), &payload); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload.Price.Cents() != 1250 {
		t.Fatalf("expected 1250 cents, got %d", payload.Price.Cents())
	}
	if !payload.Rating.IsZero() || payload.Rating.String() != "0.00" {
		t.Fatalf("expected zero rating, got %q", payload.Rating.String())
	}
}

func TestDecimal_UnmarshalRejectsGarbage(t *testing.T) {
	var d Decimal
	if err := json.Unmarshal([]byte(`"twelve"`), &d); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecimalFromFloat_RoundsToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.5 * 1.1, "13.75"},
		{12.5 * 1.2, "15.00"},
		{0.005, "0.01"},
		{3, "3.00"},
	}
	for _, tc := range cases {
		if got := DecimalFromFloat(tc.in).String(); got != tc.want {
			t.Fatalf("DecimalFromFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecimal_MarshalAsString(t *testing.T) {
	body, err := json.Marshal(struct {
		Total Decimal `json:"total"`
	}{DecimalFromCents(2750)})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if string(body) != `{"total":"27.50"}` {
		t.Fatalf("unexpected json %s", body)
	}
}

func TestShowtime_StartsAtTrimsSeconds(t *testing.T) {
	st := Showtime{Date: "2026-10-20", Time: "21:15:00"}
	starts, err := st.StartsAt(nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if starts.Hour() != 21 || starts.Minute() != 15 || starts.Day() != 20 {
		t.Fatalf("unexpected time %v", starts)
	}
}
