package money

import (
	"encoding/json"
	"testing"

	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
)

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		got  Money
		want string
	}{
		{name: "add", got: MustFromString("100.00").Add(MustFromString("15.00")), want: "115.00"},
		{name: "sub", got: MustFromString("115.00").Sub(MustFromString("15.00")), want: "100.00"},
		{name: "mul_quantity", got: MustFromString("50.00").MulInt(2), want: "100.00"},
		{name: "sub_to_negative", got: Zero().Sub(MustFromString("0.01")), want: "-0.01"},
		{name: "from_cents", got: FromCents(1550), want: "15.50"},
		{name: "float_trap_sum", got: MustFromString("0.10").Add(MustFromString("0.20")), want: "0.30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.String() != tc.want {
				t.Fatalf("got %s, want %s", tc.got, tc.want)
			}
		})
	}
}

func TestDivExactRequiresExactQuotient(t *testing.T) {
	q, err := MustFromString("100.00").Div(4)
	if err != nil {
		t.Fatalf("exact division failed: %v", err)
	}
	if q.String() != "25.00" {
		t.Fatalf("got %s, want 25.00", q)
	}

	_, err = MustFromString("100.00").Div(3)
	if err == nil {
		t.Fatal("expected arithmetic error for inexact division")
	}
	if !apierr.Is(err, apierr.CodeArithmetic) {
		t.Fatalf("expected %s, got %v", apierr.CodeArithmetic, err)
	}
}

func TestDivRoundHalfUp(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		divisor int64
		want    string
	}{
		{name: "round_up_on_half", amount: "100.01", divisor: 2, want: "50.01"},
		{name: "round_down_below_half", amount: "100.00", divisor: 3, want: "33.33"},
		{name: "exact", amount: "90.00", divisor: 3, want: "30.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MustFromString(tc.amount).DivRound(tc.divisor)
			if err != nil {
				t.Fatalf("DivRound: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("%s / %d = %s, want %s", tc.amount, tc.divisor, got, tc.want)
			}
		})
	}

	if _, err := MustFromString("10.00").DivRound(0); !apierr.Is(err, apierr.CodeArithmetic) {
		t.Fatalf("expected arithmetic error for zero divisor, got %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(MustFromString("115.5"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"115.50"` {
		t.Fatalf("got %s, want \"115.50\"", b)
	}
	var m Money
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.Equal(MustFromString("115.50")) {
		t.Fatalf("round trip mismatch: %s", m)
	}
}

func TestScanAcceptsDriverRepresentations(t *testing.T) {
	for _, v := range []interface{}{"19.90", []byte("19.90"), 19.90} {
		var m Money
		if err := m.Scan(v); err != nil {
			t.Fatalf("scan %T: %v", v, err)
		}
		if m.String() != "19.90" {
			t.Fatalf("scan %T: got %s, want 19.90", v, m)
		}
	}
}
