package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestSideString(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"Buy", Buy, "BUY"},
		{"Sell", Sell, "SELL"},
		{"Invalid", Side(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.String(); got != tt.want {
				t.Errorf("Side.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell {
		t.Error("Expected opposite of Buy to be Sell")
	}
	if Sell.Opposite() != Buy {
		t.Error("Expected opposite of Sell to be Buy")
	}
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("BUY")
	if err != nil {
		t.Fatalf("ParseSide(BUY) returned an error: %v", err)
	}
	if side != Buy {
		t.Errorf("Expected Buy, got %v", side)
	}

	side, err = ParseSide("SELL")
	if err != nil {
		t.Fatalf("ParseSide(SELL) returned an error: %v", err)
	}
	if side != Sell {
		t.Errorf("Expected Sell, got %v", side)
	}

	// Direction tokens are exact, no case folding
	for _, raw := range []string{"buy", "Sell", "B", "HOLD", ""} {
		_, err := ParseSide(raw)
		var dirErr *InvalidDirectionError
		if !errors.As(err, &dirErr) {
			t.Errorf("ParseSide(%q): expected InvalidDirectionError, got %v", raw, err)
			continue
		}
		if dirErr.Value != raw {
			t.Errorf("ParseSide(%q): error carries %q", raw, dirErr.Value)
		}
	}
}

func TestNewOrder(t *testing.T) {
	price := fpdecimal.FromFloat(100.5)
	order, err := NewOrder(10000, "FLOW-TRADER", "XYZ", price, 50, Buy)
	if err != nil {
		t.Fatalf("NewOrder returned an error: %v", err)
	}

	if order.OrderTime() != 10000 {
		t.Errorf("Expected order time 10000, got %d", order.OrderTime())
	}
	if order.Participant() != "FLOW-TRADER" {
		t.Errorf("Expected participant FLOW-TRADER, got %s", order.Participant())
	}
	if order.Security() != "XYZ" {
		t.Errorf("Expected security XYZ, got %s", order.Security())
	}
	if !order.Price().Equal(price) {
		t.Errorf("Expected price %v, got %v", price, order.Price())
	}
	if !order.Size().Equal(fpdecimal.FromInt(50)) {
		t.Errorf("Expected size 50, got %v", order.Size())
	}
	if !order.OriginalSize().Equal(fpdecimal.FromInt(50)) {
		t.Errorf("Expected original size 50, got %v", order.OriginalSize())
	}
	if order.Side() != Buy {
		t.Errorf("Expected side Buy, got %v", order.Side())
	}
	if order.IsFilled() {
		t.Error("Expected fresh order not to be filled")
	}
}

func TestNewOrderValidation(t *testing.T) {
	price := fpdecimal.FromFloat(100.0)

	tests := []struct {
		name        string
		orderTime   int64
		participant string
		security    string
		price       fpdecimal.Decimal
		size        int64
		side        Side
		wantErr     error
	}{
		{"ZeroTime", 0, "P", "XYZ", price, 10, Buy, ErrInvalidTime},
		{"NegativeTime", -5, "P", "XYZ", price, 10, Buy, ErrInvalidTime},
		{"EmptyParticipant", 1, "", "XYZ", price, 10, Buy, ErrInvalidParticipant},
		{"EmptySecurity", 1, "P", "", price, 10, Buy, ErrInvalidSecurity},
		{"ZeroPrice", 1, "P", "XYZ", fpdecimal.Zero, 10, Buy, ErrInvalidPrice},
		{"NegativePrice", 1, "P", "XYZ", fpdecimal.FromFloat(-1.0), 10, Buy, ErrInvalidPrice},
		{"ZeroSize", 1, "P", "XYZ", price, 0, Buy, ErrInvalidSize},
		{"NegativeSize", 1, "P", "XYZ", price, -3, Sell, ErrInvalidSize},
		{"BadSide", 1, "P", "XYZ", price, 10, Side(42), ErrInvalidSide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.orderTime, tt.participant, tt.security, tt.price, tt.size, tt.side)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewOrder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("10100 CITADEL XYZ 100.50 500 BUY")
	if err != nil {
		t.Fatalf("ParseOrder returned an error: %v", err)
	}

	if order.OrderTime() != 10100 {
		t.Errorf("Expected order time 10100, got %d", order.OrderTime())
	}
	if order.Participant() != "CITADEL" {
		t.Errorf("Expected participant CITADEL, got %s", order.Participant())
	}
	if order.Security() != "XYZ" {
		t.Errorf("Expected security XYZ, got %s", order.Security())
	}
	if !order.Price().Equal(fpdecimal.FromFloat(100.50)) {
		t.Errorf("Expected price 100.50, got %v", order.Price())
	}
	if !order.Size().Equal(fpdecimal.FromInt(500)) {
		t.Errorf("Expected size 500, got %v", order.Size())
	}
	if order.Side() != Buy {
		t.Errorf("Expected side Buy, got %v", order.Side())
	}
}

func TestParseOrderWhitespaceAndTrailingTokens(t *testing.T) {
	// Arbitrary whitespace runs separate fields; tokens past the sixth
	// are ignored
	order, err := ParseOrder("  10100\tCITADEL  XYZ\t100.50   500  SELL extra tokens here ")
	if err != nil {
		t.Fatalf("ParseOrder returned an error: %v", err)
	}
	if order.Side() != Sell {
		t.Errorf("Expected side Sell, got %v", order.Side())
	}
}

func TestParseOrderFieldMissing(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		wantField string
	}{
		{"Empty", "", "order_time"},
		{"Blank", "   \t  ", "order_time"},
		{"OneField", "10100", "participant_code"},
		{"TwoFields", "10100 CITADEL", "security_name"},
		{"ThreeFields", "10100 CITADEL XYZ", "price"},
		{"FourFields", "10100 CITADEL XYZ 100.50", "size"},
		{"FiveFields", "10100 CITADEL XYZ 100.50 500", "direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrder(tt.record)
			var missing *FieldMissingError
			if !errors.As(err, &missing) {
				t.Fatalf("expected FieldMissingError, got %v", err)
			}
			if missing.Field != tt.wantField {
				t.Errorf("expected missing field %q, got %q", tt.wantField, missing.Field)
			}
		})
	}
}

func TestParseOrderMalformedNumber(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		wantField string
		wantValue string
	}{
		{"BadTime", "abc CITADEL XYZ 100.50 500 BUY", "order_time", "abc"},
		{"FloatTime", "10.5 CITADEL XYZ 100.50 500 BUY", "order_time", "10.5"},
		{"BadPrice", "10100 CITADEL XYZ 1x0 500 BUY", "price", "1x0"},
		{"BadSize", "10100 CITADEL XYZ 100.50 5.5 BUY", "size", "5.5"},
		{"EmptyishSize", "10100 CITADEL XYZ 100.50 -- BUY", "size", "--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrder(tt.record)
			var malformed *MalformedNumberError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedNumberError, got %v", err)
			}
			if malformed.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, malformed.Field)
			}
			if malformed.Value != tt.wantValue {
				t.Errorf("expected value %q, got %q", tt.wantValue, malformed.Value)
			}
		})
	}
}

func TestParseOrderNonFinitePrice(t *testing.T) {
	// ParseFloat accepts these spellings, so they must be rejected
	// explicitly
	for _, record := range []string{
		"10100 CITADEL XYZ NaN 500 BUY",
		"10100 CITADEL XYZ Inf 500 BUY",
		"10100 CITADEL XYZ -Inf 500 BUY",
		"10100 CITADEL XYZ +Infinity 500 BUY",
	} {
		_, err := ParseOrder(record)
		if !errors.Is(err, ErrNonFinitePrice) {
			t.Errorf("ParseOrder(%q) error = %v, want ErrNonFinitePrice", record, err)
		}
	}
}

func TestParseOrderInvalidDirection(t *testing.T) {
	_, err := ParseOrder("10100 CITADEL XYZ 100.50 500 HOLD")
	var dirErr *InvalidDirectionError
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected InvalidDirectionError, got %v", err)
	}
	if dirErr.Value != "HOLD" {
		t.Errorf("expected direction HOLD in error, got %q", dirErr.Value)
	}
}

func TestParseOrderValidationApplies(t *testing.T) {
	// Parsed records flow through the same validation as NewOrder
	tests := []struct {
		record  string
		wantErr error
	}{
		{"0 CITADEL XYZ 100.50 500 BUY", ErrInvalidTime},
		{"-1 CITADEL XYZ 100.50 500 BUY", ErrInvalidTime},
		{"10100 CITADEL XYZ -100.50 500 BUY", ErrInvalidPrice},
		{"10100 CITADEL XYZ 0 500 BUY", ErrInvalidPrice},
		{"10100 CITADEL XYZ 100.50 0 BUY", ErrInvalidSize},
		{"10100 CITADEL XYZ 100.50 -500 SELL", ErrInvalidSize},
	}

	for _, tt := range tests {
		_, err := ParseOrder(tt.record)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseOrder(%q) error = %v, want %v", tt.record, err, tt.wantErr)
		}
	}
}

func TestOrderDecreaseSize(t *testing.T) {
	order, err := NewOrder(1, "P", "XYZ", fpdecimal.FromFloat(100.0), 50, Buy)
	if err != nil {
		t.Fatalf("NewOrder returned an error: %v", err)
	}

	order.DecreaseSize(fpdecimal.FromInt(30))
	if !order.Size().Equal(fpdecimal.FromInt(20)) {
		t.Errorf("Expected size 20, got %v", order.Size())
	}
	if !order.OriginalSize().Equal(fpdecimal.FromInt(50)) {
		t.Errorf("Original size must not change, got %v", order.OriginalSize())
	}
	if order.IsFilled() {
		t.Error("Expected partially filled order not to be filled")
	}

	order.DecreaseSize(fpdecimal.FromInt(20))
	if !order.IsFilled() {
		t.Error("Expected order to be filled")
	}
}

func TestOrderJSON(t *testing.T) {
	order, err := NewOrder(10100, "CITADEL", "XYZ", fpdecimal.FromFloat(100.5), 500, Sell)
	if err != nil {
		t.Fatalf("NewOrder returned an error: %v", err)
	}

	data, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("Marshal returned an error: %v", err)
	}

	var decoded Order
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal returned an error: %v", err)
	}

	if decoded.OrderTime() != order.OrderTime() {
		t.Errorf("Expected order time %d, got %d", order.OrderTime(), decoded.OrderTime())
	}
	if decoded.Participant() != order.Participant() {
		t.Errorf("Expected participant %s, got %s", order.Participant(), decoded.Participant())
	}
	if decoded.Security() != order.Security() {
		t.Errorf("Expected security %s, got %s", order.Security(), decoded.Security())
	}
	if !decoded.Price().Equal(order.Price()) {
		t.Errorf("Expected price %v, got %v", order.Price(), decoded.Price())
	}
	if !decoded.Size().Equal(order.Size()) {
		t.Errorf("Expected size %v, got %v", order.Size(), decoded.Size())
	}
	if decoded.Side() != Sell {
		t.Errorf("Expected side Sell, got %v", decoded.Side())
	}
}
