package core

import (
	"encoding/json"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestOrderKeyOutranks(t *testing.T) {
	key := func(price float64, time int64) OrderKey {
		return OrderKey{Price: fpdecimal.FromFloat(price), Time: time}
	}

	tests := []struct {
		name string
		a, b OrderKey
		side Side
		want bool
	}{
		{"BuyHigherPriceWins", key(101, 5), key(100, 1), Buy, true},
		{"BuyLowerPriceLoses", key(100, 1), key(101, 5), Buy, false},
		{"SellLowerPriceWins", key(100, 5), key(101, 1), Sell, true},
		{"SellHigherPriceLoses", key(101, 1), key(100, 5), Sell, false},
		{"SamePriceEarlierTimeWinsBuy", key(100, 1), key(100, 2), Buy, true},
		{"SamePriceLaterTimeLosesBuy", key(100, 2), key(100, 1), Buy, false},
		{"SamePriceEarlierTimeWinsSell", key(100, 1), key(100, 2), Sell, true},
		{"EqualKeysNeitherOutranks", key(100, 1), key(100, 1), Buy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Outranks(tt.b, tt.side); got != tt.want {
				t.Errorf("Outranks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTradeMarshalJSON(t *testing.T) {
	trade := Trade{
		Price:       fpdecimal.FromFloat(100.5),
		Quantity:    fpdecimal.FromInt(30),
		BuyOrderID:  1,
		SellOrderID: 2,
		Time:        10100,
	}

	data, err := json.Marshal(&trade)
	if err != nil {
		t.Fatalf("Marshal returned an error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal returned an error: %v", err)
	}

	if decoded["price"] != "100.5" {
		t.Errorf("Expected price %q, got %v", "100.5", decoded["price"])
	}
	if decoded["quantity"] != "30" {
		t.Errorf("Expected quantity %q, got %v", "30", decoded["quantity"])
	}
	if decoded["buyOrderID"] != float64(1) {
		t.Errorf("Expected buyOrderID 1, got %v", decoded["buyOrderID"])
	}
	if decoded["time"] != float64(10100) {
		t.Errorf("Expected time 10100, got %v", decoded["time"])
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   fpdecimal.Decimal
		want string
	}{
		{fpdecimal.FromInt(50), "50.000"},
		{fpdecimal.FromFloat(50.5), "50.500"},
		{fpdecimal.FromFloat(100.125), "100.125"},
	}

	for _, tt := range tests {
		if got := formatDecimal(tt.in); got != tt.want {
			t.Errorf("formatDecimal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertTrades(t *testing.T) {
	trades := []Trade{
		{
			Price:       fpdecimal.FromFloat(100.5),
			Quantity:    fpdecimal.FromInt(30),
			BuyOrderID:  7,
			SellOrderID: 9,
			Time:        10100,
		},
	}

	converted := convertTrades(trades)
	if len(converted) != 1 {
		t.Fatalf("Expected 1 converted trade, got %d", len(converted))
	}
	if converted[0].Price != "100.500" {
		t.Errorf("Expected price 100.500, got %s", converted[0].Price)
	}
	if converted[0].Quantity != "30.000" {
		t.Errorf("Expected quantity 30.000, got %s", converted[0].Quantity)
	}
	if converted[0].BuyOrderID != 7 || converted[0].SellOrderID != 9 {
		t.Errorf("Unexpected ids (%d, %d)", converted[0].BuyOrderID, converted[0].SellOrderID)
	}
	if converted[0].Time != 10100 {
		t.Errorf("Expected time 10100, got %d", converted[0].Time)
	}
}
