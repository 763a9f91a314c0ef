package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide parses the wire-level direction token. The match is
// case-sensitive and exact.
func ParseSide(token string) (Side, error) {
	switch token {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, &InvalidDirectionError{Value: token}
	}
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// recordFields lists the six fields of the wire record, in record order.
// The index of the first absent field is what FieldMissingError reports.
var recordFields = [...]string{
	"order_time",
	"participant_code",
	"security_name",
	"price",
	"size",
	"direction",
}

// Order stores information about a single validated order. Fields are fixed
// at construction; only size changes, and only through fills applied by the
// book engine.
type Order struct {
	orderTime    int64
	participant  string
	security     string
	price        fpdecimal.Decimal
	size         fpdecimal.Decimal
	originalSize fpdecimal.Decimal
	side         Side
}

// NewOrder creates a new validated Order. NaN and infinity cannot reach this
// constructor because fpdecimal.Decimal has no encoding for them, which is
// what lets the book compare prices without a partial-order escape hatch.
func NewOrder(orderTime int64, participant, security string, price fpdecimal.Decimal, size int64, side Side) (*Order, error) {
	if orderTime <= 0 {
		return nil, ErrInvalidTime
	}

	if participant == "" {
		return nil, ErrInvalidParticipant
	}

	if security == "" {
		return nil, ErrInvalidSecurity
	}

	if price.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidPrice
	}

	if size <= 0 {
		return nil, ErrInvalidSize
	}

	if side != Buy && side != Sell {
		return nil, ErrInvalidSide
	}

	qty := fpdecimal.FromInt(size)

	return &Order{
		orderTime:    orderTime,
		participant:  participant,
		security:     security,
		price:        price,
		size:         qty,
		originalSize: qty,
		side:         side,
	}, nil
}

// ParseOrder builds an Order from one whitespace-separated wire record:
//
//	<order_time:int> <participant_code> <security_name> <price:decimal> <size:int> <direction:BUY|SELL>
//
// Fields are split on arbitrary whitespace runs and tokens past the sixth
// are ignored. Construction is pure: a malformed record produces a typed
// error and nothing else.
func ParseOrder(record string) (*Order, error) {
	fields := strings.Fields(record)
	if len(fields) < len(recordFields) {
		return nil, &FieldMissingError{Field: recordFields[len(fields)]}
	}

	orderTime, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, &MalformedNumberError{Field: "order_time", Value: fields[0]}
	}

	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return nil, &MalformedNumberError{Field: "price", Value: fields[3]}
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, ErrNonFinitePrice
	}

	size, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &MalformedNumberError{Field: "size", Value: fields[4]}
	}

	side, err := ParseSide(fields[5])
	if err != nil {
		return nil, err
	}

	return NewOrder(orderTime, fields[1], fields[2], fpdecimal.FromFloat(price), size, side)
}

// OrderTime returns the caller-supplied arrival time
func (o *Order) OrderTime() int64 {
	return o.orderTime
}

// Participant returns the submitting party's code
func (o *Order) Participant() string {
	return o.participant
}

// Security returns the traded instrument's name
func (o *Order) Security() string {
	return o.security
}

// Price returns Price field copy
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Size returns the remaining unfilled size
func (o *Order) Size() fpdecimal.Decimal {
	return o.size
}

// OriginalSize returns the size the order was submitted with
func (o *Order) OriginalSize() fpdecimal.Decimal {
	return o.originalSize
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// Key returns the order's priority key within its side
func (o *Order) Key() OrderKey {
	return OrderKey{Price: o.price, Time: o.orderTime}
}

// IsFilled reports whether the remaining size has reached zero
func (o *Order) IsFilled() bool {
	return o.size.Equal(fpdecimal.Zero)
}

// DecreaseSize reduces the remaining size by a fill. Called only by the book
// engine while applying a trade.
func (o *Order) DecreaseSize(qty fpdecimal.Decimal) {
	o.size = o.size.Sub(qty)
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	type OrderJSON struct {
		OrderTime    int64  `json:"orderTime"`
		Participant  string `json:"participant"`
		Security     string `json:"security"`
		Price        string `json:"price"`
		Size         string `json:"size"`
		OriginalSize string `json:"originalSize"`
		Side         Side   `json:"side"`
	}

	return json.Marshal(OrderJSON{
		OrderTime:    o.orderTime,
		Participant:  o.participant,
		Security:     o.security,
		Price:        o.price.String(),
		Size:         o.size.String(),
		OriginalSize: o.originalSize.String(),
		Side:         o.side,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Order
func (o *Order) UnmarshalJSON(data []byte) error {
	type OrderJSON struct {
		OrderTime    int64  `json:"orderTime"`
		Participant  string `json:"participant"`
		Security     string `json:"security"`
		Price        string `json:"price"`
		Size         string `json:"size"`
		OriginalSize string `json:"originalSize"`
		Side         Side   `json:"side"`
	}

	var orderJSON OrderJSON
	if err := json.Unmarshal(data, &orderJSON); err != nil {
		return err
	}

	var err error

	o.orderTime = orderJSON.OrderTime
	o.participant = orderJSON.Participant
	o.security = orderJSON.Security

	o.price, err = fpdecimal.FromString(orderJSON.Price)
	if err != nil {
		o.price = fpdecimal.Zero
	}

	o.size, err = fpdecimal.FromString(orderJSON.Size)
	if err != nil {
		o.size = fpdecimal.Zero
	}

	o.originalSize, err = fpdecimal.FromString(orderJSON.OriginalSize)
	if err != nil {
		o.originalSize = fpdecimal.Zero
	}

	o.side = orderJSON.Side

	return nil
}

// String implements Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
