package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Order represents an order as delivered by the remote order-management API.
type Order struct {
	ID              int64          `json:"id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address,omitempty"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	DeliveryZone    *DeliveryZone  `json:"delivery_zone,omitempty"`
	Subtotal        float64        `json:"subtotal"`
	DeliveryFee     float64        `json:"delivery_fee"`
	Total           float64        `json:"total"`
	Status          OrderStatus    `json:"status"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       Timestamp      `json:"created_at"`
	Items           []OrderItem    `json:"items"`
}

// DeliveryZone carries the bilingual zone names attached to delivery orders.
type DeliveryZone struct {
	NameHe string `json:"name_he"`
	NameAr string `json:"name_ar"`
}

// OrderItem is a single line on an order.
type OrderItem struct {
	Name      string      `json:"name"`
	Qty       int         `json:"qty"`
	UnitPrice float64     `json:"unit_price"`
	Total     float64     `json:"total"`
	Options   ItemOptions `json:"options,omitempty"`
}

// ChoiceItem is one chosen sub-item inside a choice group.
type ChoiceItem struct {
	Name string `json:"name"`
}

// ChoiceGroup is a named group of chosen sub-items ("Toppings: olives, corn").
type ChoiceGroup struct {
	Group string       `json:"group"`
	Items []ChoiceItem `json:"items"`
}

// ItemOptions holds the option groups and free-text note of an item. The API
// serializes it either as a single object or, in an older format, as an array
// of such objects; both shapes are accepted. A malformed payload leaves the
// options empty rather than failing the whole order.
type ItemOptions struct {
	Choices []ChoiceGroup `json:"choices,omitempty"`
	Note    string        `json:"note,omitempty"`
}

type itemOptionsWire struct {
	Choices []ChoiceGroup `json:"choices"`
	Note    string        `json:"note"`
}

func (o *ItemOptions) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var single itemOptionsWire
	if err := json.Unmarshal(data, &single); err == nil {
		o.Choices = single.Choices
		o.Note = single.Note
		return nil
	}

	var many []itemOptionsWire
	if err := json.Unmarshal(data, &many); err == nil {
		for _, w := range many {
			o.Choices = append(o.Choices, w.Choices...)
			if w.Note != "" {
				if o.Note != "" {
					o.Note += "; "
				}
				o.Note += w.Note
			}
		}
		return nil
	}

	// Unknown shape: drop the options, keep the order printable.
	return nil
}

// Empty reports whether the options carry nothing printable.
func (o ItemOptions) Empty() bool {
	return len(o.Choices) == 0 && o.Note == ""
}

// Timestamp accepts the timestamp formats the API has been seen to emit.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Keep the zero time instead of rejecting the order.
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
