package domain

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "new"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCanceled       OrderStatus = "canceled"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusFailed         OrderStatus = "failed"
)

// IsValid checks if the order status is one the API may emit.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
		OrderStatusCompleted,
		OrderStatusCanceled,
		OrderStatusPendingPayment,
		OrderStatusPaid,
		OrderStatusFailed:
		return true
	default:
		return false
	}
}

// LabelHe returns the Hebrew display label for the status.
func (s OrderStatus) LabelHe() string {
	switch s {
	case OrderStatusNew:
		return "חדש"
	case OrderStatusPreparing:
		return "בהכנה"
	case OrderStatusOutForDelivery:
		return "בדרך"
	case OrderStatusCompleted:
		return "הושלם"
	case OrderStatusCanceled:
		return "בוטל"
	case OrderStatusPendingPayment:
		return "ממתין לתשלום"
	case OrderStatusPaid:
		return "שולם"
	case OrderStatusFailed:
		return "נכשל"
	default:
		return string(s)
	}
}

// ShippingMethod is how the order leaves the restaurant.
type ShippingMethod string

const (
	ShippingDelivery ShippingMethod = "delivery"
	ShippingPickup   ShippingMethod = "pickup"
)

func (m ShippingMethod) IsValid() bool {
	return m == ShippingDelivery || m == ShippingPickup
}

// LabelHe returns the Hebrew wording used on receipts.
func (m ShippingMethod) LabelHe() string {
	switch m {
	case ShippingDelivery:
		return "משלוח"
	case ShippingPickup:
		return "איסוף עצמי"
	default:
		return string(m)
	}
}

// LabelAr returns the Arabic wording used on receipts.
func (m ShippingMethod) LabelAr() string {
	switch m {
	case ShippingDelivery:
		return "توصيل"
	case ShippingPickup:
		return "استلام ذاتي"
	default:
		return string(m)
	}
}

// PaymentMethod is how the order was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard
}

func (m PaymentMethod) LabelHe() string {
	switch m {
	case PaymentCash:
		return "מזומן"
	case PaymentCard:
		return "אשראי"
	default:
		return string(m)
	}
}

func (m PaymentMethod) LabelAr() string {
	switch m {
	case PaymentCash:
		return "نقداً"
	case PaymentCard:
		return "بطاقة"
	default:
		return string(m)
	}
}
