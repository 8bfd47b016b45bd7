package receipt

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
)

// Formatter renders an order and the restaurant branding into the flat line
// sequence a thermal printer consumes. Format is pure: identical inputs give
// identical output, and the formatter never touches the transport.
type Formatter struct {
	width  int
	shaper Shaper
	logger *zap.Logger
}

// NewFormatter creates a formatter for the given paper width (32 or 48
// columns). A nil logger is replaced with a no-op one.
func NewFormatter(width int, shaper Shaper, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shaper == nil {
		shaper = NewShaper(PolicyReverseHebrew)
	}
	return &Formatter{width: width, shaper: shaper, logger: logger}
}

// Width returns the configured paper width in columns.
func (f *Formatter) Width() int { return f.width }

// Format renders the receipt. Lines are returned pre-segmented and unwrapped;
// wrapping, alignment and feeding belong to the print-session writer.
func (f *Formatter) Format(order domain.Order, branding domain.BrandingConfig) []string {
	if mismatch := order.Subtotal + order.DeliveryFee - order.Total; math.Abs(mismatch) > 0.005 {
		f.logger.Warn("Order totals do not add up, printing upstream values",
			zap.Int64("order_id", order.ID),
			zap.Float64("subtotal", order.Subtotal),
			zap.Float64("delivery_fee", order.DeliveryFee),
			zap.Float64("total", order.Total))
	}

	var lines []string
	add := func(line string) {
		lines = append(lines, f.shaper.Shape(line)...)
	}
	raw := func(line string) {
		lines = append(lines, line)
	}

	// Branding header
	if branding.LogoURL != "" {
		raw("[LOGO]")
	}
	add(branding.Name)
	if branding.NameAr != "" {
		add(branding.NameAr)
	}
	if branding.Address != "" {
		add(branding.Address)
	}
	if branding.Phone != "" {
		add(branding.Phone)
	}

	raw(f.divider('='))
	add(fmt.Sprintf("הזמנה / طلب #%d", order.ID))
	if !order.CreatedAt.IsZero() {
		raw(LRM + order.CreatedAt.Format("02/01/2006 15:04") + LRM)
	}
	raw(f.divider('='))

	// Customer
	add("לקוח: " + order.CustomerName)
	if order.CustomerPhone != "" {
		add("טלפון: " + order.CustomerPhone)
	}
	if order.CustomerAddress != "" {
		add("כתובת: " + order.CustomerAddress)
	}
	if order.ShippingMethod == domain.ShippingDelivery && order.DeliveryZone != nil {
		add(fmt.Sprintf("אזור: %s / %s", order.DeliveryZone.NameHe, order.DeliveryZone.NameAr))
	}
	raw(f.divider('='))

	// Items
	for i, item := range order.Items {
		if i > 0 {
			raw(f.divider('-'))
		}
		add(fmt.Sprintf("%dx %s", item.Qty, item.Name))
		for _, group := range item.Options.Choices {
			if group.Group == "" && len(group.Items) == 0 {
				continue
			}
			names := make([]string, 0, len(group.Items))
			for _, choice := range group.Items {
				names = append(names, choice.Name)
			}
			add(fmt.Sprintf("  %s: %s", group.Group, strings.Join(names, ", ")))
		}
		if item.Options.Note != "" {
			add("  הערה: " + item.Options.Note)
		}
		add("  " + f.money(item.Total))
	}
	raw(f.divider('='))

	// Totals
	add("סכום ביניים / المجموع الفرعي: " + f.money(order.Subtotal))
	if order.DeliveryFee > 0 {
		add("דמי משלוח / رسوم التوصيل: " + f.money(order.DeliveryFee))
	}
	add("סה\"כ / المجموع: " + f.money(order.Total))
	raw(f.divider('='))

	if order.Notes != "" {
		add("הערות:")
		add(order.Notes)
	}
	if order.PaymentMethod.IsValid() {
		add(fmt.Sprintf("אמצעי תשלום / طريقة الدفع: %s / %s",
			order.PaymentMethod.LabelHe(), order.PaymentMethod.LabelAr()))
	}
	if order.ShippingMethod.IsValid() {
		add(fmt.Sprintf("אופן משלוח / طريقة التسليم: %s / %s",
			order.ShippingMethod.LabelHe(), order.ShippingMethod.LabelAr()))
	}

	// Footer: configured pair wins, then whichever is present, then default.
	switch {
	case branding.Footer != "" && branding.FooterAr != "":
		add(branding.Footer)
		add(branding.FooterAr)
	case branding.Footer != "":
		add(branding.Footer)
	case branding.FooterAr != "":
		add(branding.FooterAr)
	default:
		def := domain.DefaultBranding()
		add(def.Footer)
		add(def.FooterAr)
	}

	// Paper-cut clearance
	raw("")
	raw("")
	raw("")

	return lines
}

// money renders a currency value with exactly two decimals and the shekel
// glyph. The digits form an LTR run, so they survive line reversal intact.
func (f *Formatter) money(v float64) string {
	return fmt.Sprintf("%.2f ₪", v)
}

func (f *Formatter) divider(c byte) string {
	return strings.Repeat(string(c), f.width)
}
