// Package whatsapp renders payment reminder messages and wa.me links. It
// never sends anything: the committee member clicks the link and WhatsApp
// Web opens with the text pre-filled.
package whatsapp

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
)

// MessageKind selects which template fits a tenant's payment standing.
type MessageKind string

const (
	KindReminder    MessageKind = "payment_reminder"
	KindReceived    MessageKind = "payment_received"
	KindPartial     MessageKind = "partial_payment"
	KindOverpayment MessageKind = "overpayment"
)

var kindTolerance = decimal.NewFromInt(1)

// KindFor picks the message kind for a paid-vs-expected pair using the same
// one-shekel tolerance as the reconciler.
func KindFor(paid, expected decimal.Decimal) MessageKind {
	switch {
	case paid.IsZero():
		return KindReminder
	case paid.LessThan(expected.Sub(kindTolerance)):
		return KindPartial
	case paid.GreaterThan(expected.Add(kindTolerance)):
		return KindOverpayment
	default:
		return KindReceived
	}
}

// ReminderParams carries the values substituted into a template.
type ReminderParams struct {
	TenantName      string
	BuildingName    string
	ApartmentNumber int
	Expected        decimal.Decimal
	Paid            decimal.Decimal
	Period          string
	Language        domain.Language
}

// Render produces the message text for the given kind, falling back to
// Hebrew when the language has no templates.
func Render(kind MessageKind, p ReminderParams) string {
	byKind, ok := templates[p.Language]
	if !ok {
		byKind = templates[domain.LanguageHebrew]
	}
	tmpl := byKind[kind]

	r := strings.NewReplacer(
		"{tenant_name}", p.TenantName,
		"{building_name}", p.BuildingName,
		"{apartment_number}", strconv.Itoa(p.ApartmentNumber),
		"{amount}", shekels(p.Expected),
		"{paid_amount}", shekels(p.Paid),
		"{expected_amount}", shekels(p.Expected),
		"{remaining}", shekels(p.Expected.Sub(p.Paid)),
		"{overpayment}", shekels(p.Paid.Sub(p.Expected)),
		"{period}", p.Period,
	)
	return r.Replace(tmpl)
}

// Link builds a wa.me URL that opens WhatsApp with the message pre-filled.
func Link(phone, message string) string {
	return "https://wa.me/" + digitsOnly(phone) + "?text=" + url.QueryEscape(message)
}

// ValidatePhone accepts Israeli numbers in international format.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return false
	}
	if !strings.HasPrefix(phone, "+972") && !strings.HasPrefix(phone, "972") {
		return false
	}
	return len(digitsOnly(phone)) >= 9
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// shekels renders an amount to whole shekels, matching how committees quote
// monthly fees.
func shekels(d decimal.Decimal) string {
	return d.Round(0).String()
}
