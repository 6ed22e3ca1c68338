package whatsapp

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Templates holds the configurable message bodies. Placeholders:
// {nome}, {valor}, {vencimento}, {dias}, {pix}.
type Templates struct {
	Reminder            string // sent N days before the due date
	DueToday            string
	Overdue             string
	PaymentConfirmation string // student -> teacher proof-of-payment message
}

// DefaultTemplates returns the stock pt-BR message bodies.
func DefaultTemplates() Templates {
	return Templates{
		Reminder:            "Olá {nome}, tudo bem? Sua mensalidade de {valor} vence em {vencimento}. Me manda o comprovante por aqui, por favor. Obrigado!\n\nPIX: {pix}",
		DueToday:            "Olá {nome}, tudo bem? Sua mensalidade de {valor} vence hoje ({vencimento}). Me manda o comprovante por aqui, por favor. Obrigado!\n\nPIX: {pix}",
		Overdue:             "Olá {nome}, tudo bem? Sua mensalidade de {valor} venceu em {vencimento} e está {dias}. Me manda o comprovante por aqui, por favor. Obrigado!\n\nPIX: {pix}",
		PaymentConfirmation: "Olá Professor, aqui é {nome}. Estou enviando o comprovante da mensalidade de {valor}, com vencimento em {vencimento}. Obrigado!",
	}
}

// MessageData carries the values substituted into a template.
type MessageData struct {
	Name          string
	Amount        decimal.Decimal
	DueDate       time.Time
	RemainingText string
	PixKey        string
}

// Render substitutes the named placeholders of tpl with the formatted
// values from data. Unknown placeholders are left untouched.
func Render(tpl string, data MessageData) string {
	r := strings.NewReplacer(
		"{nome}", data.Name,
		"{valor}", FormatBRL(data.Amount),
		"{vencimento}", FormatDate(data.DueDate),
		"{dias}", data.RemainingText,
		"{pix}", data.PixKey,
	)
	return r.Replace(tpl)
}

// FormatBRL formats an amount as Brazilian Real currency, e.g.
// "R$ 1.234,56": two decimals, comma decimal separator, dot thousands
// separator.
func FormatBRL(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatDate formats a date in day/month/year order, e.g. "25/01/2024".
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
