package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind selects which notification to render.
type Kind string

const (
	KindInvoice             Kind = "invoice"
	KindStatement           Kind = "statement"
	KindReminder            Kind = "reminder"
	KindPaymentConfirmation Kind = "payment_confirmation"
)

var ErrUnknownKind = errors.New("unknown_notification_kind")

// ComposeData carries the rendered strings for every template; unused
// fields are ignored by the template that does not reference them.
type ComposeData struct {
	OrgName       string
	InvoiceNumber string
	PeriodLabel   string
	AmountDue     string
	PaymentAmount string
	DueDate       string
	PaymentCount  int64
	DaysOverdue   int
	Overdue       bool
	Settled       bool
}

type Composer struct {
	templates *template.Template
}

func NewComposer() (*Composer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Composer{templates: t}, nil
}

func (c *Composer) Render(kind Kind, data ComposeData) (subject string, html string, err error) {
	var name string
	switch kind {
	case KindInvoice:
		name = "invoice.html"
		subject = fmt.Sprintf("Invoice %s from Vendora", data.InvoiceNumber)
	case KindStatement:
		name = "statement.html"
		subject = fmt.Sprintf("Statement %s from Vendora", data.InvoiceNumber)
	case KindReminder:
		name = "reminder.html"
		if data.DaysOverdue > 0 {
			data.Overdue = true
			subject = fmt.Sprintf("Overdue: invoice %s", data.InvoiceNumber)
		} else {
			subject = fmt.Sprintf("Reminder: invoice %s", data.InvoiceNumber)
		}
	case KindPaymentConfirmation:
		name = "payment_confirmation.html"
		subject = fmt.Sprintf("Payment received for invoice %s", data.InvoiceNumber)
	default:
		return "", "", ErrUnknownKind
	}

	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
