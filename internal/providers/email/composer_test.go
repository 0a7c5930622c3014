package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testComposeData() ComposeData {
	return ComposeData{
		OrgName:       "Acme Vending",
		InvoiceNumber: "INV-000042",
		PeriodLabel:   "01 Jul 2025 to 31 Jul 2025",
		AmountDue:     "₹100.00",
		DueDate:       "31 Aug 2025",
		PaymentCount:  12,
	}
}

func TestRender_Subjects(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	cases := []struct {
		kind    Kind
		subject string
	}{
		{KindInvoice, "Invoice INV-000042 from Vendora"},
		{KindStatement, "Statement INV-000042 from Vendora"},
		{KindReminder, "Reminder: invoice INV-000042"},
		{KindPaymentConfirmation, "Payment received for invoice INV-000042"},
	}
	for _, tc := range cases {
		subject, html, err := c.Render(tc.kind, testComposeData())
		require.NoError(t, err, string(tc.kind))
		require.Equal(t, tc.subject, subject)
		require.NotEmpty(t, html)
		require.Contains(t, html, "Acme Vending")
	}
}

func TestRender_OverdueReminder(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	data := testComposeData()
	data.DaysOverdue = 9

	subject, html, err := c.Render(KindReminder, data)
	require.NoError(t, err)
	require.Equal(t, "Overdue: invoice INV-000042", subject)
	require.Contains(t, html, "INV-000042")
}

func TestRender_UnknownKind(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	_, _, err = c.Render(Kind("newsletter"), testComposeData())
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestRender_EscapesHTML(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	data := testComposeData()
	data.OrgName = `<script>alert("x")</script>`

	_, html, err := c.Render(KindInvoice, data)
	require.NoError(t, err)
	require.False(t, strings.Contains(html, "<script>"))
}
