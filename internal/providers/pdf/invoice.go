package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type InvoiceData struct {
	OrgName       string
	OrgAddress    string
	OrgEmail      string
	OrgTaxID      string
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	PeriodLabel   string
	MachineCount  int
	PaymentCount  int64
	Total         string
	AmountPaid    string
	AmountDue     string
	Status        string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "Vendora", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "TAX INVOICE", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Invoice number: "+data.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+data.IssueDate, props.Text{Top: 5}),
			text.New("Due date: "+data.DueDate, props.Text{Top: 10}),
			text.New("Billing period: "+data.PeriodLabel, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(data.OrgName, props.Text{Top: 5}),
			text.New(data.OrgAddress, props.Text{Top: 10}),
			text.New(data.OrgEmail, props.Text{Top: 15}),
		),
	)

	if data.OrgTaxID != "" {
		m.AddRow(6,
			text.NewCol(12, "Tax ID: "+data.OrgTaxID, props.Text{Size: 9}),
		)
	}

	m.AddRow(4, line.NewCol(12))

	m.AddRow(8,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(8, collectionLine(data)),
		text.NewCol(4, data.Total, props.Text{Align: align.Right}),
	)

	m.AddRow(4, line.NewCol(12))

	m.AddRow(8,
		text.NewCol(8, "Total", props.Text{Style: fontstyle.Bold}),
		text.NewCol(4, data.Total, props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "Amount paid"),
		text.NewCol(4, data.AmountPaid, props.Text{Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "Amount due", props.Text{Style: fontstyle.Bold}),
		text.NewCol(4, data.AmountDue, props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func collectionLine(data InvoiceData) string {
	if data.PaymentCount == 0 {
		return "No billable machine collections in period"
	}
	return "Machine collections for period"
}
