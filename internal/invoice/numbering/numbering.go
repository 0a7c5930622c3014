// Package numbering issues sequential invoice numbers from a single-row
// counter table.
package numbering

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/invoice/domain"
)

const sequenceRowID = 1

// Next increments the counter and formats the invoice number. Run it
// inside the transaction that inserts the invoice: the increment is a
// single UPDATE, so concurrent transactions serialize on the row and
// never observe the same value.
func Next(ctx context.Context, tx *gorm.DB) (string, error) {
	res := tx.WithContext(ctx).
		Model(&domain.InvoiceSequence{}).
		Where("id = ?", sequenceRowID).
		UpdateColumn("next_value", gorm.Expr("next_value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		seq := domain.InvoiceSequence{ID: sequenceRowID, NextValue: 1}
		if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
			return "", err
		}
		return Format(seq.NextValue), nil
	}

	var seq domain.InvoiceSequence
	if err := tx.WithContext(ctx).First(&seq, sequenceRowID).Error; err != nil {
		return "", err
	}
	return Format(seq.NextValue), nil
}

// Format renders a counter value as an invoice number.
func Format(value int64) string {
	return fmt.Sprintf("INV-%06d", value)
}
