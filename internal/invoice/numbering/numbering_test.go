package numbering

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendora/vendora/internal/invoice/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.InvoiceSequence{}))
	return db
}

func TestNext_CreatesSeedRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	number, err := Next(ctx, db)
	require.NoError(t, err)
	require.Equal(t, "INV-000001", number)

	var seq domain.InvoiceSequence
	require.NoError(t, db.First(&seq, 1).Error)
	require.EqualValues(t, 1, seq.NextValue)
}

func TestNext_Monotonic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		number, err := Next(ctx, db)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("INV-%06d", i), number)
	}
}

func TestNext_ResumesFromExistingCounter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.InvoiceSequence{ID: 1, NextValue: 41}).Error)

	number, err := Next(ctx, db)
	require.NoError(t, err)
	require.Equal(t, "INV-000042", number)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "INV-000007", Format(7))
	require.Equal(t, "INV-123456", Format(123456))
	require.Equal(t, "INV-1234567", Format(1234567))
}
