package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/Fred49680/PDC-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTransferRepo(testutil.NewTestDB(t), nil)
	ctx := context.Background()

	tr := testutil.NewTestTransfer("R1", "LYO", "NTS", "2025-03-03", "2025-03-14")
	require.NoError(t, repo.Create(ctx, tr))

	got, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "LYO", got.OriginSite)
	assert.Equal(t, "NTS", got.DestinationSite)
	assert.Equal(t, domain.TransferPlanned, got.Status)
}

func TestTransferRepo_ListByTriple(t *testing.T) {
	repo := NewSQLiteTransferRepo(testutil.NewTestDB(t), nil)
	ctx := context.Background()

	second := testutil.NewTestTransfer("R1", "LYO", "NTS", "2025-04-07", "2025-04-11")
	first := testutil.NewTestTransfer("R1", "LYO", "NTS", "2025-03-03", "2025-03-07")
	reverse := testutil.NewTestTransfer("R1", "NTS", "LYO", "2025-03-03", "2025-03-07")
	otherRes := testutil.NewTestTransfer("R2", "LYO", "NTS", "2025-03-03", "2025-03-07")
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, reverse))
	require.NoError(t, repo.Create(ctx, otherRes))

	got, err := repo.ListByTriple(ctx, "R1", "LYO", "NTS")
	require.NoError(t, err)
	require.Len(t, got, 2, "the reverse direction is a different triple")
	assert.Equal(t, first.ID, got[0].ID, "ascending by start date")
	assert.Equal(t, second.ID, got[1].ID)
}

func TestTransferRepo_UpdateGrowsWindow(t *testing.T) {
	repo := NewSQLiteTransferRepo(testutil.NewTestDB(t), nil)
	ctx := context.Background()

	tr := testutil.NewTestTransfer("R1", "LYO", "NTS", "2025-03-03", "2025-03-07")
	require.NoError(t, repo.Create(ctx, tr))

	tr.DateEnd = testutil.MustDate("2025-03-14")
	tr.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, tr))

	got, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Day(testutil.MustDate("2025-03-14")), got.DateEnd)
}

func TestTransferRepo_ListPlannedDue(t *testing.T) {
	repo := NewSQLiteTransferRepo(testutil.NewTestDB(t), nil)
	ctx := context.Background()

	due := testutil.NewTestTransfer("R1", "LYO", "NTS", "2025-03-03", "2025-03-07")
	future := testutil.NewTestTransfer("R2", "LYO", "NTS", "2025-06-02", "2025-06-06")
	applied := testutil.NewTestTransfer("R3", "LYO", "NTS", "2025-03-03", "2025-03-07",
		testutil.WithTransferStatus(domain.TransferApplied))
	require.NoError(t, repo.Create(ctx, due))
	require.NoError(t, repo.Create(ctx, future))
	require.NoError(t, repo.Create(ctx, applied))

	got, err := repo.ListPlannedDue(ctx, testutil.MustDate("2025-03-10"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}
