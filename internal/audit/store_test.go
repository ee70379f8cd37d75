package audit

import (
	"context"
	"testing"

	"github.com/denifrahman/deni-crm/internal/db"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStore_RecordAndListRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{
		Op:         "stage_move",
		RecordKind: domain.KindDeal,
		RecordID:   7,
		Stage:      "negotiation",
		PriorStage: "qualified",
		Success:    true,
	}))
	require.NoError(t, s.Record(ctx, Entry{
		Op:         "stage_move",
		RecordKind: domain.KindDeal,
		RecordID:   7,
		Stage:      "won",
		PriorStage: "negotiation",
		Success:    false,
		Error:      "upstream status 500",
	}))

	entries, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first.
	assert.Equal(t, "won", entries[0].Stage)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "upstream status 500", entries[0].Error)
	assert.False(t, entries[0].CreatedAt.IsZero())

	assert.Equal(t, "negotiation", entries[1].Stage)
	assert.True(t, entries[1].Success)
	assert.Empty(t, entries[1].Error)
}

func TestStore_ListRecentHonorsLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Entry{
			Op:         "save",
			RecordKind: domain.KindProduct,
			RecordID:   int64(i),
			Success:    true,
		}))
	}

	entries, err := s.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int64(4), entries[0].RecordID)
}

func TestStore_EmptyList(t *testing.T) {
	s := testStore(t)

	entries, err := s.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
