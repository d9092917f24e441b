package state_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3ingest/internal/state"
)

func TestShouldProcessNewFile(t *testing.T) {
	store := state.NewMemStore()

	ok, err := state.ShouldProcess(context.Background(), store, "file-001", "2024-10-01T00:00:00Z")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestShouldProcessTimestampComparison(t *testing.T) {
	store := state.NewMemStore()

	err := store.Put(context.Background(), &state.Entry{
		FileID:       "file-001",
		FileName:     "NH_Ownership_Oct2024.csv",
		ModifiedTime: "2024-10-01T00:00:00Z",
	})
	require.NoError(t, err)

	cases := []struct {
		candidate string
		want      bool
	}{
		{"2024-10-01T00:00:01Z", true},  // strictly newer
		{"2024-10-01T00:00:00Z", false}, // equal
		{"2024-09-30T23:59:59Z", false}, // older
	}

	for _, c := range cases {
		ok, err := state.ShouldProcess(context.Background(), store, "file-001", c.candidate)
		require.NoError(t, err)
		require.Equal(t, c.want, ok, c.candidate)
	}
}

func TestShouldProcessMissingStoredTimestamp(t *testing.T) {
	store := state.NewMemStore()

	err := store.Put(context.Background(), &state.Entry{
		FileID:   "file-001",
		FileName: "NH_Ownership_Oct2024.csv",
	})
	require.NoError(t, err)

	// unknown prior state: conservative bias toward re-processing
	ok, err := state.ShouldProcess(context.Background(), store, "file-001", "2020-01-01T00:00:00Z")
	require.NoError(t, err)
	require.True(t, ok)
}

type failGetStore struct {
	*state.MemStore
}

func (fg *failGetStore) Get(ctx context.Context, fileID string) (*state.Entry, error) {
	return nil, errors.New("backend unavailable")
}

func TestShouldProcessStoreError(t *testing.T) {
	store := &failGetStore{state.NewMemStore()}

	_, err := state.ShouldProcess(context.Background(), store, "file-001", "2024-10-01T00:00:00Z")
	require.Error(t, err)
}

func TestTimestampOrderingMatchesTimeOrdering(t *testing.T) {
	base := time.Date(2024, 10, 1, 12, 30, 0, 0, time.UTC)

	earlier := state.Timestamp(base)
	later := state.Timestamp(base.Add(time.Second))

	require.True(t, earlier < later)

	// a non-utc zone serializes to the same instant in utc form
	loc := time.FixedZone("plus10", 10*3600)
	require.Equal(t, earlier, state.Timestamp(base.In(loc)))
}
