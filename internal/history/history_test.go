// history_test.go covers the append-only run archive.
package history

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	store := openStore(t)

	for i := 0; i < 3; i++ {
		run := &Run{StartedAt: time.Now(), CorpusPath: "tests/"}
		require.NoError(t, store.Append(run))
		assert.Equal(t, uint64(i+1), run.ID)
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	store := openStore(t)

	paths := []string{"first.json", "second.json", "third.json"}
	for _, p := range paths {
		require.NoError(t, store.Append(&Run{
			StartedAt:  time.Now(),
			CorpusPath: p,
			Tools:      []string{"geth"},
			Tests:      []string{p + "@t"},
			Cells:      [][]string{{"1.234"}},
		}))
	}

	runs, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third.json", runs[0].CorpusPath)
	assert.Equal(t, "second.json", runs[1].CorpusPath)
	assert.Equal(t, [][]string{{"1.234"}}, runs[0].Cells)
}

func TestRecentOnEmptyStore(t *testing.T) {
	store := openStore(t)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecentWarnsOnCorruptRecord(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Append(&Run{StartedAt: time.Now(), CorpusPath: "a.json"}))
	require.NoError(t, store.Append(&Run{StartedAt: time.Now(), CorpusPath: "b.json"}))

	// Clobber the first record with bytes that no longer decode.
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put(itob(1), []byte("not json"))
	}))

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b.json", runs[0].CorpusPath)
	assert.Contains(t, buf.String(), "corrupt history record")
	assert.Contains(t, buf.String(), "id=1")
}
