package db

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the Store contract. prefix isolates keys so the
// suite can run against a shared server.
func runStoreSuite(t *testing.T, s Store, prefix string) {
	ctx := context.Background()
	key := func(k string) string { return prefix + k }

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, key("missing"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, key("a"), []byte("1")))
		require.NoError(t, s.Put(ctx, key("a"), []byte("2")))

		got, err := s.Get(ctx, key("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)
	})

	t.Run("put if absent", func(t *testing.T) {
		created, err := s.PutIfAbsent(ctx, key("once"), []byte("first"))
		require.NoError(t, err)
		assert.True(t, created)

		created, err = s.PutIfAbsent(ctx, key("once"), []byte("second"))
		require.NoError(t, err)
		assert.False(t, created)

		got, err := s.Get(ctx, key("once"))
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, key("gone"), []byte("x")))

		existed, err := s.Delete(ctx, key("gone"))
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = s.Delete(ctx, key("gone"))
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("incr is atomic", func(t *testing.T) {
		const workers = 20
		var wg sync.WaitGroup
		seen := make(chan int64, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := s.Incr(ctx, key("seq"))
				assert.NoError(t, err)
				seen <- v
			}()
		}
		wg.Wait()
		close(seen)

		unique := make(map[int64]struct{})
		for v := range seen {
			unique[v] = struct{}{}
		}
		assert.Len(t, unique, workers)
		for i := int64(1); i <= workers; i++ {
			assert.Contains(t, unique, i)
		}
	})

	t.Run("scan is ordered and prefix bound", func(t *testing.T) {
		for i := 3; i >= 1; i-- {
			require.NoError(t, s.Put(ctx, key(fmt.Sprintf("scan:%02d", i)), []byte{byte(i)}))
		}
		require.NoError(t, s.Put(ctx, key("scanner"), []byte("other")))
		require.NoError(t, s.Put(ctx, key("scan*:literal"), []byte("glob")))

		entries, err := s.Scan(ctx, key("scan:"))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for i, entry := range entries {
			assert.Equal(t, key(fmt.Sprintf("scan:%02d", i+1)), entry.Key)
			assert.Equal(t, []byte{byte(i + 1)}, entry.Value)
		}

		entries, err = s.Scan(ctx, key("scan*"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, key("scan*:literal"), entries[0].Key)
	})

	t.Run("scan empty prefix match", func(t *testing.T) {
		entries, err := s.Scan(ctx, key("nothing-here:"))
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}
