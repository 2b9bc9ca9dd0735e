package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("client-%02d", i)
	}
	return ids
}

func TestChunkIDs(t *testing.T) {
	chunks := ChunkIDs(makeIDs(23), MaxInClause)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 3)

	assert.Empty(t, ChunkIDs(nil, MaxInClause))
	assert.Len(t, ChunkIDs(makeIDs(10), MaxInClause), 1)
}

func TestFetchInBatchesIssuesOneQueryPerChunk(t *testing.T) {
	ids := makeIDs(23)

	var mu sync.Mutex
	var sizes []int
	fetch := func(_ context.Context, chunk []string) ([]string, error) {
		mu.Lock()
		sizes = append(sizes, len(chunk))
		mu.Unlock()
		if len(chunk) > MaxInClause {
			return nil, errors.New("in clause too long")
		}
		out := make([]string, len(chunk))
		copy(out, chunk)
		return out, nil
	}

	got, err := FetchInBatches(context.Background(), ids, fetch)
	require.NoError(t, err)

	sort.Ints(sizes)
	assert.Equal(t, []int{3, 10, 10}, sizes)
	// Results come back in chunk order regardless of completion order.
	assert.Equal(t, ids, got)
}

func TestFetchInBatchesFailsWhenAnyChunkFails(t *testing.T) {
	boom := errors.New("store unavailable")
	fetch := func(_ context.Context, chunk []string) ([]string, error) {
		if chunk[0] == "client-10" {
			return nil, boom
		}
		return chunk, nil
	}

	got, err := FetchInBatches(context.Background(), makeIDs(23), fetch)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestFetchInBatchesEmptyIDs(t *testing.T) {
	calls := 0
	got, err := FetchInBatches(context.Background(), nil, func(context.Context, []string) ([]int, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls)
}
