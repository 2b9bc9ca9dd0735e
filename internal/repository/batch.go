package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxInClause is the largest id list the hosted document store accepts in a
// single IN filter.
const MaxInClause = 10

// ChunkIDs splits ids into consecutive chunks of at most size elements.
func ChunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxInClause
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FetchInBatches runs fetch once per chunk of at most MaxInClause ids, all
// chunks concurrently, and returns the results flattened in chunk order.
// A failing chunk fails the whole read; no partial result is returned.
func FetchInBatches[T any](ctx context.Context, ids []string, fetch func(ctx context.Context, chunk []string) ([]T, error)) ([]T, error) {
	chunks := ChunkIDs(ids, MaxInClause)
	if len(chunks) == 0 {
		return []T{}, nil
	}

	results := make([][]T, len(chunks))
	g, gCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			docs, err := fetch(gCtx, chunk)
			if err != nil {
				return err
			}
			results[i] = docs // Each goroutine owns its own slot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	flat := make([]T, 0, total)
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
