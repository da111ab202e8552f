package extract

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ExtractAll processes every document concurrently and returns one Result per
// input path. Extraction tasks fan out without a group limit; the shared
// admission gate is what bounds in-flight remote calls. No document's failure
// aborts its siblings, so the mapping always has exactly one entry per input.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) map[string]Result {
	results := make(map[string]Result, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	for _, path := range paths {
		g.Go(func() error {
			res := e.Extract(ctx, path)
			mu.Lock()
			results[path] = res
			mu.Unlock()
			return nil
		})
	}
	// Tasks never return errors; Wait is just the completion barrier.
	_ = g.Wait()

	e.logBatch(results)
	return results
}

func (e *Extractor) logBatch(results map[string]Result) {
	succeeded := 0
	chars := 0
	for _, r := range results {
		if r.Success {
			succeeded++
			chars += len(r.Text)
		}
	}
	e.log.Info().
		Int("documents", len(results)).
		Int("succeeded", succeeded).
		Int("failed", len(results)-succeeded).
		Int("total_chars", chars).
		Msg("Batch extraction complete")
}
