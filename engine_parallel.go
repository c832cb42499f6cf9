package grove

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// extractFilesParallel extracts files with a bounded worker group:
//
//	Phase A (serial):   discovery already produced the sorted path list.
//	Phase B (parallel): parse and extract, one goroutine per file, bounded
//	                    by GOMAXPROCS.
//	Phase C (serial):   the caller merges outcomes in path order.
//
// Outcomes land in a slice indexed by position, so the merge order (and
// therefore every derived ordering) is identical to the serial path.
func (e *Engine) extractFilesParallel(ctx context.Context, paths []string) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = e.extractFile(ctx, path)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
