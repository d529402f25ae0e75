package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"lattice/internal/snapshot"
)

// ListSnapshotFiles returns the sorted list of all *.lsnap files under
// dir.
func ListSnapshotFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".lsnap") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sorted for a deterministic order.
	sort.Strings(files)
	return files, nil
}

// VerifyAll verifies snapshot files in parallel. Every file gets its
// own ir.Context, so the goroutines share nothing except the disk
// cache, which locks internally. jobs <= 0 means one per CPU.
func VerifyAll(ctx context.Context, paths []string, cache *snapshot.DiskCache, jobs int, sink ProgressSink) ([]VerifyResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if sink == nil {
		sink = nopSink{}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range paths {
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Per-goroutine result slots; no mutex needed.
	results := make([]VerifyResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = VerifyFile(path, cache, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
