package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/pkg/asset"
	"github.com/yaklabco/gdasset/pkg/fsutil"
	"github.com/yaklabco/gdasset/pkg/index"
)

// Runner reads asset documents from disk and parses them through an Index.
// It assigns document versions so that unchanged files hit the cache.
type Runner struct {
	Index *index.Index

	mu    sync.Mutex
	files map[string]*tracked
}

type tracked struct {
	info    *fsutil.FileInfo
	version int
}

// New creates a Runner backed by ix. A nil ix gets a fresh Index.
func New(ix *index.Index) *Runner {
	if ix == nil {
		ix = index.New()
	}
	return &Runner{Index: ix, files: make(map[string]*tracked)}
}

// Load reads path and returns the parsed State of document docPath.
// The version only advances when the file content changed.
func (r *Runner) Load(ctx context.Context, path, docPath string) (*asset.State, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := asset.NewTextDocument(docPath, r.version(docPath, info), content)
	state, err := r.Index.Parse(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return state, nil
}

func (r *Runner) version(docPath string, info *fsutil.FileInfo) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.files[docPath]
	if !ok {
		r.files[docPath] = &tracked{info: info, version: 1}
		return 1
	}
	if !t.info.SameContent(info) {
		t.info = info
		t.version++
	}
	return t.version
}

// Forget drops docPath from the runner and its Index.
func (r *Runner) Forget(docPath string) {
	r.mu.Lock()
	delete(r.files, docPath)
	r.mu.Unlock()
	r.Index.Close(docPath)
}

// Run discovers files under opts.Paths and parses them concurrently.
// Per-file read failures are recorded on the outcome, not returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("parsing documents",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	outcomes := make([]FileOutcome, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = r.process(groupCtx, path, opts.ProjectRoot)
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	logger.Debug("run complete",
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesTruncated, result.Stats.FilesTruncated,
		logging.FieldUnresolved, result.Stats.Unresolved,
	)

	return result, nil
}

func (r *Runner) process(ctx context.Context, path, projectRoot string) FileOutcome {
	outcome := FileOutcome{Path: path, DocPath: ResourcePath(projectRoot, path)}

	state, err := r.Load(ctx, path, outcome.DocPath)
	if err != nil {
		logging.FromContext(ctx).Warn("failed to load document",
			logging.FieldPath, path,
			logging.FieldError, err,
		)
		outcome.Error = err
		return outcome
	}

	outcome.State = state
	outcome.Stats = Summarize(state)
	return outcome
}
