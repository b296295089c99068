// Package index caches parsed asset documents by identity and version and
// answers editor queries against them.
//
// Each document has its own entry guarded by a mutex, so re-parses of the
// same document are serialized while different documents parse in parallel.
// Concurrent requests for the same document version share one parse.
package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/pkg/asset"
)

// ErrNilDocument is returned when a query is made without a document.
var ErrNilDocument = errors.New("nil document")

// Index owns the parsed state of open documents.
type Index struct {
	mu      sync.Mutex
	entries map[string]*entry

	flight singleflight.Group
}

type entry struct {
	mu    sync.Mutex
	state *asset.State
}

// New creates an empty Index.
func New() *Index {
	return &Index{entries: make(map[string]*entry)}
}

// Parse returns the State for doc, parsing it unless a State for the same
// path and version is cached.
func (ix *Index) Parse(ctx context.Context, doc asset.Document) (*asset.State, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path(), err)
	}

	path, version := doc.Path(), doc.Version()
	if state, ok := ix.Cached(path); ok && state.Version == version {
		return state, nil
	}

	key := path + "@" + strconv.Itoa(version)
	result, _, shared := ix.flight.Do(key, func() (any, error) {
		return ix.parseEntry(ctx, doc), nil
	})

	state, _ := result.(*asset.State)
	if shared {
		logging.FromContext(ctx).Debug("shared in-flight parse",
			logging.FieldPath, path,
			logging.FieldVersion, version,
		)
	}
	return state, nil
}

func (ix *Index) parseEntry(ctx context.Context, doc asset.Document) *asset.State {
	path, version := doc.Path(), doc.Version()
	e := ix.entry(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && e.state.Version == version {
		return e.state
	}

	started := time.Now()
	state := asset.Parse(doc)
	e.state = state

	logger := logging.FromContext(ctx)
	logger.Debug("parsed document",
		logging.FieldPath, path,
		logging.FieldVersion, version,
		logging.FieldSymbols, asset.CountSymbols(state.Symbols),
		logging.FieldDuration, time.Since(started),
	)
	if state.Truncated {
		logger.Debug("unterminated string literal",
			logging.FieldPath, path,
			logging.FieldPosition, state.TruncatedAt.String(),
		)
	}
	return state
}

func (ix *Index) entry(path string) *entry {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e, ok := ix.entries[path]
	if !ok {
		e = &entry{}
		ix.entries[path] = e
	}
	return e
}

// Cached returns the last State parsed for path without parsing.
func (ix *Index) Cached(path string) (*asset.State, bool) {
	ix.mu.Lock()
	e, ok := ix.entries[path]
	ix.mu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.state != nil
}

// Close forgets the document at path.
func (ix *Index) Close(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.entries, path)
}

// Len returns the number of tracked documents.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.entries)
}
