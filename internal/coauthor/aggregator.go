package coauthor

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/matsen/coauth/internal/logging"
	"github.com/matsen/coauth/internal/paper"
)

// Aggregator owns the full-history index for one session.
//
// It starts Unbuilt and moves to Built exactly once, when Build succeeds.
// A failed build leaves it Unbuilt. Once built the index is read-only, so
// Window may be called from any number of goroutines.
type Aggregator struct {
	idx atomic.Pointer[Index]
	log *logrus.Logger
}

// NewAggregator creates an unbuilt aggregator. A nil logger discards output.
func NewAggregator(log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logging.Discard()
	}
	return &Aggregator{log: log}
}

// Build folds rows into the full-history index.
// Returns ErrAlreadyBuilt if called after a successful build.
func (a *Aggregator) Build(rows []paper.Row) (*BuildReport, error) {
	if a.idx.Load() != nil {
		return nil, ErrAlreadyBuilt
	}

	idx, report, err := BuildIndex(rows, a.log)
	if err != nil {
		return nil, err
	}

	if !a.idx.CompareAndSwap(nil, idx) {
		return nil, ErrAlreadyBuilt
	}
	return report, nil
}

// Built reports whether the index exists.
func (a *Aggregator) Built() bool {
	return a.idx.Load() != nil
}

// Index returns the full-history index, or ErrNotBuilt.
func (a *Aggregator) Index() (*Index, error) {
	idx := a.idx.Load()
	if idx == nil {
		return nil, ErrNotBuilt
	}
	return idx, nil
}

// Window returns the view for the threshold year, or ErrNotBuilt.
func (a *Aggregator) Window(year int, opts WindowOptions) (*WindowedView, error) {
	idx, err := a.Index()
	if err != nil {
		return nil, err
	}
	return idx.Window(year, opts), nil
}

// Author returns the full-history author record, or ErrNotBuilt.
func (a *Aggregator) Author(name string) (AuthorRecord, bool, error) {
	idx, err := a.Index()
	if err != nil {
		return AuthorRecord{}, false, err
	}
	rec, ok := idx.Author(name)
	return rec, ok, nil
}
