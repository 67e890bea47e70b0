package source

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/gacha-rates/internal/gacha"
)

// Snapshot is one consistent view of both sources. It is replaced wholesale,
// never edited in place.
type Snapshot struct {
	Weights  gacha.WeightTable
	Catalog  gacha.Catalog
	LoadedAt time.Time
}

// Holder publishes the current snapshot. Readers never block; reloads are
// serialized.
type Holder struct {
	loader  *Loader
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
}

// NewHolder loads both sources once. An empty weight mapping is accepted
// here and shows up as "no data" downstream.
func NewHolder(loader *Loader, logger *zap.Logger) (*Holder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	snap, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("initial load: %w", err)
	}
	snap.LoadedAt = time.Now()
	h := &Holder{loader: loader, logger: logger}
	h.current.Store(&snap)
	return h, nil
}

// Get returns the current snapshot.
func (h *Holder) Get() Snapshot { return *h.current.Load() }

// ReloadWeights re-reads the weights file. On error, or when the file no
// longer yields any entry, the previous table is kept.
func (h *Holder) ReloadWeights() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, err := h.loader.LoadWeights()
	if err != nil {
		h.logger.Warn("weights reload failed; keeping previous", zap.Error(err))
		return err
	}
	if w.Len() == 0 {
		h.logger.Warn("weights reload produced no entries; keeping previous")
		return nil
	}
	next := h.Get()
	next.Weights = w
	next.LoadedAt = time.Now()
	h.current.Store(&next)
	h.logger.Info("weights reloaded", zap.Int("rarities", w.Len()), zap.Float64("total_weight", w.TotalWeight()))
	return nil
}

// ReloadCatalog re-reads the catalog file, keeping the previous catalog on error.
func (h *Holder) ReloadCatalog() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.loader.LoadCatalog()
	if err != nil {
		h.logger.Warn("catalog reload failed; keeping previous", zap.Error(err))
		return err
	}
	next := h.Get()
	next.Catalog = c
	next.LoadedAt = time.Now()
	h.current.Store(&next)
	h.logger.Info("catalog reloaded", zap.Int("characters", c.Len()))
	return nil
}

// Reload refreshes both sources and returns the first error.
func (h *Holder) Reload() error {
	werr := h.ReloadWeights()
	cerr := h.ReloadCatalog()
	if werr != nil {
		return werr
	}
	return cerr
}

// OnChange maps a changed path to the matching reload; it is the callback
// handed to the Watcher.
func (h *Holder) OnChange(path string) {
	p := h.loader.Paths()
	switch {
	case samePath(path, p.Weights):
		_ = h.ReloadWeights()
	case samePath(path, p.Catalog):
		_ = h.ReloadCatalog()
	}
}
