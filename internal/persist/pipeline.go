// Package persist writes the link tree to durable storage without blocking
// interaction: changes are debounced into a single trailing write, and a
// saving signal is held up for a minimum visible duration around each write.
package persist

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/metrics"
	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/observe"
	"github.com/nikbrunner/linkdeck/internal/schedule"
	"github.com/nikbrunner/linkdeck/internal/storage"
)

const (
	DefaultKey         = "tree.v2"
	DefaultQuiet       = 750 * time.Millisecond
	DefaultSavingFloor = 300 * time.Millisecond
)

// Params holds parameters for creating a new Pipeline.
type Params struct {
	Storage     storage.Storage // nil = headless: no storage is touched
	Key         string          // optional, DefaultKey if empty
	Clock       schedule.Clock  // optional, RealClock if nil
	Quiet       time.Duration   // optional, DefaultQuiet if zero
	SavingFloor time.Duration   // optional, DefaultSavingFloor if zero
	Logger      *zap.Logger     // optional, no-op if nil
	Metrics     *metrics.Persistence
}

// Pipeline debounces tree changes into storage writes.
type Pipeline struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger
	metrics *metrics.Persistence

	debounce  *schedule.Debouncer
	savingOff *schedule.Debouncer
	saving    *observe.Value[bool]

	mu         sync.Mutex
	pending    model.Tree
	hasPending bool

	writeMu sync.Mutex
}

// New creates a Pipeline.
func New(params Params) *Pipeline {
	key := params.Key
	if key == "" {
		key = DefaultKey
	}
	clock := params.Clock
	if clock == nil {
		clock = schedule.RealClock{}
	}
	quiet := params.Quiet
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	floor := params.SavingFloor
	if floor <= 0 {
		floor = DefaultSavingFloor
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := params.Metrics
	if m == nil {
		m = metrics.NewPersistence("linkdeck")
	}

	return &Pipeline{
		storage:   params.Storage,
		key:       key,
		logger:    logger.Named("persist"),
		metrics:   m,
		debounce:  schedule.NewDebouncer(clock, quiet),
		savingOff: schedule.NewDebouncer(clock, floor),
		saving:    observe.NewValue(false),
	}
}

// Headless reports whether the pipeline runs without storage.
func (p *Pipeline) Headless() bool {
	return p.storage == nil
}

// Saving returns the saving signal.
func (p *Pipeline) Saving() *observe.Value[bool] {
	return p.saving
}

// Metrics returns the pipeline's collectors.
func (p *Pipeline) Metrics() *metrics.Persistence {
	return p.metrics
}

// Load reads the stored tree. A missing entry yields the default tree. An
// entry that does not parse or fails validation is removed from storage and
// replaced by the default tree. Headless pipelines return an empty tree.
func (p *Pipeline) Load() model.Tree {
	if p.Headless() {
		return model.Tree{}
	}

	raw, ok, err := p.storage.Get(p.key)
	if errors.Is(err, storage.ErrCorrupt) {
		p.logger.Warn("storage is corrupt, evicting", zap.String("key", p.key), zap.Error(err))
		p.metrics.LoadFallbacks.WithLabelValues(metrics.ReasonCorrupt).Inc()
		p.evict()
		return model.DefaultTree()
	}
	if err != nil {
		p.logger.Error("failed to read tree, using default", zap.String("key", p.key), zap.Error(err))
		p.metrics.LoadFallbacks.WithLabelValues(metrics.ReasonReadError).Inc()
		return model.DefaultTree()
	}
	if !ok {
		p.logger.Info("no stored tree, using default", zap.String("key", p.key))
		p.metrics.LoadFallbacks.WithLabelValues(metrics.ReasonAbsent).Inc()
		return model.DefaultTree()
	}

	var tree model.Tree
	if err := json.Unmarshal([]byte(raw), &tree); err != nil || tree == nil {
		p.logger.Warn("stored tree is corrupt, evicting", zap.String("key", p.key), zap.Error(err))
		p.metrics.LoadFallbacks.WithLabelValues(metrics.ReasonCorrupt).Inc()
		p.evict()
		return model.DefaultTree()
	}

	tree = model.Normalize(tree)
	if err := model.Validate(tree); err != nil {
		p.logger.Warn("stored tree is invalid, evicting", zap.String("key", p.key), zap.Error(err))
		p.metrics.LoadFallbacks.WithLabelValues(metrics.ReasonInvalid).Inc()
		p.evict()
		return model.DefaultTree()
	}

	p.logger.Debug("loaded tree",
		zap.Int("categories", len(tree)),
		zap.Int("links", tree.LinkCount()),
	)
	return tree
}

func (p *Pipeline) evict() {
	if err := p.storage.Remove(p.key); err != nil {
		p.logger.Error("failed to remove corrupt tree", zap.String("key", p.key), zap.Error(err))
	}
}

// Changed records t as the latest state and (re)starts the quiet period.
// Only the latest tree is written once the period elapses.
func (p *Pipeline) Changed(t model.Tree) {
	if p.Headless() {
		return
	}

	p.mu.Lock()
	p.pending = t
	p.hasPending = true
	p.mu.Unlock()

	if p.debounce.Schedule(p.fire) {
		p.metrics.Coalesced.Inc()
	}
}

// Flush writes a pending tree immediately instead of waiting.
func (p *Pipeline) Flush() {
	if p.Headless() {
		return
	}
	p.debounce.CancelPending()
	p.fire()
}

// Close flushes pending changes and clears the saving signal.
func (p *Pipeline) Close() {
	p.Flush()
	if p.savingOff.CancelPending() {
		p.setSaving(false)
	}
}

func (p *Pipeline) fire() {
	p.mu.Lock()
	tree, ok := p.pending, p.hasPending
	p.pending, p.hasPending = nil, false
	p.mu.Unlock()

	if ok {
		p.write(tree)
	}
}

// write stores t, logging failures. The saving signal goes up before the
// write and comes down one floor period after it, whatever the outcome.
func (p *Pipeline) write(t model.Tree) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.savingOff.CancelPending()
	p.setSaving(true)

	start := time.Now()
	err := p.store(t)
	if err != nil {
		p.logger.Error("failed to save tree", zap.String("key", p.key), zap.Error(err))
		p.metrics.WriteFailures.Inc()
	} else {
		p.logger.Debug("saved tree",
			zap.Int("categories", len(t)),
			zap.Duration("took", time.Since(start)),
		)
		p.metrics.Writes.Inc()
	}

	p.savingOff.Schedule(func() { p.setSaving(false) })
}

func (p *Pipeline) store(t model.Tree) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.storage.Set(p.key, string(data))
}

func (p *Pipeline) setSaving(v bool) {
	if v {
		p.metrics.Saving.Set(1)
	} else {
		p.metrics.Saving.Set(0)
	}
	p.saving.Set(v)
}
