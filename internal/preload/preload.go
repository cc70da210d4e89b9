package preload

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pagecraft/pagecraft/internal/registry"
	"github.com/pagecraft/pagecraft/internal/types"
)

// DefaultDelay keeps the warm-up pass from competing with the critical
// initial render.
const DefaultDelay = time.Second

// WarmupFunc is an injectable side-effect-free warm-up callable, e.g. one
// that forces a lazily loaded field editor to resolve.
type WarmupFunc func() error

// Preloader speculatively exercises common renderers and extra warm-up
// callables once, shortly after the host view mounts. Strictly best-effort:
// every failure is swallowed, and it is fully disabled with a negative delay.
type Preloader struct {
	mu      sync.Mutex
	reg     *registry.Registry
	common  []string
	warmups []WarmupFunc
	done    map[string]struct{}
	timer   *time.Timer
	delay   time.Duration
	started bool
	logger  *slog.Logger
}

// New builds a preloader for one mount. A zero delay falls back to
// DefaultDelay; a negative delay disables scheduling entirely.
func New(reg *registry.Registry, common []string, warmups []WarmupFunc, delay time.Duration, logger *slog.Logger) *Preloader {
	if delay == 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Preloader{
		reg:     reg,
		common:  common,
		warmups: warmups,
		done:    make(map[string]struct{}),
		delay:   delay,
		logger:  logger,
	}
}

// Start arms the deferred warm-up timer. Repeat calls are no-ops.
func (p *Preloader) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.delay < 0 {
		return
	}
	p.started = true
	p.timer = time.AfterFunc(p.delay, p.run)
}

// Stop cancels a not-yet-fired timer. Called when the owning view unmounts
// before the delay elapses.
func (p *Preloader) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Preloader) run() {
	for _, typeTag := range p.common {
		p.PreloadOne(typeTag)
	}
	for i, warmup := range p.warmups {
		p.runWarmup(i, warmup)
	}
}

// PreloadOne warms a single renderer on demand, e.g. on hover over a block
// library entry. Unknown types and failures are ignored.
func (p *Preloader) PreloadOne(typeTag string) {
	p.mu.Lock()
	if _, already := p.done[typeTag]; already {
		p.mu.Unlock()
		return
	}
	p.done[typeTag] = struct{}{}
	p.mu.Unlock()

	def, ok := p.reg.Lookup(typeTag)
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Debug("preload panic swallowed", "type", typeTag, "panic", rec)
		}
	}()
	if _, err := def.Render(map[string]any{}, types.RenderContext{}); err != nil {
		p.logger.Debug("preload render failed", "type", typeTag, "error", err)
	}
}

func (p *Preloader) runWarmup(index int, warmup WarmupFunc) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Debug("warmup panic swallowed", "index", index, "panic", rec)
		}
	}()
	if err := warmup(); err != nil {
		p.logger.Debug("warmup failed", "index", index, "error", err)
	}
}
