package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/structboard/pkg/cache"
	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/observability"
	"github.com/matzehuels/structboard/pkg/render"
)

const keyTypeArtifact = "artifact"

// Runner renders diagrams through a cache.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner keeps no per-run state. Multiple goroutines can share one
// Runner as long as each passes its own document.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to every artifact written. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render produces every format in opts for d. Cache read failures are
// logged and treated as misses; a failing sink fails the whole run.
func (r *Runner) Render(ctx context.Context, d *diagram.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	snap, err := render.Take(d, opts.renderOptions())
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	result := &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		DocHash:   cache.Hash(snap.JSON),
		CacheInfo: CacheInfo{Hits: make(map[string]bool, len(opts.Formats))},
	}
	result.Stats.Elements = d.Len()
	result.Stats.Arrows = len(snap.Scene.Arrows)
	result.Stats.SnapshotTime = time.Since(start)

	var misses []string
	for _, f := range opts.Formats {
		if data, ok := r.lookup(ctx, result.DocHash, f, opts); ok {
			result.Artifacts[f] = data
			result.CacheInfo.Hits[f] = true
			continue
		}
		result.CacheInfo.Hits[f] = false
		misses = append(misses, f)
	}

	start = time.Now()
	observability.Render().OnRenderStart(ctx, misses)
	err = r.renderMisses(ctx, snap, result, misses, opts)
	result.Stats.RenderTime = time.Since(start)
	observability.Render().OnRenderComplete(ctx, misses, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("rendered diagram",
		"hash", result.DocHash[:12],
		"formats", opts.Formats,
		"rendered", misses,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) lookup(ctx context.Context, docHash, format string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	key := r.Keyer.ArtifactKey(docHash, opts.keyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "format", format, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	return nil, false
}

// renderMisses runs one sink per format concurrently and writes each
// result back to the cache.
func (r *Runner) renderMisses(ctx context.Context, snap *render.Snapshot, result *Result, formats []string, opts Options) error {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	ro := opts.renderOptions()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		g.Go(func() error {
			data, err := snap.Render(gctx, f, ro)
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			key := r.Keyer.ArtifactKey(result.DocHash, opts.keyOpts(f))
			if err := r.Cache.Set(gctx, key, data, ttl); err != nil {
				r.Logger.Warn("cache write failed", "format", f, "err", err)
			} else {
				observability.Cache().OnCacheSet(gctx, keyTypeArtifact, len(data))
			}
			mu.Lock()
			result.Artifacts[f] = data
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
