package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/structboard/pkg/cache"
	"github.com/matzehuels/structboard/pkg/diagram"
)

// memCache is an in-memory cache that can be told to fail.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	failGet bool
	failSet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("get failed")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("set failed")
	}
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func sampleDoc() *diagram.Document {
	d := diagram.New()
	s := d.NewStruct(0, 0, "node")
	p := d.NewPointerCell(0, 0, "next")
	d.Add(s.ID(), p.ID())
	c := d.NewDataCell(400, 0, "tail", "9")
	d.CreateArrow(p.ID(), c.ID())
	return d
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(o.Formats, ",") != "svg" || o.Scale != DefaultScale {
		t.Errorf("defaults = %+v", o)
	}

	o = Options{Formats: []string{"png", "svg", "png"}}
	o.ValidateAndSetDefaults()
	if strings.Join(o.Formats, ",") != "png,svg" {
		t.Errorf("dedupe = %v", o.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown format", Options{Formats: []string{"svg", "pdf"}}},
		{"negative scale", Options{Scale: -1}},
		{"huge scale", Options{Scale: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{Grid: true, Scale: 2, Highlight: "x"}
	b := Options{Scale: 1}
	if a.keyOpts("dot") != b.keyOpts("dot") {
		t.Error("dot key depends on scene options")
	}
	if a.keyOpts("png") == b.keyOpts("png") {
		t.Error("png key ignores scene options")
	}
	auto := Options{AutoLayout: true, Grid: true}
	if auto.keyOpts("svg").Grid {
		t.Error("auto-layout svg key carries grid")
	}
}

func TestRunnerCaches(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	d := sampleDoc()
	opts := Options{Formats: []string{"svg", "png", "dot", "json", "yaml"}}

	first, err := r.Render(ctx, d, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(first.Artifacts) != 5 || mc.sets != 5 {
		t.Fatalf("artifacts = %d, sets = %d", len(first.Artifacts), mc.sets)
	}
	if first.CacheInfo.AllHit() {
		t.Error("first run reported hits")
	}
	if first.Stats.Elements != 3 || first.Stats.Arrows != 1 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if len(first.DocHash) != 64 {
		t.Errorf("DocHash = %q", first.DocHash)
	}

	second, err := r.Render(ctx, d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AllHit() || mc.sets != 5 {
		t.Errorf("second run hits = %v, sets = %d", second.CacheInfo.Hits, mc.sets)
	}
	for f, data := range first.Artifacts {
		if !bytes.Equal(data, second.Artifacts[f]) {
			t.Errorf("%s differs between runs", f)
		}
	}

	refreshed, _ := r.Render(ctx, d, Options{Formats: []string{"svg"}, Refresh: true})
	if refreshed.CacheInfo.Hits["svg"] || mc.sets != 6 {
		t.Errorf("refresh hits = %v, sets = %d", refreshed.CacheInfo.Hits, mc.sets)
	}
}

func TestRunnerDocumentChangeMisses(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	d := sampleDoc()
	first, _ := r.Render(ctx, d, Options{})

	d.NewDataCell(0, 300, "extra", "1")
	second, err := r.Render(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo.Hits["svg"] || second.DocHash == first.DocHash {
		t.Error("edited document served from cache")
	}
}

func TestRunnerCacheFailures(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	mc.failGet, mc.failSet = true, true
	r := NewRunner(mc, nil, nil)

	res, err := r.Render(ctx, sampleDoc(), Options{Formats: []string{"svg", "dot"}})
	if err != nil {
		t.Fatalf("Render with failing cache: %v", err)
	}
	if len(res.Artifacts["svg"]) == 0 || len(res.Artifacts["dot"]) == 0 {
		t.Error("artifacts missing")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Render(context.Background(), sampleDoc(), Options{Formats: []string{"gif"}}); err == nil {
		t.Error("expected error for unknown format")
	}
}
