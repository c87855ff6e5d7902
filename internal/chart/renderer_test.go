package chart

import (
	"context"
	"sync"
	"testing"

	"github.com/newthinker/btview/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecorder struct {
	mu         sync.Mutex
	statuses   []string
	hits       int
	misses     int
	unresolved int
}

func (r *recordingRecorder) RecordDerivation(status string, duration float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingRecorder) RecordCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingRecorder) AddUnresolvedTrades(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unresolved += n
}

func TestKey_ContentBased(t *testing.T) {
	a, err := Key(sampleResult())
	require.NoError(t, err)
	b, err := Key(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, a, b, "equal content must hash equally")

	changed := sampleResult()
	changed.EquityCurve[0] = 99999
	c, err := Key(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCache_ReplacesWholesale(t *testing.T) {
	cache := NewCache()
	_, ok := cache.Latest()
	assert.False(t, ok)

	first := &ChartData{Omitted: []string{SectionPrice}}
	cache.Put(&Entry{Key: 1, Data: first})
	got, ok := cache.Get(1)
	require.True(t, ok)
	assert.Same(t, first, got)

	cache.Put(&Entry{Key: 2, Data: &ChartData{}})
	_, ok = cache.Get(1)
	assert.False(t, ok, "older entry must be gone")

	latest, ok := cache.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), latest.Key)
}

func TestRenderer_Memoizes(t *testing.T) {
	rec := &recordingRecorder{}
	r := NewRenderer(nil, rec, nil)

	first, err := r.Render(context.Background(), sampleResult())
	require.NoError(t, err)
	second, err := r.Render(context.Background(), sampleResult())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, []string{StatusOK}, rec.statuses)
	assert.Equal(t, 1, rec.unresolved, "unresolved trades are counted on derivation only")

	latest, ok := r.Cache().Latest()
	require.True(t, ok)
	assert.Equal(t, "600519", latest.Result.Symbol)
}

func TestRenderer_NilResult(t *testing.T) {
	r := NewRenderer(nil, nil, nil)
	_, err := r.Render(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestRenderer_SupersededOutputDropped(t *testing.T) {
	rec := &recordingRecorder{}
	r := NewRenderer(nil, rec, nil)

	started := make(chan struct{})
	r.derive = func(ctx context.Context, result *core.BacktestResult) (*ChartData, error) {
		if result.Symbol == "slow" {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return Derive(ctx, result)
	}

	slow := sampleResult()
	slow.Symbol = "slow"

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Render(context.Background(), slow)
		errCh <- err
	}()
	<-started

	fresh, err := r.Render(context.Background(), sampleResult())
	require.NoError(t, err)
	require.NotNil(t, fresh)

	assert.ErrorIs(t, <-errCh, core.ErrSuperseded)

	latest, ok := r.Cache().Latest()
	require.True(t, ok)
	assert.Equal(t, "600519", latest.Result.Symbol, "superseded output must not reach the cache")
	assert.Contains(t, rec.statuses, StatusSuperseded)
}
