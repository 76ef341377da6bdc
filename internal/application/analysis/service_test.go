package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysistypes "github.com/turtacn/ChemRisk-Intelligence/pkg/types/analysis"
	"github.com/turtacn/ChemRisk-Intelligence/pkg/types/common"
)

var errMiss = errors.New("miss")

type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	gets    int
	hits    int
	sets    int
	failSet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.store[key]
	if !ok {
		return errMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("cache down")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.store[key] = data
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	alerts []Alert
	fail   bool
}

func (p *fakePublisher) PublishAlert(_ context.Context, alert Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.alerts = append(p.alerts, alert)
	return nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	analyses   map[string]int
	unresolved int
	reactions  int
	hits       int
	misses     int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{analyses: map[string]int{}} }

func (m *fakeMetrics) ObserveAnalysis(level string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[level]++
}
func (m *fakeMetrics) AddUnresolvedSubstances(n int) { m.mu.Lock(); m.unresolved += n; m.mu.Unlock() }
func (m *fakeMetrics) AddDangerousReactions(n int)   { m.mu.Lock(); m.reactions += n; m.mu.Unlock() }
func (m *fakeMetrics) IncCacheHit()                  { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *fakeMetrics) IncCacheMiss()                 { m.mu.Lock(); m.misses++; m.mu.Unlock() }

func TestServiceCachesResults(t *testing.T) {
	cache := newFakeCache()
	metrics := newFakeMetrics()
	svc := NewService(newTestEngine(t), nil,
		WithCache(cache, time.Minute),
		WithMetrics(metrics),
	)
	req := &analysistypes.Request{Substances: []string{"acétone"}}

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, metrics.misses)

	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, first.GlobalScore, second.GlobalScore)
	assert.Equal(t, first.Details, second.Details)
}

func TestServiceCacheFailureDoesNotAffectResult(t *testing.T) {
	cache := newFakeCache()
	cache.failSet = true
	svc := NewService(newTestEngine(t), nil, WithCache(cache, time.Minute))

	result, err := svc.Analyze(context.Background(), &analysistypes.Request{Substances: []string{"acétone"}})
	require.NoError(t, err)
	assert.Equal(t, 49.5, result.GlobalScore)
}

func TestServiceWithoutCache(t *testing.T) {
	svc := NewService(newTestEngine(t), nil)
	result, err := svc.Analyze(context.Background(), &analysistypes.Request{Substances: []string{"eau"}})
	require.NoError(t, err)
	assert.Equal(t, 1.75, result.GlobalScore)
}

func TestServicePublishesAlertOnDangerousReaction(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(newTestEngine(t), nil, WithAlertPublisher(pub))

	_, err := svc.Analyze(context.Background(), &analysistypes.Request{
		Substances: []string{"chloroforme", "eau de javel"},
	})
	require.NoError(t, err)

	require.Len(t, pub.alerts, 1)
	alert := pub.alerts[0]
	assert.Contains(t, alert.Reactions, "Phosgène")
	assert.Equal(t, []string{"chloroforme", "eau de javel"}, alert.Substances)
	assert.NotEmpty(t, alert.AnalysisID)
	assert.False(t, alert.OccurredAt.IsZero())
}

func TestServiceNoAlertOnLowRisk(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(newTestEngine(t), nil, WithAlertPublisher(pub))

	_, err := svc.Analyze(context.Background(), &analysistypes.Request{Substances: []string{"eau"}})
	require.NoError(t, err)
	assert.Empty(t, pub.alerts)
}

func TestServicePublisherFailureDoesNotAffectResult(t *testing.T) {
	pub := &fakePublisher{fail: true}
	svc := NewService(newTestEngine(t), nil, WithAlertPublisher(pub))

	result, err := svc.Analyze(context.Background(), &analysistypes.Request{
		Substances: []string{"chloroforme", "eau de javel"},
	})
	require.NoError(t, err)
	assert.NotZero(t, result.GlobalScore)
}

func TestServiceMetrics(t *testing.T) {
	metrics := newFakeMetrics()
	svc := NewService(newTestEngine(t), nil, WithMetrics(metrics))

	_, err := svc.Analyze(context.Background(), &analysistypes.Request{
		Substances: []string{"kryptonite"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.analyses[string(common.RiskFaible)])
	assert.Equal(t, 1, metrics.unresolved)
}

func TestServicePropagatesEngineErrors(t *testing.T) {
	svc := NewService(newTestEngine(t), nil)
	_, err := svc.Analyze(context.Background(), &analysistypes.Request{})
	require.Error(t, err)
}

func TestServiceSubstances(t *testing.T) {
	svc := NewService(newTestEngine(t), nil)

	assert.Equal(t, 6, svc.SubstanceCount())
	subs := svc.Substances()
	require.Len(t, subs, 6)
	// Load order is preserved.
	assert.Equal(t, "Eau", subs[0].Name)
	assert.Equal(t, "7732-18-5", subs[0].CAS)
}

func TestRequestKeyDeterministic(t *testing.T) {
	req := &analysistypes.Request{
		Substances: []string{"eau", "acétone"},
		Quantities: map[string]float64{"b": 2, "a": 1},
	}
	k1, err := requestKey(req)
	require.NoError(t, err)
	k2, err := requestKey(req)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	other, err := requestKey(&analysistypes.Request{Substances: []string{"acétone", "eau"}})
	require.NoError(t, err)
	assert.NotEqual(t, k1, other)
}
