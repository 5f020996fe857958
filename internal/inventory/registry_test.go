package inventory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/inventory-console/internal/api"
)

type gaugeRecorder struct {
	mu     sync.Mutex
	values []int
}

func (g *gaugeRecorder) SetActiveConsoles(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values = append(g.values, n)
}

func (g *gaugeRecorder) last() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.values[len(g.values)-1]
}

func TestRegistryReusesConsolePerSession(t *testing.T) {
	gauge := &gaugeRecorder{}
	reg := NewRegistry(api.NewClient("http://127.0.0.1:0/api"), Config{}, time.Hour, gauge)
	t.Cleanup(reg.Close)

	first, created := reg.Get("a")
	require.True(t, created)
	again, created := reg.Get("a")
	require.False(t, created)
	require.Same(t, first, again)

	other, created := reg.Get("b")
	require.True(t, created)
	require.NotSame(t, first, other)
	require.Equal(t, 2, reg.Len())
	require.Equal(t, 2, gauge.last())

	reg.Forget("a")
	require.Equal(t, 1, reg.Len())
	require.Equal(t, 1, gauge.last())
}

func TestRegistrySweepsIdleConsoles(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reg := NewRegistry(api.NewClient("http://127.0.0.1:0/api"), Config{}, 10*time.Minute, nil)
	reg.now = func() time.Time { return now }
	t.Cleanup(reg.Close)

	idle, _ := reg.Get("idle")
	now = now.Add(5 * time.Minute)
	reg.Get("busy")
	now = now.Add(6 * time.Minute)
	reg.Sweep()

	require.Equal(t, 1, reg.Len())
	idle.mu.Lock()
	closed := idle.closed
	idle.mu.Unlock()
	require.True(t, closed)

	_, created := reg.Get("idle")
	require.True(t, created)
}

func TestRegistryConsolesShareConfig(t *testing.T) {
	reg := NewRegistry(api.NewClient("http://127.0.0.1:0/api"), Config{PerPage: 25}, 0, nil)
	t.Cleanup(reg.Close)

	c, _ := reg.Get("a")
	require.Equal(t, State{Page: 1, PerPage: 25}, c.State())
}
