package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sveniik/battletrack/internal/model"
)

func TestBaselineStore_New(t *testing.T) {
	s := NewBaselineStore()

	require.NotNil(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestBaselineStore_SetAndGet(t *testing.T) {
	s := NewBaselineStore()

	s.Set("uuid-1", 82.5)

	pct, ok := s.Get("uuid-1")
	require.True(t, ok, "expected to find baseline for uuid-1")
	assert.Equal(t, 82.5, pct)
}

func TestBaselineStore_Get_NotFound(t *testing.T) {
	s := NewBaselineStore()

	_, ok := s.Get("never-seen")
	assert.False(t, ok, "expected no baseline for unknown identity")
}

func TestBaselineStore_Set_Overwrites(t *testing.T) {
	s := NewBaselineStore()

	s.Set("uuid-1", 100)
	s.Set("uuid-1", 70)

	pct, ok := s.Get("uuid-1")
	require.True(t, ok)
	assert.Equal(t, 70.0, pct)
	assert.Equal(t, 1, s.Len())
}

func TestBaselineStore_Clear(t *testing.T) {
	s := NewBaselineStore()

	s.Set("uuid-1", 100)
	s.Set("uuid-2", 55)
	require.Equal(t, 2, s.Len())

	s.Clear()

	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("uuid-1")
	assert.False(t, ok, "expected baselines gone after clear")

	// Store is usable after clear
	s.Set("uuid-3", 33)
	pct, ok := s.Get("uuid-3")
	require.True(t, ok)
	assert.Equal(t, 33.0, pct)
}

func TestBaselineStore_Concurrent(t *testing.T) {
	s := NewBaselineStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Set(fmt.Sprintf("uuid-%d", n), float64(n))
		}(i)
		go func(n int) {
			defer wg.Done()
			s.Get(fmt.Sprintf("uuid-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Len())
}

func TestRoster_AddAndGet(t *testing.T) {
	r := NewRoster()

	r.Add(model.Combatant{ID: "uuid-1", DisplayName: "Gyarados", Side: model.SideNear})

	c, ok := r.Get("uuid-1")
	require.True(t, ok, "expected to find combatant uuid-1")
	assert.Equal(t, "Gyarados", c.DisplayName)
	assert.Equal(t, model.SideNear, c.Side)
}

func TestRoster_Get_NotFound(t *testing.T) {
	r := NewRoster()

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRoster_All(t *testing.T) {
	r := NewRoster()

	r.Add(model.Combatant{ID: "a", DisplayName: "A"})
	r.Add(model.Combatant{ID: "b", DisplayName: "B"})

	all := r.All()
	assert.Len(t, all, 2)
}

func TestRoster_Reset(t *testing.T) {
	r := NewRoster()

	r.Add(model.Combatant{ID: "a"})
	r.Reset()

	_, ok := r.Get("a")
	assert.False(t, ok, "expected roster empty after reset")
	assert.Empty(t, r.All())
}

func TestRoster_Concurrent(t *testing.T) {
	r := NewRoster()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Add(model.Combatant{ID: fmt.Sprintf("uuid-%d", n)})
		}(i)
		go func(n int) {
			defer wg.Done()
			r.Get(fmt.Sprintf("uuid-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.All(), 100)
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, 0, c.Value())
}

func TestSafeCounter_Set(t *testing.T) {
	c := &SafeCounter{}

	c.Set(42)
	assert.Equal(t, 42, c.Value())

	c.Set(0)
	assert.Equal(t, 0, c.Value())
}

func TestSafeCounter_Inc(t *testing.T) {
	c := &SafeCounter{}

	c.Inc()
	c.Inc()
	c.Inc()
	assert.Equal(t, 3, c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, c.Value())
}
