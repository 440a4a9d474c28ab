package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/model"
)

func TestPlaces_NewPlaces(t *testing.T) {
	c := NewPlaces(time.Hour)

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestPlaces_AddAndGet(t *testing.T) {
	c := NewPlaces(time.Hour)

	p := model.Place{Key: "40.4168,-3.7038", Name: "Puerta del Sol", Category: "square"}
	c.Add(p.Key, p)

	got, ok := c.Get(p.Key)
	require.True(t, ok, "expected cached place")
	assert.Equal(t, "Puerta del Sol", got.Name)
	assert.Equal(t, "square", got.Category)
}

func TestPlaces_GetMiss(t *testing.T) {
	c := NewPlaces(time.Hour)

	_, ok := c.Get("0.0000,0.0000")
	assert.False(t, ok)
}

func TestPlaces_TTLExpiry(t *testing.T) {
	c := NewPlaces(time.Minute)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("k", model.Place{Key: "k", Name: "Plaza Mayor"})

	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "expired entries are evicted on read")
	assert.Equal(t, 0, c.Len())
}

func TestPlaces_ZeroTTLNeverExpires(t *testing.T) {
	c := NewPlaces(0)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("k", model.Place{Key: "k", Name: "Gran Vía"})
	now = now.Add(1000 * time.Hour)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestPlaces_Warm(t *testing.T) {
	c := NewPlaces(time.Hour)

	c.Warm([]model.Place{
		{Key: "a", Name: "A"},
		{Key: "b", Name: "B"},
	})

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
}

func TestPlaces_Reset(t *testing.T) {
	c := NewPlaces(time.Hour)
	c.Add("k", model.Place{Key: "k"})

	c.Reset()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestPlaces_ConcurrentAccess(t *testing.T) {
	c := NewPlaces(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Add("k", model.Place{Key: "k", Name: "X"})
		}(i)
		go func() {
			defer wg.Done()
			c.Get("k")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
}

func TestSafeCounter(t *testing.T) {
	var c SafeCounter

	assert.Equal(t, 0, c.Value())

	c.Set(5)
	assert.Equal(t, 5, c.Value())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, 105, c.Value())
}
