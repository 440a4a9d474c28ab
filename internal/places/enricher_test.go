package places

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/sim"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type tagSink struct {
	mu   sync.Mutex
	tags []sim.PlaceTag
}

func (s *tagSink) merge(t sim.PlaceTag) {
	s.mu.Lock()
	s.tags = append(s.tags, t)
	s.mu.Unlock()
}

func (s *tagSink) snapshot() []sim.PlaceTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sim.PlaceTag(nil), s.tags...)
}

func (s *tagSink) waitFor(t *testing.T, n int) []sim.PlaceTag {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if tags := s.snapshot(); len(tags) >= n {
			return tags
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d place tags, got %d", n, len(s.snapshot()))
	return nil
}

func frameEvent(entities ...model.Entity) dispatcher.Event {
	return dispatcher.Event{Payload: sim.Frame{Entities: entities}}
}

func TestEnricher_TagsHomeAndCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"name":"Gran Vía","category":"highway","type":"road"}`))
	}))
	defer srv.Close()

	sink := &tagSink{}
	en := NewEnricher(newTestResolver(t, srv.URL, nil), sink.merge, discardLogger())
	handler := en.FrameHandler()

	e := model.Entity{ID: "e1", Position: geo.Coordinates{Lat: 40.42, Lng: -3.70}}
	_, err := handler(frameEvent(e))
	require.NoError(t, err)

	tags := sink.waitFor(t, 1)
	assert.Equal(t, "e1", tags[0].EntityID)
	assert.Equal(t, "Gran Vía", tags[0].Current)
	assert.Equal(t, "Gran Vía", tags[0].Home, "first resolution doubles as the home place")
	assert.Equal(t, 1, en.Lookups())
}

func TestEnricher_SkipsIdlersAndKeepsHome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"name":"Retiro","category":"leisure","type":"park"}`))
	}))
	defer srv.Close()

	sink := &tagSink{}
	en := NewEnricher(newTestResolver(t, srv.URL, nil), sink.merge, discardLogger())
	handler := en.FrameHandler()

	e := model.Entity{ID: "e1", Position: geo.Coordinates{Lat: 40.42, Lng: -3.70}}
	_, err := handler(frameEvent(e))
	require.NoError(t, err)
	sink.waitFor(t, 1)

	// same position again: nothing new to resolve
	_, err = handler(frameEvent(e))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, en.Lookups(), "an idle entity is not re-resolved")

	// moved well past the threshold, home already set: only current follows
	e.HomePlace = "Retiro"
	e.Position = geo.Coordinates{Lat: 40.43, Lng: -3.70}
	_, err = handler(frameEvent(e))
	require.NoError(t, err)

	tags := sink.waitFor(t, 2)
	assert.Equal(t, "Retiro", tags[1].Current)
	assert.Empty(t, tags[1].Home, "the home place is written once")
	assert.Equal(t, 2, en.Lookups())
}

func TestEnricher_IgnoresDeadEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"name":"Sol","category":"place","type":"square"}`))
	}))
	defer srv.Close()

	sink := &tagSink{}
	en := NewEnricher(newTestResolver(t, srv.URL, nil), sink.merge, discardLogger())
	handler := en.FrameHandler()

	corpse := model.Entity{ID: "e1", Dead: true, Position: geo.Coordinates{Lat: 40.42, Lng: -3.70}}
	_, err := handler(frameEvent(corpse))
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, en.Lookups())
	assert.Empty(t, sink.snapshot())
}
