package narrator

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/radio"
	"github.com/gridfall/outbreak/internal/sim"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNarrator_UsesServiceText(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, "/api/v1/chatter", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, string(ChatterRescue), req.Kind)
		assert.Equal(t, "Elena Ortiz", req.Subject)

		json.NewEncoder(w).Encode(generateResponse{Text: "Ortiz is walking out on her own."})
	}))
	defer srv.Close()

	log := radio.NewLog()
	n := New(NewClient(srv.URL, ""), nil, log, discard())

	n.HandleEvents(context.Background(), []sim.Event{
		{Kind: sim.EventHealDone, Name: "Elena Ortiz"},
	})

	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ortiz is walking out on her own.", msgs[0].Text)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestNarrator_FallsBackWhenServiceFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log := radio.NewLog()
	n := New(NewClient(srv.URL, ""), nil, log, discard())

	n.HandleEvents(context.Background(), []sim.Event{
		{Kind: sim.EventConversion, Name: "Marcus Webb"},
	})

	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Marcus Webb")
}

func TestNarrator_NoClientUsesFallbacks(t *testing.T) {
	log := radio.NewLog()
	n := New(nil, nil, log, discard())

	n.HandleEvents(context.Background(), []sim.Event{
		{Kind: sim.EventOutbreakStart},
		{Kind: sim.EventVictory},
	})

	msgs := log.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "HQ", msgs[0].Sender)
	assert.Equal(t, "HQ", msgs[1].Sender)
	assert.NotEmpty(t, msgs[0].Text)
}

func TestNarrator_IgnoresRoutineEvents(t *testing.T) {
	log := radio.NewLog()
	n := New(nil, nil, log, discard())

	n.HandleEvents(context.Background(), []sim.Event{
		{Kind: sim.EventKill, Name: "zombie"},
		{Kind: sim.EventCapture},
		{Kind: sim.EventDenied, Text: "on cooldown"},
	})

	assert.Empty(t, log.Messages())
}

func TestClient_BearerAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(generateResponse{Text: "copy"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekrit")
	text, err := c.Generate(context.Background(), ChatterRandom, "")
	require.NoError(t, err)
	assert.Equal(t, "copy", text)
}

func TestClient_EmptyTextIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Text: "   "})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), ChatterRandom, "")
	assert.Error(t, err)
}
