package influx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/sim"
)

// backupManager returns a manager in backup mode writing into buf.
func backupManager(buf *bytes.Buffer) *Manager {
	m := NewManager(zerolog.Nop(), "")
	m.BackupWriter = gzip.NewWriter(buf)
	return m
}

func gunzip(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestWritePoint_BackupFallback(t *testing.T) {
	var buf bytes.Buffer
	m := backupManager(&buf)

	p := influxdb2_write.NewPointWithMeasurement("tick_stats").
		AddTag("outcome", "none").
		AddField("healthy", 42)
	require.NoError(t, m.WritePoint(context.Background(), BucketTicks, p))
	require.NoError(t, m.BackupWriter.Close())

	line := gunzip(t, &buf)
	assert.Contains(t, line, "tick_stats")
	assert.Contains(t, line, "outcome=none")
	assert.Contains(t, line, "healthy=42i")
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	p := influxdb2_write.NewPointWithMeasurement("tick_stats")
	assert.Error(t, m.WritePoint(context.Background(), BucketTicks, p))
}

func TestTickPoint_Fields(t *testing.T) {
	frame := sim.Frame{
		State: model.GameState{
			Tick: 200, Healthy: 80, Infected: 12, Soldiers: 9, Resources: 750,
			Outcome: model.OutcomeNone,
		},
		Entities: make([]model.Entity, 101),
	}

	p := TickPoint(frame)
	assert.Equal(t, "tick_stats", p.Name())

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.EqualValues(t, int64(200), fields["tick"])
	assert.EqualValues(t, int64(80), fields["healthy"])
	assert.EqualValues(t, int64(101), fields["entities"])

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "none", tags["outcome"])
}

func TestEventPoint_Fields(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := EventPoint(sim.Event{Kind: sim.EventKill, Tick: 55, At: at, Name: "zombie"})

	assert.Equal(t, "sim_event", p.Name())
	assert.Equal(t, at, p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "kill", tags["kind"])
}

func TestFrameHandler_SamplesTicks(t *testing.T) {
	var buf bytes.Buffer
	m := backupManager(&buf)
	h := FrameHandler(m)

	// Off-sample tick writes nothing.
	_, err := h(dispatcher.Event{Payload: sim.Frame{State: model.GameState{Tick: 7}}})
	require.NoError(t, err)

	// On-sample tick writes one point.
	_, err = h(dispatcher.Event{Payload: sim.Frame{State: model.GameState{Tick: tickSampleEvery}}})
	require.NoError(t, err)

	require.NoError(t, m.BackupWriter.Close())
	line := gunzip(t, &buf)
	assert.Equal(t, 1, bytes.Count([]byte(line), []byte("tick_stats")))
}

func TestEventsHandler_WritesEachEvent(t *testing.T) {
	var buf bytes.Buffer
	m := backupManager(&buf)
	h := EventsHandler(m)

	_, err := h(dispatcher.Event{Payload: []sim.Event{
		{Kind: sim.EventCapture},
		{Kind: sim.EventHealDone},
	}})
	require.NoError(t, err)
	require.NoError(t, m.BackupWriter.Close())

	line := gunzip(t, &buf)
	assert.Equal(t, 2, bytes.Count([]byte(line), []byte("sim_event")))
}
