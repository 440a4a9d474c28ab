// Package server exposes the running simulation over WebSocket: frames and
// radio chatter out, player commands in.
package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/model"
	"github.com/gridfall/outbreak/internal/radio"
	"github.com/gridfall/outbreak/internal/sim"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	runner *sim.Runner
	radio  *radio.Log
	log    *slog.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex

	// radioSeen tracks how much of the radio log has been broadcast.
	radioSeen int
	lastKnown model.Outcome
}

// NewHub initializes a WebSocket hub bound to a runner and radio log.
func NewHub(runner *sim.Runner, radioLog *radio.Log, log *slog.Logger) *Hub {
	return &Hub{
		runner:     runner,
		radio:      radioLog,
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run handles client registration and broadcast until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub shutting down")
			// closing done releases any pump blocked on register/unregister
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Info("websocket client connected", "clients", h.clientCount())
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Info("websocket client disconnected", "clients", h.clientCount())
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues raw bytes for every connected client. Drops the message
// when the hub itself is backed up; frames are superseded 50ms later anyway.
func (h *Hub) Broadcast(message []byte) {
	if message == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
	}
}

// FrameHandler returns a bus handler translating sim frames into outbound
// envelopes. Register it (or chain it) under sim.TopicFrame.
func (h *Hub) FrameHandler() dispatcher.HandlerFunc {
	return func(ev dispatcher.Event) (any, error) {
		frame, ok := ev.Payload.(sim.Frame)
		if !ok {
			return nil, nil
		}
		h.publishFrame(frame)
		return nil, nil
	}
}

func (h *Hub) publishFrame(frame sim.Frame) {
	h.Broadcast(mustEnvelope(TypeFrame, FramePayload{
		State:    frame.State,
		Entities: frame.Entities,
		Effects:  frame.Effects,
	}))

	if fresh, cursor := h.radio.Since(h.radioSeen); len(fresh) > 0 || cursor != h.radioSeen {
		h.radioSeen = cursor
		if len(fresh) > 0 {
			h.Broadcast(mustEnvelope(TypeRadio, RadioPayload{Messages: fresh}))
		}
	}

	if frame.State.Outcome != h.lastKnown {
		h.lastKnown = frame.State.Outcome
		if frame.State.Outcome != model.OutcomeNone {
			h.Broadcast(mustEnvelope(TypeOutcome, OutcomePayload{
				Outcome: frame.State.Outcome.String(),
				Tick:    frame.State.Tick,
			}))
		}
	}
}
