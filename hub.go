package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	ai "scraphunt/server/internal/ai"
	"scraphunt/server/logging"
	simlog "scraphunt/server/logging/simulation"
)

// Hub owns the authoritative world, the staged command queue, and every
// live subscriber connection. The first client to join controls the
// hunter; later clients observe.
type Hub struct {
	mu            sync.Mutex
	world         *World
	commands      []Command
	subscribers   map[string]*subscriber
	controllerID  string
	stagedLibrary *ai.Library

	nextID    atomic.Uint64
	tick      atomic.Uint64
	publisher logging.Publisher
	telemetry *telemetryCounters
}

type subscriber struct {
	conn          *websocket.Conn
	mu            sync.Mutex
	role          string
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

func newHub(cfg worldConfig, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	telemetry := newTelemetryCounters()
	world := newWorld(cfg, publisher)
	world.telemetry = telemetry
	return &Hub{
		world:       world,
		subscribers: make(map[string]*subscriber),
		publisher:   publisher,
		telemetry:   telemetry,
	}
}

// Join registers a new client and returns the world snapshot it needs to
// render the compound.
func (h *Hub) Join() joinResponse {
	id := fmt.Sprintf("client-%d", h.nextID.Add(1))

	h.mu.Lock()
	role := roleObserver
	if h.controllerID == "" {
		h.controllerID = id
		role = roleController
	}
	player, agents := h.world.Snapshot()
	colliders := h.world.colliders.Colliders()
	seed := h.world.seed
	h.mu.Unlock()

	return joinResponse{
		Ver:        protocolVersion,
		ID:         id,
		Role:       role,
		PlayerID:   player.ID,
		Player:     player,
		Agents:     agents,
		Colliders:  colliders,
		Seed:       seed,
		TickRate:   tickRate,
		ServerTime: time.Now().UnixMilli(),
	}
}

// Subscribe associates a WebSocket connection with a joined client.
func (h *Hub) Subscribe(clientID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	role := roleObserver
	if clientID == h.controllerID {
		role = roleController
	}

	if existing, ok := h.subscribers[clientID]; ok {
		existing.conn.Close()
	}

	sub := &subscriber{conn: conn, role: role, lastHeartbeat: time.Now()}
	h.subscribers[clientID] = sub
	return sub, true
}

// Disconnect drops a client. Losing the controller frees the hunter for
// the next joiner.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	sub, ok := h.subscribers[clientID]
	if ok {
		delete(h.subscribers, clientID)
	}
	if clientID == h.controllerID {
		h.controllerID = ""
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// QueueCommand stages a command for the next tick. Only the controller
// may drive the hunter or interact with agents.
func (h *Hub) QueueCommand(clientID string, cmd Command) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientID != h.controllerID {
		return false
	}
	cmd.OriginTick = h.tick.Load()
	h.commands = append(h.commands, cmd)
	return true
}

// UpdateHeartbeat records liveness for a client and stages a heartbeat
// command when it comes from the controller.
func (h *Hub) UpdateHeartbeat(clientID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[clientID]
	if !ok {
		return 0, false
	}

	sub.lastHeartbeat = receivedAt

	var rtt time.Duration
	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt = receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			sub.lastRTT = rtt
		}
	}

	if clientID == h.controllerID {
		h.commands = append(h.commands, Command{
			ActorID: clientID,
			Type:    CommandHeartbeat,
			Heartbeat: &HeartbeatCommand{
				ReceivedAt: receivedAt,
				ClientSent: clientSent,
				RTT:        rtt,
			},
		})
	}

	return rtt, true
}

// StageProfileLibrary schedules a behavior profile swap. The swap is
// applied at the top of the next tick so a reload never lands mid-pass.
func (h *Hub) StageProfileLibrary(lib *ai.Library) {
	if lib == nil {
		return
	}
	h.mu.Lock()
	h.stagedLibrary = lib
	h.mu.Unlock()
}

// advance runs a single simulation step and returns the broadcast payload
// plus any subscribers that timed out.
func (h *Hub) advance(now time.Time, dt float64) (stateMessage, []*subscriber) {
	h.mu.Lock()

	toClose := make([]*subscriber, 0)
	for id, sub := range h.subscribers {
		if now.Sub(sub.lastHeartbeat) > disconnectAfter {
			toClose = append(toClose, sub)
			delete(h.subscribers, id)
			if id == h.controllerID {
				h.controllerID = ""
			}
			log.Printf("disconnecting %s due to heartbeat timeout", id)
		}
	}

	if h.stagedLibrary != nil {
		h.world.ReplaceProfileLibrary(h.stagedLibrary)
		h.stagedLibrary = nil
	}

	commands := h.commands
	h.commands = nil

	tick := h.tick.Add(1)
	h.world.Step(tick, now, dt, commands)

	player, agents := h.world.Snapshot()
	events := h.world.DrainEvents()
	msg := stateMessage{
		Ver:             protocolVersion,
		Type:            "state",
		Tick:            tick,
		Player:          player,
		Agents:          agents,
		Events:          events,
		AgentsRemaining: h.world.AgentsRemaining(),
		Concluded:       h.world.Concluded(),
		ServerTime:      now.UnixMilli(),
	}
	h.mu.Unlock()

	return msg, toClose
}

// RunSimulation drives the fixed-rate tick loop until the stop channel closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	budget := time.Second / tickRate
	var overrunStreak uint64

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}
			last = now

			started := time.Now()
			msg, toClose := h.advance(now, dt)
			elapsed := time.Since(started)
			h.telemetry.RecordTickDuration(elapsed)
			if elapsed > budget {
				overrunStreak++
				simlog.TickBudgetOverrun(context.Background(), h.publisher, msg.Tick, simlog.TickBudgetOverrunPayload{
					DurationMillis: elapsed.Milliseconds(),
					BudgetMillis:   budget.Milliseconds(),
					Ratio:          float64(elapsed) / float64(budget),
					Streak:         overrunStreak,
				})
			} else {
				overrunStreak = 0
			}

			for _, sub := range toClose {
				sub.conn.Close()
			}
			h.broadcastState(msg)
		}
	}
}

// broadcastState sends the latest tick snapshot to every subscriber.
func (h *Hub) broadcastState(msg stateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}
	h.telemetry.RecordBroadcast(len(data), len(msg.Agents)+1)

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			log.Printf("failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// DiagnosticsSnapshot exposes liveness and telemetry for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() diagnosticsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]diagnosticsClient, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		clients = append(clients, diagnosticsClient{
			ID:            id,
			Role:          sub.role,
			LastHeartbeat: sub.lastHeartbeat.UnixMilli(),
			RTTMillis:     sub.lastRTT.Milliseconds(),
		})
	}

	return diagnosticsSnapshot{
		Ver:             protocolVersion,
		Tick:            h.tick.Load(),
		AgentsRemaining: h.world.AgentsRemaining(),
		Concluded:       h.world.Concluded(),
		Subscribers:     clients,
		Telemetry:       h.telemetry.Snapshot(),
	}
}
