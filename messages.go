package main

import geo "scraphunt/server/internal/geo"

const protocolVersion = 1

const (
	roleController = "controller"
	roleObserver   = "observer"
)

type joinResponse struct {
	Ver        int            `json:"ver"`
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	PlayerID   string         `json:"playerId"`
	Player     Player         `json:"player"`
	Agents     []Agent        `json:"agents"`
	Colliders  []geo.Collider `json:"colliders"`
	Seed       string         `json:"seed"`
	TickRate   int            `json:"tickRate"`
	ServerTime int64          `json:"serverTime"`
}

type stateMessage struct {
	Ver             int     `json:"ver"`
	Type            string  `json:"type"`
	Tick            uint64  `json:"t"`
	Player          Player  `json:"player"`
	Agents          []Agent `json:"agents"`
	Events          []Event `json:"events,omitempty"`
	AgentsRemaining int     `json:"agentsRemaining"`
	Concluded       bool    `json:"concluded"`
	ServerTime      int64   `json:"serverTime"`
}

// clientMessage is the single envelope for everything a client sends over
// the socket.
type clientMessage struct {
	Type       string  `json:"type"`
	DX         float64 `json:"dx"`
	DZ         float64 `json:"dz"`
	Sprint     bool    `json:"sprint"`
	Jump       bool    `json:"jump"`
	ClientSent int64   `json:"clientSent"`
	TargetID   string  `json:"targetId"`
	Amount     float64 `json:"amount"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientSent int64  `json:"clientSent"`
	RTTMillis  int64  `json:"rttMillis"`
}

type diagnosticsSnapshot struct {
	Ver             int                 `json:"ver"`
	Tick            uint64              `json:"tick"`
	AgentsRemaining int                 `json:"agentsRemaining"`
	Concluded       bool                `json:"concluded"`
	Subscribers     []diagnosticsClient `json:"subscribers"`
	Telemetry       telemetrySnapshot   `json:"telemetry"`
}

type diagnosticsClient struct {
	ID            string `json:"id"`
	Role          string `json:"role"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
