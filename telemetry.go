package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	bytesSent             atomic.Uint64
	entitiesSent          atomic.Uint64
	tickDurationMillis    atomic.Int64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	debug                 bool

	stateTransitions atomic.Uint64
	cuesEmitted      atomic.Uint64
	raycasts         atomic.Uint64
	agentsDestroyed  atomic.Uint64
	profileReloads   atomic.Uint64
}

type telemetrySnapshot struct {
	BytesSent        uint64 `json:"bytesSent"`
	EntitiesSent     uint64 `json:"entitiesSent"`
	TickDuration     int64  `json:"tickDurationMillis"`
	StateTransitions uint64 `json:"stateTransitions"`
	CuesEmitted      uint64 `json:"cuesEmitted"`
	Raycasts         uint64 `json:"raycasts"`
	AgentsDestroyed  uint64 `json:"agentsDestroyed"`
	ProfileReloads   uint64 `json:"profileReloads"`
}

func newTelemetryCounters() *telemetryCounters {
	t := &telemetryCounters{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	t.bytesSent.Add(uint64(bytes))
	t.entitiesSent.Add(uint64(entities))
	t.lastBroadcastBytes.Store(uint64(bytes))
	t.lastBroadcastEntities.Store(uint64(entities))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
	if t.debug {
		fmt.Printf(
			"[telemetry] tick=%dms bytes=%d totalBytes=%d entities=%d totalEntities=%d\n",
			millis,
			t.lastBroadcastBytes.Load(),
			t.bytesSent.Load(),
			t.lastBroadcastEntities.Load(),
			t.entitiesSent.Load(),
		)
	}
}

func (t *telemetryCounters) IncrementStateTransitions() {
	t.stateTransitions.Add(1)
}

func (t *telemetryCounters) IncrementCues() {
	t.cuesEmitted.Add(1)
}

func (t *telemetryCounters) AddRaycasts(n int) {
	if n <= 0 {
		return
	}
	t.raycasts.Add(uint64(n))
}

func (t *telemetryCounters) IncrementAgentsDestroyed() {
	t.agentsDestroyed.Add(1)
}

func (t *telemetryCounters) IncrementProfileReloads() {
	t.profileReloads.Add(1)
}

func (t *telemetryCounters) DebugEnabled() bool {
	return t.debug
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:        t.bytesSent.Load(),
		EntitiesSent:     t.entitiesSent.Load(),
		TickDuration:     t.tickDurationMillis.Load(),
		StateTransitions: t.stateTransitions.Load(),
		CuesEmitted:      t.cuesEmitted.Load(),
		Raycasts:         t.raycasts.Load(),
		AgentsDestroyed:  t.agentsDestroyed.Load(),
		ProfileReloads:   t.profileReloads.Load(),
	}
}
