package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"scraphunt/server/logging"
	"scraphunt/server/logging/sinks"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	worldPath := flag.String("world", "", "path to a YAML world config (defaults used when empty)")
	profilesDir := flag.String("profiles", "", "directory of behavior profile JSON files to watch for hot reload")
	logJSONPath := flag.String("log-json", "", "write newline-delimited JSON events to this file")
	flag.Parse()

	cfg, err := loadWorldConfig(*worldPath)
	if err != nil {
		log.Fatalf("world config: %v", err)
	}

	logCfg := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)},
	}
	if *logJSONPath != "" {
		file, err := os.OpenFile(*logJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, logCfg.JSONFlush)})
	}
	router, err := logging.NewRouter(nil, logCfg, namedSinks)
	if err != nil {
		log.Fatalf("logging router: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(ctx); err != nil {
			log.Printf("logging router close: %v", err)
		}
	}()
	publisher := logging.WithFields(router, map[string]any{"seed": cfg.normalized().Seed})

	hub := newHub(cfg, publisher)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	if *profilesDir != "" {
		watcher, err := watchProfiles(*profilesDir, hub)
		if err != nil {
			log.Fatalf("profile watcher: %v", err)
		}
		defer watcher.Close()
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string              `json:"status"`
			ServerTime int64               `json:"serverTime"`
			Hub        diagnosticsSnapshot `json:"hub"`
			TickRate   int                 `json:"tickRate"`
			Heartbeat  int64               `json:"heartbeatMillis"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Hub:        hub.DiagnosticsSnapshot(),
			TickRate:   tickRate,
			Heartbeat:  heartbeatInterval.Milliseconds(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(hub.telemetry.Snapshot())
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		join := hub.Join()
		data, err := json.Marshal(join)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		clientID := r.URL.Query().Get("id")
		if clientID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed for %s: %v", clientID, err)
			return
		}

		sub, ok := hub.Subscribe(clientID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown client")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				hub.Disconnect(clientID)
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("discarding malformed message from %s: %v", clientID, err)
				continue
			}

			switch msg.Type {
			case "input":
				queued := hub.QueueCommand(clientID, Command{
					ActorID:  clientID,
					Type:     CommandMove,
					IssuedAt: time.Now(),
					Move: &MoveCommand{
						DX:     msg.DX,
						DZ:     msg.DZ,
						Sprint: msg.Sprint,
						Jump:   msg.Jump,
					},
				})
				if !queued {
					log.Printf("input ignored for non-controller %s", clientID)
				}
			case "damage":
				hub.QueueCommand(clientID, Command{
					ActorID:  clientID,
					Type:     CommandDamage,
					IssuedAt: time.Now(),
					Damage:   &DamageCommand{TargetID: msg.TargetID, Amount: msg.Amount},
				})
			case "capture":
				hub.QueueCommand(clientID, Command{
					ActorID:  clientID,
					Type:     CommandCapture,
					IssuedAt: time.Now(),
					Capture:  &CaptureCommand{TargetID: msg.TargetID},
				})
			case "heartbeat":
				now := time.Now()
				rtt, ok := hub.UpdateHeartbeat(clientID, now, msg.ClientSent)
				if !ok {
					continue
				}

				ack := heartbeatMessage{
					Ver:        protocolVersion,
					Type:       "heartbeat",
					ServerTime: now.UnixMilli(),
					ClientSent: msg.ClientSent,
					RTTMillis:  rtt.Milliseconds(),
				}

				data, err := json.Marshal(ack)
				if err != nil {
					log.Printf("failed to marshal heartbeat ack for %s: %v", clientID, err)
					continue
				}

				sub.mu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					sub.mu.Unlock()
					hub.Disconnect(clientID)
					return
				}
				sub.mu.Unlock()
			default:
				log.Printf("unknown message type %q from %s", msg.Type, clientID)
			}
		}
	})

	log.Printf("server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
