package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fluidsim/simulation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local debug endpoint
	},
}

// serveStats exposes a websocket at /stats that pushes one solver
// snapshot per second: frame and skip counts, per-field swap totals and
// the active field format. Handy for watching pass sequencing from
// outside the render loop without instrumenting it.
func serveStats(addr string, solver *simulation.Solver, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		log.Info("stats client connected", zap.String("remote", conn.RemoteAddr().String()))

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for range ticker.C {
			if err := conn.WriteJSON(solver.Stats()); err != nil {
				log.Info("stats client gone", zap.Error(err))
				return
			}
		}
	})

	log.Info("stats server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("stats server stopped", zap.Error(err))
	}
}
