package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/network"
	"github.com/fieldsense/perception/internal/report"
)

// debugServer serves live state of the running pipeline under /debug/.
type debugServer struct {
	p     *pipeline
	store *db.DB // nil when not recording
	runID string
	udp   *network.UDPListener // nil unless listening
}

func (d *debugServer) attach(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("belief", "Latest cycle summary (JSON)", d.handleBelief)
	if d.udp != nil {
		debug.HandleFunc("udp", "UDP frame counters (JSON)", d.handleUDP)
	}
	if d.store == nil {
		return nil
	}
	debug.HandleFunc("run", "Reach and line charts of this run", d.handleRunCharts)
	debug.HandleFunc("trajectory", "Self and ball trajectory of this run (PNG)", d.handleTrajectory)
	return d.store.AttachAdminRoutes(mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (d *debugServer) handleBelief(w http.ResponseWriter, r *http.Request) {
	last, frames := d.p.Snapshot()
	writeJSON(w, struct {
		Frames int             `json:"frames"`
		Cycle  db.CycleSummary `json:"cycle"`
	}{frames, last})
}

func (d *debugServer) handleUDP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, d.udp.Stats())
}

func (d *debugServer) handleRunCharts(w http.ResponseWriter, r *http.Request) {
	cycles, err := d.store.ListCycles(d.runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load cycles: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := report.RenderRunPage(&buf, d.runID, cycles, reachChartCap, report.DefaultOptions()); err != nil {
		http.Error(w, fmt.Sprintf("failed to render charts: %v", err), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (d *debugServer) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	cycles, err := d.store.ListCycles(d.runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load cycles: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteTrajectoryPNG(&buf, "run "+d.runID, cycles, report.DefaultOptions()); err != nil {
		http.Error(w, fmt.Sprintf("failed to render trajectory: %v", err), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// reachChartCap keeps unreachable cycles from flattening the reach chart.
const reachChartCap = intercept.UnreachableCycles / 20
