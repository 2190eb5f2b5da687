// Package daemon provides the optional local HTTP API over the tracker.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/logger"
	"github.com/theirongolddev/messmate/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Metrics      bool
	Logger       *slog.Logger
}

// Tracker is the part of the tracker the daemon serves.
type Tracker interface {
	State() model.AppState
	Stats() model.Stats
	Today() model.Date
	Now() time.Time
	AdvanceMeal(dayID string, meal model.MealType) (model.Status, bool, error)
	CloseCycle() (model.ArchivedCycle, model.Stats, error)
}

// Snapshot is a compact view of the current cycle's statistics.
type Snapshot struct {
	At               time.Time `json:"at"`
	CycleID          string    `json:"cycle_id,omitempty"`
	TotalMeals       int       `json:"total_meals"`
	Taken            int       `json:"taken"`
	MissedByUser     int       `json:"missed_by_user"`
	CancelledByOwner int       `json:"cancelled_by_owner"`
	Pending          int       `json:"pending"`
	TakenPercentage  float64   `json:"taken_percentage"`
	MissedPercentage float64   `json:"missed_percentage"`
	ExtensionDays    int       `json:"extension_days"`
	MoneyOwed        *float64  `json:"money_owed"`
}

// Delta captures the change between two snapshots.
type Delta struct {
	Taken            int     `json:"taken"`
	MissedByUser     int     `json:"missed_by_user"`
	CancelledByOwner int     `json:"cancelled_by_owner"`
	Pending          int     `json:"pending"`
	ExtensionDays    int     `json:"extension_days"`
	MoneyOwed        float64 `json:"money_owed"`
}

// Event types.
const (
	EventMealAdvanced = "meal_advanced"
	EventCycleClosed  = "cycle_closed"
)

// Event is recorded for every change made through the API.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	DayID     string    `json:"day_id,omitempty"`
	Meal      string    `json:"meal,omitempty"`
	Status    string    `json:"status,omitempty"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	SetUp           bool      `json:"set_up"`
	Name            string    `json:"name,omitempty"`
	MessName        string    `json:"mess_name,omitempty"`
	StartDate       string    `json:"start_date,omitempty"`
	EndDate         string    `json:"end_date,omitempty"`
	DaysRemaining   int       `json:"days_remaining"`
	ExtensionCredit int       `json:"extension_credit"`
	ClosedCycles    int       `json:"closed_cycles"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
}

// AdvanceRequest is the body of POST /v1/meals/advance.
type AdvanceRequest struct {
	DayID string `json:"dayId"`
	Meal  string `json:"meal"`
}

// AdvanceResponse reports the slot's new status.
type AdvanceResponse struct {
	DayID  string `json:"dayId"`
	Meal   string `json:"meal"`
	Status string `json:"status"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	tracker Tracker
	log     *slog.Logger
	metrics *metrics

	// writeMu pairs each tracker mutation with its event.
	writeMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	snapshot    Snapshot
	nextEventID int64
	events      []Event
}

// New returns a new daemon service over tr.
func New(tr Tracker, cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	s := &Service{
		cfg:       cfg,
		tracker:   tr,
		log:       cfg.Logger,
		startedAt: tr.Now(),
	}
	if cfg.Metrics {
		s.metrics = newMetrics()
	}
	s.snapshot = s.takeSnapshot()
	return s
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/cycle", s.handleCycle)
	mux.HandleFunc("POST /v1/meals/advance", s.handleAdvance)
	mux.HandleFunc("POST /v1/cycle/close", s.handleClose)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.handler(s.observe))
	}
	return mux
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", "addr", s.cfg.Addr, "metrics", s.metrics != nil)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("daemon shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func (s *Service) takeSnapshot() Snapshot {
	st := s.tracker.Stats()
	snap := snapshotFromStats(st, s.tracker.Now())
	if c := s.tracker.State().Current; c != nil {
		snap.CycleID = c.ID
	}
	return snap
}

func snapshotFromStats(st model.Stats, at time.Time) Snapshot {
	return Snapshot{
		At:               at,
		TotalMeals:       st.TotalMeals,
		Taken:            st.Taken,
		MissedByUser:     st.MissedByUser,
		CancelledByOwner: st.CancelledByOwner,
		Pending:          st.Pending,
		TakenPercentage:  st.TakenPercentage,
		MissedPercentage: st.MissedPercentage,
		ExtensionDays:    st.ExtensionDays,
		MoneyOwed:        st.MoneyOwed,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Taken:            curr.Taken - prev.Taken,
		MissedByUser:     curr.MissedByUser - prev.MissedByUser,
		CancelledByOwner: curr.CancelledByOwner - prev.CancelledByOwner,
		Pending:          curr.Pending - prev.Pending,
		ExtensionDays:    curr.ExtensionDays - prev.ExtensionDays,
		MoneyOwed:        model.Round2(money(curr.MoneyOwed) - money(prev.MoneyOwed)),
	}
}

func money(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// record takes a fresh snapshot after a change and appends an event carrying
// the delta from the previous one. Callers hold s.writeMu.
func (s *Service) record(ev Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.takeSnapshot()
	prev := s.snapshot
	s.snapshot = snap
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = snap.At
	ev.Snapshot = snap
	ev.Delta = diffSnapshots(prev, snap)
	s.appendEvent(ev)
	return ev
}

// appendEvent adds ev to the ring buffer. Callers hold s.mu.
func (s *Service) appendEvent(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}

// observe refreshes the gauges from the tracker before a scrape.
func (s *Service) observe(m *metrics) {
	st := s.tracker.State()
	credit := 0
	if st.Profile != nil {
		credit = st.Profile.ExtensionDays
	}
	m.set(s.tracker.Stats(), credit)
}

func (s *Service) snapshotStatus() Status {
	state := s.tracker.State()

	s.mu.RLock()
	out := Status{
		StartedAt:    s.startedAt,
		SetUp:        state.IsSetUp(),
		ClosedCycles: len(state.History),
		Summary:      s.snapshot,
		EventCount:   len(s.events),
	}
	s.mu.RUnlock()

	if p := state.Profile; p != nil {
		out.Name = p.Name
		out.MessName = p.MessName
		out.ExtensionCredit = p.ExtensionDays
	}
	if c := state.Current; c != nil {
		out.StartDate = c.StartDate.String()
		out.EndDate = c.EndDate.String()
		out.DaysRemaining = cycle.DaysRemaining(c, s.tracker.Today())
	}
	return out
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCycle(w http.ResponseWriter, _ *http.Request) {
	c := s.tracker.State().Current
	if c == nil {
		writeError(w, http.StatusNotFound, "no current cycle")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Service) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	meal, err := model.ParseMealType(req.Meal)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	status, ok, err := s.tracker.AdvanceMeal(req.DayID, meal)
	if err != nil {
		s.log.Error("advance failed", "day", req.DayID, "meal", string(meal), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no %s on day %q", meal, req.DayID))
		return
	}
	if s.metrics != nil {
		s.metrics.advances.WithLabelValues(status.String()).Inc()
	}

	s.record(Event{Type: EventMealAdvanced, DayID: req.DayID, Meal: string(meal), Status: status.String()})
	writeJSON(w, http.StatusOK, AdvanceResponse{DayID: req.DayID, Meal: string(meal), Status: status.String()})
}

func (s *Service) handleClose(w http.ResponseWriter, _ *http.Request) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	archived, _, err := s.tracker.CloseCycle()
	switch {
	case errors.Is(err, cycle.ErrNoCurrentCycle), errors.Is(err, cycle.ErrNoProfile):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.log.Error("close cycle failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ev := s.record(Event{Type: EventCycleClosed})
	writeJSON(w, http.StatusOK, map[string]any{
		"closed": archived.ID,
		"event":  ev,
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
