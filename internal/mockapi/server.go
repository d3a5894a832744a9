// Package mockapi is a local stand-in for the Mixingo backend. It serves the
// embedded sample data over the same endpoints and supports injected
// failures for tests.
package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mixingo/mixingo/internal/api"
	"github.com/mixingo/mixingo/internal/exercise"
	"github.com/mixingo/mixingo/internal/fixtures"
	"github.com/mixingo/mixingo/internal/session"
)

const maxRequestBodySize = 1 << 20

// Fault replaces the normal response of one endpoint.
type Fault struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Server is an in-memory backend. The zero value is not usable; call New.
type Server struct {
	mu      sync.Mutex
	users   map[string]session.Signals
	faults  map[string]Fault
	calls   map[string]int
	bodies  map[string][]byte
	handler http.Handler
}

// New creates a Server with no users and no faults.
func New() *Server {
	s := &Server{
		users:  make(map[string]session.Signals),
		faults: make(map[string]Fault),
		calls:  make(map[string]int),
		bodies: make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Use(s.track)

	r.Post(api.PathWarmupSubmit, s.handleWarmup)
	r.Post(api.PathCTMAnalyze, s.handleAnalyze)
	r.Post(api.PathExercisesGen, s.handleExercises)
	r.Get("/api/demo/{name}", s.handleDemo)
	r.Get("/health", handleHealth)

	s.handler = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Fail makes path answer with f until Clear is called.
func (s *Server) Fail(path string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[path] = f
}

// Clear removes the fault on path.
func (s *Server) Clear(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, path)
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls returns the number of requests served.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// LastBody returns the most recent request body sent to path.
func (s *Server) LastBody(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[path]
}

// AddUser registers a user as if it had submitted a warm-up.
func (s *Server) AddUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = session.Signals{ErrorDistribution: map[session.Category]int{}}
}

// track counts calls, stores request bodies and applies faults.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		body, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.bodies[r.URL.Path] = body
		f, faulted := s.faults[r.URL.Path]
		s.mu.Unlock()

		if !faulted {
			next.ServeHTTP(w, r)
			return
		}

		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if f.Status == 0 {
			next.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(f.Status)
		io.WriteString(w, f.Body)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type warmupRequest struct {
	UserID  string                 `json:"user_id"`
	Answers []session.WarmupAnswer `json:"answers"`
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusUnprocessableEntity, "invalid request body: %v", err)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = uuid.NewString()
	}
	signals := session.ComputeSignals(req.Answers)
	signals.ConfidenceProxies = 0.7
	signals.ScriptFamiliarity = 0.6

	s.mu.Lock()
	s.users[userID] = signals
	s.mu.Unlock()

	slog.Debug("mockapi: warm-up stored", "user_id", userID, "answers", len(req.Answers))
	writeJSON(w, api.WarmupResult{UserID: userID, Signals: signals})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusUnprocessableEntity, "invalid request body: %v", err)
		return
	}

	s.mu.Lock()
	_, ok := s.users[req.UserID]
	s.mu.Unlock()
	if !ok {
		httpError(w, http.StatusNotFound, "User session not found")
		return
	}
	writeJSON(w, fixtures.Analysis())
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleID string `json:"module_id"`
		UserID   string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusUnprocessableEntity, "invalid request body: %v", err)
		return
	}
	if req.ModuleID == "" {
		httpError(w, http.StatusUnprocessableEntity, "module_id is required")
		return
	}
	writeJSON(w, SampleSet(req.ModuleID))
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	switch name := chi.URLParam(r, "name"); name {
	case "ctm", "profile":
		raw, err := fixtures.Raw(name)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "load %s: %v", name, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	case "exercises":
		writeJSON(w, SampleSet(""))
	default:
		httpError(w, http.StatusNotFound, "Not Found")
	}
}

// SampleSet converts the sample exercises into a generated set for moduleID.
func SampleSet(moduleID string) exercise.Set {
	items := fixtures.Exercises()
	set := exercise.Set{
		ModuleID:         moduleID,
		MicroExplanation: "Practice built from your strongest transfer patterns.",
		Questions:        make([]exercise.APIQuestion, 0, len(items)),
	}
	for _, it := range items {
		set.Questions = append(set.Questions, exercise.APIQuestion{
			Question:      it.Prompt,
			Options:       it.Options,
			CorrectAnswer: it.Correct(),
			Feedback:      it.Hint,
		})
	}
	return set
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// httpError answers in the backend's {"detail": ...} error shape.
func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": fmt.Sprintf(format, args...)})
}
