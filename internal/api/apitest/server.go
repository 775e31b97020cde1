// Package apitest runs an in-memory implementation of the habit tracker
// REST API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitlog/internal/models"
)

// LogStyle controls which relation field names the server emits for logs.
type LogStyle int

const (
	LogStyleBoth    LogStyle = iota // habit + habit_id, trigger + trigger_id
	LogStyleLegacy                  // habit + trigger only
	LogStyleStrings                 // habit/trigger as numeric strings
)

type storedLog struct {
	ID      int64
	Habit   int64
	Date    string
	Status  string
	Note    *string
	Trigger *int64
}

// Server implements the REST contract in memory. Knobs must be changed
// through Configure once the server is running.
type Server struct {
	mu  sync.Mutex
	srv *httptest.Server

	users        map[string]string
	validAccess  map[string]bool
	RefreshToken string
	RejectAll    bool // every protected call answers 401
	OnRefresh    func()
	refreshCalls int
	issued       int

	habits   map[int64]models.Habit
	stats    map[int64]models.HabitStats
	triggers map[int64]models.Trigger
	logs     map[int64]*storedLog
	nextID   int64
	Style    LogStyle

	requests []string // "METHOD path?query"
	authSeen []string
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		users:        map[string]string{},
		validAccess:  map[string]bool{},
		RefreshToken: "refresh-token",
		habits:       map[int64]models.Habit{},
		stats:        map[int64]models.HabitStats{},
		triggers:     map[int64]models.Trigger{},
		logs:         map[int64]*storedLog{},
		nextID:       100,
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register/", s.register)
		r.Post("/auth/token/", s.token)
		r.Post("/auth/token/refresh/", s.refresh)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/habits/", s.listHabits(false))
			r.Post("/habits/", s.createHabit)
			r.Get("/habits/active/", s.listHabits(true))
			r.Get("/habits/dashboard/", s.dashboard)
			r.Patch("/habits/{id}/", s.updateHabit)
			r.Delete("/habits/{id}/", s.deleteHabit)
			r.Get("/habits/{id}/stats/", s.habitStats)

			r.Get("/triggers/", s.listTriggers)
			r.Post("/triggers/", s.createTrigger)
			r.Patch("/triggers/{id}/", s.updateTrigger)
			r.Delete("/triggers/{id}/", s.deleteTrigger)

			r.Get("/logs/", s.listLogs)
			r.Post("/logs/", s.createLog)
			r.Patch("/logs/{id}/", s.updateLog)
			r.Delete("/logs/{id}/", s.deleteLog)
		})
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API root, including the /api prefix.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// IssueAccess mints and registers a new access token.
func (s *Server) IssueAccess() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	tok := fmt.Sprintf("access-%d", s.issued)
	s.validAccess[tok] = true
	return tok
}

// Configure mutates backend knobs under the lock.
func (s *Server) Configure(fn func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Refreshes is the number of refresh calls received.
func (s *Server) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// LastAuth is the Authorization header of the latest request.
func (s *Server) LastAuth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.authSeen) == 0 {
		return ""
	}
	return s.authSeen[len(s.authSeen)-1]
}

// Count returns how many requests matched prefix, e.g. "GET /habits/".
func (s *Server) Count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

// AddTrigger stores a trigger directly.
func (s *Server) AddTrigger(name string) models.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := models.Trigger{ID: s.nextID, Name: name}
	s.triggers[t.ID] = t
	return t
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// AddHabit stores a habit and its stats directly.
func (s *Server) AddHabit(h models.Habit, st models.HabitStats) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	h.ID = s.nextID
	s.habits[h.ID] = h
	st.GoalDays = h.GoalDays
	s.stats[h.ID] = st
	return h
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		entry := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		s.requests = append(s.requests, entry)
		s.authSeen = append(s.authSeen, r.Header.Get("Authorization"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		ok := s.validAccess[tok] && !s.RejectAll
		s.mu.Unlock()
		if !ok {
			http.Error(w, `{"detail":"Given token not valid for any token type"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	_ = json.NewDecoder(r.Body).Decode(&c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[c.Username]; exists {
		http.Error(w, `{"username":["A user with that username already exists."]}`, http.StatusBadRequest)
		return
	}
	s.users[c.Username] = c.Password
	writeJSON(w, http.StatusCreated, map[string]any{"id": len(s.users), "username": c.Username})
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	_ = json.NewDecoder(r.Body).Decode(&c)
	s.mu.Lock()
	pw, ok := s.users[c.Username]
	s.mu.Unlock()
	if !ok || pw != c.Password {
		http.Error(w, `{"detail":"No active account found with the given credentials"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenPair{Access: s.IssueAccess(), Refresh: s.RefreshToken})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.refreshCalls++
	valid := body.Refresh != "" && body.Refresh == s.RefreshToken
	hook := s.OnRefresh
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !valid {
		http.Error(w, `{"detail":"Token is invalid or expired"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": s.IssueAccess()})
}

func (s *Server) listHabits(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		out := []models.Habit{}
		for _, id := range sortedKeys(s.habits) {
			h := s.habits[id]
			if activeOnly && !h.IsActive {
				continue
			}
			out = append(out, h)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var in models.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		http.Error(w, `{"name":["This field is required."]}`, http.StatusBadRequest)
		return
	}
	h := models.Habit{Name: in.Name, StartDate: in.StartDate, GoalDays: in.GoalDays, IsActive: true}
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	writeJSON(w, http.StatusCreated, s.AddHabit(h, models.HabitStats{}))
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var p models.HabitPatch
	_ = json.NewDecoder(r.Body).Decode(&p)
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		notFound(w)
		return
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.StartDate != nil {
		h.StartDate = *p.StartDate
	}
	if p.GoalDays != nil {
		h.GoalDays = *p.GoalDays
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
	s.habits[id] = h
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		notFound(w)
		return
	}
	delete(s.habits, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) habitStats(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[id]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := models.DashboardSummary{Items: []models.DashboardItem{}}
	for _, id := range sortedKeys(s.habits) {
		h := s.habits[id]
		if !h.IsActive {
			continue
		}
		st := s.stats[id]
		sum.ActiveCount++
		sum.TotalSuccessDays += st.TotalSuccessDays
		sum.Items = append(sum.Items, models.DashboardItem{Habit: h, Stats: st})
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) listTriggers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Trigger{}
	for _, id := range sortedKeys(s.triggers) {
		out = append(out, s.triggers[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTrigger(w http.ResponseWriter, r *http.Request) {
	var in models.TriggerInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := models.Trigger{ID: s.nextID, Name: in.Name}
	s.triggers[t.ID] = t
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTrigger(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var in models.TriggerInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[id]
	if !ok {
		notFound(w)
		return
	}
	t.Name = in.Name
	s.triggers[id] = t
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTrigger(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.triggers[id]; !ok {
		notFound(w)
		return
	}
	delete(s.triggers, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("habit_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for _, id := range sortedKeys(s.logs) {
		l := s.logs[id]
		if filter != "" && strconv.FormatInt(l.Habit, 10) != filter {
			continue
		}
		out = append(out, s.renderLog(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createLog(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Habit   *int64  `json:"habit"`
		Date    string  `json:"date"`
		Status  string  `json:"status"`
		Note    *string `json:"note"`
		Trigger *int64  `json:"trigger"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Habit == nil {
		http.Error(w, `{"habit":["This field is required."]}`, http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := &storedLog{ID: s.nextID, Habit: *in.Habit, Date: in.Date, Status: in.Status, Note: in.Note, Trigger: in.Trigger}
	s.logs[l.ID] = l
	writeJSON(w, http.StatusCreated, s.renderLog(l))
}

func (s *Server) updateLog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var in map[string]json.RawMessage
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		notFound(w)
		return
	}
	if v, ok := in["habit"]; ok {
		_ = json.Unmarshal(v, &l.Habit)
	}
	if v, ok := in["date"]; ok {
		_ = json.Unmarshal(v, &l.Date)
	}
	if v, ok := in["status"]; ok {
		_ = json.Unmarshal(v, &l.Status)
	}
	if v, ok := in["note"]; ok {
		l.Note = nil
		_ = json.Unmarshal(v, &l.Note)
	}
	if v, ok := in["trigger"]; ok {
		l.Trigger = nil
		_ = json.Unmarshal(v, &l.Trigger)
	}
	writeJSON(w, http.StatusOK, s.renderLog(l))
}

func (s *Server) deleteLog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[id]; !ok {
		notFound(w)
		return
	}
	delete(s.logs, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderLog(l *storedLog) map[string]any {
	out := map[string]any{
		"id":     l.ID,
		"date":   l.Date,
		"status": l.Status,
		"note":   l.Note,
	}
	switch s.Style {
	case LogStyleLegacy:
		out["habit"] = l.Habit
		out["trigger"] = l.Trigger
	case LogStyleStrings:
		out["habit"] = strconv.FormatInt(l.Habit, 10)
		if l.Trigger != nil {
			out["trigger"] = strconv.FormatInt(*l.Trigger, 10)
		} else {
			out["trigger"] = nil
		}
	default:
		out["habit"] = l.Habit
		out["habit_id"] = l.Habit
		out["trigger"] = l.Trigger
		out["trigger_id"] = l.Trigger
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, `{"detail":"No Habit matches the given query."}`, http.StatusNotFound)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
