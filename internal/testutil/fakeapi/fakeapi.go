// Package fakeapi is an in-memory stand-in for the activities backend, used
// by tests through httptest.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

const signingKey = "fakeapi-test-key"

// Teacher is an account that may log in.
type Teacher struct {
	Username string
	Password string
	Email    string
	Name     string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	mu         sync.Mutex
	activities api.Activities
	teachers   map[string]Teacher
	revoked    map[string]bool
	hits       map[string]int
	failLists  bool
	tokenTTL   time.Duration

	router *mux.Router
}

// New returns a Server seeded with the default activities and teachers.
func New() *Server {
	s := &Server{
		activities: DefaultActivities(),
		teachers:   map[string]Teacher{},
		revoked:    map[string]bool{},
		hits:       map[string]int{},
		tokenTTL:   time.Hour,
	}
	for _, t := range DefaultTeachers() {
		s.teachers[t.Username] = t
	}

	r := mux.NewRouter()
	r.UseEncodedPath()
	r.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/user/me", s.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/activities", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/activities/{name}/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/activities/{name}/unregister", s.handleUnregister).Methods(http.MethodDelete)
	r.Use(s.countHits)
	s.router = r
	return s
}

// Start serves s on a new httptest.Server. The caller closes it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.router)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetActivities replaces the activity table.
func (s *Server) SetActivities(acts api.Activities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = acts
}

// Activities returns a copy of the activity table.
func (s *Server) Activities() api.Activities {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(api.Activities, len(s.activities))
	for i, a := range s.activities {
		a.Participants = slices.Clone(a.Participants)
		out[i] = a
	}
	return out
}

// FailActivityList makes GET /activities answer 500 with a non-JSON body.
func (s *Server) FailActivityList(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLists = fail
}

// Revoke makes a previously issued token fail validation.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// SetTokenTTL changes the lifetime of newly issued tokens.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// IssueToken returns a valid token for username without going through /token.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) issueLocked(username string) string {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		panic(fmt.Sprintf("fakeapi: sign token: %v", err))
	}
	return signed
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teachers[username]
	if !ok || t.Password != password {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: s.issueLocked(username),
		TokenType:   "bearer",
		Username:    username,
	})
}

// authenticate returns the teacher behind the request's bearer token.
func (s *Server) authenticate(r *http.Request) (Teacher, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return Teacher{}, false
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Teacher{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[raw] {
		return Teacher{}, false
	}
	t, ok := s.teachers[claims.Subject]
	return t, ok
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	t, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, api.UserProfile{Username: t.Username, Email: t.Email, Name: t.Name, Role: "teacher"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLists {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
		return
	}
	writeJSON(w, http.StatusOK, s.activities)
}

// target resolves the activity and email of a signup/unregister request.
// The caller holds s.mu.
func (s *Server) target(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid activity name")
		return 0, "", false
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Email is required")
		return 0, "", false
	}
	idx := slices.IndexFunc(s.activities, func(a api.Activity) bool { return a.Name == name })
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return 0, "", false
	}
	return idx, email, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, email, ok := s.target(w, r)
	if !ok {
		return
	}
	act := &s.activities[idx]
	if slices.Contains(act.Participants, email) {
		writeDetail(w, http.StatusBadRequest, "Student is already signed up")
		return
	}
	if len(act.Participants) >= act.MaxParticipants {
		writeDetail(w, http.StatusBadRequest, "Activity is full")
		return
	}
	act.Participants = append(act.Participants, email)
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, act.Name)})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, email, ok := s.target(w, r)
	if !ok {
		return
	}
	act := &s.activities[idx]
	pos := slices.Index(act.Participants, email)
	if pos < 0 {
		writeDetail(w, http.StatusBadRequest, "Student is not signed up for this activity")
		return
	}
	act.Participants = slices.Delete(act.Participants, pos, pos+1)
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, act.Name)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, api.ErrorResponse{Detail: detail})
}
