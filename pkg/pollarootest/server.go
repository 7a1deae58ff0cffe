package pollarootest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Option configures the fake server.
type Option func(*Server)

// WithSigningSecret overrides the HS256 secret used for issued tokens.
func WithSigningSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithFrontendBase sets the base URL used to build poll share links.
func WithFrontendBase(base string) Option {
	return func(s *Server) {
		if base != "" {
			s.frontendBase = base
		}
	}
}

// Server is an in-process Pollaroo backend for tests. It speaks the same
// wire dialect as the real service: trailing-slash routes under /api, JWT
// bearer auth, and the occasionally awkward Django REST error bodies.
type Server struct {
	httpServer   *httptest.Server
	secret       []byte
	accessTTL    time.Duration
	frontendBase string

	mu      sync.Mutex
	users   []*userRecord
	polls   []*pollRecord
	votes   map[voteKey]int64 // option ID per voter per poll
	nextID  int64
	started time.Time

	requests atomic.Int64
	failures failureInjector
}

// New starts a fake backend. Callers must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		secret:       []byte("pollarootest-secret"),
		accessTTL:    time.Hour,
		frontendBase: "http://localhost:3000",
		votes:        make(map[voteKey]int64),
		started:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = httptest.NewServer(s.router())
	return s
}

// URL returns the server's base API URL, including the /api prefix.
func (s *Server) URL() string {
	return s.httpServer.URL + "/api"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// Requests reports how many HTTP requests the server has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// FailNext makes the next n requests answer with the given status and an
// empty body before any routing happens. Used to exercise retry paths.
func (s *Server) FailNext(n int, status int) {
	s.failures.arm(n, status)
}

type failureInjector struct {
	remaining atomic.Int64
	status    atomic.Int64
}

func (f *failureInjector) arm(n, status int) {
	f.status.Store(int64(status))
	f.remaining.Store(int64(n))
}

func (f *failureInjector) take() (int, bool) {
	for {
		cur := f.remaining.Load()
		if cur <= 0 {
			return 0, false
		}
		if f.remaining.CompareAndSwap(cur, cur-1) {
			return int(f.status.Load()), true
		}
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register/", s.handleRegister)
			auth.Post("/login/", s.handleLogin)
			auth.Post("/logout/", s.handleLogout)
			auth.Get("/profile/", s.handleProfile)
			auth.Put("/me/update/", s.handleProfileUpdate)
		})
		api.Route("/polls", func(polls chi.Router) {
			polls.Get("/", s.handlePollList)
			polls.Post("/create/", s.handlePollCreate)
			polls.Get("/my-polls/", s.handleMyPolls)
			polls.Get("/{id}/", s.handlePollDetail)
			polls.Put("/{id}/update/", s.handlePollUpdate)
			polls.Delete("/{id}/delete/", s.handlePollDelete)
			polls.Post("/{id}/vote/", s.handleVote)
			polls.Get("/{id}/results/", s.handlePollResults)
			polls.Get("/{id}/share/", s.handlePollShare)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})

	return r
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if status, ok := s.failures.take(); ok {
			w.WriteHeader(status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// SeededUser identifies an account created through SeedUser.
type SeededUser struct {
	ID       int64
	Username string
	Email    string
}

// SeedUser creates an account directly in the store, bypassing the register
// endpoint.
func (s *Server) SeedUser(username, email, password string) SeededUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &userRecord{
		id:           s.nextIDLocked(),
		username:     username,
		email:        email,
		passwordHash: hash,
		dateJoined:   s.started,
	}
	s.users = append(s.users, u)
	return SeededUser{ID: u.id, Username: u.username, Email: u.email}
}

// PollSeed describes a poll created through SeedPoll.
type PollSeed struct {
	Creator     SeededUser
	Title       string
	Description string
	Options     []string
	Private     bool
	ExpiresAt   *time.Time
}

// SeedPoll creates a poll directly in the store and returns its ID along
// with the IDs of its options, in order.
func (s *Server) SeedPoll(seed PollSeed) (int64, []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &pollRecord{
		id:          s.nextIDLocked(),
		title:       seed.Title,
		description: seed.Description,
		creatorID:   seed.Creator.ID,
		isPublic:    !seed.Private,
		expiresAt:   seed.ExpiresAt,
		createdAt:   time.Now(),
		updatedAt:   time.Now(),
	}
	optionIDs := make([]int64, 0, len(seed.Options))
	for _, text := range seed.Options {
		opt := &optionRecord{id: s.nextIDLocked(), text: text}
		p.options = append(p.options, opt)
		optionIDs = append(optionIDs, opt.id)
	}
	s.polls = append(s.polls, p)
	return p.id, optionIDs
}

// IssueAccessToken mints a valid access token for the given user without
// going through login. Negative ttl values produce already-expired tokens.
func (s *Server) IssueAccessToken(userID int64, ttl time.Duration) string {
	return s.signToken("access", userID, ttl)
}

func newJTI() string {
	return uuid.New().String()
}
