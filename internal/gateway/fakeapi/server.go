// Package fakeapi is an in-memory stand-in for the remote Arkavidia service.
// It speaks the same JSON contract as the real service, including the
// {code, detail} error envelope, and is used by tests across the module.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// Claims are the claims of tokens issued by the fake service.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type account struct {
	user      domain.User
	password  string
	confirmed bool
}

type failure struct {
	status int
	code   string
	detail string
}

// Server is the fake service. The zero value is not usable; use New.
type Server struct {
	mu           sync.Mutex
	secret       []byte
	ttl          time.Duration
	accounts     map[string]*account
	competitions []domain.Competition
	teams        map[int64]*domain.Team
	owners       map[int64]string
	resetTokens  map[string]string
	usedTokens   map[string]bool
	confirmTkns  map[string]string
	failures     map[string]failure
	requests     []string
	nextID       int64
	router       chi.Router
}

// New creates a fake service signing tokens with secret.
func New(secret string) *Server {
	s := &Server{
		secret:      []byte(secret),
		ttl:         24 * time.Hour,
		accounts:    make(map[string]*account),
		teams:       make(map[int64]*domain.Team),
		owners:      make(map[int64]string),
		resetTokens: make(map[string]string),
		usedTokens:  make(map[string]bool),
		confirmTkns: make(map[string]string),
		failures:    make(map[string]failure),
		nextID:      100,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recordAndFail)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login/", s.login)
		r.Post("/register/", s.register)
		r.Post("/password-reset/", s.passwordReset)
		r.Post("/confirm-password-reset/", s.confirmPasswordReset)
		r.Post("/confirm-registration/", s.confirmRegistration)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/", s.session)
			r.Patch("/edit-user/", s.editUser)
		})
	})

	r.Route("/competition", func(r chi.Router) {
		r.Get("/", s.listCompetitions)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/teams/", s.listTeams)
			r.Get("/teams/{teamID}/", s.teamDetail)
			r.Patch("/teams/{teamID}/", s.changeTeam)
			r.Delete("/teams/{teamID}/", s.deleteTeam)
			r.Post("/teams/{teamID}/members/", s.addMember)
			r.Delete("/teams/{teamID}/members/{memberID}/", s.removeMember)
			r.Post("/teams/{teamID}/tasks/{taskID}/", s.submitTask)
			r.Post("/{competitionID}/teams/", s.registerTeam)
		})
	})

	return r
}

// AddUser seeds an account.
func (s *Server) AddUser(user domain.User, password string, confirmed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Email] = &account{user: user, password: password, confirmed: confirmed}
}

// AddCompetition seeds a competition.
func (s *Server) AddCompetition(c domain.Competition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competitions = append(s.competitions, c)
}

// AddTeam seeds a team owned by ownerEmail and returns its stored form.
func (s *Server) AddTeam(ownerEmail string, team domain.Team) domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team.ID == 0 {
		team.ID = s.id()
	}
	stored := team.Clone()
	s.teams[team.ID] = &stored
	s.owners[team.ID] = ownerEmail
	return stored.Clone()
}

// UpdateTeam replaces a seeded team, simulating a change made elsewhere.
func (s *Server) UpdateTeam(team domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := team.Clone()
	s.teams[team.ID] = &stored
}

// IssueResetToken creates a password reset token for email.
func (s *Server) IssueResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := fmt.Sprintf("reset-%d", s.id())
	s.resetTokens[token] = email
	return token
}

// IssueConfirmationToken creates an email confirmation token for email.
func (s *Server) IssueConfirmationToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := fmt.Sprintf("confirm-%d", s.id())
	s.confirmTkns[token] = email
	return token
}

// Fail makes every following request to method+path answer with the given
// error envelope. An empty code sends a body without the envelope.
func (s *Server) Fail(method, path string, status int, code, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, code: code, detail: detail}
}

// Requests returns "METHOD path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// IssueToken signs a token for email.
func (s *Server) IssueToken(email string) (string, int64, error) {
	exp := time.Now().Add(s.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp.Unix(), nil
}

func (s *Server) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// id must be called with mu held.
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

type ctxKey struct{}

func (s *Server) recordAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, key)
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			if f.code == "" {
				w.WriteHeader(f.status)
				_, _ = w.Write([]byte("upstream failure"))
				return
			}
			respondError(w, r, f.status, f.code, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, r, http.StatusUnauthorized, "not_authenticated", "Authentication credentials were not provided.")
			return
		}
		claims, err := s.validateToken(parts[1])
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, "authentication_failed", "Invalid token.")
			return
		}
		s.mu.Lock()
		acc, ok := s.accounts[claims.Email]
		s.mu.Unlock()
		if !ok {
			respondError(w, r, http.StatusUnauthorized, "authentication_failed", "User not found.")
			return
		}
		next.ServeHTTP(w, r.WithContext(withEmail(r, acc.user.Email)))
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"code": code, "detail": detail})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, "parse_error", "Malformed request.")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "not_found", "Not found.")
		return 0, false
	}
	return id, true
}

func sortedTeams(teams map[int64]*domain.Team, keep func(int64) bool) []domain.Team {
	out := make([]domain.Team, 0, len(teams))
	for id, t := range teams {
		if keep(id) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
