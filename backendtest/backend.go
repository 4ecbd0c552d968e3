// Package backendtest is an in-memory fake of the SBU operations backend.
//
// It serves the same REST surface as the real backend, signs HS256 tokens and
// verifies them on every authenticated route, so the client can be exercised
// end to end against an httptest server.
package backendtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/sbudesk/api"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Seeded accounts and business units.
const (
	AdminUser     = "admin"
	AdminPassword = "Admin123!"
	StaffUser     = "ada"
	StaffPassword = "Staff123!"
)

var seedSBUs = []api.SBU{
	{ID: 1, Name: "Bakery", Description: "Bread and pastries"},
	{ID: 2, Name: "Water Plant", Description: "Sachet and bottled water"},
}

type account struct {
	ID       int
	Username string
	Password string
	Role     string
}

type failure struct {
	status int
	detail string
}

// Backend holds the state of the fake. The zero value is not usable, call New.
type Backend struct {
	Secret []byte
	TTL    time.Duration

	// BeforeWrite, when set, runs before a submission is stored.
	BeforeWrite func(r *http.Request)

	requests atomic.Int64

	mu       sync.Mutex
	nextID   int
	accounts map[string]*account
	sbus     []api.SBU
	sales    map[string][]json.RawMessage
	expenses map[string][]json.RawMessage
	raw      map[string][]byte // "sales:user" or "expenses:user" overrides
	missing  map[string]bool   // paths answering 404
	failures map[string]failure
	currency json.RawMessage
}

// New returns a backend seeded with one admin, one staff member and two SBUs.
func New() *Backend {
	b := &Backend{
		Secret:   []byte("backendtest-secret"),
		TTL:      time.Hour,
		accounts: make(map[string]*account),
		sales:    make(map[string][]json.RawMessage),
		expenses: make(map[string][]json.RawMessage),
		raw:      make(map[string][]byte),
		missing:  make(map[string]bool),
		failures: make(map[string]failure),
		currency: json.RawMessage(`{}`),
		sbus:     append([]api.SBU(nil), seedSBUs...),
	}
	b.addAccount(AdminUser, AdminPassword, "admin")
	b.addAccount(StaffUser, StaffPassword, "staff")
	return b
}

// Serve starts an httptest server closed with t, and returns its URL.
func (b *Backend) Serve(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// Requests returns the number of requests served so far.
func (b *Backend) Requests() int { return int(b.requests.Load()) }

// Token mints a valid token for username, as POST /token would.
func (b *Backend) Token(username string) string {
	b.mu.Lock()
	acc := b.accounts[username]
	b.mu.Unlock()
	role := ""
	if acc != nil {
		role = acc.Role
	}
	return b.mint(username, role, b.TTL)
}

// TokenFor mints a token with arbitrary claims, signed with the backend secret.
func (b *Backend) TokenFor(username, role string, ttl time.Duration) string {
	return b.mint(username, role, ttl)
}

// SetRawSales makes GET /staff/my-sales answer data for username.
func (b *Backend) SetRawSales(username string, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw["sales:"+username] = []byte(data)
}

// SetRawExpenses makes GET /staff/my-expenses answer data for username.
func (b *Backend) SetRawExpenses(username string, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw["expenses:"+username] = []byte(data)
}

// Remove makes path answer 404 as if the endpoint did not exist.
func (b *Backend) Remove(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missing[path] = true
}

// Fail makes every request to method path answer status with detail.
func (b *Backend) Fail(method, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Sales returns the sale records stored for username.
func (b *Backend) Sales(username string) []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.sales[username]...)
}

// Expenses returns the expense records stored for username.
func (b *Backend) Expenses(username string) []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.expenses[username]...)
}

// Handler returns the REST surface.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(b.count, b.inject)

	r.Post("/token", b.handleToken)
	r.Get("/sbus", b.handleSBUs)

	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/me", b.handleMe)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/my-sales", b.handleMySales)
			r.Get("/my-expenses", b.handleMyExpenses)
			r.Post("/submit/sale", b.handleSubmitSale)
			r.Post("/submit/expenditure", b.handleSubmitExpenditure)
			r.Get("/report/{name}", b.handleReport)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(b.requireAdmin)
			r.Get("/currency", b.handleGetCurrency)
			r.Post("/currency", b.handleSetCurrency)
			r.Get("/employees", b.handleEmployees)
			r.Delete("/employees/{id}", b.handleDeleteEmployee)
			r.Post("/create-employee", b.handleCreateEmployee)
			r.Post("/sbus", b.handleCreateSBU)
		})
	})
	return r
}

func (b *Backend) addAccount(username, password, role string) *account {
	b.nextID++
	acc := &account{ID: b.nextID, Username: username, Password: password, Role: role}
	b.accounts[username] = acc
	return acc
}

func (b *Backend) mint(username, role string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.Secret)
	if err != nil {
		panic(err) // HMAC signing with a byte key does not fail
	}
	return tok
}

type ctxKey struct{}

func accountFrom(ctx context.Context) *account {
	acc, _ := ctx.Value(ctxKey{}).(*account)
	return acc
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		missing := b.missing[r.URL.Path]
		b.mu.Unlock()
		switch {
		case failing:
			writeDetail(w, f.status, f.detail)
		case missing:
			writeDetail(w, http.StatusNotFound, "Not Found")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		h := r.Header.Get("Authorization")
		if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(h[len(prefix):], &claims, func(t *jwt.Token) (any, error) {
			return b.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		b.mu.Lock()
		acc := b.accounts[claims.Subject]
		b.mu.Unlock()
		if acc == nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acc)))
	})
}

// requireAdmin reads the role from the account, never from the token.
func (b *Backend) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if acc := accountFrom(r.Context()); acc == nil || acc.Role != "admin" {
			writeDetail(w, http.StatusForbidden, "Admin access required")
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

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// validationError mimics the list form of detail used for unprocessable bodies.
func validationError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}
