package backendtest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/etnz/sbudesk/api"
	"github.com/go-chi/chi/v5"
)

func (b *Backend) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	b.mu.Lock()
	acc := b.accounts[username]
	b.mu.Unlock()
	if acc == nil || acc.Password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": b.mint(acc.Username, acc.Role, b.TTL),
		"token_type":   "bearer",
	})
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())
	writeJSON(w, http.StatusOK, api.User{ID: acc.ID, Username: acc.Username, Role: acc.Role})
}

func (b *Backend) handleSBUs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	sbus := append([]api.SBU(nil), b.sbus...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, sbus)
}

func (b *Backend) handleCreateSBU(w http.ResponseWriter, r *http.Request) {
	var body api.SBU
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		validationError(w, "name", "field required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sbus {
		if strings.EqualFold(s.Name, body.Name) {
			writeDetail(w, http.StatusBadRequest, "SBU already exists")
			return
		}
	}
	body.ID = len(b.sbus) + 1
	b.sbus = append(b.sbus, body)
	writeJSON(w, http.StatusOK, body)
}

func (b *Backend) records(w http.ResponseWriter, r *http.Request, kind string, store map[string][]json.RawMessage) {
	acc := accountFrom(r.Context())
	b.mu.Lock()
	raw, ok := b.raw[kind+":"+acc.Username]
	list := append([]json.RawMessage{}, store[acc.Username]...)
	b.mu.Unlock()
	if ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (b *Backend) handleMySales(w http.ResponseWriter, r *http.Request) {
	b.records(w, r, "sales", b.sales)
}

func (b *Backend) handleMyExpenses(w http.ResponseWriter, r *http.Request) {
	b.records(w, r, "expenses", b.expenses)
}

type submission struct {
	SBUID    int         `json:"sbu_id"`
	Amount   json.Number `json:"amount"`
	Day      int         `json:"day"`
	Category string      `json:"category,omitempty"`
}

func (b *Backend) submit(w http.ResponseWriter, r *http.Request, store map[string][]json.RawMessage) {
	var s submission
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		validationError(w, "body", "invalid JSON body")
		return
	}
	amount, err := s.Amount.Float64()
	switch {
	case err != nil:
		validationError(w, "amount", "value is not a valid number")
		return
	case amount <= 0:
		validationError(w, "amount", "amount must be positive")
		return
	case s.Day < 1 || s.Day > 31:
		validationError(w, "day", "day must be between 1 and 31")
		return
	}
	if !b.knownSBU(s.SBUID) {
		writeDetail(w, http.StatusNotFound, "SBU not found")
		return
	}
	if b.BeforeWrite != nil {
		b.BeforeWrite(r)
	}
	data, _ := json.Marshal(s)
	acc := accountFrom(r.Context())
	b.mu.Lock()
	store[acc.Username] = append(store[acc.Username], data)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "recorded"})
}

func (b *Backend) handleSubmitSale(w http.ResponseWriter, r *http.Request) {
	b.submit(w, r, b.sales)
}

func (b *Backend) handleSubmitExpenditure(w http.ResponseWriter, r *http.Request) {
	b.submit(w, r, b.expenses)
}

func (b *Backend) knownSBU(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sbus {
		if s.ID == id {
			return true
		}
	}
	return false
}

// handleReport gathers the records of every account for the SBU.
func (b *Backend) handleReport(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid SBU name")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := 0
	for _, s := range b.sbus {
		if s.Name == name {
			id = s.ID
		}
	}
	if id == 0 {
		writeDetail(w, http.StatusNotFound, "SBU not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":     name,
		"sales":    filterSBU(b.sales, id),
		"expenses": filterSBU(b.expenses, id),
	})
}

func filterSBU(store map[string][]json.RawMessage, id int) []json.RawMessage {
	users := make([]string, 0, len(store))
	for u := range store {
		users = append(users, u)
	}
	sort.Strings(users)
	out := []json.RawMessage{}
	for _, u := range users {
		for _, rec := range store[u] {
			var s submission
			if json.Unmarshal(rec, &s) == nil && s.SBUID == id {
				out = append(out, rec)
			}
		}
	}
	return out
}

func (b *Backend) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	data := b.currency
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (b *Backend) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var data json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	b.currency = data
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "saved"})
}

func (b *Backend) handleEmployees(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	emps := make([]api.Employee, 0, len(b.accounts))
	for _, acc := range b.accounts {
		emps = append(emps, api.Employee{ID: acc.ID, Username: acc.Username, Role: acc.Role})
	}
	b.mu.Unlock()
	sort.Slice(emps, func(i, j int) bool { return emps[i].ID < emps[j].ID })
	writeJSON(w, http.StatusOK, emps)
}

func (b *Backend) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var e api.NewEmployee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if e.Role != "staff" && e.Role != "admin" {
		validationError(w, "role", "role must be staff or admin")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[e.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	acc := b.addAccount(e.Username, e.Password, e.Role)
	writeJSON(w, http.StatusOK, api.Employee{ID: acc.ID, Username: acc.Username, Role: acc.Role})
}

func (b *Backend) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		validationError(w, "id", "value is not a valid integer")
		return
	}
	self := accountFrom(r.Context())
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, acc := range b.accounts {
		if acc.ID != id {
			continue
		}
		if acc == self {
			writeDetail(w, http.StatusBadRequest, "Cannot delete your own account")
			return
		}
		delete(b.accounts, name)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
		return
	}
	writeDetail(w, http.StatusNotFound, "Employee not found")
}
