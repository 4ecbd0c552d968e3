// Package desk runs the staff and admin workflows of the SBU client.
//
// It threads the Session returned by the guard into every backend call,
// revokes the stored token as soon as the backend answers 401, refuses
// overlapping submissions and refreshes the performance of the month once a
// submission has settled.
package desk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"strings"
	"time"

	"github.com/etnz/sbudesk"
	"github.com/etnz/sbudesk/api"
	"github.com/etnz/sbudesk/session"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// DefaultRefreshDelay is the pause between a submission and the refresh.
const DefaultRefreshDelay = time.Second

var (
	// ErrInFlight is returned when the same operation is already running.
	ErrInFlight = errors.New("operation already in progress")
	// ErrBadCredentials is returned by Login when the backend refuses them.
	ErrBadCredentials = errors.New("incorrect username or password")
	// ErrRefreshFailed wraps the failure of the refresh that follows a
	// successful submission. The record itself is saved.
	ErrRefreshFailed = errors.New("record saved but refresh failed")
)

// LoginRequired reports whether err means the user must log in again, either
// because the guard refused the session or the backend refused the token.
func LoginRequired(err error) bool {
	return session.IsAuthError(err) || errors.Is(err, api.ErrUnauthorized)
}

// Desk is the entry point of every view.
type Desk struct {
	Client       *api.Client
	Guard        *session.Guard
	RefreshDelay time.Duration
	Now          func() time.Time

	validate *validator.Validate

	mu       sync.Mutex
	inflight map[string]bool
}

// New returns a desk calling the backend through client and keeping the
// session in guard.
func New(client *api.Client, guard *session.Guard) *Desk {
	return &Desk{
		Client:       client,
		Guard:        guard,
		RefreshDelay: DefaultRefreshDelay,
		Now:          time.Now,
		validate:     newValidator(),
		inflight:     make(map[string]bool),
	}
}

// Authorize opens a view requiring req.
func (d *Desk) Authorize(req session.Requirement) (session.Session, error) {
	return d.Guard.Authorize(req)
}

// Login authenticates against the backend and stores the session.
func (d *Desk) Login(ctx context.Context, form LoginForm) (session.Session, api.User, error) {
	if err := d.check(form); err != nil {
		return session.Session{}, api.User{}, err
	}
	token, err := d.Client.Login(ctx, form.Username, form.Password)
	if errors.Is(err, api.ErrUnauthorized) {
		return session.Session{}, api.User{}, ErrBadCredentials
	}
	if err != nil {
		return session.Session{}, api.User{}, err
	}
	sess, err := d.Guard.Login(token)
	if err != nil {
		return session.Session{}, api.User{}, err
	}
	user, err := d.Client.Me(ctx, &sess)
	if err != nil {
		return session.Session{}, api.User{}, d.settle(err)
	}
	log.Info().Str("user", user.Username).Str("role", string(sess.Role)).Msg("logged in")
	return sess, user, nil
}

// Logout clears the stored session.
func (d *Desk) Logout() { d.Guard.Revoke() }

// Me returns the user behind sess, as the backend knows it.
func (d *Desk) Me(ctx context.Context, sess session.Session) (api.User, error) {
	u, err := d.Client.Me(ctx, &sess)
	return u, d.settle(err)
}

// SBUs lists the business units.
func (d *Desk) SBUs(ctx context.Context, sess session.Session) ([]api.SBU, error) {
	sbus, err := d.Client.SBUs(ctx, &sess)
	return sbus, d.settle(err)
}

// settle revokes the session when the backend refused the token.
func (d *Desk) settle(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		log.Debug().Msg("backend refused the token, session revoked")
		d.Guard.Revoke()
	}
	return err
}

// exclusive marks op as running. The returned func releases it.
func (d *Desk) exclusive(op string) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inflight[op] {
		return nil, fmt.Errorf("%w: %s", ErrInFlight, op)
	}
	d.inflight[op] = true
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.inflight, op)
	}, nil
}

func (d *Desk) today() int {
	if d.Now == nil {
		return time.Now().Day()
	}
	return d.Now().Day()
}

// Month is the aggregated performance of a month of records.
type Month struct {
	Name    string
	Series  sbudesk.Series
	Summary sbudesk.MonthlySummary
	// Invalid joins one error per record excluded from the aggregation.
	Invalid error
}

// aggregate decodes raw records and builds the month. Invalid records are
// excluded and collected, only a payload that is not a list fails.
func aggregate(name string, rawSales, rawExpenses []byte) (*Month, error) {
	var invalid []error
	sales, err := sbudesk.DecodeSales(rawSales)
	if err != nil {
		if !errors.Is(err, sbudesk.ErrInvalidRecord) {
			return nil, err
		}
		invalid = append(invalid, err)
	}
	expenses, err := sbudesk.DecodeExpenses(rawExpenses)
	if err != nil {
		if !errors.Is(err, sbudesk.ErrInvalidRecord) {
			return nil, err
		}
		invalid = append(invalid, err)
	}
	series, err := sbudesk.BuildDailySeries(sales, expenses)
	if err != nil {
		invalid = append(invalid, err)
	}
	m := &Month{Name: name, Series: series, Summary: sbudesk.Summarize(series), Invalid: errors.Join(invalid...)}
	if m.Invalid != nil {
		log.Warn().Err(m.Invalid).Str("name", name).Msg("records excluded from the aggregation")
	}
	return m, nil
}

// Performance aggregates the records of the session user.
//
// A 404 on either list is read as no record yet, the endpoints are not
// deployed on every backend.
func (d *Desk) Performance(ctx context.Context, sess session.Session) (*Month, error) {
	sales, err := d.records("my-sales", func() ([]byte, error) { return d.Client.MySales(ctx, &sess) })
	if err != nil {
		return nil, err
	}
	expenses, err := d.records("my-expenses", func() ([]byte, error) { return d.Client.MyExpenses(ctx, &sess) })
	if err != nil {
		return nil, err
	}
	return aggregate(sess.Subject, sales, expenses)
}

func (d *Desk) records(name string, fetch func() ([]byte, error)) ([]byte, error) {
	data, err := fetch()
	if api.StatusOf(err) == http.StatusNotFound {
		log.Warn().Str("endpoint", name).Msg("endpoint not available yet, showing no record")
		return nil, nil
	}
	return data, d.settle(err)
}

// SubmitSale sends a sale and returns the refreshed performance.
//
// The refresh starts RefreshDelay after the backend accepted the record. When
// it fails the error wraps ErrRefreshFailed and the sale is nevertheless saved.
func (d *Desk) SubmitSale(ctx context.Context, sess session.Session, form SaleForm) (*Month, error) {
	if err := d.check(form); err != nil {
		return nil, err
	}
	if form.Day == 0 {
		form.Day = d.today()
	}
	rec := sbudesk.SaleRecord{SBUID: form.SBUID, Amount: form.Amount, Day: form.Day}
	return d.submit(ctx, sess, "submit-sale", func() error {
		return d.Client.SubmitSale(ctx, &sess, rec)
	})
}

// SubmitExpense sends an expense and returns the refreshed performance, like
// SubmitSale.
func (d *Desk) SubmitExpense(ctx context.Context, sess session.Session, form ExpenseForm) (*Month, error) {
	form.Category = strings.TrimSpace(form.Category)
	if err := d.check(form); err != nil {
		return nil, err
	}
	if form.Day == 0 {
		form.Day = d.today()
	}
	rec := sbudesk.ExpenseRecord{SBUID: form.SBUID, Amount: form.Amount, Day: form.Day, Category: form.Category}
	return d.submit(ctx, sess, "submit-expense", func() error {
		return d.Client.SubmitExpenditure(ctx, &sess, rec)
	})
}

func (d *Desk) submit(ctx context.Context, sess session.Session, op string, write func() error) (*Month, error) {
	release, err := d.exclusive(op)
	if err != nil {
		return nil, err
	}
	err = d.settle(write())
	release()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("op", op).Dur("delay", d.RefreshDelay).Msg("submitted, refreshing")

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, ctx.Err())
	case <-time.After(d.RefreshDelay):
	}
	m, err := d.Performance(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return m, nil
}

// SBUReport aggregates every record of the SBU called name.
func (d *Desk) SBUReport(ctx context.Context, sess session.Session, name string) (*Month, error) {
	r, err := d.Client.Report(ctx, &sess, name)
	if err != nil {
		return nil, d.settle(err)
	}
	return aggregate(r.Name, r.Sales, r.Expenses)
}
