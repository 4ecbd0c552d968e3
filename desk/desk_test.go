package desk_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/etnz/sbudesk"
	"github.com/etnz/sbudesk/api"
	"github.com/etnz/sbudesk/backendtest"
	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDesk(t *testing.T) (*desk.Desk, *backendtest.Backend, *session.MemoryStore) {
	t.Helper()
	b := backendtest.New()
	store := session.NewMemoryStore("")
	d := desk.New(api.New(b.Serve(t), 5*time.Second), session.NewGuard(store))
	d.RefreshDelay = 0
	d.Now = func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) }
	return d, b, store
}

func loginAs(t *testing.T, d *desk.Desk, user, pass string) session.Session {
	t.Helper()
	sess, _, err := d.Login(context.Background(), desk.LoginForm{Username: user, Password: pass})
	require.NoError(t, err)
	return sess
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLogin(t *testing.T) {
	d, b, store := newDesk(t)
	ctx := context.Background()

	sess, user, err := d.Login(ctx, desk.LoginForm{Username: " " + backendtest.StaffUser, Password: backendtest.StaffPassword})
	require.NoError(t, err)
	assert.Equal(t, session.Staff, sess.Role)
	assert.Equal(t, backendtest.StaffUser, user.Username)
	_, ok := store.Get()
	assert.True(t, ok)

	_, _, err = d.Login(ctx, desk.LoginForm{Username: backendtest.StaffUser, Password: "nope"})
	assert.ErrorIs(t, err, desk.ErrBadCredentials)

	before := b.Requests()
	_, _, err = d.Login(ctx, desk.LoginForm{Username: backendtest.StaffUser})
	assert.ErrorIs(t, err, desk.ErrInvalidForm)
	assert.Equal(t, before, b.Requests(), "an incomplete form never reaches the backend")
}

func TestAuthorize_NoNetwork(t *testing.T) {
	d, b, _ := newDesk(t)
	for _, req := range []session.Requirement{session.RequireAny, session.RequireStaff, session.RequireAdmin} {
		_, err := d.Authorize(req)
		assert.ErrorIs(t, err, session.ErrNoSession)
		assert.True(t, desk.LoginRequired(err))
	}
	assert.Zero(t, b.Requests())
}

func TestAuthorize_StaffCannotOpenAdmin(t *testing.T) {
	d, _, store := newDesk(t)
	loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)

	_, err := d.Authorize(session.RequireAdmin)
	assert.ErrorIs(t, err, session.ErrInsufficientRole)
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestPerformance_DayOne(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.SetRawSales(backendtest.StaffUser, `[{"sbu_id":1,"amount":100,"day":1},{"sbu_id":1,"amount":50,"day":1}]`)
	b.SetRawExpenses(backendtest.StaffUser, `[{"sbu_id":1,"amount":30,"day":1,"category":"fuel"}]`)

	m, err := d.Performance(context.Background(), sess)
	require.NoError(t, err)
	assert.NoError(t, m.Invalid)
	assert.True(t, dec("150").Equal(m.Series[0].Sales))
	assert.True(t, dec("120").Equal(m.Series[0].NetProfit))
	assert.True(t, dec("120").Equal(m.Summary.TotalNetProfit))
	assert.True(t, dec("120").Equal(m.Summary.AverageDailyNet))
	assert.Equal(t, 1, m.Summary.DaysWithData)
	assert.Equal(t, 100, m.Summary.PerformanceScore)
}

func TestPerformance_InvalidRecordsAreExcluded(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.SetRawSales(backendtest.StaffUser, `[
		{"sbu_id":1,"amount":100,"day":2},
		{"sbu_id":1,"amount":"abc","day":2},
		{"sbu_id":1,"amount":10,"day":40},
		{"sbu_id":1,"amount":-5,"day":3}
	]`)

	m, err := d.Performance(context.Background(), sess)
	require.NoError(t, err)
	require.Error(t, m.Invalid)
	assert.ErrorIs(t, m.Invalid, sbudesk.ErrInvalidRecord)
	assert.True(t, dec("100").Equal(m.Summary.TotalSales))
	assert.Equal(t, 1, m.Summary.DaysWithData)
}

func TestPerformance_MissingEndpoint(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.Remove("/staff/my-sales")
	b.Remove("/staff/my-expenses")

	m, err := d.Performance(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, m.Summary.HasData())
	assert.Len(t, m.Series, sbudesk.DaysInSeries)
}

func TestPerformance_NotAList(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.SetRawSales(backendtest.StaffUser, `{"detail":"oops"}`)

	_, err := d.Performance(context.Background(), sess)
	assert.Error(t, err)
}

func TestUnauthorizedRevokes(t *testing.T) {
	d, b, store := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.Fail(http.MethodGet, "/staff/my-sales", http.StatusUnauthorized, "Could not validate credentials")

	_, err := d.Performance(context.Background(), sess)
	assert.True(t, desk.LoginRequired(err))
	_, ok := store.Get()
	assert.False(t, ok, "a 401 clears the session")
}

func TestRejectedKeepsSession(t *testing.T) {
	d, b, store := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.Fail(http.MethodGet, "/staff/my-sales", http.StatusInternalServerError, "database is down")

	_, err := d.Performance(context.Background(), sess)
	assert.ErrorIs(t, err, api.ErrRejected)
	assert.Equal(t, "database is down", err.Error())
	assert.False(t, desk.LoginRequired(err))
	_, ok := store.Get()
	assert.True(t, ok)
}

func TestSubmitSale_Refreshes(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	ctx := context.Background()

	m, err := d.SubmitSale(ctx, sess, desk.SaleForm{SBUID: 1, Amount: dec("250.50")})
	require.NoError(t, err)
	assert.True(t, dec("250.50").Equal(m.Series[6].Sales), "day defaults to today")
	assert.Len(t, b.Sales(backendtest.StaffUser), 1)

	m, err = d.SubmitExpense(ctx, sess, desk.ExpenseForm{SBUID: 1, Amount: dec("50.50"), Day: 7, Category: "rent"})
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(m.Series[6].NetProfit))
	assert.Len(t, b.Expenses(backendtest.StaffUser), 1)
}

func TestSubmitSale_InvalidForm(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	before := b.Requests()

	_, err := d.SubmitSale(context.Background(), sess, desk.SaleForm{SBUID: 0, Amount: dec("0"), Day: 32})
	require.ErrorIs(t, err, desk.ErrInvalidForm)
	var fe *desk.FormError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be greater than 0", fe.Fields["Amount"])
	assert.Equal(t, "must be greater than 0", fe.Fields["SBUID"])
	assert.Equal(t, "must be at most 31", fe.Fields["Day"])
	assert.Equal(t, before, b.Requests())
}

func TestSubmitExpense_InvalidForm(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	before := b.Requests()

	for _, category := range []string{"", "   "} {
		_, err := d.SubmitExpense(context.Background(), sess, desk.ExpenseForm{SBUID: 1, Amount: dec("10"), Day: 2, Category: category})
		require.ErrorIs(t, err, desk.ErrInvalidForm)
		var fe *desk.FormError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, map[string]string{"Category": "is required"}, fe.Fields)
	}
	assert.Equal(t, before, b.Requests())
	assert.Empty(t, b.Expenses(backendtest.StaffUser))
}

func TestSubmitSale_InFlight(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	b.BeforeWrite = func(*http.Request) {
		close(entered)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := d.SubmitSale(ctx, sess, desk.SaleForm{SBUID: 1, Amount: dec("10"), Day: 1})
		done <- err
	}()
	<-entered

	before := b.Requests()
	_, err := d.SubmitSale(ctx, sess, desk.SaleForm{SBUID: 1, Amount: dec("10"), Day: 1})
	assert.ErrorIs(t, err, desk.ErrInFlight)
	assert.Equal(t, before, b.Requests(), "the duplicate never reaches the backend")

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, b.Sales(backendtest.StaffUser), 1)

	b.BeforeWrite = nil
	_, err = d.SubmitSale(ctx, sess, desk.SaleForm{SBUID: 1, Amount: dec("10"), Day: 1})
	assert.NoError(t, err, "the guard is released once the write settled")
}

func TestSubmitSale_RefreshFailure(t *testing.T) {
	d, b, _ := newDesk(t)
	sess := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	b.Fail(http.MethodGet, "/staff/my-expenses", http.StatusInternalServerError, "")

	_, err := d.SubmitSale(context.Background(), sess, desk.SaleForm{SBUID: 1, Amount: dec("10"), Day: 1})
	assert.ErrorIs(t, err, desk.ErrRefreshFailed)
	assert.ErrorIs(t, err, api.ErrRejected)
	assert.Len(t, b.Sales(backendtest.StaffUser), 1, "the record is saved anyway")
}

func TestSBUReport(t *testing.T) {
	d, _, _ := newDesk(t)
	ctx := context.Background()
	staff := loginAs(t, d, backendtest.StaffUser, backendtest.StaffPassword)
	_, err := d.SubmitSale(ctx, staff, desk.SaleForm{SBUID: 2, Amount: dec("400"), Day: 5})
	require.NoError(t, err)
	_, err = d.SubmitExpense(ctx, staff, desk.ExpenseForm{SBUID: 2, Amount: dec("100"), Day: 5, Category: "fuel"})
	require.NoError(t, err)

	admin := loginAs(t, d, backendtest.AdminUser, backendtest.AdminPassword)
	m, err := d.SBUReport(ctx, admin, "Water Plant")
	require.NoError(t, err)
	assert.Equal(t, "Water Plant", m.Name)
	assert.True(t, dec("300").Equal(m.Summary.TotalNetProfit))
	assert.Equal(t, 100, m.Summary.PerformanceScore)
}

func TestAdmin(t *testing.T) {
	d, _, _ := newDesk(t)
	ctx := context.Background()
	admin := loginAs(t, d, backendtest.AdminUser, backendtest.AdminPassword)

	err := d.CreateEmployee(ctx, admin, desk.EmployeeForm{Username: "bob", Password: "password", Role: "staff"})
	var fe *desk.FormError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is fair, it needs an uppercase letter, a number, a special character", fe.Fields["Password"])

	err = d.CreateEmployee(ctx, admin, desk.EmployeeForm{Username: "bob", Password: "Bob12345!", Role: "root"})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be one of staff, admin", fe.Fields["Role"])

	require.NoError(t, d.CreateEmployee(ctx, admin, desk.EmployeeForm{Username: "bob", Password: "Bob12345!", Role: "staff"}))
	emps, err := d.Employees(ctx, admin)
	require.NoError(t, err)
	require.Len(t, emps, 3)

	require.NoError(t, d.DeleteEmployee(ctx, admin, emps[2].ID))
	emps, err = d.Employees(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, emps, 2)

	require.NoError(t, d.CreateSBU(ctx, admin, desk.SBUForm{Name: " Farm ", Description: "Poultry"}))
	sbus, err := d.SBUs(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "Farm", sbus[len(sbus)-1].Name)

	err = d.SetCurrency(ctx, admin, desk.RatesForm{SalesRate: dec("1.5"), ExpenseRate: dec("0"), BudgetRate: dec("1")})
	require.ErrorIs(t, err, desk.ErrInvalidForm)
	require.NoError(t, d.SetCurrency(ctx, admin, desk.RatesForm{SalesRate: dec("1.5"), ExpenseRate: dec("2"), BudgetRate: dec("1")}))
	rates, err := d.Currency(ctx, admin)
	require.NoError(t, err)
	assert.True(t, dec("1.5").Equal(rates.SalesRate))
}
