package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Operator-facing messages.
const (
	msgCreateFailed  = "Gagal menambah transaksi"
	msgDeleteFailed  = "Gagal menghapus"
	msgNotPrivileged = "Masuk sebagai admin terlebih dahulu"
	msgBusy          = "Permintaan lain sedang diproses"
)

// ErrBusy is returned when a mutation is attempted while another is in flight.
var ErrBusy = &UserError{Message: msgBusy}

// ErrCancelled is returned by Delete when the operator declines the confirmation.
var ErrCancelled = errors.New("dibatalkan")

// UserError carries a message meant to be shown to the operator as is.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// ReloadError means a mutation was stored but refreshing the ledger afterwards
// failed, so the view may be stale.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "memuat ulang data gagal: " + e.Err.Error() }

func (e *ReloadError) Unwrap() error { return e.Err }

// Form is the add-transaction form as typed by the operator.
type Form struct {
	Tanggal    string
	Penghuni   string
	Kamar      string
	Keterangan string
	Jumlah     string
	Tipe       string
}

// EmptyForm returns a cleared form.
func EmptyForm() Form {
	return Form{Tipe: "pemasukan"}
}

// View is a consistent snapshot of the dashboard state.
type View struct {
	Items      []Transaction
	Stats      Stats
	Form       Form
	Privileged bool
	Busy       bool
}

// Dashboard holds client-side state and keeps it in sync with the API.
// Items and stats are replaced only by Load, never edited locally.
type Dashboard struct {
	client *Client

	mu         sync.RWMutex
	items      []Transaction
	stats      Stats
	form       Form
	token      string
	privileged bool

	busy atomic.Bool
}

// New creates a dashboard with empty state.
func New(client *Client) *Dashboard {
	return &Dashboard{client: client, items: []Transaction{}, form: EmptyForm()}
}

// View returns a snapshot of the current state.
func (d *Dashboard) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	items := make([]Transaction, len(d.items))
	copy(items, d.items)
	return View{
		Items:      items,
		Stats:      d.stats,
		Form:       d.form,
		Privileged: d.privileged,
		Busy:       d.busy.Load(),
	}
}

// Load refreshes items and stats. The two requests are independent: each
// successful one updates its part of the state, and failures are joined.
func (d *Dashboard) Load(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		items    []Transaction
		stats    Stats
		listErr  error
		statsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		items, listErr = d.client.ListTransactions(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = d.client.GetStats(ctx)
	}()
	wg.Wait()

	d.mu.Lock()
	if listErr == nil {
		d.items = items
	}
	if statsErr == nil {
		d.stats = stats
	}
	d.mu.Unlock()

	return errors.Join(listErr, statsErr)
}

// Login marks the dashboard privileged for any non-empty token without asking
// the server. A wrong token is only discovered on the first mutation.
func (d *Dashboard) Login(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	d.mu.Lock()
	d.token = token
	d.privileged = true
	d.mu.Unlock()
	return true
}

// LoginVerified validates token with the server before marking the dashboard privileged.
func (d *Dashboard) LoginVerified(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &UserError{Message: msgNotPrivileged}
	}
	if err := d.client.VerifyToken(ctx, token); err != nil {
		return userError(err, "Token admin tidak valid")
	}
	d.Login(token)
	return nil
}

// Logout drops the token and privileged flag.
func (d *Dashboard) Logout() {
	d.mu.Lock()
	d.token = ""
	d.privileged = false
	d.mu.Unlock()
}

// Submit sends the form as a new transaction. On failure the form is kept
// and the error carries the server message or a generic fallback. On success
// the form is cleared and the ledger reloaded; a failed reload is reported as
// a *ReloadError.
func (d *Dashboard) Submit(ctx context.Context, form Form) error {
	token, ok := d.privilegedToken()
	if !ok {
		return &UserError{Message: msgNotPrivileged}
	}
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer d.busy.Store(false)

	d.mu.Lock()
	d.form = form
	d.mu.Unlock()

	if _, err := d.client.CreateTransaction(ctx, token, form.request()); err != nil {
		return userError(err, msgCreateFailed)
	}

	d.mu.Lock()
	d.form = EmptyForm()
	d.mu.Unlock()

	return d.reload(ctx)
}

// Delete removes id after confirm returns true. Errors carry the server
// message or a generic fallback. On success the ledger is reloaded as in Submit.
func (d *Dashboard) Delete(ctx context.Context, id string, confirm func() bool) error {
	token, ok := d.privilegedToken()
	if !ok {
		return &UserError{Message: msgNotPrivileged}
	}
	if confirm == nil || !confirm() {
		return ErrCancelled
	}
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer d.busy.Store(false)

	if err := d.client.DeleteTransaction(ctx, token, id); err != nil {
		return userError(err, msgDeleteFailed)
	}
	return d.reload(ctx)
}

func (d *Dashboard) reload(ctx context.Context) error {
	if err := d.Load(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

func (d *Dashboard) privilegedToken() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.token, d.privileged
}

// request converts typed form values: the amount to a number and the date to
// an ISO timestamp. Values that do not convert are passed through for the
// server to reject.
func (f Form) request() CreateRequest {
	req := CreateRequest{
		Tanggal:    strings.TrimSpace(f.Tanggal),
		Penghuni:   f.Penghuni,
		Kamar:      f.Kamar,
		Keterangan: f.Keterangan,
		Tipe:       f.Tipe,
	}
	if t, err := time.Parse("2006-01-02", req.Tanggal); err == nil {
		req.Tanggal = t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	if amount, err := decimal.NewFromString(strings.TrimSpace(f.Jumlah)); err == nil {
		n := json.Number(amount.String())
		req.Jumlah = &n
	}
	return req
}

func userError(err error, fallback string) *UserError {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return &UserError{Message: apiErr.Detail, Err: err}
	}
	return &UserError{Message: fallback, Err: err}
}
