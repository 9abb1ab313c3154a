// Package remittance drives the cheque remittance slip (FRCHQ) workflow from
// the operator's side: it offers only the actions the current status allows,
// asks for confirmation before every transition and only ever replaces the
// local slip with what the backend returned.
package remittance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/client/export"
	"github.com/SscSPs/treasury_backoffice/internal/client/gateway"
	"github.com/SscSPs/treasury_backoffice/internal/client/guard"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/core/lifecycle"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	chequesEndpoint     = "cheques/available"
	accountsEndpoint    = "treasury-accounts"
	remittancesEndpoint = "remittances"
)

// User-facing fallback messages.
const (
	msgUnreachable = "Impossible de joindre le serveur."
	msgBadResponse = "Réponse du serveur illisible."
	msgNoSlip      = "Aucun bordereau chargé."
)

var (
	// ErrActionNotOffered is returned when an action is not legal for the
	// loaded slip's status. No call is made.
	ErrActionNotOffered = errors.New("action not offered for the current status")

	// ErrNotConfirmed is returned when the operator declined the
	// confirmation. No call is made.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrNoSlip is returned by operations that need a loaded slip.
	ErrNoSlip = errors.New("no remittance slip loaded")
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota + 1
	LevelError
)

// Notifier shows non-blocking messages to the operator.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// ListFilter narrows List.
type ListFilter struct {
	Status domain.RemittanceStatus
	Limit  int
	Offset int
}

// Controller holds at most one loaded slip. It is safe for concurrent use;
// when calls overlap, whichever response lands last wins.
type Controller struct {
	gw        *gateway.Client
	confirmer Confirmer
	notifier  Notifier
	onExpired func()
	logger    *slog.Logger

	mu   sync.Mutex
	slip *dto.RemittanceResponse
}

// Option configures a Controller.
type Option func(*Controller)

// WithExpiryHandler is invoked after a 401 instead of the gateway's
// fallback navigator.
func WithExpiryHandler(fn func()) Option {
	return func(c *Controller) { c.onExpired = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a Controller.
func NewController(gw *gateway.Client, confirmer Confirmer, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		gw:        gw,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectionTotal sums the paid amounts of a selection before it is saved.
func SelectionTotal(cheques []dto.ChequeSheetResponse) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, c := range cheques {
		total = total.Add(c.PaidAmount)
	}
	return total, len(cheques)
}

// LoadAvailableCheques lists the cheque sheets not yet assigned to a slip.
// On failure the list is empty and the error has been notified.
func (c *Controller) LoadAvailableCheques(ctx context.Context) ([]dto.ChequeSheetResponse, error) {
	return loadList[dto.ChequeSheetResponse](ctx, c, chequesEndpoint, nil, "Impossible de charger les chèques disponibles.")
}

// LoadTreasuryAccounts lists the accounts a slip can be deposited to.
func (c *Controller) LoadTreasuryAccounts(ctx context.Context) ([]dto.TreasuryAccountResponse, error) {
	return loadList[dto.TreasuryAccountResponse](ctx, c, accountsEndpoint, nil, "Impossible de charger les comptes de trésorerie.")
}

// List returns slips, most recent deposit first.
func (c *Controller) List(ctx context.Context, filter ListFilter) ([]dto.RemittanceResponse, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}
	return loadList[dto.RemittanceResponse](ctx, c, remittancesEndpoint, q, "Impossible de charger les bordereaux.")
}

func loadList[T any](ctx context.Context, c *Controller, endpoint string, q url.Values, failure string) ([]T, error) {
	resp, err := c.gw.Request(ctx, endpoint, gateway.Options{Query: q}, c.onExpired)
	if err != nil {
		c.fail(err, failure)
		return []T{}, err
	}
	items, err := gateway.DecodeList[T](resp.Payload)
	if err != nil {
		c.logger.Warn("Unusable list payload", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		c.notifier.Notify(LevelError, failure)
		return []T{}, err
	}
	return items, nil
}

// Load fetches a slip and makes it the local slip.
func (c *Controller) Load(ctx context.Context, id string) (*dto.RemittanceResponse, error) {
	if err := guard.Require("id", id); err != nil {
		c.notifier.Notify(LevelError, "Identifiant de bordereau manquant.")
		return nil, err
	}
	resp, err := c.gw.Get(ctx, slipEndpoint(id), c.onExpired)
	if err != nil {
		c.fail(err, "Impossible de charger le bordereau.")
		return nil, err
	}
	slip, err := c.decodeSlip(resp)
	if err != nil {
		return nil, err
	}
	c.replace(slip)
	return slip, nil
}

// Create saves a new draft slip from a selection of available cheques and
// makes it the local slip. Incomplete input is rejected without a call.
func (c *Controller) Create(ctx context.Context, input dto.CreateRemittanceRequest) (*dto.RemittanceResponse, error) {
	if err := guard.Check(input); err != nil {
		c.notifier.Notify(LevelError, "Bordereau incomplet: "+err.Error())
		return nil, err
	}
	resp, err := c.gw.Post(ctx, remittancesEndpoint, input, c.onExpired)
	if err != nil {
		c.fail(err, "La création du bordereau a échoué.")
		return nil, err
	}
	slip, err := c.decodeSlip(resp)
	if err != nil {
		return nil, err
	}
	c.replace(slip)
	c.notifier.Notify(LevelInfo, fmt.Sprintf("Bordereau %s créé (%d chèque(s), %s).", slip.SlipNumber, slip.ChequeCount, utils.FormatAmount(slip.TotalAmount)))
	return slip, nil
}

// Update edits the local slip. Only draft and submitted slips are editable,
// and only a draft accepts a new cheque selection.
func (c *Controller) Update(ctx context.Context, input dto.UpdateRemittanceRequest) (*dto.RemittanceResponse, error) {
	current := c.Current()
	if current == nil {
		c.notifier.Notify(LevelError, msgNoSlip)
		return nil, ErrNoSlip
	}
	status := domain.RemittanceStatus(current.Status)
	if !lifecycle.CanEdit(status) || (input.ChequeIDs != nil && !lifecycle.ChequesMutable(status)) {
		c.notifier.Notify(LevelError, fmt.Sprintf("Le bordereau %s ne peut plus être modifié (%s).", current.SlipNumber, current.StatusLabel))
		return nil, fmt.Errorf("%w: edit in status %s", ErrActionNotOffered, status)
	}
	if err := guard.Check(input); err != nil {
		c.notifier.Notify(LevelError, "Modification invalide: "+err.Error())
		return nil, err
	}

	resp, err := c.gw.Put(ctx, slipEndpoint(current.ID), input, c.onExpired)
	if err != nil {
		c.fail(err, "La modification du bordereau a échoué.")
		return nil, err
	}
	slip, err := c.decodeSlip(resp)
	if err != nil {
		return nil, err
	}
	c.replace(slip)
	c.notifier.Notify(LevelInfo, fmt.Sprintf("Bordereau %s modifié.", slip.SlipNumber))
	return slip, nil
}

// Validate moves a draft to submitted.
func (c *Controller) Validate(ctx context.Context) (*dto.RemittanceResponse, error) {
	return c.transition(ctx, lifecycle.ActionValidate, nil, nil)
}

// Deposit records the bank deposit. A blank receipt lets the backend
// generate one.
func (c *Controller) Deposit(ctx context.Context, receipt string) (*dto.RemittanceResponse, error) {
	return c.transition(ctx, lifecycle.ActionDeposit, nil, dto.DepositRequest{ReceiptNumber: receipt})
}

// Clear records the encashment. A nil date lets the backend use today.
func (c *Controller) Clear(ctx context.Context, date *time.Time) (*dto.RemittanceResponse, error) {
	return c.transition(ctx, lifecycle.ActionClear, nil, dto.ClearRequest{EncashmentDate: date})
}

// DeclareNotPaid marks a deposited slip as unpaid. reason must not be blank.
func (c *Controller) DeclareNotPaid(ctx context.Context, reason string) (*dto.RemittanceResponse, error) {
	return c.transition(ctx, lifecycle.ActionDeclareNotPaid, guard.Require("reason", reason), dto.ReasonRequest{Reason: reason})
}

// Cancel cancels a draft, submitted or deposited slip. reason must not be blank.
func (c *Controller) Cancel(ctx context.Context, reason string) (*dto.RemittanceResponse, error) {
	return c.transition(ctx, lifecycle.ActionCancel, guard.Require("reason", reason), dto.ReasonRequest{Reason: reason})
}

// transition runs one confirmable action against the local slip. Checks run
// in order: action offered, input guard, confirmation. Any failure before
// the call leaves the backend untouched.
func (c *Controller) transition(ctx context.Context, action lifecycle.Action, guardErr error, body any) (*dto.RemittanceResponse, error) {
	current := c.Current()
	if current == nil {
		c.notifier.Notify(LevelError, msgNoSlip)
		return nil, ErrNoSlip
	}
	logger := c.logger.With(slog.String("slip_id", current.ID), slog.String("action", string(action)))

	status := domain.RemittanceStatus(current.Status)
	if !lifecycle.Allowed(status, action) {
		logger.Warn("Action not offered", slog.String("status", current.Status))
		c.notifier.Notify(LevelError, fmt.Sprintf("Action « %s » indisponible pour un bordereau %s.", action.Label(), current.StatusLabel))
		return nil, fmt.Errorf("%w: %s from %s", ErrActionNotOffered, action, status)
	}
	if guardErr != nil {
		c.notifier.Notify(LevelError, "Un motif est obligatoire.")
		return nil, guardErr
	}

	ok, err := c.confirmer.Confirm(ctx, fmt.Sprintf("%s le bordereau %s ?", action.Label(), current.SlipNumber))
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		logger.Info("Action declined by operator")
		return nil, ErrNotConfirmed
	}

	resp, err := c.gw.Post(ctx, slipEndpoint(current.ID)+"/"+string(action), body, c.onExpired)
	if err != nil {
		c.fail(err, fmt.Sprintf("L'action « %s » a échoué.", action.Label()))
		return nil, err
	}
	updated, err := c.decodeSlip(resp)
	if err != nil {
		return nil, err
	}
	c.replace(updated)
	logger.Info("Transition applied", slog.String("from", current.Status), slog.String("to", updated.Status))

	refreshed, err := c.Load(ctx, updated.ID)
	if errors.Is(err, gateway.ErrUnauthorized) {
		// The session ended under us: the slip is already discarded and
		// the operator sent to login, so no success is reported.
		return nil, err
	}
	if err != nil {
		// The transition itself went through; the failed refresh has
		// already been notified.
		logger.Warn("Refresh after transition failed", slog.String("error", err.Error()))
		refreshed = updated
	}
	c.notifier.Notify(LevelInfo, fmt.Sprintf("Bordereau %s: %s.", refreshed.SlipNumber, refreshed.StatusLabel))
	return refreshed, nil
}

// Export renders the local slip. It makes no call.
func (c *Controller) Export(w io.Writer, format export.Format, opts ...export.Option) error {
	doc, err := export.Build(c.Current(), opts...)
	if err != nil {
		c.notifier.Notify(LevelError, msgNoSlip)
		return err
	}
	if err := doc.Render(w, format); err != nil {
		c.notifier.Notify(LevelError, "L'export a échoué.")
		return err
	}
	return nil
}

// Actions lists what may be offered for the local slip, export included.
func (c *Controller) Actions() []lifecycle.Action {
	current := c.Current()
	if current == nil {
		return nil
	}
	return lifecycle.AvailableActions(domain.RemittanceStatus(current.Status))
}

// Current returns a copy of the local slip, or nil.
func (c *Controller) Current() *dto.RemittanceResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slip == nil {
		return nil
	}
	cp := *c.slip
	cp.Cheques = append([]dto.ChequeSheetResponse(nil), c.slip.Cheques...)
	cp.AvailableActions = append([]string(nil), c.slip.AvailableActions...)
	return &cp
}

// Discard forgets the local slip.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.slip = nil
	c.mu.Unlock()
}

func (c *Controller) replace(slip *dto.RemittanceResponse) {
	cp := *slip
	c.mu.Lock()
	c.slip = &cp
	c.mu.Unlock()
}

func (c *Controller) decodeSlip(resp *gateway.Response) (*dto.RemittanceResponse, error) {
	slip, err := gateway.DecodeObject[dto.RemittanceResponse](resp.Payload)
	if err != nil {
		c.fail(err, msgBadResponse)
		return nil, err
	}
	if slip.ID == "" {
		c.notifier.Notify(LevelError, msgBadResponse)
		return nil, fmt.Errorf("%w: slip without id", gateway.ErrMalformedPayload)
	}
	return slip, nil
}

// fail reports err to the operator. A 401 discards the local slip: the
// gateway has already cleared the session and sent the operator to login.
func (c *Controller) fail(err error, fallback string) {
	var reqErr *gateway.RequestError
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		c.logger.Warn("Session expired, discarding local slip")
		c.Discard()
	case errors.As(err, &reqErr):
		c.notifier.Notify(LevelError, reqErr.UserMessage(fallback))
	case errors.Is(err, gateway.ErrTransport):
		c.notifier.Notify(LevelError, msgUnreachable)
	case errors.Is(err, apperrors.ErrValidation):
		c.notifier.Notify(LevelError, err.Error())
	default:
		c.logger.Error("Unexpected failure", slog.String("error", err.Error()))
		c.notifier.Notify(LevelError, fallback)
	}
}

func slipEndpoint(id string) string {
	return remittancesEndpoint + "/" + url.PathEscape(id)
}
