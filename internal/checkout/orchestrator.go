package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/SamadheeSadeesha/ShopEase/internal/cart"
)

// RelayClient mints payment-sheet credentials for a given amount. Each call
// produces a fresh, independent payment intent.
type RelayClient interface {
	CreatePaymentSheet(ctx context.Context, amountCents int64, currency string) (*SheetParams, error)
}

// Presenter wraps the platform payment UI. Configure installs the secrets for
// one session; Present blocks until the user completes, dismisses, or the
// provider rejects the payment. Present returns nil on success,
// ErrPresentationCancelled on dismissal, and any other error for a processing
// failure whose message is shown to the user verbatim.
type Presenter interface {
	Configure(ctx context.Context, params SheetParams) error
	Present(ctx context.Context) error
}

// Finalizer runs once per successful payment (clear cart, show confirmation).
type Finalizer interface {
	Finalize()
}

// Orchestrator drives one checkout flow:
//
//	Idle → Initializing → Ready → Presenting → (Succeeded | back to Ready)
//
// The amount is captured from the live cart total when initialization starts.
// A second trigger while a step is in flight is rejected with ErrBusy, and a
// result that resolves after Abandon is dropped, never applied.
type Orchestrator struct {
	relay     RelayClient
	presenter Presenter
	finalizer Finalizer
	store     *cart.Store
	currency  string

	mu      sync.Mutex
	status  Status
	session *Session
	gen     uint64
	lastErr error
}

func NewOrchestrator(store *cart.Store, relay RelayClient, presenter Presenter, finalizer Finalizer) *Orchestrator {
	return &Orchestrator{
		relay:     relay,
		presenter: presenter,
		finalizer: finalizer,
		store:     store,
		currency:  "usd",
		status:    StatusIdle,
	}
}

// Status returns the current state of the flow.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Session returns the active session, or nil outside a checkout attempt.
func (o *Orchestrator) Session() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// LastError returns the most recent surfaced failure, if any.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Initialize captures the cart total, obtains payment-sheet credentials from
// the relay, and configures the presenter. It is the Idle → Initializing →
// Ready leg; on any failure the flow lands in Failed and Initialize may be
// called again to retry.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	if !CanTransition(o.status, StatusInitializing) {
		o.mu.Unlock()
		return ErrBusy
	}
	total := o.store.Total()
	if total <= 0 {
		o.mu.Unlock()
		return ErrEmptyCart
	}
	o.gen++
	gen := o.gen
	o.status = StatusInitializing
	o.lastErr = nil
	session := newSession(MinorUnits(total), o.currency)
	o.session = session
	o.mu.Unlock()

	params, err := o.relay.CreatePaymentSheet(ctx, session.AmountCents, session.Currency)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		// Abandoned or restarted while the round-trip was in flight.
		return ErrSessionDiscarded
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		o.status = StatusFailed
		o.lastErr = fmt.Errorf("payment initialization failed: %w", err)
		return o.lastErr
	}

	session.Params = *params
	if err := o.presenter.Configure(ctx, *params); err != nil {
		o.status = StatusFailed
		o.lastErr = fmt.Errorf("payment sheet setup failed: %w", err)
		return o.lastErr
	}

	o.status = StatusReady
	return nil
}

// Present shows the payment sheet. Only legal from Ready; any other state
// gets ErrNotReady without touching the flow. Success finalizes the order;
// dismissal and processing errors both return the flow to Ready so the same
// intent can be retried.
func (o *Orchestrator) Present(ctx context.Context) error {
	o.mu.Lock()
	if o.status != StatusReady {
		o.mu.Unlock()
		return ErrNotReady
	}
	o.gen++
	gen := o.gen
	o.status = StatusPresenting
	o.mu.Unlock()

	err := o.presenter.Present(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return ErrSessionDiscarded
	}

	switch {
	case err == nil:
		o.status = StatusSucceeded
		o.session = nil
		o.finalizer.Finalize()
		return nil
	case isCancellation(err):
		// Dismissal is not a failure; the sheet can be reopened.
		o.status = StatusReady
		return ErrPresentationCancelled
	default:
		log.Printf("payment sheet error: %v", err)
		o.status = StatusReady
		o.lastErr = err
		return err
	}
}

// Abandon discards the session, e.g. when the user navigates away from the
// checkout view. Any in-flight initialization or presentation result that
// resolves afterwards is dropped.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.status = StatusIdle
	o.session = nil
	o.lastErr = nil
}
