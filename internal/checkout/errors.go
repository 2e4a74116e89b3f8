package checkout

import (
	"context"
	"errors"
)

var (
	// ErrBusy means an initialization or presentation is already in flight;
	// the second trigger is ignored, never queued.
	ErrBusy = errors.New("checkout already in progress")

	// ErrNotReady means Present was called before the payment sheet was
	// configured. The caller shows a "not ready" notice and waits.
	ErrNotReady = errors.New("payment sheet is not ready")

	// ErrSessionDiscarded means the session was abandoned (or restarted)
	// while a call was in flight; the late result was dropped.
	ErrSessionDiscarded = errors.New("checkout session was discarded")

	// ErrPresentationCancelled is returned by a Presenter when the user
	// dismissed the payment sheet. It is not a failure.
	ErrPresentationCancelled = errors.New("payment sheet dismissed")

	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
)

// isCancellation treats an explicit sheet dismissal and a cancelled context
// the same way: back to Ready, nothing shown as an error.
func isCancellation(err error) bool {
	return errors.Is(err, ErrPresentationCancelled) || errors.Is(err, context.Canceled)
}
