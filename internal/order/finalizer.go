// Package order wraps up a checkout after the payment provider confirms
// success.
package order

import (
	"log"

	"github.com/SamadheeSadeesha/ShopEase/internal/cart"
)

// Navigator moves the UI to a named route. The confirmation screen registers
// the real implementation; tests use a recorder.
type Navigator interface {
	Navigate(route string)
}

const ConfirmationRoute = "/success"

// Finalizer clears the cart and shows the confirmation screen once payment
// succeeds. Duplicate success callbacks are harmless: clearing an empty cart
// is a no-op and navigation to the current route is the Navigator's problem.
type Finalizer struct {
	store *cart.Store
	nav   Navigator
}

func NewFinalizer(store *cart.Store, nav Navigator) *Finalizer {
	return &Finalizer{store: store, nav: nav}
}

func (f *Finalizer) Finalize() {
	f.store.Clear()
	f.nav.Navigate(ConfirmationRoute)
	log.Printf("order finalized, cart cleared")
}
