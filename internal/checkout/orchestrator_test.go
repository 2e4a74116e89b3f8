package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamadheeSadeesha/ShopEase/internal/cart"
	"github.com/SamadheeSadeesha/ShopEase/internal/catalog"
)

type mockRelay struct {
	mu      sync.Mutex
	params  SheetParams
	err     error
	calls   int
	release chan struct{} // when non-nil, CreatePaymentSheet blocks until closed
}

func (m *mockRelay) CreatePaymentSheet(ctx context.Context, amountCents int64, currency string) (*SheetParams, error) {
	m.mu.Lock()
	m.calls++
	release := m.release
	m.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	p := m.params
	return &p, nil
}

func (m *mockRelay) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockPresenter struct {
	configureErr error
	presentErr   error
	configured   []SheetParams
	presentCalls int
}

func (m *mockPresenter) Configure(_ context.Context, params SheetParams) error {
	m.configured = append(m.configured, params)
	return m.configureErr
}

func (m *mockPresenter) Present(context.Context) error {
	m.presentCalls++
	return m.presentErr
}

type mockFinalizer struct {
	calls int
}

func (m *mockFinalizer) Finalize() { m.calls++ }

func sheetParams() SheetParams {
	return SheetParams{
		PaymentIntentSecret: "pi_123_secret_456",
		EphemeralKeySecret:  "ek_test_789",
		CustomerID:          "cus_abc",
		PublishableKey:      "pk_test_xyz",
	}
}

func storeWithTotal() *cart.Store {
	s := cart.NewStore()
	a := catalog.Product{ID: 1, Price: 10.00}
	b := catalog.Product{ID: 2, Price: 5.50}
	s.Add(a)
	s.Add(a)
	s.Add(b) // total 25.50
	return s
}

func TestInitialize_Success(t *testing.T) {
	relay := &mockRelay{params: sheetParams()}
	presenter := &mockPresenter{}
	sut := NewOrchestrator(storeWithTotal(), relay, presenter, &mockFinalizer{})

	err := sut.Initialize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusReady, sut.Status())
	session := sut.Session()
	require.NotNil(t, session)
	assert.Equal(t, int64(2550), session.AmountCents)
	assert.Equal(t, "usd", session.Currency)
	require.Len(t, presenter.configured, 1)
	assert.Equal(t, "pi_123_secret_456", presenter.configured[0].PaymentIntentSecret)
}

func TestInitialize_EmptyCart(t *testing.T) {
	sut := NewOrchestrator(cart.NewStore(), &mockRelay{}, &mockPresenter{}, &mockFinalizer{})

	err := sut.Initialize(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StatusIdle, sut.Status())
}

func TestInitialize_RelayError_ThenRetry(t *testing.T) {
	relay := &mockRelay{err: errors.New("connection refused")}
	sut := NewOrchestrator(storeWithTotal(), relay, &mockPresenter{}, &mockFinalizer{})

	err := sut.Initialize(context.Background())
	require.ErrorContains(t, err, "connection refused")
	assert.Equal(t, StatusFailed, sut.Status())
	assert.Error(t, sut.LastError())

	// retry re-enters initialization from Failed
	relay.mu.Lock()
	relay.err = nil
	relay.params = sheetParams()
	relay.mu.Unlock()

	require.NoError(t, sut.Initialize(context.Background()))
	assert.Equal(t, StatusReady, sut.Status())
	assert.Equal(t, 2, relay.callCount())
}

func TestInitialize_PresenterConfigureError(t *testing.T) {
	relay := &mockRelay{params: sheetParams()}
	presenter := &mockPresenter{configureErr: errors.New("bad publishable key")}
	sut := NewOrchestrator(storeWithTotal(), relay, presenter, &mockFinalizer{})

	err := sut.Initialize(context.Background())
	require.ErrorContains(t, err, "bad publishable key")
	assert.Equal(t, StatusFailed, sut.Status())
}

func TestInitialize_SecondTriggerWhileInFlight_IsIgnored(t *testing.T) {
	release := make(chan struct{})
	relay := &mockRelay{params: sheetParams(), release: release}
	sut := NewOrchestrator(storeWithTotal(), relay, &mockPresenter{}, &mockFinalizer{})

	done := make(chan error, 1)
	go func() {
		done <- sut.Initialize(context.Background())
	}()

	require.Eventually(t, func() bool {
		return sut.Status() == StatusInitializing
	}, time.Second, 5*time.Millisecond)

	err := sut.Initialize(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusReady, sut.Status())
	assert.Equal(t, 1, relay.callCount())
}

func TestInitialize_AbandonDiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	relay := &mockRelay{params: sheetParams(), release: release}
	presenter := &mockPresenter{}
	sut := NewOrchestrator(storeWithTotal(), relay, presenter, &mockFinalizer{})

	done := make(chan error, 1)
	go func() {
		done <- sut.Initialize(context.Background())
	}()

	require.Eventually(t, func() bool {
		return sut.Status() == StatusInitializing
	}, time.Second, 5*time.Millisecond)

	sut.Abandon()
	close(release)

	require.ErrorIs(t, <-done, ErrSessionDiscarded)
	assert.Equal(t, StatusIdle, sut.Status())
	assert.Nil(t, sut.Session())
	assert.Empty(t, presenter.configured, "a discarded session must not configure the sheet")
}

func TestInitialize_AmountNotRefreshedByLaterCartChanges(t *testing.T) {
	store := storeWithTotal()
	sut := NewOrchestrator(store, &mockRelay{params: sheetParams()}, &mockPresenter{}, &mockFinalizer{})
	require.NoError(t, sut.Initialize(context.Background()))

	store.Add(catalog.Product{ID: 3, Price: 100})

	assert.Equal(t, int64(2550), sut.Session().AmountCents)
}

func TestPresent_BeforeReady(t *testing.T) {
	presenter := &mockPresenter{}
	sut := NewOrchestrator(storeWithTotal(), &mockRelay{}, presenter, &mockFinalizer{})

	err := sut.Present(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, StatusIdle, sut.Status())
	assert.Zero(t, presenter.presentCalls)
}

func TestPresent_Success_Finalizes(t *testing.T) {
	finalizer := &mockFinalizer{}
	sut := NewOrchestrator(storeWithTotal(), &mockRelay{params: sheetParams()}, &mockPresenter{}, finalizer)
	require.NoError(t, sut.Initialize(context.Background()))

	err := sut.Present(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, sut.Status())
	assert.Nil(t, sut.Session())
	assert.Equal(t, 1, finalizer.calls)
}

func TestPresent_Cancellation_ReturnsToReady(t *testing.T) {
	store := storeWithTotal()
	finalizer := &mockFinalizer{}
	presenter := &mockPresenter{presentErr: ErrPresentationCancelled}
	sut := NewOrchestrator(store, &mockRelay{params: sheetParams()}, presenter, finalizer)
	require.NoError(t, sut.Initialize(context.Background()))

	err := sut.Present(context.Background())
	require.ErrorIs(t, err, ErrPresentationCancelled)

	assert.Equal(t, StatusReady, sut.Status())
	assert.Equal(t, 3, store.ItemCount(), "cancellation must leave the cart alone")
	assert.Zero(t, finalizer.calls)
	assert.NoError(t, sut.LastError(), "cancellation is not an error")
}

func TestPresent_ProcessingError_ReturnsToReadyForRetry(t *testing.T) {
	presenter := &mockPresenter{presentErr: errors.New("Your card was declined.")}
	sut := NewOrchestrator(storeWithTotal(), &mockRelay{params: sheetParams()}, presenter, &mockFinalizer{})
	require.NoError(t, sut.Initialize(context.Background()))

	err := sut.Present(context.Background())
	require.ErrorContains(t, err, "Your card was declined.")

	// same intent is retried without re-initializing
	assert.Equal(t, StatusReady, sut.Status())
	assert.ErrorContains(t, sut.LastError(), "declined")

	presenter.presentErr = nil
	require.NoError(t, sut.Present(context.Background()))
	assert.Equal(t, StatusSucceeded, sut.Status())
}

func TestPresent_SecondTriggerWhilePresenting_IsIgnored(t *testing.T) {
	presenter := &blockingPresenter{release: make(chan struct{})}
	sut := NewOrchestrator(storeWithTotal(), &mockRelay{params: sheetParams()}, presenter, &mockFinalizer{})
	require.NoError(t, sut.Initialize(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- sut.Present(context.Background())
	}()

	require.Eventually(t, func() bool {
		return sut.Status() == StatusPresenting
	}, time.Second, 5*time.Millisecond)

	require.ErrorIs(t, sut.Present(context.Background()), ErrNotReady)
	require.ErrorIs(t, sut.Initialize(context.Background()), ErrBusy)

	close(presenter.release)
	require.NoError(t, <-done)
}

type blockingPresenter struct {
	release chan struct{}
}

func (p *blockingPresenter) Configure(context.Context, SheetParams) error { return nil }

func (p *blockingPresenter) Present(ctx context.Context) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
