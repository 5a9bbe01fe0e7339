package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carebook/models"
	"carebook/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSessionService(t *testing.T, provider PaymentProvider) (*DefaultBookingSessionService, *miniredis.Miniredis, *stubBookingRepo, *stubPackageRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	bookings := &stubBookingRepo{}
	trainers := &stubTrainerRepo{trainers: []models.Trainer{respiteTrainer()}}
	packages := &stubPackageRepo{pkg: &models.HourPackage{
		ID: "pkg-1", TotalHours: 20, UsedHours: 0, HourlyRate: 18.5, Currency: "gbp",
	}}

	svc := &DefaultBookingSessionService{
		Validator:    newValidator(t, bookings, trainers, packages),
		TrainerRepo:  trainers,
		PackageRepo:  packages,
		BookingRepo:  bookings,
		Gate:         NewPaymentIntentGate(provider, "gbp", zap.NewNop()),
		SessionCache: cache,
		PaymentCache: cache,
	}
	return svc, mr, bookings, packages
}

func TestInitiateSessionStoresContext(t *testing.T) {
	svc, mr, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.True(t, resp.Validation.Valid)
	assert.NotEmpty(t, resp.Trainers, "matched trainers come back for display")

	raw, err := mr.Get(utils.SessionCachePrefix + resp.SessionID)
	require.NoError(t, err)
	var session models.BookingSession
	require.NoError(t, json.Unmarshal([]byte(raw), &session))
	// 4 hours at 18.50/h.
	assert.InDelta(t, 74.0, session.Amount, 1e-9)
	assert.Equal(t, "gbp", session.Currency)
	assert.Equal(t, "user-1", session.UserID)

	ttl := mr.TTL(utils.SessionCachePrefix + resp.SessionID)
	assert.Equal(t, utils.SessionCacheTTL, ttl)
}

func TestInitiateSessionReturnsInvalidVerdict(t *testing.T) {
	svc, _, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	req := cleanRequest()
	req.Slots[0].Start = 9 * 60
	req.Slots[0].End = 10 * 60 // under the minimum

	resp, err := svc.InitiateSession(context.Background(), req, "user-1", "iPhone")
	require.NoError(t, err, "an invalid request is still a session, not an error")
	assert.False(t, resp.Validation.Valid)
	require.NotEmpty(t, resp.Validation.Errors)
	assert.Equal(t, models.ReasonTooShort, resp.Validation.Errors[0].Code)
}

func TestGetSessionRoundTrip(t *testing.T) {
	svc, _, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)

	session, err := svc.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, session.SessionID)
	assert.Equal(t, "child-1", session.Request.ChildID)

	_, err = svc.GetSession(context.Background(), "no-such-session")
	assert.Error(t, err)

	_, err = svc.GetSession(context.Background(), "")
	assert.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	svc, mr, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)

	mr.FastForward(utils.SessionCacheTTL + time.Second)

	_, err = svc.GetSession(context.Background(), resp.SessionID)
	assert.Error(t, err)
}

func TestConfirmSessionHappyPath(t *testing.T) {
	provider := &fakeProvider{url: "https://checkout.test/cs_1"}
	svc, mr, bookings, _ := newSessionService(t, provider)

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)

	confirmed, err := svc.ConfirmSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.Checkout)
	assert.True(t, confirmed.Checkout.Succeeded)
	assert.Equal(t, "https://checkout.test/cs_1", confirmed.Checkout.CheckoutURL)

	// The gate state is audited for support tooling.
	raw, err := mr.Get(utils.PaymentAuditPrefix + resp.SessionID)
	require.NoError(t, err)
	var state models.PaymentIntentState
	require.NoError(t, json.Unmarshal([]byte(raw), &state))
	assert.Equal(t, models.PaymentSucceeded, state.Status)

	require.Len(t, bookings.created, 1)
	assert.Equal(t, "child-1", bookings.created[0].ChildID)
	assert.Equal(t, "Pending", bookings.created[0].Status)
}

func TestConfirmSessionRefusesInvalid(t *testing.T) {
	svc, _, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	req := cleanRequest()
	req.Slots[0].End = req.Slots[0].Start + 60

	resp, err := svc.InitiateSession(context.Background(), req, "user-1", "iPhone")
	require.NoError(t, err)

	_, err = svc.ConfirmSession(context.Background(), resp.SessionID)
	assert.Error(t, err)
}

func TestConfirmSessionProviderFailureIsAnOutcome(t *testing.T) {
	provider := &fakeProvider{err: errors.New("stripe: declined")}
	svc, _, bookings, _ := newSessionService(t, provider)

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)

	confirmed, err := svc.ConfirmSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.Checkout)
	assert.False(t, confirmed.Checkout.Succeeded)
	assert.True(t, confirmed.Checkout.Retryable)
	assert.Empty(t, bookings.created, "no booking is written on a failed checkout")
}

func TestCancelSessionDropsEverything(t *testing.T) {
	svc, mr, _, _ := newSessionService(t, &fakeProvider{url: "u"})

	resp, err := svc.InitiateSession(context.Background(), cleanRequest(), "user-1", "iPhone")
	require.NoError(t, err)
	_, err = svc.ConfirmSession(context.Background(), resp.SessionID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelSession(context.Background(), resp.SessionID))
	assert.False(t, mr.Exists(utils.SessionCachePrefix+resp.SessionID))
	assert.Equal(t, models.PaymentUninitiated, svc.Gate.StateSnapshot(resp.SessionID).Status)
}
