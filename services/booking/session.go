package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bookingRepo "carebook/database/repository/booking"
	hourpackageRepo "carebook/database/repository/hourpackage"
	trainerRepo "carebook/database/repository/trainer"
	"carebook/models"
	"carebook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingSessionService manages the stateful flow between validation and
// checkout. Sessions live in Redis for 30 minutes.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, req models.BookingRequest, userID, userAgent string) (*models.BookingResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	ConfirmSession(ctx context.Context, sessionID string) (*models.BookingResponse, error)
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Validator    BookingValidationService
	TrainerRepo  trainerRepo.TrainerRepository
	PackageRepo  hourpackageRepo.PackageRepository
	BookingRepo  bookingRepo.BookingRepository
	Gate         *PaymentIntentGate
	SessionCache *redis.Client
	PaymentCache *redis.Client
}

// InitiateSession validates the request, runs trainer matching for display,
// and caches the whole context under a fresh session id.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, req models.BookingRequest, userID, userAgent string) (*models.BookingResponse, error) {
	logger := utils.GetLogger()

	result, err := s.Validator.Validate(ctx, req)
	if err != nil {
		// Collaborator failure: the caller must see "unable to validate",
		// never a false verdict.
		return nil, err
	}

	session := models.BookingSession{
		SessionID:  uuid.New().String(),
		Request:    req,
		Validation: result,
		UserID:     userID,
		DeviceName: userAgent,
	}

	if req.PinnedTrainerID() == "" {
		trainers, err := s.TrainerRepo.ListAvailableTrainers(trainerRepo.TrainerSearchCriteria{})
		if err != nil {
			return nil, NewValidationUnavailableError("trainer roster", err)
		}
		match := MatchTrainers(req.Family, trainers, CapabilityForMode(req.ModeKey))
		session.MatchedTrainers = ExtractTrainerDTOs(match.Matched)
		session.FallbackTrainers = ExtractTrainerDTOs(match.Fallback)
	}

	pkg, err := s.PackageRepo.GetPackageByID(req.PackageID)
	if err != nil {
		return nil, NewValidationUnavailableError("hour package", err)
	}
	session.Amount = req.TotalProposedHours() * pkg.HourlyRate
	session.Currency = pkg.Currency

	if err := s.storeSession(ctx, session); err != nil {
		return nil, err
	}
	logger.Info("booking session initiated",
		zap.String("sessionID", session.SessionID),
		zap.Bool("valid", result.Valid),
		zap.Int("errors", len(result.Errors)))

	return &models.BookingResponse{
		SessionID:        session.SessionID,
		Trainers:         session.MatchedTrainers,
		FallbackTrainers: session.FallbackTrainers,
		Validation:       result,
	}, nil
}

// GetSession loads an active session from the cache.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("booking not initialized")
	}
	data, err := s.SessionCache.Get(ctx, utils.SessionCachePrefix+sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("booking session not found or expired: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &session, nil
}

// CancelSession drops the cached session and resets the payment lineage.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("booking not initialized")
	}
	s.Gate.Reset(sessionID)
	if err := s.SessionCache.Del(ctx, utils.SessionCachePrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session %s: %w", sessionID, err)
	}
	return nil
}

// ConfirmSession drives the payment gate for a validated session. On a
// successful checkout-session creation the bookings are written back and the
// package balance is updated; the caller is handed the checkout URL.
func (s *DefaultBookingSessionService) ConfirmSession(ctx context.Context, sessionID string) (*models.BookingResponse, error) {
	logger := utils.GetLogger()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Validation == nil || !session.Validation.Valid {
		return nil, fmt.Errorf("booking session %s has unresolved validation errors", sessionID)
	}
	if session.Amount <= 0 {
		return nil, fmt.Errorf("booking session %s has no payable amount", sessionID)
	}

	outcome, err := s.Gate.EnsureCheckout(ctx, session.SessionID, session.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment gate error: %w", err)
	}
	s.auditPaymentState(ctx, session.SessionID)

	if !outcome.Succeeded {
		return &models.BookingResponse{SessionID: sessionID, Checkout: outcome}, nil
	}

	if err := s.persistBookings(session); err != nil {
		// The checkout session exists; surface the write-back failure rather
		// than pretending the booking is recorded.
		logger.Error("failed to persist bookings after checkout",
			zap.String("sessionID", sessionID), zap.Error(err))
		return nil, err
	}

	return &models.BookingResponse{SessionID: sessionID, Checkout: outcome}, nil
}

func (s *DefaultBookingSessionService) persistBookings(session *models.BookingSession) error {
	req := session.Request
	var totalHours float64
	for _, slot := range req.Slots {
		booking := &models.Booking{
			ID:         uuid.New().String(),
			ChildID:    req.ChildID,
			TrainerID:  slot.TrainerID,
			PackageID:  req.PackageID,
			Date:       slot.Date,
			Start:      slot.Start,
			End:        slot.End,
			Hours:      slot.DurationHours(),
			TotalPrice: slot.DurationHours() * session.Amount / req.TotalProposedHours(),
			Status:     "Pending",
			CreatedAt:  time.Now(),
		}
		if err := s.BookingRepo.CreateBooking(booking); err != nil {
			return fmt.Errorf("failed to record booking for %s: %w", slot.Date, err)
		}
		totalHours += slot.DurationHours()
	}
	if err := s.PackageRepo.RecordConsumedHours(req.PackageID, totalHours); err != nil {
		return fmt.Errorf("failed to update package balance: %w", err)
	}
	return nil
}

// auditPaymentState snapshots the gate state to Redis for support tooling.
// Best effort; an audit write failure never affects the checkout outcome.
func (s *DefaultBookingSessionService) auditPaymentState(ctx context.Context, bookingID string) {
	if s.PaymentCache == nil {
		return
	}
	snapshot := s.Gate.StateSnapshot(bookingID)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.PaymentCache.Set(ctx, utils.PaymentAuditPrefix+bookingID, data, utils.PaymentAuditTTL).Err(); err != nil {
		utils.GetLogger().Warn("payment audit write failed",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingSessionService) storeSession(ctx context.Context, session models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.SessionCache.Set(ctx, utils.SessionCachePrefix+session.SessionID, data, utils.SessionCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}
