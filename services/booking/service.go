package booking

import (
	"context"
	"time"

	bookingRepo "carebook/database/repository/booking"
	hourpackageRepo "carebook/database/repository/hourpackage"
	trainerRepo "carebook/database/repository/trainer"
	"carebook/models"
	"carebook/utils"

	"go.uber.org/zap"
)

// BookingValidationService decides whether a booking request may proceed.
type BookingValidationService interface {
	// Validate runs every rule over the request and returns the aggregated
	// result. A non-nil error means the booking could NOT be checked
	// (collaborator failure), never that it is invalid.
	Validate(ctx context.Context, req models.BookingRequest) (*models.ValidationResult, error)
}

// DefaultBookingValidationService implements BookingValidationService.
type DefaultBookingValidationService struct {
	BookingRepo bookingRepo.BookingRepository
	TrainerRepo trainerRepo.TrainerRepository
	PackageRepo hourpackageRepo.PackageRepository
	Cutoff      CutoffPolicy
	// Now lets tests pin the clock; defaults to time.Now.
	Now func() time.Time
}

// Validate runs cutoff, duration, conflict, balance, and trainer-matching
// checks over one request. All failures are collected in one pass -- a caller
// sees every problem with a submission at once. Rules are independent; they
// share only the single now instant captured here.
func (s *DefaultBookingValidationService) Validate(ctx context.Context, req models.BookingRequest) (*models.ValidationResult, error) {
	logger := utils.GetLogger()

	nowFn := s.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	// One clock read for the whole pass; cutoff and duration judgements must
	// agree on what "now" is.
	now := nowFn()

	result := &models.ValidationResult{Valid: true}

	for i, slot := range req.Slots {
		decision := s.Cutoff.Classify(slot.Date, now)
		if !decision.Bookable {
			result.AddError(models.ValidationIssue{
				Code:      decision.Reason,
				Message:   decision.Message,
				SlotIndex: i,
			})
		}

		duration := ValidateDuration(slot.Start, slot.End)
		if !duration.Valid {
			result.AddError(models.ValidationIssue{
				Code:      duration.Reason,
				Message:   duration.Message,
				SlotIndex: i,
			})
		}
	}

	existing, err := s.BookingRepo.ListBookingsForChild(req.ChildID)
	if err != nil {
		logger.Error("validation: failed to fetch existing bookings",
			zap.String("childID", req.ChildID), zap.Error(err))
		return nil, NewValidationUnavailableError("existing bookings", err)
	}

	report := CheckConflicts(existing, req.Slots, req.ChildID)
	for _, d := range report.Duplicates {
		result.AddError(models.ValidationIssue{
			Code:      models.ReasonDuplicate,
			Message:   Message(models.ReasonDuplicate, d.Date),
			SlotIndex: d.SlotIndex,
		})
	}
	for _, c := range report.Conflicts {
		result.AddError(models.ValidationIssue{
			Code:      models.ReasonConflict,
			Message:   Message(models.ReasonConflict, c.Date),
			SlotIndex: c.SlotIndex,
		})
	}

	pkg, err := s.PackageRepo.GetPackageByID(req.PackageID)
	if err != nil {
		logger.Error("validation: failed to fetch hour package",
			zap.String("packageID", req.PackageID), zap.Error(err))
		return nil, NewValidationUnavailableError("hour package", err)
	}
	balance := CheckBalance(*pkg, req.TotalProposedHours())
	if !balance.Sufficient {
		result.AddError(models.ValidationIssue{
			Code:      models.ReasonInsufficientHours,
			Message:   balance.Message,
			SlotIndex: -1,
		})
	}

	if err := s.checkTrainer(req, result); err != nil {
		return nil, err
	}

	return result, nil
}

// checkTrainer verifies trainer fit. A pinned trainer degrades matching to a
// direct capability/assignment confirmation; otherwise the full location
// search runs and an empty match is surfaced as a non-blocking warning with
// fallback options.
func (s *DefaultBookingValidationService) checkTrainer(req models.BookingRequest, result *models.ValidationResult) error {
	logger := utils.GetLogger()
	capability := CapabilityForMode(req.ModeKey)

	if pinned := req.PinnedTrainerID(); pinned != "" {
		trainer, err := s.TrainerRepo.GetTrainerByID(pinned)
		if err != nil {
			logger.Error("validation: failed to fetch pinned trainer",
				zap.String("trainerID", pinned), zap.Error(err))
			return NewValidationUnavailableError("pinned trainer", err)
		}
		if capability != "" && !trainer.HasCapability(capability) {
			result.AddError(models.ValidationIssue{
				Code:      models.ReasonNoTrainerMatch,
				Message:   pinnedMismatchMessage,
				SlotIndex: -1,
			})
		}
		return nil
	}

	trainers, err := s.TrainerRepo.ListAvailableTrainers(trainerRepo.TrainerSearchCriteria{})
	if err != nil {
		logger.Error("validation: failed to fetch trainer roster", zap.Error(err))
		return NewValidationUnavailableError("trainer roster", err)
	}
	if len(trainers) == 0 {
		result.AddError(models.ValidationIssue{
			Code:      models.ReasonNoTrainerMatch,
			Message:   rosterEmptyMessage,
			SlotIndex: -1,
		})
		return nil
	}

	match := MatchTrainers(req.Family, trainers, capability)
	if len(match.Matched) == 0 {
		result.AddWarning(models.ValidationIssue{
			Code:      models.ReasonNoTrainerMatch,
			Message:   Message(models.ReasonNoTrainerMatch, len(match.Fallback)),
			SlotIndex: -1,
		})
	}
	return nil
}

// CapabilityForMode maps a service-mode key to the trainer capability it
// requires. Unknown modes require no specific capability.
func CapabilityForMode(modeKey string) models.CapabilityTag {
	switch modeKey {
	case "travel_escort":
		return models.CapabilityTravelEscort
	case "school_run":
		return models.CapabilitySchoolRun
	case "respite":
		return models.CapabilityRespite
	case "overnight":
		return models.CapabilityOvernight
	case "sen_support":
		return models.CapabilitySENSupport
	case "one_to_one":
		return models.CapabilityOneToOne
	}
	return ""
}
