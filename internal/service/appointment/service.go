package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/internal/repository"
	"github.com/rasreserve/autoshop-api/internal/service/notification"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

// Service owns the appointment status lifecycle. Slot exclusivity is
// ultimately guaranteed by the storage layer's unique index; the checks here
// exist to surface a friendly conflict before the write.
type Service struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
	notifSvc notification.Service
}

func NewService(repo repository.AppointmentRepository, userRepo repository.UserRepository, notifSvc notification.Service) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		notifSvc: notifSvc,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	// A missing booking user is an invalid reference, not a missing target.
	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidReference("user", err)
		}
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}

	if !req.AppointmentDateTime.After(time.Now()) {
		return nil, apperrors.BadRequest("appointment date must be in the future", nil)
	}

	taken, err := s.repo.SlotTaken(ctx, req.ServiceCategoryID, req.AppointmentDateTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, apperrors.SlotConflict("this time slot is already booked for the selected service category")
	}

	now := time.Now()
	apt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		ContactNumber:       req.ContactNumber,
		Email:               req.Email,
		ServiceCategoryID:   req.ServiceCategoryID,
		ServiceTypeID:       req.ServiceTypeID,
		UserID:              req.UserID,
		AdditionalNotes:     req.AdditionalNotes,
		AppointmentDateTime: req.AppointmentDateTime,
		Status:              model.AppointmentStatusRequested,
		BookedAt:            now,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	// Best effort: a failed notification never fails the booking.
	s.notifSvc.NotifyBookingRequested(ctx, apt)

	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters, page model.Pagination) ([]*model.Appointment, int, error) {
	return s.repo.List(ctx, filters, page)
}

// Update applies a partial patch. If the patch moves the datetime of an
// Upcoming appointment, the status is forced to Rescheduled before the
// transition table is consulted, overriding any status in the same patch.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if req.AppointmentDateTime != nil &&
		!req.AppointmentDateTime.Equal(apt.AppointmentDateTime) &&
		apt.Status == model.AppointmentStatusUpcoming {
		rescheduled := model.AppointmentStatusRescheduled
		status = &rescheduled
	}

	// Any supplied status is validated against the transition table, even the
	// current one: no state's target set contains itself, so a same-status
	// patch is an invalid transition rather than a no-op.
	if status != nil {
		if !model.CanTransition(apt.Status, *status) {
			return nil, apperrors.InvalidTransition(string(apt.Status), string(*status))
		}
		apt.Status = *status
	}

	if req.FirstName != nil {
		apt.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		apt.LastName = *req.LastName
	}
	if req.ContactNumber != nil {
		apt.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		apt.Email = *req.Email
	}
	if req.AdditionalNotes != nil {
		apt.AdditionalNotes = *req.AdditionalNotes
	}
	if req.AppointmentDateTime != nil {
		apt.AppointmentDateTime = *req.AppointmentDateTime
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Accept moves a Requested appointment to Upcoming. The slot is re-checked
// because a Requested appointment does not reserve it; another booking may
// have claimed the slot since request time.
func (s *Service) Accept(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status != model.AppointmentStatusRequested {
		return nil, apperrors.BadRequest("only requested appointments can be accepted", nil)
	}

	taken, err := s.repo.SlotTaken(ctx, apt.ServiceCategoryID, apt.AppointmentDateTime, &apt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, apperrors.SlotConflict("this time slot is no longer available, please ask the customer to choose a different time")
	}

	apt.Status = model.AppointmentStatusUpcoming
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.notifSvc.NotifyBookingAccepted(ctx, apt)
	return apt, nil
}

// Reject is destructive: a rejected request leaves no record.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if apt.Status != model.AppointmentStatusRequested {
		return apperrors.BadRequest("only requested appointments can be rejected", nil)
	}

	return s.repo.Delete(ctx, id)
}

// Delete removes an appointment regardless of status. Administrative path.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddReview attaches a customer review to a completed appointment.
func (s *Service) AddReview(ctx context.Context, id uuid.UUID, req *model.AddReviewRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.BadRequest("only completed appointments can be reviewed", nil)
	}
	if apt.Review != nil {
		return nil, apperrors.BadRequest("appointment already has a review", nil)
	}

	now := time.Now()
	apt.Review = &model.Review{
		Rating: req.Rating,
		Title:  req.Title,
		Text:   req.Text,
		Date:   &now,
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}
