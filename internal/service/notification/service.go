package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rasreserve/autoshop-api/internal/email"
	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/internal/repository"
	"github.com/rasreserve/autoshop-api/internal/service/catalog"
)

const (
	EventBookingRequested = "appointment.requested"
	EventBookingAccepted  = "appointment.accepted"
)

// Service dispatches booking notifications. Every path is best effort:
// failures are logged and recorded on the outbox event, never returned to
// the caller, so a lost email cannot fail or roll back a booking.
type Service interface {
	NotifyBookingRequested(ctx context.Context, apt *model.Appointment)
	NotifyBookingAccepted(ctx context.Context, apt *model.Appointment)
}

type service struct {
	outboxRepo repository.OutboxRepository
	emailSvc   email.Service
	catalogSvc *catalog.Service
	shopName   string
	logger     zerolog.Logger
}

func NewService(outboxRepo repository.OutboxRepository, emailSvc email.Service, catalogSvc *catalog.Service, shopName string, logger zerolog.Logger) Service {
	return &service{
		outboxRepo: outboxRepo,
		emailSvc:   emailSvc,
		catalogSvc: catalogSvc,
		shopName:   shopName,
		logger:     logger,
	}
}

func (s *service) NotifyBookingRequested(ctx context.Context, apt *model.Appointment) {
	s.enqueue(ctx, EventBookingRequested, apt)
	go s.sendEmail(apt, EventBookingRequested)
}

func (s *service) NotifyBookingAccepted(ctx context.Context, apt *model.Appointment) {
	s.enqueue(ctx, EventBookingAccepted, apt)
	go s.sendEmail(apt, EventBookingAccepted)
}

func (s *service) enqueue(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal notification payload")
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to enqueue notification event")
	}
}

func (s *service) sendEmail(apt *model.Appointment, eventType string) {
	// Detached from the request lifecycle on purpose.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	serviceName := "your selected service"
	if s.catalogSvc != nil {
		if svc, err := s.catalogSvc.GetService(ctx, apt.ServiceTypeID); err == nil {
			serviceName = svc.Name
		}
	}

	details := email.BookingDetails{
		ServiceName: serviceName,
		DateTime:    apt.AppointmentDateTime.Format("Monday, 02 January 2006 at 3:04 PM"),
		ShopName:    s.shopName,
	}
	name := apt.FirstName + " " + apt.LastName

	var err error
	switch eventType {
	case EventBookingAccepted:
		err = s.emailSvc.SendBookingAccepted(ctx, apt.Email, name, details)
	default:
		err = s.emailSvc.SendBookingRequested(ctx, apt.Email, name, details)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("event", eventType).
			Str("appointment_id", apt.ID.String()).
			Msg("booking notification email failed")
	}
}
