package services

import (
	"context"
	"fmt"
	"time"

	"github.com/drjehan/portfolio-api/config"
	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/drjehan/portfolio-api/internal/validation"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/drjehan/portfolio-api/pkg/logger"
	"github.com/drjehan/portfolio-api/pkg/metrics"
	"github.com/drjehan/portfolio-api/pkg/tracing"
	"github.com/drjehan/portfolio-api/pkg/whatsapp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BookingSuccessMessage is shown to the applicant before the redirect
const BookingSuccessMessage = "Form submitted successfully! Redirecting to WhatsApp..."

// ValidationError carries every failing field of a submission
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking has %d invalid field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidInput
}

// BookingService turns a raw form submission into a WhatsApp deep link
type BookingService struct {
	config *config.Config
	now    func() time.Time
}

// NewBookingService creates a new booking service instance
func NewBookingService(cfg *config.Config) *BookingService {
	return &BookingService{
		config: cfg,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for the message timestamp
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Submit validates raw, formats the booking message and returns the link that
// opens it in WhatsApp. Validation failures return a *ValidationError; a
// missing destination number returns an ErrConfiguration error.
func (s *BookingService) Submit(ctx context.Context, raw map[string]string) (*models.BookingResponse, error) {
	_, span := tracing.StartSpan(ctx, "booking.submit")
	defer span.End()

	req, fieldErrs := validation.Validate(raw)
	if fieldErrs != nil {
		metrics.BookingSubmissions.WithLabelValues("validation_failed").Inc()
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		logger.Warn("Booking validation failed", zap.Strings("fields", fields))
		return nil, &ValidationError{Fields: fieldErrs}
	}

	destination := s.config.WhatsApp.Number
	if whatsapp.CleanNumber(destination) == "" {
		metrics.BookingSubmissions.WithLabelValues("config_error").Inc()
		err := errors.ConfigurationError("WHATSAPP_NUMBER")
		logger.Error("Cannot build WhatsApp link", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	message := whatsapp.FormatMessage(req, s.now())
	link := whatsapp.BuildLink(s.config.WhatsApp.BaseURL, message, destination)

	metrics.BookingSubmissions.WithLabelValues("success").Inc()
	metrics.BookingPackages.WithLabelValues(string(req.Package)).Inc()
	span.SetAttributes(attribute.String("booking.package", string(req.Package)))

	logger.Info("Booking submitted",
		zap.String("package", string(req.Package)),
		zap.String("activity_level", string(req.ActivityLevel)),
		zap.Bool("has_notes", req.Notes != ""),
	)

	return &models.BookingResponse{
		Success:     true,
		WhatsAppURL: link,
		Message:     BookingSuccessMessage,
	}, nil
}
