package services_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/drjehan/portfolio-api/config"
	"github.com/drjehan/portfolio-api/internal/services"
	"github.com/drjehan/portfolio-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingConfig(number string) *config.Config {
	return &config.Config{
		WhatsApp: config.WhatsAppConfig{
			Number:  number,
			BaseURL: "https://wa.me",
		},
	}
}

func TestBookingService_Submit(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	service := services.NewBookingService(bookingConfig("+201036816899")).
		WithClock(func() time.Time { return now })

	resp, err := service.Submit(context.Background(), validBooking())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, services.BookingSuccessMessage, resp.Message)
	assert.True(t, strings.HasPrefix(resp.WhatsAppURL, "https://wa.me/201036816899?text="))
	assert.Contains(t, resp.WhatsAppURL, "Mona%20Hassan")

	u, err := url.Parse(resp.WhatsAppURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "الاسم: Mona Hassan")
	assert.Contains(t, text, "الكشف الدوري (150 جنيه)")
}

func TestBookingService_SubmitDeterministicForFixedClock(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	service := services.NewBookingService(bookingConfig("+201036816899")).
		WithClock(func() time.Time { return now })

	first, err := service.Submit(context.Background(), validBooking())
	require.NoError(t, err)
	second, err := service.Submit(context.Background(), validBooking())
	require.NoError(t, err)

	assert.Equal(t, first.WhatsAppURL, second.WhatsAppURL)
}

func TestBookingService_SubmitValidationError(t *testing.T) {
	service := services.NewBookingService(bookingConfig("+201036816899"))

	raw := validBooking()
	raw["phone"] = "0301234567"
	raw["email"] = "nope"

	resp, err := service.Submit(context.Background(), raw)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	var vErr *services.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 2)
	assert.Contains(t, vErr.Fields, "phone")
	assert.Contains(t, vErr.Fields, "email")
}

func TestBookingService_SubmitMissingDestination(t *testing.T) {
	for _, number := range []string{"", "n/a"} {
		service := services.NewBookingService(bookingConfig(number))

		resp, err := service.Submit(context.Background(), validBooking())

		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, errors.ErrConfiguration), "number %q", number)
	}
}
