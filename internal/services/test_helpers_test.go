package services_test

import (
	"github.com/drjehan/portfolio-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func validBooking() map[string]string {
	return map[string]string{
		"fullName":      "Mona Hassan",
		"age":           "34",
		"height":        "162",
		"weight":        "70",
		"occupation":    "Pharmacist",
		"activityLevel": "sedentary",
		"phone":         "+201112345678",
		"email":         "mona@example.com",
		"package":       "initial",
		"notes":         "",
	}
}
