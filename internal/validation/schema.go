// Package validation holds the booking form schema. The same Schema is used by
// the HTTP handlers and by any Go client that wants to pre-check a submission,
// so both sides always apply identical rules.
package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Latin or Arabic letters and whitespace
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\x{0600}-\x{06FF}\s]+$`)

	// Egyptian mobile: optional +20 or 0, then 1, operator digit, 8 digits
	egyptianPhonePattern = regexp.MustCompile(`^(\+20|0)?1[0125][0-9]{8}$`)

	integerPattern = regexp.MustCompile(`^[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

const genericMessage = "هذا الحقل غير صحيح"

// fieldMessages maps field -> validator tag -> user-facing message.
// The "*" entry is used for any tag without its own message.
var fieldMessages = map[string]map[string]string{
	"fullName": {
		"*":          "يجب أن يكون الاسم 3 أحرف على الأقل",
		"max":        "الاسم طويل جداً",
		"personname": "الاسم يجب أن يحتوي على أحرف ومسافات فقط",
	},
	"age": {
		"*": "العمر يجب أن يكون بين 1 و 120",
	},
	"height": {
		"*": "المدخل غير صحيح (سم)",
	},
	"weight": {
		"*": "المدخل غير صحيح (كجم)",
	},
	"occupation": {
		"*":   "المسمى الوظيفي مطلوب",
		"max": "المسمى الوظيفي طويل جداً",
	},
	"activityLevel": {
		"*": "يرجى اختيار مستوى النشاط",
	},
	"phone": {
		"*": "يرجى إدخال رقم هاتف مصري صحيح (مثال: 01xxxxxxxxx)",
	},
	"email": {
		"*":   "يرجى إدخال بريد إلكتروني صحيح",
		"max": "البريد الإلكتروني طويل جداً",
	},
	"package": {
		"*": "يرجى اختيار الباقة",
	},
	"notes": {
		"*": "الملاحظات طويلة جداً (حد أقصى 500 حرف)",
	},
}

// FieldErrors maps a JSON field name to its error messages
type FieldErrors map[string][]string

// Schema validates booking submissions
type Schema struct {
	validate *validator.Validate
}

// NewSchema builds a schema with the booking-specific rules registered
func NewSchema() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors line up with the submitted keys
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func, both static here
	_ = v.RegisterValidation("personname", matchString(personNamePattern))
	_ = v.RegisterValidation("egphone", matchString(egyptianPhonePattern))
	_ = v.RegisterValidation("intrange", numberInRange(integerPattern))
	_ = v.RegisterValidation("decrange", numberInRange(decimalPattern))

	return &Schema{validate: v}
}

var defaultSchema = NewSchema()

// Validate checks raw form values against the default schema
func Validate(raw map[string]string) (*models.BookingRequest, FieldErrors) {
	return defaultSchema.Validate(raw)
}

// Validate checks every field of raw and returns either a fully valid request
// or the errors of all failing fields. Unknown keys are ignored.
func (s *Schema) Validate(raw map[string]string) (*models.BookingRequest, FieldErrors) {
	req := &models.BookingRequest{
		FullName:      raw["fullName"],
		Age:           raw["age"],
		Height:        raw["height"],
		Weight:        raw["weight"],
		Occupation:    raw["occupation"],
		ActivityLevel: models.ActivityLevel(raw["activityLevel"]),
		Phone:         raw["phone"],
		Email:         raw["email"],
		Package:       models.PackageType(raw["package"]),
		Notes:         raw["notes"],
	}

	if errs := s.ValidateRequest(req); len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// ValidateRequest checks an already decoded request
func (s *Schema) ValidateRequest(req *models.BookingRequest) FieldErrors {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_form"] = []string{genericMessage}
		return errs
	}

	for _, fe := range validationErrors {
		errs[fe.Field()] = append(errs[fe.Field()], messageFor(fe.Field(), fe.Tag()))
	}
	return errs
}

func messageFor(field, tag string) string {
	messages, ok := fieldMessages[field]
	if !ok {
		return genericMessage
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	if msg, ok := messages["*"]; ok {
		return msg
	}
	return genericMessage
}

func matchString(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

// numberInRange validates text that must look like pattern and parse to a
// value within the "min:max" tag parameter, bounds inclusive.
func numberInRange(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !pattern.MatchString(value) {
			return false
		}

		lo, hi, ok := parseBounds(fl.Param())
		if !ok {
			return false
		}

		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}
}

func parseBounds(param string) (float64, float64, bool) {
	loStr, hiStr, found := strings.Cut(param, ":")
	if !found {
		return 0, 0, false
	}
	lo, err := strconv.ParseFloat(loStr, 64)
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.ParseFloat(hiStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
