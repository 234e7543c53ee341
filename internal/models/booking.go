package models

// ActivityLevel is the applicant's weekly exercise level
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary" // little to no exercise
	ActivityLight     ActivityLevel = "light"     // 1-3 days/week
	ActivityModerate  ActivityLevel = "moderate"  // 3-5 days/week
	ActivityVery      ActivityLevel = "very"      // 6-7 days/week
)

// PackageType is the consultation package being booked
type PackageType string

const (
	PackageInitial PackageType = "initial"
	PackageMonthly PackageType = "monthly"
	Package3Month  PackageType = "3month"
	Package6Month  PackageType = "6month"
)

// ActivityLevels lists every accepted activity level in display order
var ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityVery}

// PackageTypes lists every accepted package in display order
var PackageTypes = []PackageType{PackageInitial, PackageMonthly, Package3Month, Package6Month}

var activityLevelLabels = map[ActivityLevel]string{
	ActivitySedentary: "خامل (لا تمارين رياضية)",
	ActivityLight:     "نشاط خفيف (تمرين 1-3 أيام/أسبوع)",
	ActivityModerate:  "نشاط متوسط (تمرين 3-5 أيام/أسبوع)",
	ActivityVery:      "نشاط عالي (تمرين 6-7 أيام/أسبوع)",
}

var packageLabels = map[PackageType]string{
	PackageInitial: "الكشف الدوري (150 جنيه)",
	PackageMonthly: "باقة متابعة شهرية (300 جنيه)",
	Package3Month:  "باقة متابعة 3 شهور (700 جنيه)",
	Package6Month:  "باقة 6 شهور (1400 جنيه)",
}

// Label returns the display label. The schema only admits values present in
// the table, so a missing entry is a programming error and yields "".
func (a ActivityLevel) Label() string {
	return activityLevelLabels[a]
}

// Label returns the display label including the price
func (p PackageType) Label() string {
	return packageLabels[p]
}

// ParseActivityLabel maps a display label back to its activity level
func ParseActivityLabel(label string) (ActivityLevel, bool) {
	for level, l := range activityLevelLabels {
		if l == label {
			return level, true
		}
	}
	return "", false
}

// ParsePackageLabel maps a display label back to its package
func ParsePackageLabel(label string) (PackageType, bool) {
	for pkg, l := range packageLabels {
		if l == label {
			return pkg, true
		}
	}
	return "", false
}

// BookingRequest is a validated booking form submission. Numeric fields stay
// text as submitted; the schema guarantees they parse within range.
type BookingRequest struct {
	FullName      string        `json:"fullName" validate:"required,min=3,max=100,personname"`
	Age           string        `json:"age" validate:"required,intrange=1:120"`
	Height        string        `json:"height" validate:"required,intrange=50:300"`
	Weight        string        `json:"weight" validate:"required,decrange=2:500"`
	Occupation    string        `json:"occupation" validate:"required,min=2,max=100"`
	ActivityLevel ActivityLevel `json:"activityLevel" validate:"required,oneof=sedentary light moderate very"`
	Phone         string        `json:"phone" validate:"required,egphone"`
	Email         string        `json:"email" validate:"required,email,max=100"`
	Package       PackageType   `json:"package" validate:"required,oneof=initial monthly 3month 6month"`
	Notes         string        `json:"notes" validate:"max=500"`
}

// BookingResponse is returned after a successful booking submission
type BookingResponse struct {
	Success     bool   `json:"success"`
	WhatsAppURL string `json:"whatsappUrl"`
	Message     string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Details string              `json:"details,omitempty"`
}

// RateLimitedResponse is returned with status 429
type RateLimitedResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Remaining int    `json:"remaining"`
	Reset     int64  `json:"reset"`
}
