// Package whatsapp turns a validated booking into the text sent to the
// consultant and the deep link that opens a chat with it pre-filled.
package whatsapp

import (
	"strings"
	"time"
	_ "time/tzdata" // Africa/Cairo must resolve in minimal containers

	"github.com/drjehan/portfolio-api/internal/models"
)

const (
	border  = "*===============================*"
	divider = "------------------------------"
	// SiteSignature closes every message
	SiteSignature = "موقع د. جيهان مصطفى"
)

var cairo = loadCairo()

func loadCairo() *time.Location {
	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatMessage renders req as the booking message. The output depends only
// on req and now; the caller passes the clock.
func FormatMessage(req *models.BookingRequest, now time.Time) string {
	var b strings.Builder

	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("")
		line("*" + title + "*")
		line(divider)
	}

	line(border)
	line("*    طلب حجز جديد    *")
	line(border)

	section("المعلومات الشخصية")
	line("الاسم: " + req.FullName)
	line("العمر: " + req.Age + " سنة")
	line("الوزن: " + req.Weight + " كجم")
	line("الطول: " + req.Height + " سم")
	line("الوظيفة: " + req.Occupation)

	section("مستوى النشاط")
	line(req.ActivityLevel.Label())

	section("بيانات الاتصال")
	line("الهاتف: " + req.Phone)
	line("البريد: " + req.Email)

	section("الباقة المختارة")
	line(req.Package.Label())

	if req.Notes != "" {
		section("ملاحظات إضافية")
		line(req.Notes)
	}

	line("")
	line(border)
	line(SiteSignature)
	line(FormatTimestamp(now))
	b.WriteString(border)

	return strings.TrimSpace(b.String())
}

// FormatTimestamp renders t in Cairo time with Arabic month names and
// Arabic-Indic digits, e.g. "١٦ أكتوبر ٢٠٢٦ في ٠٣:٠٥ م".
func FormatTimestamp(t time.Time) string {
	t = t.In(cairo)

	period := "ص"
	if t.Hour() >= 12 {
		period = "م"
	}

	s := t.Format("2") + " " + arabicMonths[t.Month()-1] + " " + t.Format("2006") +
		" في " + t.Format("03:04") + " " + period
	return arabicDigits.Replace(s)
}
