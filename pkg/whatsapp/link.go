package whatsapp

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the public click-to-chat domain
const DefaultBaseURL = "https://wa.me"

var (
	nonDigits = regexp.MustCompile(`[^0-9]`)

	// country code 20 optional, then an Egyptian mobile number
	egyptianNumberPattern = regexp.MustCompile(`^(20)?1[0125][0-9]{8}$`)
)

// BuildLink returns "<baseURL>/<digits of destination>?text=<message>".
// The destination is not checked here: an empty number still yields a
// well-formed URL that simply opens no chat.
func BuildLink(baseURL, message, destination string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + CleanNumber(destination) + "?text=" + EncodeText(message)
}

// EncodeText percent-encodes s for a query value. Spaces become %20 rather
// than "+", which some mobile clients show literally.
func EncodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CleanNumber strips everything but digits, e.g. "+20 103 681 6899" -> "201036816899"
func CleanNumber(number string) string {
	return nonDigits.ReplaceAllString(number, "")
}

// IsValidEgyptianNumber reports whether number, once cleaned, is an Egyptian
// mobile number with or without the 20 country code
func IsValidEgyptianNumber(number string) bool {
	return egyptianNumberPattern.MatchString(CleanNumber(number))
}
