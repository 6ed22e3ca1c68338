package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultCountryCode is prepended to phone numbers that lack one.
const DefaultCountryCode = "55"

// minPhoneDigits is the shortest plausible number: a two-digit area
// code plus an eight-digit line.
const minPhoneDigits = 10

var ErrInvalidRecipient = fmt.Errorf("phone number has too few digits")

// NormalizePhone strips everything but digits from phone and prepends
// countryCode when the number does not already start with it. Numbers
// with fewer than ten digits are rejected with ErrInvalidRecipient.
func NormalizePhone(phone, countryCode string) (string, error) {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()

	if len(digits) < minPhoneDigits {
		return "", ErrInvalidRecipient
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits, nil
}

// Link builds a wa.me deep link that opens a chat with the given phone
// number, pre-filled with message. The message is percent-encoded;
// spaces become %20, not '+'.
func Link(phone, countryCode, message string) (string, error) {
	normalized, err := NormalizePhone(phone, countryCode)
	if err != nil {
		return "", err
	}
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", normalized, encoded), nil
}
