package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitsOnly = regexp.MustCompile(`[^\d]`)
var phonePattern = regexp.MustCompile(`^0[3-9]\d{8}$`)

// FormatCurrency renders a VND amount the short way the client shows it:
// 0đ, 50K, 1.5M.
func FormatCurrency(value int) string {
	switch {
	case value == 0:
		return "0đ"
	case value >= 1000000:
		if value%1000000 == 0 {
			return fmt.Sprintf("%dM", value/1000000)
		}
		return fmt.Sprintf("%.1fM", float64(value)/1000000)
	case value >= 1000:
		return fmt.Sprintf("%dK", value/1000)
	}
	return strconv.Itoa(value) + "đ"
}

// IsValidPhone validates a Vietnamese mobile number.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(digitsOnly.ReplaceAllString(phone, ""))
}

// FormatPhone renders 0901234567 as 090 123 4567.
func FormatPhone(phone string) string {
	clean := digitsOnly.ReplaceAllString(phone, "")
	if len(clean) == 10 {
		return clean[:3] + " " + clean[3:6] + " " + clean[6:]
	}
	return clean
}

// MoMoLink builds the MoMo transfer deep link for paying out a cash prize:
// https://nhantien.momo.vn/<phone>/<amount>
func MoMoLink(phone string, amount int) string {
	clean := digitsOnly.ReplaceAllString(phone, "")
	return fmt.Sprintf("https://nhantien.momo.vn/%s/%d", clean, amount)
}

// JoinURL builds the shareable join link for a room code.
func JoinURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/join/" + code
}
