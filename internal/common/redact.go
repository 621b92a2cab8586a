package common

import "strings"

// Redaction helpers for log fields that carry applicant PII. Contact and
// application handlers log submitted data through these so that emails,
// phone numbers, names and addresses never land in log files verbatim.

// RedactEmail keeps the domain and masks the local part: "jo***@example.com".
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return "***@***.***"
	}
	if len(local) < 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}

// RedactPhone shows the last 4 digits only: "***-***-1234".
func RedactPhone(phone string) string {
	var digits []byte
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return "****"
	}
	return "***-***-" + string(digits[len(digits)-4:])
}

// RedactName keeps the first and last characters: "J***e".
func RedactName(name string) string {
	if len(name) <= 2 {
		return "**"
	}
	return name[:1] + strings.Repeat("*", len(name)-2) + name[len(name)-1:]
}

// RedactField redacts a value based on its field name. Secret-bearing keys
// (password, token, key, authorization) are fully masked; address fields are
// dropped entirely. Unknown fields pass through unchanged.
func RedactField(key, value string) string {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "password"),
		strings.Contains(lower, "secret"),
		strings.Contains(lower, "token"),
		strings.Contains(lower, "authorization"):
		return "[REDACTED]"
	case strings.Contains(lower, "email"), lower == "to", lower == "from":
		return RedactEmail(value)
	case strings.Contains(lower, "phone"), strings.Contains(lower, "mobile"), strings.Contains(lower, "tel"):
		return RedactPhone(value)
	case strings.Contains(lower, "address") && !strings.Contains(lower, "ip") && !strings.Contains(lower, "url"):
		return "[REDACTED]"
	case strings.Contains(lower, "name") && !strings.Contains(lower, "error") && !strings.Contains(lower, "event"):
		return RedactName(value)
	}
	return value
}
