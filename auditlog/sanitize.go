package auditlog

// RedactionMarker replaces the values of sensitive fields before storage.
const RedactionMarker = "[REDACTED]"

// sensitiveFields are redacted by exact, case-sensitive name match.
var sensitiveFields = []string{"password", "token", "secret", "apiKey", "creditCard"}

// SanitizeBody returns a copy of body with sensitive top-level fields
// replaced by the redaction marker. The sanitize is deliberately shallow:
// nested objects pass through untouched.
func SanitizeBody(body map[string]interface{}) map[string]interface{} {
	if body == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(body))
	for k, v := range body {
		sanitized[k] = v
	}
	for _, field := range sensitiveFields {
		if _, ok := sanitized[field]; ok {
			sanitized[field] = RedactionMarker
		}
	}
	return sanitized
}
