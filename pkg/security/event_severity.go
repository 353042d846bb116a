package security

// Severity represents the severity level of a security event.
// It is derived from EventType, never caller-provided.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the fixed severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventQuotaExhausted:     SeverityINFO,
	EventValidationFailed:   SeverityWARN,
	EventInvalidInput:       SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventServerError:        SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM when unmapped
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove returns true if the event needs attention
func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}
