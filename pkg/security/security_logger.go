package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventQuotaExhausted     EventType = "quota_exhausted"
	EventValidationFailed   EventType = "validation_failed"
	EventInvalidInput       EventType = "invalid_input"
	EventServerError        EventType = "server_error"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Level       string                 `json:"level"`
	Severity    Severity               `json:"severity"`
	Event       EventType              `json:"event"`
	ClientHash  string                 `json:"client_hash,omitempty"` // never the raw client key
	IP          string                 `json:"ip,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// PersistFunc stores an event outside the log stream
type PersistFunc func(ctx context.Context, event SecurityEvent) error

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	persistFunc PersistFunc
	now         func() time.Time
}

// InitSecurityLogger builds a production zap logger writing JSON to stdout
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Container platforms collect stdout
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLogger(logger, serviceName, environment)
}

// NewSecurityLogger wraps an existing zap logger
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
		now:         time.Now,
	}
}

// SetPersistFunc sets the function to persist events to database
func (sl *SecurityLogger) SetPersistFunc(f PersistFunc) {
	sl.persistFunc = f
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = sl.now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	event.Severity = GetSeverity(event.Event)

	level := levelFor(event.Severity)
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.ClientHash != "" {
		fields = append(fields, zap.String("client_hash", event.ClientHash))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)

	if sl.persistFunc != nil {
		go func(e SecurityEvent) {
			// Request context may already be canceled
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := sl.persistFunc(ctx, e); err != nil {
				sl.zapLogger.Error("Failed to persist security event", zap.Error(err))
			}
		}(event)
	}
}

// RequestMeta identifies the request an event belongs to
type RequestMeta struct {
	ClientKey string
	IP        string
	UserAgent string
	RequestID string
}

func (sl *SecurityLogger) logRequest(ctx context.Context, event EventType, meta RequestMeta, details map[string]interface{}) {
	sl.Log(ctx, SecurityEvent{
		Event:      event,
		ClientHash: hashOrEmpty(meta.ClientKey),
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		RequestID:  meta.RequestID,
		Details:    details,
	})
}

// LogRateLimitTriggered logs when the burst limiter rejects a request
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, meta RequestMeta, endpoint string) {
	sl.logRequest(ctx, EventRateLimitTriggered, meta, map[string]interface{}{"endpoint": endpoint})
}

// LogQuotaExhausted logs when a client hits the daily scoring quota
func (sl *SecurityLogger) LogQuotaExhausted(ctx context.Context, meta RequestMeta, limit int, resetAt time.Time) {
	sl.logRequest(ctx, EventQuotaExhausted, meta, map[string]interface{}{
		"limit":    limit,
		"reset_at": resetAt.UTC().Format(time.RFC3339),
	})
}

// LogValidationFailed logs a rejected request body
func (sl *SecurityLogger) LogValidationFailed(ctx context.Context, meta RequestMeta, field, reason string) {
	sl.logRequest(ctx, EventValidationFailed, meta, map[string]interface{}{"field": field, "reason": reason})
}

// LogInvalidInput logs a resume that failed schema validation
func (sl *SecurityLogger) LogInvalidInput(ctx context.Context, meta RequestMeta, reason string) {
	sl.logRequest(ctx, EventInvalidInput, meta, map[string]interface{}{"reason": reason})
}

// LogServerError logs an unexpected failure
func (sl *SecurityLogger) LogServerError(ctx context.Context, meta RequestMeta, err error) {
	details := map[string]interface{}{}
	if err != nil {
		details["error"] = err.Error()
	}
	sl.logRequest(ctx, EventServerError, meta, details)
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a short SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func hashOrEmpty(value string) string {
	if value == "" {
		return ""
	}
	return HashValue(value)
}

func levelFor(s Severity) zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
