package logger

import (
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %s", msg, formatFields(fields))
	breadcrumb("info", sentry.LevelInfo, msg, fields)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %s", msg, formatFields(fields))
	breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	log.Printf("[DEBUG] %s %s", msg, formatFields(fields))
	breadcrumb("debug", sentry.LevelDebug, msg, fields)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		if requestID, ok := fields["request_id"].(string); ok {
			scope.SetTag("request_id", requestID)
		}
		if model, ok := fields["model"].(string); ok {
			scope.SetTag("model", model)
		}
		if style, ok := fields["style"].(string); ok {
			scope.SetTag("style", style)
		}
		if err != nil {
			hub.CaptureException(err)
		} else {
			hub.CaptureMessage(msg)
		}
	})
}

// LogGenerationRequest logs the outcome of one music generation request.
func LogGenerationRequest(c *gin.Context, style, key string, tempo int, duration time.Duration, extra Fields) {
	fields := WithContext(c)
	fields["style"] = style
	fields["key"] = key
	fields["tempo"] = tempo
	fields["duration_ms"] = duration.Milliseconds()
	for k, v := range extra {
		fields[k] = v
	}
	Info("Generation request completed", fields)
}

func breadcrumb(typ string, level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     typ,
			Category: "log",
			Message:  msg,
			Data:     fields,
			Level:    level,
		})
	}
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	out := "{"
	first := true
	for k, v := range fields {
		if !first {
			out += ", "
		}
		out += fmt.Sprintf("%s=%v", k, v)
		first = false
	}
	return out + "}"
}
