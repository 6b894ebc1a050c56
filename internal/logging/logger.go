// Package logging defines the structured, context-aware logger used across
// the service.
package logging

import "context"

// Logger takes key-value pairs after the message:
//
//	log.Info(ctx, "login succeeded", "realm", realm, "username", username)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
