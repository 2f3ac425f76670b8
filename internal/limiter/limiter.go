// Package limiter throttles repeated failed logins per (username, client ip).
package limiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Limiter controls login attempts and temporary lockouts.
type Limiter interface {
	// Allow reports whether a login attempt may proceed, and when to retry if not.
	Allow(ctx context.Context, username, ip string) (bool, time.Duration, error)
	// Failure records a failed attempt and reports whether the pair is now blocked.
	Failure(ctx context.Context, username, ip string) (bool, time.Duration, error)
	// Success clears the failure counter.
	Success(ctx context.Context, username, ip string) error
}

// Noop never blocks. Used when Redis is not configured.
type Noop struct{}

func (Noop) Allow(context.Context, string, string) (bool, time.Duration, error)   { return true, 0, nil }
func (Noop) Failure(context.Context, string, string) (bool, time.Duration, error) { return false, 0, nil }
func (Noop) Success(context.Context, string, string) error                        { return nil }

// key builds the counter key. The ip is hashed so raw addresses never reach Redis.
func key(username, ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return "login:fail:" + strings.ToLower(username) + ":" + hex.EncodeToString(sum[:8])
}
