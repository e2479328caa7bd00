package main

import (
	"context"
	"errors"
	"strings"
)

const (
	RequestIDPrefix     string     = "r"
	InvocationIDPrefix  string     = "i"
	ContextInvocationID ContextKey = "invocation.id"
)

var (
	ErrTokenNotFound      = errors.New("no session token stored")
	ErrLoginRequired      = errors.New("login required")
	ErrAdminRequired      = errors.New("administrator role required")
	ErrBusy               = errors.New("another action is still in progress")
	ErrTitleRequired      = errors.New("title is required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrBookNotLoaded      = errors.New("no book loaded")
	ErrSessionRejected    = errors.New("session ended: the profile could not be loaded")
)

type ContextKey string

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val, ok := ctx.Value(contextKey).(string); ok {
		return val
	}
	return ""
}

// SplitCommaList turns "a, b, ,a" into [a b]. Used for the authors
// and genres inputs of the admin form.
func SplitCommaList(s string) []string {
	return uniqueTrimmed(strings.Split(s, ","))
}

func uniqueTrimmed(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:max(maxLength, 0)])
	}
	return string(r[:maxLength-3]) + "..."
}
