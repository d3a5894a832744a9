package store

import (
	"context"
	"time"
)

// QueryOpts configures request event queries.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	Operation string    // exact operation name ("" = all)
	Since     time.Time // timestamp >= Since
}

// RequestEventData captures a single backend exchange.
type RequestEventData struct {
	Operation    string
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Request      string
	Response     string
}

// RequestEvent is a stored backend exchange.
type RequestEvent struct {
	ID        int64
	Timestamp time.Time
	RequestEventData
}

// EventRepo provides access to the request log.
type EventRepo interface {
	// AppendRequest records a backend exchange.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns events newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// GetRequest returns one event by id, or nil if it does not exist.
	GetRequest(ctx context.Context, id int64) (*RequestEvent, error)

	// Prune deletes all but the N most recent events and returns how many
	// were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
