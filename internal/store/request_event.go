package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const tableRequestEvents = "request_events"

var eventColumns = []string{
	"id", "timestamp", "operation", "method", "path", "status",
	"latency_ms", "success", "error", "request", "response",
}

// eventRepo implements EventRepo over the request_events table.
type eventRepo struct {
	drv *entsql.Driver
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	q, args := sqlite().Insert(tableRequestEvents).
		Columns(eventColumns[1:]...).
		Values(
			r.clock().UnixMilli(),
			data.Operation,
			data.Method,
			data.Path,
			data.Status,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.Request,
			data.Response,
		).
		Query()
	if _, err := r.drv.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func selectEvents() *entsql.Selector {
	return sqlite().Select(eventColumns...).From(entsql.Table(tableRequestEvents))
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	sel := selectEvents().OrderBy(entsql.Desc("id"))
	if opts.Operation != "" {
		sel.Where(entsql.EQ("operation", opts.Operation))
	}
	if !opts.Since.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.Since.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	q, args := sel.Query()
	rows, err := r.drv.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetRequest(ctx context.Context, id int64) (*RequestEvent, error) {
	q, args := selectEvents().Where(entsql.EQ("id", id)).Query()
	rows, err := r.drv.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get request event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanEvent(rows)
}

func (r *eventRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	newest := sqlite().Select("id").
		From(entsql.Table(tableRequestEvents)).
		OrderBy(entsql.Desc("id")).
		Limit(keep)
	q, args := sqlite().Delete(tableRequestEvents).
		Where(entsql.NotIn("id", newest)).
		Query()

	res, err := r.drv.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("prune request events: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*RequestEvent, error) {
	var (
		ev RequestEvent
		ts int64
	)
	err := s.Scan(
		&ev.ID,
		&ts,
		&ev.Operation,
		&ev.Method,
		&ev.Path,
		&ev.Status,
		&ev.LatencyMs,
		&ev.Success,
		&ev.ErrorMessage,
		&ev.Request,
		&ev.Response,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	ev.Timestamp = time.UnixMilli(ts)
	return &ev, nil
}
