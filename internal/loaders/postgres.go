package loaders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

// OverrideKind distinguishes a whole day off from a day with custom hours.
type OverrideKind string

const (
	OverrideFullDayLeave OverrideKind = "full_day_leave"
	OverrideCustomRanges OverrideKind = "custom_time_ranges"
)

// TimeRange is a start/end pair in 24-hour HH:MM.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OverrideRecord is one schedule exception for a calendar date.
type OverrideRecord struct {
	ID         string
	Date       string // ISO date, 2006-01-02
	Kind       OverrideKind
	TimeRanges []TimeRange
	CreatedAt  time.Time
}

// AppointmentRecord is a completed visitor booking.
type AppointmentRecord struct {
	ID        string
	SenderID  string
	Name      string
	Phone     string
	Day       string // weekday name chosen by the visitor
	TimeSlot  string
	CreatedAt time.Time
}

func NewPostgresClient(dsn string) (*PostgresClient, error) {
	client := &PostgresClient{
		dsn: dsn,
	}

	pool, err := client.createConnectionPool()
	if err != nil {
		return nil, err
	}

	client.pool = pool
	log.Println("Successfully connected to PostgreSQL database with connection pool")
	return client, nil
}

func (c *PostgresClient) createConnectionPool() (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schedule_overrides (
			id UUID PRIMARY KEY,
			override_date DATE NOT NULL,
			kind TEXT NOT NULL,
			time_ranges JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_overrides_date ON schedule_overrides (override_date)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			sender_id TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			day TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// CreateOverride persists a schedule override and returns the stored record.
func (c *PostgresClient) CreateOverride(ctx context.Context, rec OverrideRecord) (OverrideRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	ranges := rec.TimeRanges
	if ranges == nil {
		ranges = []TimeRange{}
	}
	rangesJSON, err := json.Marshal(ranges)
	if err != nil {
		return OverrideRecord{}, fmt.Errorf("failed to marshal time ranges: %w", err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO schedule_overrides (id, override_date, kind, time_ranges, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Date, string(rec.Kind), rangesJSON, rec.CreatedAt)
	if err != nil {
		return OverrideRecord{}, fmt.Errorf("failed to insert schedule override: %w", err)
	}

	return rec, nil
}

// ListOverridesByDate returns every override stored for the given ISO date.
func (c *PostgresClient) ListOverridesByDate(ctx context.Context, date string) ([]OverrideRecord, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, override_date::text, kind, time_ranges, created_at
		 FROM schedule_overrides
		 WHERE override_date = $1
		 ORDER BY created_at`,
		date)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule overrides: %w", err)
	}
	defer rows.Close()

	var records []OverrideRecord
	for rows.Next() {
		var rec OverrideRecord
		var kind string
		var rangesJSON []byte
		if err := rows.Scan(&rec.ID, &rec.Date, &kind, &rangesJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule override: %w", err)
		}
		rec.Kind = OverrideKind(kind)
		if err := json.Unmarshal(rangesJSON, &rec.TimeRanges); err != nil {
			return nil, fmt.Errorf("failed to unmarshal time ranges: %w", err)
		}
		if len(rec.TimeRanges) == 0 {
			rec.TimeRanges = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateAppointment persists a completed booking and returns the stored record.
func (c *PostgresClient) CreateAppointment(ctx context.Context, rec AppointmentRecord) (AppointmentRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	_, err := c.pool.Exec(ctx,
		`INSERT INTO appointments (id, sender_id, name, phone, day, time_slot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.SenderID, rec.Name, rec.Phone, rec.Day, rec.TimeSlot, rec.CreatedAt)
	if err != nil {
		return AppointmentRecord{}, fmt.Errorf("failed to insert appointment: %w", err)
	}

	return rec, nil
}

func (c *PostgresClient) GetPool() *pgxpool.Pool {
	return c.pool
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
