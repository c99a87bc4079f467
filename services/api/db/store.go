package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrMissingHost is returned when no database host is configured.
var ErrMissingHost = errors.New("database host is not configured")

// Variant selects which relations hold the parking data.
type Variant string

const (
	// VariantTables reads parking_bays and parking_sensors separately.
	VariantTables Variant = "tables"
	// VariantView reads the pre-joined parking_status view.
	VariantView Variant = "view"
)

// ParseVariant defaults to VariantTables.
func ParseVariant(s string) Variant {
	if strings.EqualFold(strings.TrimSpace(s), string(VariantView)) {
		return VariantView
	}
	return VariantTables
}

// Config holds the connection parameters for the parking database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URI builds a connection string for the given scheme.
func (c Config) URI(scheme string) string {
	host := c.Host
	if c.Port != 0 {
		host = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}

	u := &url.URL{
		Scheme: scheme,
		User:   user,
		Host:   host,
		Path:   c.DBName,
	}

	q := u.Query()
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Conn is the subset of *pgx.Conn the client uses.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// ConnectFunc opens a new connection.
type ConnectFunc func(ctx context.Context, dsn string) (Conn, error)

func pgxConnect(ctx context.Context, dsn string) (Conn, error) {
	return pgx.Connect(ctx, dsn)
}

// Client reads the parking relations. It owns no long-lived connection:
// every Load dials, queries and closes.
type Client struct {
	cfg     Config
	variant Variant
	connect ConnectFunc
}

type options struct {
	connect ConnectFunc
}

// Option overrides a Client default.
type Option func(*options)

// WithConnect replaces the function used to open connections.
func WithConnect(fn ConnectFunc) Option {
	return func(o *options) {
		o.connect = fn
	}
}

// New returns a client for cfg.
func New(cfg Config, variant Variant, args ...Option) *Client {
	opts := options{connect: pgxConnect}
	for _, opt := range args {
		opt(&opts)
	}
	return &Client{cfg: cfg, variant: variant, connect: opts.connect}
}

// Variant returns the configured variant.
func (c *Client) Variant() Variant {
	return c.variant
}

// Snapshot is the raw content of the parking relations. With VariantView the
// same rows serve as both bays and sensors.
type Snapshot struct {
	Bays    []map[string]any
	Sensors []map[string]any
}

const (
	selectBaysSQL    = `SELECT * FROM parking_bays`
	selectSensorsSQL = `SELECT * FROM parking_sensors`
	selectStatusSQL  = `SELECT * FROM parking_status`
)

// Load opens a connection, reads every relation of the configured variant and
// closes the connection whether or not the queries succeed.
func (c *Client) Load(ctx context.Context) (snap Snapshot, err error) {
	if c.cfg.Host == "" {
		return Snapshot{}, ErrMissingHost
	}

	conn, err := c.connect(ctx, c.cfg.URI("postgres"))
	if err != nil {
		return Snapshot{}, fmt.Errorf("connect to %s: %w", c.cfg.Host, err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("close connection: %w", cerr)
		}
	}()

	if c.variant == VariantView {
		rows, err := queryRows(ctx, conn, selectStatusSQL)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Bays: rows, Sensors: rows}, nil
	}

	bays, err := queryRows(ctx, conn, selectBaysSQL)
	if err != nil {
		return Snapshot{}, err
	}
	sensors, err := queryRows(ctx, conn, selectSensorsSQL)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Bays: bays, Sensors: sensors}, nil
}

func queryRows(ctx context.Context, conn Conn, sql string) ([]map[string]any, error) {
	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", sql, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", sql, err)
	}
	return out, nil
}
