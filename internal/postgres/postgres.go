package postgres

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Config describes the connection used by the postgres storage driver.
// Values come from POSTGRES_* environment variables; POSTGRES_DSN wins over
// the individual fields when set.
type Config struct {
	DSN      string
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string

	ConnectTimeout time.Duration
}

func NewConfigFromEnv() *Config {
	return &Config{
		DSN:      os.Getenv("POSTGRES_DSN"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		Username: os.Getenv("POSTGRES_USERNAME"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB_NAME"),
		SSLMode:  os.Getenv("POSTGRES_SSL_MODE"),
	}
}

func (c *Config) Setup() *Config {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultUsername       = "postgres"
		defaultPassword       = "postgres"
		defaultDBName         = "t212_monitor"
		defaultSSLMode        = "disable"
		defaultConnectTimeout = 10 * time.Second
	)

	c.Host = cmp.Or(c.Host, defaultHost)
	c.Port = cmp.Or(c.Port, defaultPort)
	if _, err := strconv.Atoi(c.Port); err != nil {
		c.Port = defaultPort
	}
	c.Username = cmp.Or(c.Username, defaultUsername)
	c.Password = cmp.Or(c.Password, defaultPassword)
	c.DBName = cmp.Or(c.DBName, defaultDBName)
	c.SSLMode = cmp.Or(c.SSLMode, defaultSSLMode)
	c.ConnectTimeout = cmp.Or(c.ConnectTimeout, defaultConnectTimeout)

	return c
}

func (c *Config) String() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.Username, c.DBName, c.Password, c.SSLMode, int(c.ConnectTimeout.Seconds()),
	)
}

// Redacted is String without the password, for logging.
func (c *Config) Redacted() string {
	if c.DSN != "" {
		return "dsn from POSTGRES_DSN"
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s", c.Host, c.Port, c.Username, c.DBName, c.SSLMode)
}

func NewDB(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.String())
	if err != nil {
		return nil, fmt.Errorf("%w: can't connect to postgres", err)
	}
	// one process, one writer
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	return db, nil
}
