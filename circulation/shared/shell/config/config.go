package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// ErrInvalidConfig is returned by Load when the configuration is incomplete or inconsistent.
var ErrInvalidConfig = errors.New("invalid configuration")

// Database drivers.
const (
	DriverPGX    = "pgx"
	DriverSQL    = "sql"
	DriverSQLX   = "sqlx"
	DriverMemory = "memory"
)

// Config is the complete process configuration.
type Config struct {
	HTTP    HTTP    `envconfig:"HTTP"`
	DB      DB      `envconfig:"DB"`
	Policy  Policy  `envconfig:"POLICY"`
	Library Library `envconfig:"LIBRARY"`
	JWT     JWT     `envconfig:"JWT"`
	AMQP    AMQP    `envconfig:"AMQP"`
	Sweeps  Sweeps  `envconfig:"SWEEPS"`
	OTel    OTel    `envconfig:"OTEL"`
	Log     Log     `envconfig:"LOG"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	RateLimit       float64       `envconfig:"RATE_LIMIT" default:"20"`
	RateBurst       int           `envconfig:"RATE_BURST" default:"40"`
}

// DB configures the event store.
type DB struct {
	Driver          string        `envconfig:"DRIVER" default:"memory"`
	DSN             string        `envconfig:"DSN"`
	ReplicaDSN      string        `envconfig:"REPLICA_DSN"`
	Table           string        `envconfig:"TABLE" default:"events"`
	EnsureSchema    bool          `envconfig:"ENSURE_SCHEMA" default:"true"`
	MaxConns        int32         `envconfig:"MAX_CONNS" default:"8"`
	MinConns        int32         `envconfig:"MIN_CONNS" default:"2"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
	ConnectTimeout  time.Duration `envconfig:"CONNECT_TIMEOUT" default:"5s"`
}

// Policy configures the circulation rules.
type Policy struct {
	LoanPeriod             time.Duration   `envconfig:"LOAN_PERIOD" default:"336h"`
	MaxOpenLoans           int             `envconfig:"MAX_OPEN_LOANS" default:"5"`
	PickupWindow           time.Duration   `envconfig:"PICKUP_WINDOW" default:"72h"`
	DailyFineRate          decimal.Decimal `envconfig:"DAILY_FINE_RATE" default:"0.25"`
	LostThresholdDays      int             `envconfig:"LOST_THRESHOLD_DAYS" default:"28"`
	LostWarningLeadDays    int             `envconfig:"LOST_WARNING_LEAD_DAYS" default:"7"`
	LostItemFee            decimal.Decimal `envconfig:"LOST_ITEM_FEE" default:"20.00"`
	MaxReservationDuration time.Duration   `envconfig:"MAX_RESERVATION_DURATION" default:"2h"`
	DueSoonLead            time.Duration   `envconfig:"DUE_SOON_LEAD" default:"48h"`
	RoomExpiringLead       time.Duration   `envconfig:"ROOM_EXPIRING_LEAD" default:"15m"`
}

// Library configures the calendar the engine counts days in.
type Library struct {
	Timezone string `envconfig:"TIMEZONE" default:"America/Chicago"`
}

// JWT configures bearer token verification.
type JWT struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	TTL    time.Duration `envconfig:"TTL" default:"1h"`
}

// AMQP configures the notification fan-out. An empty URL disables it.
type AMQP struct {
	URL      string `envconfig:"URL"`
	Exchange string `envconfig:"EXCHANGE" default:"circulation.notifications"`
}

// Sweeps configures the cron schedules. An empty spec disables a sweep.
type Sweeps struct {
	Enabled      bool          `envconfig:"ENABLED" default:"true"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"4m"`
	ExpiredHolds string        `envconfig:"EXPIRED_HOLDS" default:"*/15 * * * *"`
	Promotions   string        `envconfig:"PROMOTIONS" default:"0 * * * *"`
	Overdue      string        `envconfig:"OVERDUE" default:"30 2 * * *"`
	Reminders    string        `envconfig:"REMINDERS" default:"*/5 * * * *"`
}

// OTel configures tracing. An empty endpoint disables it.
type OTel struct {
	Endpoint    string `envconfig:"ENDPOINT"`
	Insecure    bool   `envconfig:"INSECURE" default:"true"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"library-circulation-engine"`
}

// Log configures the process logger.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Bridge bool   `envconfig:"OTEL_BRIDGE" default:"false"`
}

// Load reads the .env files that exist, then the environment, and validates the result.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrInvalidConfig, fmt.Errorf("loading %s: %w", file, err))
		}
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the values envconfig cannot check on its own.
func (c Config) Validate() error {
	if !slices.Contains([]string{DriverPGX, DriverSQL, DriverSQLX, DriverMemory}, c.DB.Driver) {
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, c.DB.Driver)
	}

	if c.DB.Driver != DriverMemory && c.DB.DSN == "" {
		return fmt.Errorf("%w: DB_DSN is required for driver %q", ErrInvalidConfig, c.DB.Driver)
	}

	if c.DB.ReplicaDSN != "" && c.DB.Driver != DriverPGX {
		return fmt.Errorf("%w: DB_REPLICA_DSN requires driver %q", ErrInvalidConfig, DriverPGX)
	}

	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("%w: JWT_SECRET must have at least 16 characters", ErrInvalidConfig)
	}

	if c.Policy.LostWarningLeadDays > c.Policy.LostThresholdDays {
		return fmt.Errorf("%w: POLICY_LOST_WARNING_LEAD_DAYS exceeds POLICY_LOST_THRESHOLD_DAYS", ErrInvalidConfig)
	}

	if c.Policy.MaxOpenLoans < 1 || c.Policy.DailyFineRate.IsNegative() || c.Policy.LostItemFee.IsNegative() {
		return fmt.Errorf("%w: policy values out of range", ErrInvalidConfig)
	}

	return nil
}

// CorePolicy converts the policy section into core.Policy.
func (p Policy) CorePolicy() core.Policy {
	return core.Policy{
		LoanPeriod:             p.LoanPeriod,
		MaxOpenLoans:           p.MaxOpenLoans,
		PickupWindow:           p.PickupWindow,
		DailyFineRate:          p.DailyFineRate,
		LostThresholdDays:      p.LostThresholdDays,
		LostWarningLeadDays:    p.LostWarningLeadDays,
		LostItemFee:            p.LostItemFee,
		MaxReservationDuration: p.MaxReservationDuration,
		DueSoonLead:            p.DueSoonLead,
		RoomExpiringLead:       p.RoomExpiringLead,
	}
}

// Schedule returns the sweep name to cron spec mapping.
func (s Sweeps) Schedule() map[string]string {
	return map[string]string{
		"expired-holds": s.ExpiredHolds,
		"promotions":    s.Promotions,
		"overdue":       s.Overdue,
		"reminders":     s.Reminders,
	}
}
