package conf

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Bootstrap is the root configuration.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Ingest *Ingest `json:"ingest"`
	Notify *Notify `json:"notify"`
	Log    *Log    `json:"log"`
}

// Server configures the HTTP transport used by `serve`.
type Server struct {
	Http      *Server_HTTP `json:"http"`
	AuthToken string       `json:"auth_token"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

// Data configures the relational store and the shared cache.
type Data struct {
	Database *Data_Database `json:"database" validate:"required"`
	Redis    *Data_Redis    `json:"redis"`
	Cache    *Data_Cache    `json:"cache" validate:"required"`
}

type Data_Database struct {
	Driver          string    `json:"driver" validate:"oneof=sqlite postgres"`
	Source          string    `json:"source" validate:"required"`
	MaxIdleConns    int       `json:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns    int       `json:"max_open_conns" validate:"gte=0"`
	ConnMaxLifetime *Duration `json:"conn_max_lifetime"`
}

// Data_Redis is optional; an empty Addr selects the in-process cache.
type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	Db           int       `json:"db" validate:"gte=0"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
}

type Data_Cache struct {
	ReviewsTtl *Duration `json:"reviews_ttl" validate:"required"`
}

// Ingest configures review submission.
type Ingest struct {
	BulkWorkers      int       `json:"bulk_workers" validate:"gte=1"`
	WriteLockTimeout *Duration `json:"write_lock_timeout"`
}

// Notify configures the subscriber notification dispatcher.
type Notify struct {
	Workers   int             `json:"workers" validate:"gte=1"`
	QueueSize int             `json:"queue_size" validate:"gte=1"`
	Timeout   *Duration       `json:"timeout"`
	LogFile   string          `json:"log_file" validate:"required"`
	Webhook   *Notify_Webhook `json:"webhook"`
}

// Notify_Webhook optionally forwards notifications to an HTTP endpoint.
type Notify_Webhook struct {
	Url        string    `json:"url" validate:"omitempty,url"`
	ApiKey     string    `json:"api_key"`
	MaxRetries int       `json:"max_retries" validate:"gte=0"`
	Timeout    *Duration `json:"timeout"`
}

type Log struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
}

// Duration decodes from either a Go duration string ("5s") or integer nanoseconds.
type Duration struct {
	time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

// AsDuration returns the wrapped value; nil yields zero.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}
