package conf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	_ "github.com/go-kratos/kratos/v2/encoding/yaml"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix selects the environment variables visible to ${VAR:default} placeholders.
const EnvPrefix = "MEDIAREVIEW_"

// Default returns the configuration used when no file overrides a value.
func Default() *Bootstrap {
	return &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: "tcp",
				Addr:    ":8000",
				Timeout: NewDuration(5 * time.Second),
			},
		},
		Data: &Data{
			Database: &Data_Database{
				Driver:          "sqlite",
				Source:          "media_reviews.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
				MaxIdleConns:    10,
				MaxOpenConns:    100,
				ConnMaxLifetime: NewDuration(time.Hour),
			},
			Redis: &Data_Redis{
				ReadTimeout:  NewDuration(200 * time.Millisecond),
				WriteTimeout: NewDuration(200 * time.Millisecond),
			},
			Cache: &Data_Cache{
				ReviewsTtl: NewDuration(time.Hour),
			},
		},
		Ingest: &Ingest{
			BulkWorkers:      8,
			WriteLockTimeout: NewDuration(5 * time.Second),
		},
		Notify: &Notify{
			Workers:   4,
			QueueSize: 1024,
			Timeout:   NewDuration(5 * time.Second),
			LogFile:   "notifications.log",
			Webhook: &Notify_Webhook{
				MaxRetries: 2,
				Timeout:    NewDuration(2 * time.Second),
			},
		},
		Log: &Log{
			Level: "warn",
		},
	}
}

// Load reads path (a file or a directory of YAML files) on top of Default.
// A missing path is not an error; values then come from defaults only.
// Environment variables prefixed with EnvPrefix resolve placeholders in the files.
func Load(path string) (*Bootstrap, error) {
	sources := []config.Source{env.NewSource(EnvPrefix)}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, file.NewSource(path))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	c := config.New(config.WithSource(sources...))
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}

	bc := Default()
	if err := c.Scan(bc); err != nil {
		return nil, fmt.Errorf("config: scan: %w", err)
	}

	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return bc, nil
}

// Validate checks struct constraints on every section.
func (bc *Bootstrap) Validate() error {
	if bc.Data == nil || bc.Ingest == nil || bc.Notify == nil || bc.Log == nil || bc.Server == nil {
		return fmt.Errorf("missing configuration section")
	}
	v := validator.New()
	for _, section := range []interface{}{bc.Data, bc.Data.Database, bc.Data.Cache, bc.Ingest, bc.Notify, bc.Log} {
		if err := v.Struct(section); err != nil {
			return err
		}
	}
	return nil
}
