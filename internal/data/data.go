package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mediareview/internal/biz"
	"mediareview/internal/conf"
	"mediareview/internal/metrics"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewUserRepo,
	NewMediaRepo,
	NewReviewRepo,
	NewSubscriptionRepo,
	NewCache,
	NewNotificationSink,
)

const refCacheSize = 4096

// Data encapsulates database and cache connections
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
	log *log.Helper

	// writer admits one write transaction at a time.
	writer      *semaphore.Weighted
	lockTimeout time.Duration

	// users and media never change once created, so resolved refs are memoized.
	users *lru.Cache[string, biz.User]
	media *lru.Cache[string, biz.Media]
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, ingest *conf.Ingest, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(log.With(logger, "module", "data"))

	dialector, err := openDialector(c.Database)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(c.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.Database.ConnMaxLifetime.AsDuration())

	if err := db.AutoMigrate(&User{}, &Media{}, &Review{}, &Subscription{}); err != nil {
		l.Errorf("failed to migrate database: %v", err)
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	l.Infof("database connected successfully (%s)", c.Database.Driver)

	var rdb *redis.Client
	if c.Redis != nil && c.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			Password:     c.Redis.Password,
			DB:           c.Redis.Db,
			ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
			WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis is optional, fall back to the in-process cache
			l.Warnf("failed to connect to redis: %v", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			l.Info("redis connected successfully")
		}
	}

	users, _ := lru.New[string, biz.User](refCacheSize)
	media, _ := lru.New[string, biz.Media](refCacheSize)

	data := &Data{
		db:          db,
		rdb:         rdb,
		log:         l,
		writer:      semaphore.NewWeighted(1),
		lockTimeout: ingest.WriteLockTimeout.AsDuration(),
		users:       users,
		media:       media,
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

func openDialector(c *conf.Data_Database) (gorm.Dialector, error) {
	switch c.Driver {
	case "postgres":
		return postgres.Open(c.Source), nil
	case "sqlite", "":
		return sqlite.Open(c.Source), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// write runs fn in a transaction while holding the write gate. Waiting for the
// gate is bounded by the configured lock timeout; a timeout is a storage failure.
func (d *Data) write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	lockCtx := ctx
	if d.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, d.lockTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := d.writer.Acquire(lockCtx, 1); err != nil {
		return fmt.Errorf("%w: acquire write lock: %v", biz.ErrStorage, err)
	}
	defer d.writer.Release(1)
	metrics.ObserveWriteLockWait(time.Since(start))

	return d.db.WithContext(ctx).Transaction(fn)
}

// refKey is the memo key of a user or media reference.
func refKey(ref biz.Ref) string {
	if id, ok := ref.ID(); ok {
		return "id:" + strconv.FormatInt(id, 10)
	}
	return "name:" + strings.ToLower(ref.Name())
}
