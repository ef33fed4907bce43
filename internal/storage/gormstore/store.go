package gormstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/juju/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

// Store реализует интерфейс Storage поверх gorm (PostgreSQL или SQLite).
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// Open connects to the database described by cfg. SQL statements are logged
// through log at debug level, slow queries and errors at their own levels.
func Open(cfg config.Database, log *slog.Logger) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(cfg, log),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Annotate(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite допускает одного писателя; одно соединение сериализует транзакции.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &Store{db: db}, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		connCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, errors.Annotate(err, "parsing postgres dsn")
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, errors.NotValidf("database driver %q", cfg.Driver)
	}
}

func newLogger(cfg config.Database, log *slog.Logger) logger.Interface {
	level := logger.Warn
	switch strings.ToLower(cfg.LogLevel) {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info":
		level = logger.Info
	}
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelDebug), logger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate выполняет миграцию схемы.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return errors.Annotate(err, "failed to migrate database")
	}
	return nil
}

// DB exposes the underlying handle, e.g. for Unscoped inspection in tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return sqlDB.Close()
}

func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Storage) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// updateLive writes cols to the live row with the given id. A soft-deleted or
// missing row is NotFound; nothing is ever inserted.
func (s *Store) updateLive(ctx context.Context, model any, id string, cols map[string]any, what string, args ...any) error {
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error, what, args...)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf(what, args...)
	}
	return nil
}

// translate maps gorm sentinel errors onto the juju/errors taxonomy.
func translate(err error, what string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFoundf(what, args...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.AlreadyExistsf(what, args...)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.NewNotValid(err, fmt.Sprintf(what, args...)+" references a missing row")
	default:
		return errors.Trace(err)
	}
}

// OpenInMemory opens a fresh, migrated SQLite database that lives as long as the
// returned store. Every call gets its own database.
func OpenInMemory(ctx context.Context, log *slog.Logger) (*Store, error) {
	cfg := config.Default().Database
	cfg.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	cfg.LogLevel = "silent"
	st, err := Open(cfg, log)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, errors.Trace(err)
	}
	return st, nil
}
