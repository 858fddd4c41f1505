package sqlite

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type gormLoggerWriter struct {
	log logger.ZapLogger
}

func (w gormLoggerWriter) Printf(format string, args ...interface{}) {
	w.log.Debug(fmt.Sprintf(format, args...), zap.String("component", "gorm"))
}

func NewGormLogger(log logger.ZapLogger) gormlogger.Interface {
	return gormlogger.New(
		gormLoggerWriter{log: log},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// NewSQLite opens a pure-Go SQLite database. An in-memory database lives in a
// single connection, so the pool is pinned to one.
func NewSQLite(path string, log logger.ZapLogger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: NewGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
