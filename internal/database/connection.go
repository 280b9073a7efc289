package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thereayou/matcha-tracker/internal/config"
	"github.com/thereayou/matcha-tracker/internal/models"
)

// Now is the clock for created_at and updated_at. It is truncated to the
// microsecond precision both databases store, so a returned record compares
// equal to the same record read back.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Connect opens the connection pool described by cfg. The store is not
// contacted here: an unreachable database only surfaces on the first query,
// so the service can start and report storage failures per request.
func (d *Database) Connect(cfg config.DBConfig, log *logrus.Logger) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc:              Now,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	d.db = db
	return nil
}

// Init pings the store and creates the tables that do not exist yet.
// Failures are logged and swallowed.
func (d *Database) Init(ctx context.Context, log *logrus.Logger) {
	if err := d.Ping(ctx); err != nil {
		log.WithError(err).Warn("Database is not reachable yet")
	}
	if err := d.CreateTables(); err != nil {
		log.WithError(err).Warn("Schema initialization failed")
		return
	}
	log.Info("Database schema ready")
}

func (d *Database) CreateTables() error {
	migrator := d.db.Migrator()
	for _, model := range []interface{}{&models.User{}, &models.MatchaSession{}} {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := cfg.URL
		if dsn == "" {
			dsn = PostgresDSN(cfg)
		}
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		dsn := cfg.URL
		if dsn == "" {
			dsn = MySQLDSN(cfg)
		}
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			SkipInitializeWithVersion: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// PostgresDSN builds a key/value DSN. In socket mode the socket directory is
// passed as host, which is how libpq-compatible drivers select unix sockets.
func PostgresDSN(cfg config.DBConfig) string {
	parts := []string{}
	if cfg.UsesSocket() {
		parts = append(parts, "host="+pgQuote(cfg.SocketPath()))
	} else {
		parts = append(parts, "host="+pgQuote(cfg.Host), "port="+pgQuote(cfg.Port), "sslmode=disable")
	}
	parts = append(parts,
		"user="+pgQuote(cfg.User),
		"password="+pgQuote(cfg.Password),
		"dbname="+pgQuote(cfg.Name),
	)
	return strings.Join(parts, " ")
}

func MySQLDSN(cfg config.DBConfig) string {
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	if cfg.UsesSocket() {
		c.Net = "unix"
		c.Addr = cfg.SocketPath()
	} else {
		c.Net = "tcp"
		c.Addr = cfg.Host + ":" + cfg.Port
	}
	return c.FormatDSN()
}

func pgQuote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
