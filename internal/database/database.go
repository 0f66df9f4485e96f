// Package database opens the storefront database described by the runtime
// config and renders dialect-neutral DDL for it.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

// Dialect selects SQL spellings that differ between engines.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

const defaultMySQLPort = "3306"

// DB is an open storefront database plus the table prefix from the config.
type DB struct {
	*sql.DB
	Dialect Dialect
	Prefix  string
}

// Querier is satisfied by *sql.DB, *sql.Conn, and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Opener opens the database for a loaded runtime config. root resolves
// relative SQLite paths.
type Opener func(ctx context.Context, cfg *config.RuntimeConfig, root string) (*DB, error)

// Open connects using the connection block of cfg and verifies the connection.
func Open(ctx context.Context, cfg *config.RuntimeConfig, root string) (*DB, error) {
	conn := cfg.Global.Resources.DefaultSetup.Connection
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch conn.Type {
	case options.DBTypeMySQL, "":
		dialect = DialectMySQL
		db, err = openMySQL(conn)
	case options.DBTypeSQLite:
		dialect = DialectSQLite
		db, err = openSQLite(conn, root)
	default:
		return nil, fmt.Errorf(messages.DatabaseUnsupportedTypeFmt, conn.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(messages.DatabaseConnectFmt, describe(conn), err)
	}
	if dialect == DialectMySQL {
		if err := runInitStatements(ctx, db, conn.InitStatements); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &DB{DB: db, Dialect: dialect, Prefix: cfg.Global.Resources.DB.TablePrefix}, nil
}

// MySQLConfig translates a connection block into a driver config.
func MySQLConfig(conn config.Connection) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = conn.Username
	cfg.Passwd = conn.Password
	cfg.DBName = conn.DBName
	cfg.ParseTime = true
	switch {
	case strings.HasPrefix(conn.Host, "/"):
		cfg.Net = "unix"
		cfg.Addr = conn.Host
	case hasPort(conn.Host):
		cfg.Net = "tcp"
		cfg.Addr = conn.Host
	default:
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(conn.Host, defaultMySQLPort)
	}
	if charset, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(conn.InitStatements)), "SET NAMES "); ok {
		cfg.Params = map[string]string{"charset": strings.ToLower(strings.TrimSpace(charset))}
	}
	return cfg
}

func hasPort(host string) bool {
	_, port, err := net.SplitHostPort(host)
	return err == nil && port != ""
}

func openMySQL(conn config.Connection) (*sql.DB, error) {
	connector, err := mysql.NewConnector(MySQLConfig(conn))
	if err != nil {
		return nil, fmt.Errorf(messages.DatabaseConnectFmt, describe(conn), err)
	}
	return sql.OpenDB(connector), nil
}

// SQLitePath resolves the database file for a pdo_sqlite connection.
func SQLitePath(conn config.Connection, root string) string {
	if conn.DBName == ":memory:" || filepath.IsAbs(conn.DBName) {
		return conn.DBName
	}
	return filepath.Join(root, filepath.FromSlash(conn.DBName))
}

func openSQLite(conn config.Connection, root string) (*sql.DB, error) {
	if conn.DBName == "" {
		return nil, errors.New(messages.DatabaseSQLitePathRequired)
	}
	path := SQLitePath(conn, root)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf(messages.DatabaseConnectFmt, describe(conn), err)
		}
	}
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf(messages.DatabaseConnectFmt, describe(conn), err)
	}
	// One writer at a time; also keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)
	return db, nil
}

// runInitStatements executes statements that are not expressible as driver
// parameters. SET NAMES is handled by the charset parameter instead.
func runInitStatements(ctx context.Context, db *sql.DB, statements string) error {
	for _, stmt := range strings.Split(statements, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(strings.ToUpper(stmt), "SET NAMES ") {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf(messages.DatabaseInitStatementFmt, stmt, err)
		}
	}
	return nil
}

func describe(conn config.Connection) string {
	return fmt.Sprintf("%s %s@%s/%s", conn.Type, conn.Username, conn.Host, conn.DBName)
}

// Table returns the prefixed table name.
func (d *DB) Table(name string) string {
	return d.Prefix + name
}

// Expand fills the dialect placeholders in a statement:
// {prefix}, {pk}, {engine}, and {insert_ignore}.
func (d *DB) Expand(stmt string) string {
	return d.replacer().Replace(stmt)
}

func (d *DB) replacer() *strings.Replacer {
	if d.Dialect == DialectSQLite {
		return strings.NewReplacer(
			"{prefix}", d.Prefix,
			"{pk}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{engine}", "",
			"{insert_ignore}", "INSERT OR IGNORE",
		)
	}
	return strings.NewReplacer(
		"{prefix}", d.Prefix,
		"{pk}", "INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
		"{engine}", " ENGINE=InnoDB DEFAULT CHARSET=utf8",
		"{insert_ignore}", "INSERT IGNORE",
	)
}

// InTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (d *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf(messages.DatabaseBeginFmt, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf(messages.DatabaseRollbackFmt, rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf(messages.DatabaseCommitFmt, err)
	}
	return nil
}
