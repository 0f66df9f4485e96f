package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/options"
	"github.com/conn-castle/mage-console/internal/testutil"
)

func sqliteConfig(prefix string) *config.RuntimeConfig {
	args := options.New(testutil.ScenarioArgs())
	args.Set(options.KeyDBPrefix, prefix)
	return config.Build(args)
}

func TestOpenSQLiteCreatesRelativeFile(t *testing.T) {
	root := t.TempDir()
	db, err := Open(context.Background(), sqliteConfig("mage_"), root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, DialectSQLite, db.Dialect)
	assert.Equal(t, "mage_admin_role", db.Table("admin_role"))
	assert.FileExists(t, filepath.Join(root, "var", "store.db"))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := sqliteConfig("")
	cfg.Global.Resources.DefaultSetup.Connection.Type = "pdo_pgsql"
	_, err := Open(context.Background(), cfg, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdo_pgsql")
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	cfg := sqliteConfig("")
	cfg.Global.Resources.DefaultSetup.Connection.DBName = ""
	_, err := Open(context.Background(), cfg, t.TempDir())
	require.Error(t, err)
}

func TestMySQLConfig(t *testing.T) {
	conn := config.Connection{
		Host:           "db.internal",
		Username:       "shop",
		Password:       "pw",
		DBName:         "store",
		InitStatements: "SET NAMES utf8",
	}
	cfg := MySQLConfig(conn)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "utf8", cfg.Params["charset"])
	assert.Contains(t, cfg.FormatDSN(), "shop:pw@tcp(db.internal:3306)/store")

	conn.Host = "db.internal:3307"
	assert.Equal(t, "db.internal:3307", MySQLConfig(conn).Addr)

	conn.Host = "/run/mysqld/mysqld.sock"
	cfg = MySQLConfig(conn)
	assert.Equal(t, "unix", cfg.Net)
	assert.Equal(t, "/run/mysqld/mysqld.sock", cfg.Addr)
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv", "var", "a.db"), SQLitePath(config.Connection{DBName: "var/a.db"}, "/srv"))
	assert.Equal(t, "/data/a.db", SQLitePath(config.Connection{DBName: "/data/a.db"}, "/srv"))
	assert.Equal(t, ":memory:", SQLitePath(config.Connection{DBName: ":memory:"}, "/srv"))
}

func TestExpand(t *testing.T) {
	stmt := "CREATE TABLE IF NOT EXISTS {prefix}core_resource (id {pk}){engine}"
	sqlite := &DB{Dialect: DialectSQLite, Prefix: "p_"}
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS p_core_resource (id INTEGER PRIMARY KEY AUTOINCREMENT)", sqlite.Expand(stmt))

	mysqlDB := &DB{Dialect: DialectMySQL}
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS core_resource (id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY) ENGINE=InnoDB DEFAULT CHARSET=utf8",
		mysqlDB.Expand(stmt))
	assert.Equal(t, "INSERT OR IGNORE INTO x", sqlite.Expand("{insert_ignore} INTO x"))
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, sqliteConfig(""), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, "CREATE TABLE t (v TEXT)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES (?)", "x"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 0, count)

	require.NoError(t, db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO t (v) VALUES (?)", "y")
		return err
	}))
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 1, count)
}
