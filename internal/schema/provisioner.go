package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

// Provisioner creates module tables and runs module data migrations.
type Provisioner struct {
	DB       *database.DB
	Registry Registry
	Order    []string
	Settings options.Arguments
	Logger   *slog.Logger
}

// NewProvisioner returns a Provisioner over the core modules.
func NewProvisioner(db *database.DB, settings options.Arguments, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provisioner{
		DB:       db,
		Registry: DefaultRegistry(),
		Order:    ModuleOrder,
		Settings: settings,
		Logger:   logger,
	}
}

// InstallSchema creates every module's tables, in module order, and records
// the module versions in core_resource. It stops at the first failure and
// leaves already created tables in place.
func (p *Provisioner) InstallSchema(ctx context.Context) error {
	for _, id := range p.Order {
		module, ok := p.Registry[id]
		if !ok {
			return fmt.Errorf(messages.SchemaUnknownModuleFmt, id)
		}
		for _, stmt := range module.Schema {
			if _, err := p.DB.ExecContext(ctx, p.DB.Expand(stmt)); err != nil {
				return fmt.Errorf(messages.SchemaModuleDDLFmt, id, err)
			}
		}
		p.Logger.Debug("module schema installed", "module", id, "statements", len(module.Schema))
	}
	return p.DB.InTx(ctx, func(tx *sql.Tx) error {
		for _, id := range p.Order {
			if err := p.recordVersion(ctx, tx, id, "version", p.Registry[id].Version); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyDataMigration runs the data migration of one module in a transaction
// and records its data version.
func (p *Provisioner) ApplyDataMigration(ctx context.Context, id string) error {
	module, ok := p.Registry[id]
	if !ok {
		return fmt.Errorf(messages.SchemaUnknownModuleFmt, id)
	}
	return p.DB.InTx(ctx, func(tx *sql.Tx) error {
		if module.Data != nil {
			if err := module.Data(ctx, DataEnv{DB: p.DB, Tx: tx, Settings: p.Settings}); err != nil {
				return fmt.Errorf(messages.SchemaModuleDataFmt, id, err)
			}
		}
		if err := p.recordVersion(ctx, tx, id, "data_version", module.Version); err != nil {
			return err
		}
		p.Logger.Debug("module data applied", "module", id)
		return nil
	})
}

func (p *Provisioner) recordVersion(ctx context.Context, tx *sql.Tx, id string, column string, version string) error {
	table := p.DB.Table("core_resource")
	update := fmt.Sprintf("UPDATE %s SET %s = ? WHERE code = ?", table, column)
	if _, err := tx.ExecContext(ctx, update, version, id); err != nil {
		return fmt.Errorf(messages.SchemaRecordVersionFmt, id, err)
	}
	insert := p.DB.Expand(fmt.Sprintf("{insert_ignore} INTO %s (code, %s) VALUES (?, ?)", table, column))
	if _, err := tx.ExecContext(ctx, insert, id, version); err != nil {
		return fmt.Errorf(messages.SchemaRecordVersionFmt, id, err)
	}
	return nil
}

// Versions returns the recorded schema and data versions per module.
func Versions(ctx context.Context, db *database.DB) (map[string][2]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT code, version, data_version FROM %s", db.Table("core_resource")))
	if err != nil {
		return nil, fmt.Errorf(messages.SchemaReadVersionsFmt, err)
	}
	defer func() { _ = rows.Close() }()

	out := map[string][2]string{}
	for rows.Next() {
		var (
			code          string
			version, data sql.NullString
		)
		if err := rows.Scan(&code, &version, &data); err != nil {
			return nil, fmt.Errorf(messages.SchemaReadVersionsFmt, err)
		}
		out[code] = [2]string{version.String, data.String}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.SchemaReadVersionsFmt, err)
	}
	return out, nil
}
