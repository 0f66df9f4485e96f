// Package schema provisions the storefront tables and applies the baseline
// data migrations of each core module.
package schema

import (
	"context"
	"database/sql"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/options"
)

// Core module ids, in dependency order.
const (
	ModuleCore     = "Mage_Core"
	ModuleInstall  = "Mage_Install"
	ModuleAdmin    = "Mage_Admin"
	ModuleCustomer = "Mage_Customer"
	ModuleCatalog  = "Mage_Catalog"
	ModuleSales    = "Mage_Sales"
)

// ModuleOrder is the order data migrations run in. Later modules may rely on
// rows written by earlier ones.
var ModuleOrder = []string{
	ModuleCore,
	ModuleInstall,
	ModuleAdmin,
	ModuleCustomer,
	ModuleCatalog,
	ModuleSales,
}

// DataEnv is what a data migration runs against.
type DataEnv struct {
	DB       *database.DB
	Tx       *sql.Tx
	Settings options.Arguments
}

// Module is one core module: its tables and its baseline data.
type Module struct {
	ID        string
	Version   string
	DependsOn []string
	// Schema statements use database.DB.Expand placeholders.
	Schema []string
	Data   func(ctx context.Context, env DataEnv) error
}

// Registry maps module ids to modules.
type Registry map[string]Module

// DefaultRegistry returns the core modules.
func DefaultRegistry() Registry {
	modules := []Module{
		{ID: ModuleCore, Version: "1.6.0.10", Schema: coreSchema, Data: coreData},
		{ID: ModuleInstall, Version: "1.6.0.0", DependsOn: []string{ModuleCore}, Data: installData},
		{ID: ModuleAdmin, Version: "1.6.1.3", DependsOn: []string{ModuleCore}, Schema: access.Schema, Data: adminData},
		{ID: ModuleCustomer, Version: "1.6.2.0.6", DependsOn: []string{ModuleCore}, Schema: customerSchema, Data: customerData},
		{ID: ModuleCatalog, Version: "1.6.0.0.19.1.10", DependsOn: []string{ModuleCore}, Schema: catalogSchema, Data: catalogData},
		{ID: ModuleSales, Version: "1.6.0.10", DependsOn: []string{ModuleCore, ModuleCustomer, ModuleCatalog}, Schema: salesSchema, Data: salesData},
	}
	registry := make(Registry, len(modules))
	for _, module := range modules {
		registry[module.ID] = module
	}
	return registry
}
