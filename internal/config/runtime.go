// Package config builds, writes, patches and reads the storefront runtime
// configuration file (app/etc/env.php by default).
package config

// Sentinel tokens written in place of values that are unknown when the file is
// first emitted. Both are replaced by literal text substitution later on.
const (
	InstallDatePlaceholder   = "d-d-d-d-d"
	EncryptionKeyPlaceholder = "k-k-k-k-k"
)

// RuntimeConfig is the nested configuration every storefront process reads at start.
// Field names and nesting are part of the on-disk contract.
type RuntimeConfig struct {
	Global Global `json:"global" yaml:"global" toml:"global"`
	Admin  Admin  `json:"admin" yaml:"admin" toml:"admin"`
	Web    *Web   `json:"web,omitempty" yaml:"web,omitempty" toml:"web,omitempty"`
}

// Global holds the global namespace.
type Global struct {
	Install             Install   `json:"install" yaml:"install" toml:"install"`
	Crypt               Crypt     `json:"crypt" yaml:"crypt" toml:"crypt"`
	DisableLocalModules bool      `json:"disable_local_modules" yaml:"disable_local_modules" toml:"disable_local_modules"`
	Resources           Resources `json:"resources" yaml:"resources" toml:"resources"`
	SessionSave         string    `json:"session_save" yaml:"session_save" toml:"session_save"`
}

// Install holds global.install.
type Install struct {
	Date string `json:"date" yaml:"date" toml:"date"`
}

// Crypt holds global.crypt.
type Crypt struct {
	Key string `json:"key" yaml:"key" toml:"key"`
}

// Resources holds global.resources.
type Resources struct {
	DB           DBResource   `json:"db" yaml:"db" toml:"db"`
	DefaultSetup DefaultSetup `json:"default_setup" yaml:"default_setup" toml:"default_setup"`
}

// DBResource holds global.resources.db.
type DBResource struct {
	TablePrefix string `json:"table_prefix" yaml:"table_prefix" toml:"table_prefix"`
}

// DefaultSetup holds the single connection block.
type DefaultSetup struct {
	Connection Connection `json:"connection" yaml:"connection" toml:"connection"`
}

// Connection describes how the storefront reaches its database.
type Connection struct {
	Host           string `json:"host" yaml:"host" toml:"host"`
	Username       string `json:"username" yaml:"username" toml:"username"`
	Password       string `json:"password" yaml:"password" toml:"password"`
	DBName         string `json:"dbname" yaml:"dbname" toml:"dbname"`
	InitStatements string `json:"initStatements" yaml:"initStatements" toml:"initStatements"`
	Model          string `json:"model" yaml:"model" toml:"model"`
	Type           string `json:"type" yaml:"type" toml:"type"`
	PDOType        string `json:"pdoType" yaml:"pdoType" toml:"pdoType"`
	Active         int    `json:"active" yaml:"active" toml:"active"`
}

// Admin holds the admin namespace.
type Admin struct {
	Routers Routers `json:"routers" yaml:"routers" toml:"routers"`
}

// Routers holds admin.routers.
type Routers struct {
	Adminhtml AdminhtmlRouter `json:"adminhtml" yaml:"adminhtml" toml:"adminhtml"`
}

// AdminhtmlRouter holds admin.routers.adminhtml.
type AdminhtmlRouter struct {
	Args RouterArgs `json:"args" yaml:"args" toml:"args"`
}

// RouterArgs holds admin.routers.adminhtml.args.
type RouterArgs struct {
	FrontName string `json:"frontName" yaml:"frontName" toml:"frontName"`
}

// Web holds the optional base URL settings.
type Web struct {
	Unsecure *UnsecureWeb `json:"unsecure,omitempty" yaml:"unsecure,omitempty" toml:"unsecure,omitempty"`
	Secure   *SecureWeb   `json:"secure,omitempty" yaml:"secure,omitempty" toml:"secure,omitempty"`
}

// UnsecureWeb holds web.unsecure.
type UnsecureWeb struct {
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`
}

// SecureWeb holds web.secure.
type SecureWeb struct {
	BaseURL        string `json:"base_url" yaml:"base_url" toml:"base_url"`
	UseInFrontend  bool   `json:"use_in_frontend" yaml:"use_in_frontend" toml:"use_in_frontend"`
	UseInAdminhtml bool   `json:"use_in_adminhtml" yaml:"use_in_adminhtml" toml:"use_in_adminhtml"`
}

// Installed reports whether the install date has been stamped.
func (c *RuntimeConfig) Installed() bool {
	return c != nil && installDateValid(c.Global.Install.Date)
}
