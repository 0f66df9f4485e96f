package config

import (
	"fmt"
	"path/filepath"

	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

// DefaultBaseline is the platform default set merged under the operator's arguments.
// Empty or missing arguments take these values; explicit values are never replaced.
func DefaultBaseline() options.Arguments {
	return options.Arguments{
		options.KeyDBModel:        options.DBModelMySQL,
		options.KeyDBType:         options.DBTypeMySQL,
		options.KeySessionSave:    "files",
		options.KeyAdminFrontname: "admin",
		options.KeyUseSecure:      "no",
		options.KeyUseSecureAdmin: "no",
	}
}

const (
	defaultInitStatements = "SET NAMES utf8"
	connectionActive      = 1
)

// Build merges args over the default baseline and lays the result out in the
// fixed runtime layout, with sentinels for the install date and encryption key.
// Build is pure: identical arguments always yield identical configurations.
func Build(args options.Arguments) *RuntimeConfig {
	data := args.Clone()
	for key, value := range DefaultBaseline() {
		if data.Get(key) == "" {
			data.Set(key, value)
		}
	}
	if data.Get(options.KeyUnsecureBaseURL) == "" && data.Get(options.KeyURL) != "" {
		data.Set(options.KeyUnsecureBaseURL, data.Get(options.KeyURL))
	}

	cfg := &RuntimeConfig{
		Global: Global{
			Install:             Install{Date: InstallDatePlaceholder},
			Crypt:               Crypt{Key: EncryptionKeyPlaceholder},
			DisableLocalModules: false,
			Resources: Resources{
				DB: DBResource{TablePrefix: data.Get(options.KeyDBPrefix)},
				DefaultSetup: DefaultSetup{Connection: Connection{
					Host:           data.Get(options.KeyDBHost),
					Username:       data.Get(options.KeyDBUser),
					Password:       data.Get(options.KeyDBPass),
					DBName:         data.Get(options.KeyDBName),
					InitStatements: defaultInitStatements,
					Model:          data.Get(options.KeyDBModel),
					Type:           data.Get(options.KeyDBType),
					PDOType:        "",
					Active:         connectionActive,
				}},
			},
			SessionSave: data.Get(options.KeySessionSave),
		},
		Admin: Admin{Routers: Routers{Adminhtml: AdminhtmlRouter{Args: RouterArgs{
			FrontName: data.Get(options.KeyAdminFrontname),
		}}}},
	}

	unsecure := options.NormalizeBaseURL(data.Get(options.KeyUnsecureBaseURL), false)
	secure := options.NormalizeBaseURL(data.Get(options.KeySecureBaseURL), true)
	if unsecure == "" && secure == "" {
		return cfg
	}
	cfg.Web = &Web{}
	if unsecure != "" {
		cfg.Web.Unsecure = &UnsecureWeb{BaseURL: unsecure}
	}
	if secure != "" {
		// Already validated during data preparation; bad spellings read as false here.
		useFrontend, _ := data.Bool(options.KeyUseSecure)
		useAdmin, _ := data.Bool(options.KeyUseSecureAdmin)
		cfg.Web.Secure = &SecureWeb{BaseURL: secure, UseInFrontend: useFrontend, UseInAdminhtml: useAdmin}
	}
	return cfg
}

// configFileMode is the permission of the emitted runtime config file.
const configFileMode = 0o644

// Emitter writes the runtime config file for one path and format.
type Emitter struct {
	sys    System
	path   string
	format Format
}

// NewEmitter returns an Emitter that writes to path in format.
func NewEmitter(sys System, path string, format Format) *Emitter {
	return &Emitter{sys: sys, path: path, format: format}
}

// Render builds the configuration for args and serializes it without writing.
func (e *Emitter) Render(args options.Arguments) ([]byte, error) {
	return Encode(Build(args), e.format)
}

// Emit builds the configuration for args and writes it atomically with mode 0644.
// An existing file is replaced.
func (e *Emitter) Emit(args options.Arguments) (*RuntimeConfig, error) {
	cfg := Build(args)
	data, err := Encode(cfg, e.format)
	if err != nil {
		return nil, err
	}
	if err := e.sys.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.ConfigCreateDirFmt, filepath.Dir(e.path), err)
	}
	if err := e.sys.WriteFileAtomic(e.path, data, configFileMode); err != nil {
		return nil, fmt.Errorf(messages.ConfigWriteFileFmt, e.path, err)
	}
	return cfg, nil
}
