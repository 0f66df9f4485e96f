package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/schema"
	"github.com/conn-castle/mage-console/internal/validate"
)

// Options selects what Run inspects.
type Options struct {
	Paths  config.Paths
	System config.System
	// OpenDatabase defaults to database.Open.
	OpenDatabase database.Opener
	// Modules defaults to schema.ModuleOrder.
	Modules []string
}

// Run executes every check. Database checks run only when the config loads.
func Run(ctx context.Context, opts Options) []Result {
	if opts.OpenDatabase == nil {
		opts.OpenDatabase = database.Open
	}
	if opts.Modules == nil {
		opts.Modules = schema.ModuleOrder
	}
	results, cfg := CheckConfig(opts.System, opts.Paths.ConfigPath)
	results = append(results, CheckVarDirs(opts.Paths)...)
	if cfg == nil {
		return results
	}
	dbResults, db := CheckDatabase(ctx, opts.OpenDatabase, cfg, opts.Paths.Root)
	results = append(results, dbResults...)
	if db == nil {
		return results
	}
	defer func() { _ = db.Close() }()
	results = append(results, CheckSchema(ctx, db, opts.Modules)...)
	results = append(results, CheckAccess(ctx, db)...)
	return results
}

// CheckConfig loads the runtime config and inspects both placeholders.
// The config is returned whenever it decodes.
func CheckConfig(sys config.System, path string) ([]Result, *config.RuntimeConfig) {
	cfg, err := config.Load(sys, path)
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			return []Result{{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameConfig,
				Message:        fmt.Sprintf(messages.DoctorConfigMissingFmt, path),
				Recommendation: messages.DoctorConfigMissingRecommend,
			}}, nil
		}
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}

	results := []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   fmt.Sprintf(messages.DoctorConfigLoadedFmt, path),
	}}
	if cfg.Installed() {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameInstallDate,
			Message:   fmt.Sprintf(messages.DoctorInstallDateFmt, cfg.Global.Install.Date),
		})
	} else {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameInstallDate,
			Message:        messages.DoctorInstallDateMissing,
			Recommendation: messages.DoctorInstallDateMissingRecommend,
		})
	}
	results = append(results, checkKey(cfg.Global.Crypt.Key))
	return results, cfg
}

func checkKey(key string) Result {
	if key == config.EncryptionKeyPlaceholder {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameKey,
			Message:        messages.DoctorKeyPlaceholder,
			Recommendation: messages.DoctorKeyPlaceholderRecommend,
		}
	}
	if err := (validate.Default{}).EncryptionKey(key); err != nil {
		return Result{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNameKey,
			Message:   fmt.Sprintf(messages.DoctorKeyInvalidFmt, err),
		}
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameKey, Message: messages.DoctorKeyInstalled}
}

// CheckVarDirs warns about missing or narrowly permitted var directories.
func CheckVarDirs(paths config.Paths) []Result {
	var results []Result
	for _, dir := range []string{paths.CacheDir, paths.SessionDir} {
		rel := relPath(paths.Root, dir)
		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameVarDirs,
				Message:        fmt.Sprintf(messages.DoctorDirMissingFmt, rel),
				Recommendation: messages.DoctorDirMissingRecommend,
			})
		case err != nil:
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameVarDirs,
				Message:   err.Error(),
			})
		case info.Mode().Perm()&0o002 == 0:
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameVarDirs,
				Message:        fmt.Sprintf(messages.DoctorDirNotWritableFmt, rel, info.Mode().Perm()),
				Recommendation: messages.DoctorDirNotWritableHint,
			})
		default:
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameVarDirs,
				Message:   fmt.Sprintf(messages.DoctorDirOKFmt, rel, info.Mode().Perm()),
			})
		}
	}
	return results
}

// CheckDatabase connects with the persisted connection block.
func CheckDatabase(ctx context.Context, open database.Opener, cfg *config.RuntimeConfig, root string) ([]Result, *database.DB) {
	db, err := open(ctx, cfg, root)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameDatabase,
			Message:        fmt.Sprintf(messages.DoctorDatabaseFailedFmt, err),
			Recommendation: messages.DoctorDatabaseRecommend,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameDatabase,
		Message:   fmt.Sprintf(messages.DoctorDatabaseConnectedFmt, db.Dialect),
	}}, db
}

// CheckSchema compares recorded module versions against modules.
func CheckSchema(ctx context.Context, db *database.DB, modules []string) []Result {
	versions, err := schema.Versions(ctx, db)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameSchema,
			Message:        fmt.Sprintf(messages.DoctorSchemaFailedFmt, err),
			Recommendation: messages.DoctorSchemaRecommend,
		}}
	}
	var results []Result
	for _, id := range modules {
		v, ok := versions[id]
		switch {
		case !ok || v[0] == "":
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameSchema,
				Message:        fmt.Sprintf(messages.DoctorSchemaMissingFmt, id),
				Recommendation: messages.DoctorSchemaRecommend,
			})
		case v[1] == "":
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.DoctorCheckNameSchema,
				Message:   fmt.Sprintf(messages.DoctorSchemaNoDataFmt, id),
			})
		}
	}
	if len(results) == 0 {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameSchema,
			Message:   fmt.Sprintf(messages.DoctorSchemaOKFmt, len(modules)),
		})
	}
	return results
}

// CheckAccess verifies the Administrators role, its allow-all rule, and at
// least one bound administrator.
func CheckAccess(ctx context.Context, db *database.DB) []Result {
	role, found, err := access.FindAdministratorsRole(ctx, db, db)
	if err != nil {
		return []Result{{Status: StatusFail, CheckName: messages.DoctorCheckNameRole, Message: fmt.Sprintf(messages.DoctorRoleFailedFmt, err)}}
	}
	if !found {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRole,
			Message:        messages.DoctorRoleMissing,
			Recommendation: messages.DoctorRoleRecommend,
		}}
	}

	var results []Result
	hasRule, err := access.HasAllRule(ctx, db, db, role.ID)
	switch {
	case err != nil:
		results = append(results, Result{Status: StatusFail, CheckName: messages.DoctorCheckNameRole, Message: fmt.Sprintf(messages.DoctorRoleFailedFmt, err)})
	case !hasRule:
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRole,
			Message:        messages.DoctorRoleRuleMissing,
			Recommendation: messages.DoctorRoleRecommend,
		})
	default:
		results = append(results, Result{Status: StatusOK, CheckName: messages.DoctorCheckNameRole, Message: fmt.Sprintf(messages.DoctorRoleOKFmt, role.ID)})
	}

	names, err := access.BoundAdministrators(ctx, db, db)
	switch {
	case err != nil:
		results = append(results, Result{Status: StatusFail, CheckName: messages.DoctorCheckNameAdmin, Message: fmt.Sprintf(messages.DoctorAdminFailedFmt, err)})
	case len(names) == 0:
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameAdmin,
			Message:        messages.DoctorAdminMissing,
			Recommendation: messages.DoctorAdminRecommend,
		})
	default:
		results = append(results, Result{Status: StatusOK, CheckName: messages.DoctorCheckNameAdmin, Message: fmt.Sprintf(messages.DoctorAdminOKFmt, strings.Join(names, ", "))})
	}
	return results
}

func relPath(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
