package install

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/options"
	"github.com/conn-castle/mage-console/internal/schema"
	"github.com/conn-castle/mage-console/internal/testutil"
	"github.com/conn-castle/mage-console/internal/warnings"
)

var fullTrace = []State{
	StatePrecheck, StatePrepareData, StateEmitConfig, StateRefreshRuntime, StateProvisionSchema,
	StateMigrateData, StateAssureRole, StateValidateAdmin, StateIssueKey, StateCreateAdmin,
	StateBindAdminRole, StateStampInstallDate, StateFinalizePermissions, StateDone,
}

// scenarioArgs are the arguments of a default MySQL install; tests swap the
// opener so the connection lands on SQLite.
func scenarioArgs() options.Arguments {
	return options.Arguments{
		"db_host":        "localhost",
		"db_name":        "store",
		"db_user":        "root",
		"db_pass":        "",
		"admin_username": "admin",
		"admin_password": "Secret123!",
		"admin_email":    "a@b.com",
		"encryption_key": "",
	}
}

func sqliteOpener(ctx context.Context, cfg *config.RuntimeConfig, root string) (*database.DB, error) {
	clone := *cfg
	clone.Global.Resources.DefaultSetup.Connection.Type = options.DBTypeSQLite
	clone.Global.Resources.DefaultSetup.Connection.DBName = "var/test.db"
	return database.Open(ctx, &clone, root)
}

func testOptions(t *testing.T, root string, sys *testutil.System, args options.Arguments) Options {
	t.Helper()
	return Options{
		Root:         root,
		Args:         args,
		System:       sys,
		OpenDatabase: sqliteOpener,
		NewAdminProvisioner: func(db *database.DB) AdminProvisioner {
			p := access.NewProvisioner(db, nil, nil)
			p.HashCost = bcrypt.MinCost
			return p
		},
		Logger: slog.New(slog.DiscardHandler),
	}
}

func openInstalledDB(t *testing.T, root string) *database.DB {
	t.Helper()
	cfg, err := config.Load(&testutil.System{}, filepath.Join(root, "app", "etc", "env.php"))
	require.NoError(t, err)
	db, err := sqliteOpener(context.Background(), cfg, root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func kinds(errs []*Error) []Kind {
	out := make([]Kind, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Kind)
	}
	return out
}

func TestRunScenarioFreshInstall(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	opts := testOptions(t, root, &testutil.System{}, scenarioArgs())
	opts.Clock = testclock.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	result, err := Run(ctx, opts)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	assert.Equal(t, StateDone, result.State)
	assert.True(t, result.OK())
	assert.Equal(t, fullTrace, result.Trace)
	assert.Empty(t, result.Warnings)

	assert.NotEmpty(t, result.EncryptionKey)
	assert.NotEqual(t, config.EncryptionKeyPlaceholder, result.EncryptionKey)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), result.EncryptionKey)
	assert.Equal(t, "Sat, 01 Jun 2024 12:00:00 +0000", result.InstallDate)

	data, err := os.ReadFile(result.ConfigPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), config.EncryptionKeyPlaceholder)
	assert.NotContains(t, string(data), config.InstallDatePlaceholder)

	cfg, err := config.Load(&testutil.System{}, result.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Global.Resources.DefaultSetup.Connection.Host)
	assert.Equal(t, result.EncryptionKey, cfg.Global.Crypt.Key)
	assert.True(t, cfg.Installed())

	db := openInstalledDB(t, root)
	names, err := access.BoundAdministrators(ctx, db, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, names)
	ok, err := access.PasswordMatches(ctx, db, db, "admin", "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunScenarioAlreadyInstalled(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	first, err := Run(ctx, testOptions(t, root, &testutil.System{}, scenarioArgs()))
	require.NoError(t, err)
	require.Equal(t, StateDone, first.State)
	before, err := os.ReadFile(first.ConfigPath)
	require.NoError(t, err)

	sys := &testutil.System{}
	result, err := Run(ctx, testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, []State{StatePrecheck, StateAborted}, result.Trace)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindAlreadyInstalled, result.Errors[0].Kind)
	assert.Empty(t, sys.Writes())
	assert.Empty(t, result.EncryptionKey)

	after, err := os.ReadFile(first.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRunAlreadyInstalledInAnotherFormat(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	opts := testOptions(t, root, &testutil.System{}, scenarioArgs())
	opts.Format = config.FormatYAML
	first, err := Run(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, StateDone, first.State)

	sys := &testutil.System{}
	result, err := Run(ctx, testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, []Kind{KindAlreadyInstalled}, kinds(result.Errors))
	assert.Contains(t, result.Errors[0].Message, first.ConfigPath)
	assert.Empty(t, sys.Writes())
	assert.Empty(t, result.EncryptionKey)
	assert.NoFileExists(t, filepath.Join(root, "app", "etc", "env.php"))
}

func TestRunCallsPrecheckPassedOnlyForFreshRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	calls := 0
	opts := testOptions(t, root, &testutil.System{}, scenarioArgs())
	opts.PrecheckPassed = func() { calls++ }

	first, err := Run(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, StateDone, first.State)
	assert.Equal(t, 1, calls)

	second, err := Run(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, StateAborted, second.State)
	assert.Equal(t, 1, calls)
}

func TestRunScenarioMissingAdminEmail(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	args := scenarioArgs()
	delete(args, options.KeyAdminEmail)

	result, err := Run(ctx, testOptions(t, root, &testutil.System{}, args))
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindAdminValidation, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "email")
	assert.Equal(t, StateValidateAdmin, result.Trace[len(result.Trace)-2])

	data, err := os.ReadFile(result.ConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), config.EncryptionKeyPlaceholder, "no key is spent on a failed install")
	assert.Contains(t, string(data), config.InstallDatePlaceholder)

	db := openInstalledDB(t, root)
	versions, err := schema.Versions(ctx, db)
	require.NoError(t, err)
	assert.Len(t, versions, len(schema.ModuleOrder))
}

func TestRunAdminValidationReportsOneErrorForManyFields(t *testing.T) {
	args := scenarioArgs()
	args.Set(options.KeyAdminEmail, "nope")
	args.Set(options.KeyAdminPassword, "short")

	result, err := Run(context.Background(), testOptions(t, t.TempDir(), &testutil.System{}, args))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindAdminValidation, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "nope")
	assert.Contains(t, result.Errors[0].Message, "password")
}

func TestRunValidationAbortsBeforeAnyWrite(t *testing.T) {
	args := scenarioArgs()
	delete(args, options.KeyDBHost)
	args.Set(options.KeyDBType, "pdo_pgsql")
	sys := &testutil.System{}

	result, err := Run(context.Background(), testOptions(t, t.TempDir(), sys, args))
	require.NoError(t, err)

	assert.Equal(t, []State{StatePrecheck, StatePrepareData, StateAborted}, result.Trace)
	assert.Equal(t, []Kind{KindValidation, KindValidation}, kinds(result.Errors))
	assert.Empty(t, sys.Writes())
}

type flakyProvisioner struct {
	SchemaProvisioner
	failModule string
	failSchema error
	applied    []string
}

func (f *flakyProvisioner) InstallSchema(ctx context.Context) error {
	if f.failSchema != nil {
		return f.failSchema
	}
	return f.SchemaProvisioner.InstallSchema(ctx)
}

func (f *flakyProvisioner) ApplyDataMigration(ctx context.Context, id string) error {
	if id == f.failModule {
		return errors.New("constraint violation in " + id)
	}
	f.applied = append(f.applied, id)
	return f.SchemaProvisioner.ApplyDataMigration(ctx, id)
}

func withFlakyProvisioner(opts *Options, flaky *flakyProvisioner) {
	opts.NewProvisioner = func(db *database.DB, settings options.Arguments, logger *slog.Logger) SchemaProvisioner {
		flaky.SchemaProvisioner = schema.NewProvisioner(db, settings, logger)
		return flaky
	}
}

func TestRunSurvivesMigrationFailure(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	opts := testOptions(t, root, &testutil.System{}, scenarioArgs())
	flaky := &flakyProvisioner{failModule: schema.ModuleAdmin}
	withFlakyProvisioner(&opts, flaky)

	result, err := Run(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, StateDone, result.State)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{schema.ModuleCore, schema.ModuleInstall}, flaky.applied)
	require.Len(t, result.Warnings, 1)
	w := result.Warnings[0]
	assert.Equal(t, warnings.CodeMigrationFailed, w.Code)
	assert.Equal(t, schema.ModuleAdmin, w.Subject)
	assert.Contains(t, w.Details[0], schema.ModuleSales)

	db := openInstalledDB(t, root)
	names, err := access.BoundAdministrators(ctx, db, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, names)
}

func TestRunSurvivesRoleAssuranceFailure(t *testing.T) {
	opts := testOptions(t, t.TempDir(), &testutil.System{}, scenarioArgs())
	opts.EnsureRole = func(context.Context, *database.DB) (access.Assurance, error) {
		return access.Assurance{}, errors.New("table locked")
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, warnings.CodeRoleAssuranceFailed, result.Warnings[0].Code)
}

func TestRunAbortsWhenRoleNeverExists(t *testing.T) {
	opts := testOptions(t, t.TempDir(), &testutil.System{}, scenarioArgs())
	withFlakyProvisioner(&opts, &flakyProvisioner{failModule: schema.ModuleAdmin})
	opts.EnsureRole = func(context.Context, *database.DB) (access.Assurance, error) {
		return access.Assurance{}, errors.New("table locked")
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, []Kind{KindAdminRoleBind}, kinds(result.Errors))
	assert.ErrorIs(t, result.Errors[0], access.ErrRoleMissing)
	assert.Len(t, result.Warnings, 2)
	assert.NotEmpty(t, result.EncryptionKey, "the key was installed before the bind failed")
	assert.Empty(t, result.InstallDate)
}

func TestRunSchemaFailureAborts(t *testing.T) {
	boom := errors.New("disk quota exceeded")
	opts := testOptions(t, t.TempDir(), &testutil.System{}, scenarioArgs())
	withFlakyProvisioner(&opts, &flakyProvisioner{failSchema: boom})

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, StateProvisionSchema, result.Trace[len(result.Trace)-2])
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindSchemaProvision, result.Errors[0].Kind)
	assert.ErrorIs(t, result.Errors[0], boom)
	assert.Equal(t, boom.Error(), result.Errors[0].Message)
}

func TestRunConfigWriteFailure(t *testing.T) {
	root := t.TempDir()
	sys := &testutil.System{WriteErr: testutil.FailOn(filepath.Join(root, "app", "etc", "env.php"), errors.New("read-only file system"))}

	result, err := Run(context.Background(), testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)
	assert.Equal(t, []State{StatePrecheck, StatePrepareData, StateEmitConfig, StateAborted}, result.Trace)
	assert.Equal(t, []Kind{KindConfigWrite}, kinds(result.Errors))
	assert.Contains(t, result.Errors[0].Message, "read-only file system")
}

func TestRunRefreshFailure(t *testing.T) {
	opts := testOptions(t, t.TempDir(), &testutil.System{}, scenarioArgs())
	opts.OpenDatabase = func(context.Context, *config.RuntimeConfig, string) (*database.DB, error) {
		return nil, errors.New("connection refused")
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindRuntimeRefresh}, kinds(result.Errors))
	assert.Equal(t, StateRefreshRuntime, result.Trace[len(result.Trace)-2])
}

func TestRunRejectsInvalidSuppliedKey(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	args := scenarioArgs()
	args.Set(options.KeyEncryptionKey, "has space")

	result, err := Run(ctx, testOptions(t, root, &testutil.System{}, args))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindKeyValidation}, kinds(result.Errors))
	assert.Empty(t, result.EncryptionKey)

	db := openInstalledDB(t, root)
	_, found, err := access.FindUser(ctx, db, db, "admin")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunUsesSuppliedKey(t *testing.T) {
	args := scenarioArgs()
	args.Set(options.KeyEncryptionKey, "operator-chosen-key-0001")

	result, err := Run(context.Background(), testOptions(t, t.TempDir(), &testutil.System{}, args))
	require.NoError(t, err)
	require.Equal(t, StateDone, result.State)
	assert.Equal(t, "operator-chosen-key-0001", result.EncryptionKey)

	cfg, err := config.Load(&testutil.System{}, result.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "operator-chosen-key-0001", cfg.Global.Crypt.Key)
}

func TestRunKeepsSuppliedKeyVerbatimInEveryFormat(t *testing.T) {
	keys := []string{"*secret", "null", "[abc"}
	for _, format := range config.Formats() {
		for _, key := range keys {
			t.Run(string(format)+"/"+key, func(t *testing.T) {
				args := scenarioArgs()
				args.Set(options.KeyEncryptionKey, key)
				opts := testOptions(t, t.TempDir(), &testutil.System{}, args)
				opts.Format = format

				result, err := Run(context.Background(), opts)
				require.NoError(t, err)
				require.Equal(t, StateDone, result.State, "errors: %v", result.Errors)

				cfg, err := config.Load(&testutil.System{}, result.ConfigPath)
				require.NoError(t, err)
				assert.Equal(t, key, cfg.Global.Crypt.Key)
				assert.True(t, cfg.Installed())
			})
		}
	}
}

func TestRunKeyWriteFailure(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, "app", "etc", "env.php")
	boom := errors.New("read-only file system")
	writes := 0
	sys := &testutil.System{WriteErr: func(path string) error {
		if path != configPath {
			return nil
		}
		writes++
		if writes > 1 {
			return boom
		}
		return nil
	}}

	result, err := Run(context.Background(), testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindConfigWrite}, kinds(result.Errors))
	assert.Equal(t, StateIssueKey, result.Trace[len(result.Trace)-2])
	assert.ErrorIs(t, result.Errors[0], boom)
	assert.Empty(t, result.EncryptionKey)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestRunKeyGenerationFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	opts := testOptions(t, t.TempDir(), &testutil.System{}, scenarioArgs())
	opts.Random = failingReader{err: boom}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindKeyValidation}, kinds(result.Errors))
	assert.Equal(t, StateIssueKey, result.Trace[len(result.Trace)-2])
	assert.ErrorIs(t, result.Errors[0], boom)
}

func TestRunWidensPermissionsWhenAsked(t *testing.T) {
	root := t.TempDir()
	opts := testOptions(t, root, &testutil.System{}, scenarioArgs())
	opts.WidenPermissions = true

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, StateDone, result.State)
	for _, dir := range []string{"cache", "session"} {
		info, err := os.Stat(filepath.Join(root, "var", dir))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o777), info.Mode().Perm(), dir)
	}
}

func TestRunPermissionFailureIsWarning(t *testing.T) {
	root := t.TempDir()
	sys := &testutil.System{ChmodErr: testutil.FailOn(filepath.Join(root, "var", "session"), errors.New("operation not permitted"))}
	opts := testOptions(t, root, sys, scenarioArgs())
	opts.WidenPermissions = true

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, warnings.CodePermissionsNotWidened, result.Warnings[0].Code)
	assert.Equal(t, filepath.Join(root, "var", "session"), result.Warnings[0].Subject)
}

func TestRunSkipsPermissionsByDefault(t *testing.T) {
	root := t.TempDir()
	sys := &testutil.System{}
	result, err := Run(context.Background(), testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)
	require.Equal(t, StateDone, result.State)
	for _, path := range sys.Writes() {
		assert.NotEqual(t, filepath.Join(root, "var", "session"), path)
	}
}

func TestRunHonorsTestingEnvironment(t *testing.T) {
	root := t.TempDir()
	sys := &testutil.System{Env: map[string]string{"APP_ENV": "testing"}}
	opts := testOptions(t, root, sys, scenarioArgs())
	opts.Format = config.FormatYAML

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, StateDone, result.State)
	assert.Equal(t, filepath.Join(root, "app", "etc", "env.test.yaml"), result.ConfigPath)
	assert.NoFileExists(t, filepath.Join(root, "app", "etc", "env.php"))
}

func TestRunFailsFastWhileLocked(t *testing.T) {
	root := t.TempDir()
	held, err := acquireFileLock(RealSystem{}, filepath.Join(root, "var", "locks", "install.lock"))
	require.NoError(t, err)
	defer func() { _ = held.release() }()

	result, err := Run(context.Background(), testOptions(t, root, &testutil.System{}, scenarioArgs()))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindConfigWrite}, kinds(result.Errors))
	assert.ErrorIs(t, result.Errors[0], ErrInstallRunning)
	assert.NoFileExists(t, filepath.Join(root, "app", "etc", "env.php"))
}

func TestRunProbeFailure(t *testing.T) {
	root := t.TempDir()
	configPath := testutil.WriteFile(t, root, "app/etc/env.php", "<?php return [];")
	sys := &testutil.System{ReadErr: testutil.FailOn(configPath, errors.New("permission denied"))}

	result, err := Run(context.Background(), testOptions(t, root, sys, scenarioArgs()))
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindPrecheck}, kinds(result.Errors))
	assert.Empty(t, sys.Writes())
}

func TestRunRequiresRootAndSystem(t *testing.T) {
	_, err := Run(context.Background(), Options{System: RealSystem{}})
	require.Error(t, err)
	_, err = Run(context.Background(), Options{Root: t.TempDir()})
	require.Error(t, err)
}

func TestErrorAccumulator(t *testing.T) {
	var acc ErrorAccumulator
	assert.Empty(t, acc.Errors())

	boom := errors.New("boom")
	acc.Add(KindValidation, errors.New("db_host is required"))
	acc.Add(KindConfigWrite, boom)

	require.Equal(t, 2, acc.Len())
	errs := acc.Errors()
	assert.Equal(t, "db_host is required", errs[0].Message)
	assert.Equal(t, KindConfigWrite, errs[1].Kind)
	assert.ErrorIs(t, errs[1], boom)

	errs[0] = nil
	assert.NotNil(t, acc.Errors()[0], "Errors returns a copy")
}
