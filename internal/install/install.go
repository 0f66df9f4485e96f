// Package install runs the installation pipeline: it turns install arguments
// into a runtime config, provisions the schema, and creates the first
// administrator.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/juju/clock"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/crypt"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
	"github.com/conn-castle/mage-console/internal/schema"
	"github.com/conn-castle/mage-console/internal/validate"
	"github.com/conn-castle/mage-console/internal/warnings"
)

// InstalledProbe finds the config file of an earlier completed install.
// An empty path means the instance is not installed.
type InstalledProbe interface {
	InstalledPath() (string, error)
}

// SchemaProvisioner creates tables and runs per-module data migrations.
type SchemaProvisioner interface {
	InstallSchema(ctx context.Context) error
	ApplyDataMigration(ctx context.Context, moduleID string) error
}

// AdminProvisioner validates, creates, and binds the administrator.
type AdminProvisioner interface {
	Validate(id validate.Identity) error
	Create(ctx context.Context, id validate.Identity) (access.User, error)
	BindAdministratorsRole(ctx context.Context, user access.User) error
}

// Options controls installer behavior. Only Root and System are required.
type Options struct {
	Root   string
	Args   options.Arguments
	System System
	Format config.Format

	// Probe defaults to reading the install date from the config file of
	// every format under Root.
	Probe InstalledProbe
	// OpenDatabase defaults to database.Open.
	OpenDatabase database.Opener
	// NewProvisioner defaults to schema.NewProvisioner.
	NewProvisioner func(db *database.DB, settings options.Arguments, logger *slog.Logger) SchemaProvisioner
	// MigrationOrder defaults to schema.ModuleOrder.
	MigrationOrder []string
	// EnsureRole defaults to access.EnsureAdministratorsRole.
	EnsureRole func(ctx context.Context, db *database.DB) (access.Assurance, error)
	// NewAdminProvisioner defaults to access.NewProvisioner.
	NewAdminProvisioner func(db *database.DB) AdminProvisioner

	Validator validate.Validator
	Random    io.Reader
	Clock     clock.Clock
	Logger    *slog.Logger

	// PrecheckPassed is called once PRECHECK finds no earlier install,
	// before anything is written.
	PrecheckPassed func()

	// WidenPermissions opts into chmod 0777 of var/cache and var/session.
	WidenPermissions bool
}

// Result is the outcome of Run.
type Result struct {
	State         State
	EncryptionKey string
	InstallDate   string
	ConfigPath    string
	Errors        []*Error
	Warnings      []warnings.Warning
	Trace         []State
}

// OK reports whether the pipeline reached DONE.
func (r Result) OK() bool {
	return r.State == StateDone
}

type step struct {
	state      State
	run        func(ctx context.Context)
	bestEffort bool
}

type installer struct {
	opts     Options
	sys      System
	paths    config.Paths
	logger   *slog.Logger
	clock    clock.Clock
	errs     ErrorAccumulator
	warnings []warnings.Warning
	trace    []State

	prepared    options.Arguments
	db          *database.DB
	provisioner SchemaProvisioner
	admin       AdminProvisioner
	identity    validate.Identity
	user        access.User
	key         string
	installDate string
	lock        *fileLock
}

// Run executes the pipeline once. The returned error is non-nil only when opts
// itself is unusable; install failures are reported in Result.Errors.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Root == "" {
		return Result{}, errors.New(messages.InstallRootRequired)
	}
	if opts.System == nil {
		return Result{}, errors.New(messages.InstallSystemRequired)
	}
	inst := newInstaller(opts)
	defer inst.close()

	inst.run(ctx, inst.steps())
	return Result{
		State:         inst.trace[len(inst.trace)-1],
		EncryptionKey: inst.key,
		InstallDate:   inst.installDate,
		ConfigPath:    inst.paths.ConfigPath,
		Errors:        inst.errs.Errors(),
		Warnings:      inst.warnings,
		Trace:         inst.trace,
	}, nil
}

func newInstaller(opts Options) *installer {
	if opts.Format == "" {
		opts.Format = config.FormatPHP
	}
	if opts.Args == nil {
		opts.Args = options.Arguments{}
	}
	if opts.OpenDatabase == nil {
		opts.OpenDatabase = database.Open
	}
	if opts.MigrationOrder == nil {
		opts.MigrationOrder = schema.ModuleOrder
	}
	if opts.EnsureRole == nil {
		opts.EnsureRole = access.EnsureAdministratorsRole
	}
	if opts.Validator == nil {
		opts.Validator = validate.Default{}
	}
	if opts.Random == nil {
		opts.Random = crypt.DefaultRandom
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	paths := config.ResolvePaths(opts.System, opts.Root, opts.Format)
	if opts.Probe == nil {
		opts.Probe = config.NewRootProbe(opts.System, opts.Root)
	}
	if opts.NewProvisioner == nil {
		opts.NewProvisioner = func(db *database.DB, settings options.Arguments, logger *slog.Logger) SchemaProvisioner {
			return schema.NewProvisioner(db, settings, logger)
		}
	}
	if opts.NewAdminProvisioner == nil {
		validator, clk := opts.Validator, opts.Clock
		opts.NewAdminProvisioner = func(db *database.DB) AdminProvisioner {
			return access.NewProvisioner(db, validator, clk)
		}
	}
	return &installer{
		opts:   opts,
		sys:    opts.System,
		paths:  paths,
		logger: opts.Logger,
		clock:  opts.Clock,
	}
}

func (inst *installer) steps() []step {
	return []step{
		{state: StatePrecheck, run: inst.precheck},
		{state: StatePrepareData, run: inst.prepareData},
		{state: StateEmitConfig, run: inst.emitConfig},
		{state: StateRefreshRuntime, run: inst.refreshRuntime},
		{state: StateProvisionSchema, run: inst.provisionSchema},
		{state: StateMigrateData, run: inst.migrateData, bestEffort: true},
		{state: StateAssureRole, run: inst.assureRole, bestEffort: true},
		{state: StateValidateAdmin, run: inst.validateAdmin},
		{state: StateIssueKey, run: inst.issueKey},
		{state: StateCreateAdmin, run: inst.createAdmin},
		{state: StateBindAdminRole, run: inst.bindAdminRole},
		{state: StateStampInstallDate, run: inst.stampInstallDate},
		{state: StateFinalizePermissions, run: inst.finalizePermissions, bestEffort: true},
	}
}

// run walks the steps. After a fatal step with a non-empty accumulator the
// pipeline moves to ABORTED; best-effort steps never add to the accumulator.
func (inst *installer) run(ctx context.Context, steps []step) {
	for _, s := range steps {
		inst.enter(s.state)
		s.run(ctx)
		if !s.bestEffort && inst.errs.Len() > 0 {
			inst.enter(StateAborted)
			for _, e := range inst.errs.Errors() {
				inst.logger.Error("install aborted", "state", s.state, "kind", e.Kind, "error", e.Message)
			}
			return
		}
	}
	inst.enter(StateDone)
}

func (inst *installer) enter(state State) {
	inst.trace = append(inst.trace, state)
	inst.logger.Info("state entered", "state", state)
}

func (inst *installer) fail(kind Kind, err error) {
	inst.errs.Add(kind, err)
}

func (inst *installer) degrade(w warnings.Warning) {
	inst.logger.Warn(w.Message, "code", w.Code, "subject", w.Subject)
	inst.warnings = append(inst.warnings, w)
}

func (inst *installer) close() {
	if inst.db != nil {
		if err := inst.db.Close(); err != nil {
			inst.logger.Warn("closing database", "error", err)
		}
	}
	if err := inst.lock.release(); err != nil {
		inst.logger.Warn("releasing install lock", "error", err)
	}
}

func (inst *installer) precheck(context.Context) {
	installed, err := inst.opts.Probe.InstalledPath()
	if err != nil {
		inst.fail(KindPrecheck, err)
		return
	}
	if installed != "" {
		inst.fail(KindAlreadyInstalled, fmt.Errorf(messages.InstallAlreadyInstalledFmt, installed))
		return
	}
	if inst.opts.PrecheckPassed != nil {
		inst.opts.PrecheckPassed()
	}
}

func (inst *installer) prepareData(context.Context) {
	prepared, errs := options.Prepare(inst.opts.Args)
	for _, err := range errs {
		inst.fail(KindValidation, err)
	}
	inst.prepared = prepared
}

// emitConfig takes the install lock before the first write, then writes the
// runtime config with both sentinels in place.
func (inst *installer) emitConfig(context.Context) {
	lock, err := acquireFileLock(inst.sys, inst.paths.LockPath)
	if err != nil {
		inst.fail(KindConfigWrite, err)
		return
	}
	inst.lock = lock

	emitter := config.NewEmitter(inst.sys, inst.paths.ConfigPath, inst.opts.Format)
	if _, err := emitter.Emit(inst.prepared); err != nil {
		inst.fail(KindConfigWrite, err)
		return
	}
	inst.logger.Info("runtime config written", "path", inst.paths.ConfigPath, "format", inst.opts.Format)
}

// refreshRuntime reloads the config that was just written, drops stale cache
// entries, and connects with the persisted connection block.
func (inst *installer) refreshRuntime(ctx context.Context) {
	cfg, err := config.Load(inst.sys, inst.paths.ConfigPath)
	if err != nil {
		inst.fail(KindRuntimeRefresh, err)
		return
	}
	if err := inst.sys.RemoveAll(inst.paths.CacheDir); err != nil {
		inst.fail(KindRuntimeRefresh, fmt.Errorf(messages.InstallClearCacheFmt, inst.paths.CacheDir, err))
		return
	}
	if err := inst.sys.MkdirAll(inst.paths.CacheDir, 0o755); err != nil {
		inst.fail(KindRuntimeRefresh, fmt.Errorf(messages.InstallClearCacheFmt, inst.paths.CacheDir, err))
		return
	}
	db, err := inst.opts.OpenDatabase(ctx, cfg, inst.opts.Root)
	if err != nil {
		inst.fail(KindRuntimeRefresh, err)
		return
	}
	inst.db = db
	inst.provisioner = inst.opts.NewProvisioner(db, inst.prepared, inst.logger)
	inst.admin = inst.opts.NewAdminProvisioner(db)
}

func (inst *installer) provisionSchema(ctx context.Context) {
	if err := inst.provisioner.InstallSchema(ctx); err != nil {
		inst.fail(KindSchemaProvision, err)
	}
}

// migrateData runs module data migrations in order. The first failure is
// logged as a warning and the remaining modules are skipped, since later
// modules may depend on data from earlier ones.
func (inst *installer) migrateData(ctx context.Context) {
	order := inst.opts.MigrationOrder
	for i, id := range order {
		if err := inst.provisioner.ApplyDataMigration(ctx, id); err != nil {
			inst.degrade(warnings.Migration(id, err, order[i+1:]))
			return
		}
		inst.logger.Info("data migration applied", "module", id)
	}
}

func (inst *installer) assureRole(ctx context.Context) {
	assurance, err := inst.opts.EnsureRole(ctx, inst.db)
	if err != nil {
		inst.degrade(warnings.RoleAssurance(err))
		return
	}
	inst.logger.Info("administrators role ensured",
		"role_id", assurance.RoleID, "role_created", assurance.RoleCreated, "rule_created", assurance.RuleCreated)
}

func (inst *installer) validateAdmin(context.Context) {
	inst.identity = validate.Identity{
		Username:  inst.prepared.Get(options.KeyAdminUsername),
		Email:     inst.prepared.Get(options.KeyAdminEmail),
		Password:  inst.prepared.Get(options.KeyAdminPassword),
		Firstname: inst.prepared.Get(options.KeyAdminFirstname),
		Lastname:  inst.prepared.Get(options.KeyAdminLastname),
	}
	if err := inst.admin.Validate(inst.identity); err != nil {
		inst.fail(KindAdminValidation, err)
	}
}

// issueKey installs the supplied key, or a generated one. A key that cannot be
// produced or fails validation is a KeyValidation error; a failed write is a
// ConfigWrite error.
func (inst *installer) issueKey(context.Context) {
	issuer := crypt.Issuer{
		Generator: crypt.NewGenerator(inst.opts.Random),
		Validator: inst.opts.Validator,
		Installer: config.NewPatcher(inst.sys, inst.paths.ConfigPath, inst.clock, nil),
	}
	supplied := inst.prepared.Get(options.KeyEncryptionKey)
	key, err := issuer.Issue(supplied)
	if err != nil {
		var installErr *crypt.InstallError
		if errors.As(err, &installErr) {
			inst.fail(KindConfigWrite, installErr.Err)
			return
		}
		inst.fail(KindKeyValidation, err)
		return
	}
	inst.key = key
	inst.logger.Info("encryption key installed", "generated", supplied == "")
}

func (inst *installer) createAdmin(ctx context.Context) {
	user, err := inst.admin.Create(ctx, inst.identity)
	if err != nil {
		inst.fail(KindAdminCreate, err)
		return
	}
	inst.user = user
	inst.logger.Info("administrator saved", "username", user.Username, "user_id", user.ID)
}

func (inst *installer) bindAdminRole(ctx context.Context) {
	if err := inst.admin.BindAdministratorsRole(ctx, inst.user); err != nil {
		inst.fail(KindAdminRoleBind, err)
	}
}

func (inst *installer) stampInstallDate(context.Context) {
	patcher := config.NewPatcher(inst.sys, inst.paths.ConfigPath, inst.clock, nil)
	date, err := patcher.ReplaceInstallDate(inst.clock.Now())
	if err != nil {
		inst.fail(KindConfigWrite, err)
		return
	}
	inst.installDate = date
}

func (inst *installer) finalizePermissions(context.Context) {
	if !inst.opts.WidenPermissions {
		inst.logger.Info("permission widening skipped")
		return
	}
	for _, dir := range []string{inst.paths.CacheDir, inst.paths.SessionDir} {
		if err := inst.sys.MkdirAll(dir, 0o755); err != nil {
			inst.degrade(warnings.Permissions(dir, err))
			continue
		}
		if err := inst.sys.Chmod(dir, 0o777); err != nil {
			inst.degrade(warnings.Permissions(dir, err))
		}
	}
}
