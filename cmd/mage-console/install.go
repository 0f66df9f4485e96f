package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/doctor"
	"github.com/conn-castle/mage-console/internal/install"
	"github.com/conn-castle/mage-console/internal/logging"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
	"github.com/conn-castle/mage-console/internal/terminal"
	"github.com/conn-castle/mage-console/internal/warnings"
	"github.com/conn-castle/mage-console/internal/wizard"
)

var (
	isInteractive = terminal.IsInteractive
	newWizardUI   = func() wizard.UI { return wizard.NewHuhUI() }
	completeArgs  = wizard.Complete
)

var openDatabase database.Opener = database.Open

func newInstallCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
	}
	cmd.AddCommand(newInstallRunCmd(global), newInstallStatusCmd(global), newInstallOptionsCmd())
	return cmd
}

type runFlags struct {
	argsFile    string
	interactive bool
	format      string
	widen       bool
	dryRun      bool
	diffLines   int
}

func newInstallRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   messages.InstallRunUse,
		Short: messages.InstallRunShort,
		Long:  messages.InstallRunLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, global, flags)
		},
	}
	cmd.Flags().StringVar(&flags.argsFile, "args-file", "", messages.InstallFlagArgsFile)
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, messages.InstallFlagInteractive)
	cmd.Flags().StringVar(&flags.format, "config-format", string(config.FormatPHP), messages.InstallFlagConfigFormat)
	cmd.Flags().BoolVar(&flags.widen, "widen-permissions", false, messages.InstallFlagWidenPermissions)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, messages.InstallFlagDryRun)
	cmd.Flags().IntVar(&flags.diffLines, "diff-lines", install.DefaultDiffMaxLines, messages.InstallFlagDiffLines)
	for _, opt := range options.Catalog() {
		cmd.Flags().String(options.FlagName(opt.Key), "", opt.Description)
	}
	return cmd
}

// collectArgs gathers explicitly set option flags, then fills gaps from the
// arguments file.
func collectArgs(cmd *cobra.Command, argsFile string) (options.Arguments, error) {
	args := options.Arguments{}
	for _, opt := range options.Catalog() {
		name := options.FlagName(opt.Key)
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		args.Set(opt.Key, value)
	}
	if argsFile == "" {
		return args, nil
	}
	path, err := homedir.Expand(argsFile)
	if err != nil {
		return nil, err
	}
	fromFile, err := options.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return args.Merge(fromFile), nil
}

func runInstall(cmd *cobra.Command, global *globalFlags, flags *runFlags) error {
	out := cmd.OutOrStdout()
	rootDir, err := resolveRoot(global.root)
	if err != nil {
		return err
	}
	format, err := config.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	noise, err := warnings.ParseNoiseMode(global.warnings)
	if err != nil {
		return err
	}
	args, err := collectArgs(cmd, flags.argsFile)
	if err != nil {
		return err
	}

	if flags.interactive {
		if !isInteractive() {
			return errors.New(messages.InstallWizardTerminalHint)
		}
		args, err = completeArgs(args, newWizardUI())
		if errors.Is(err, wizard.ErrCancelled) {
			_, _ = fmt.Fprintln(out, messages.InstallWizardCancelled)
			return nil
		}
		if err != nil {
			return err
		}
	}

	opts := install.Options{
		Root:             rootDir,
		Args:             args,
		System:           install.RealSystem{},
		Format:           format,
		OpenDatabase:     openDatabase,
		WidenPermissions: flags.widen,
	}
	if flags.dryRun {
		return previewInstall(out, opts, flags.diffLines)
	}

	paths := config.ResolvePaths(opts.System, rootDir, format)
	logger, sink, err := logging.New(logging.Options{
		Path:    paths.LogPath,
		Hold:    true,
		Verbose: global.verbose,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf(messages.InstallOpenLogFmt, err)
	}
	defer func() { _ = sink.Close() }()
	opts.Logger = logger
	opts.PrecheckPassed = sink.Release

	result, err := install.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	reportInstall(out, logger, result, noise)
	if !result.OK() {
		if missing := missingRequired(args); missing != "" {
			_, _ = fmt.Fprintf(out, messages.InstallMissingRequiredFmt+"\n", missing)
		}
		return errors.New(messages.InstallFailed)
	}
	return nil
}

func previewInstall(out io.Writer, opts install.Options, maxLines int) error {
	preview, err := install.Preview(opts, maxLines)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, messages.InstallDryRunHeaderFmt, preview.Path)
	if preview.UnifiedDiff == "" {
		_, _ = fmt.Fprintln(out, messages.InstallDryRunUnchanged)
		return nil
	}
	printDiff(out, preview.UnifiedDiff)
	return nil
}

func reportInstall(out io.Writer, logger *slog.Logger, result install.Result, noise warnings.NoiseMode) {
	printWarnings(out, warnings.Filter(result.Warnings, noise))
	if !result.OK() {
		printInstallErrors(out, result.Errors)
		return
	}
	logger.Info("install finished", "config", result.ConfigPath, "install_date", result.InstallDate)
	_, _ = fmt.Fprintf(out, messages.InstallSucceededFmt, result.ConfigPath)
	_, _ = fmt.Fprintf(out, messages.InstallEncryptionKeyFmt, color.New(color.Bold).Sprint(result.EncryptionKey))
	_, _ = fmt.Fprintln(out, messages.InstallKeyHint)
}

func newInstallStatusCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallStatusUse,
		Short: messages.InstallStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			rootDir, err := resolveRoot(global.root)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.InstallStatusFmt, rootDir)

			sys := install.RealSystem{}
			paths, _ := config.DetectPaths(sys, rootDir)
			results := doctor.Run(cmd.Context(), doctor.Options{Paths: paths, System: sys, OpenDatabase: openDatabase})
			for _, r := range results {
				printResult(out, r)
			}
			if doctor.Failed(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.InstallStatusFailed))
				return errors.New(messages.InstallStatusFailure)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.InstallStatusOK))
			return nil
		},
	}
}

func newInstallOptionsCmd() *cobra.Command {
	var template bool
	cmd := &cobra.Command{
		Use:   messages.InstallOptionsUse,
		Short: messages.InstallOptionsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if template {
				_, _ = fmt.Fprint(out, options.EnvTemplate())
				return nil
			}
			for _, opt := range options.Catalog() {
				required := ""
				if opt.Required {
					required = messages.InstallOptionsRequired
				}
				_, _ = fmt.Fprintf(out, messages.InstallOptionsHeaderFmt, "--"+options.FlagName(opt.Key), required, opt.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, messages.InstallOptionsFlagTemplate)
	return cmd
}

// missingRequired names the required options absent from args.
func missingRequired(args options.Arguments) string {
	var names []string
	for _, opt := range options.Missing(args) {
		names = append(names, "--"+options.FlagName(opt.Key))
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
