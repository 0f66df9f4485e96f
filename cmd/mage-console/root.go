package main

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/root"
	"github.com/conn-castle/mage-console/internal/warnings"
)

var getwd = os.Getwd

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	root     string
	verbose  bool
	warnings string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.root, "root", "", messages.RootFlagRoot)
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	cmd.PersistentFlags().StringVar(&flags.warnings, "warnings", string(warnings.NoiseModeDefault), messages.RootFlagWarnings)

	cmd.AddCommand(newInstallCmd(flags), newAdminCmd(flags))
	return cmd
}

// resolveRoot expands --root and uses it as is. Without --root it searches
// upward from the working directory, falling back to the directory itself.
func resolveRoot(flag string) (string, error) {
	if flag != "" {
		expanded, err := homedir.Expand(flag)
		if err != nil {
			return "", err
		}
		return filepath.Abs(expanded)
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return root.FindInstallRoot(cwd)
}
