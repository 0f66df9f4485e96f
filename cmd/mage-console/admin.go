package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/mage-console/internal/access"
	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/database"
	"github.com/conn-castle/mage-console/internal/install"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
	"github.com/conn-castle/mage-console/internal/validate"
	"github.com/conn-castle/mage-console/internal/wizard"
)

func newAdminCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.AdminUse,
		Short: messages.AdminShort,
	}
	cmd.AddCommand(newAdminEnsureRoleCmd(global), newAdminCreateCmd(global))
	return cmd
}

// openInstalled connects to the database of an installed storefront.
func openInstalled(ctx context.Context, global *globalFlags) (*database.DB, error) {
	rootDir, err := resolveRoot(global.root)
	if err != nil {
		return nil, err
	}
	sys := install.RealSystem{}
	paths, _ := config.DetectPaths(sys, rootDir)
	cfg, err := config.Load(sys, paths.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf(messages.AdminNotInstalledFmt, rootDir, err)
	}
	return openDatabase(ctx, cfg, rootDir)
}

func newAdminEnsureRoleCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.AdminEnsureRoleUse,
		Short: messages.AdminEnsureRoleShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openInstalled(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			assurance, err := access.EnsureAdministratorsRole(cmd.Context(), db)
			if err != nil {
				return err
			}
			if assurance.Changed() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.AdminRoleRepairedFmt, assurance.RoleID, assurance.RoleCreated, assurance.RuleCreated)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.AdminRoleUnchangedFmt, assurance.RoleID)
			return nil
		},
	}
}

func newAdminCreateCmd(global *globalFlags) *cobra.Command {
	var id validate.Identity
	cmd := &cobra.Command{
		Use:   messages.AdminCreateUse,
		Short: messages.AdminCreateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id.Password == "" && isInteractive() {
				prompt := wizard.Prompt{Key: options.KeyAdminPassword, Title: messages.AdminFlagPassword, Required: true}
				if err := newWizardUI().SecretInput(prompt, &id.Password); err != nil {
					if errors.Is(err, wizard.ErrCancelled) {
						return nil
					}
					return err
				}
			}

			db, err := openInstalled(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			provisioner := access.NewProvisioner(db, nil, nil)
			if err := provisioner.Validate(id); err != nil {
				return err
			}
			user, err := provisioner.Create(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := provisioner.BindAdministratorsRole(cmd.Context(), user); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.AdminCreatedFmt, user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id.Username, "username", "", messages.AdminFlagUsername)
	cmd.Flags().StringVar(&id.Email, "email", "", messages.AdminFlagEmail)
	cmd.Flags().StringVar(&id.Password, "password", "", messages.AdminFlagPassword)
	cmd.Flags().StringVar(&id.Firstname, "firstname", "", messages.AdminFlagFirstname)
	cmd.Flags().StringVar(&id.Lastname, "lastname", "", messages.AdminFlagLastname)
	return cmd
}
