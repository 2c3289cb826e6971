package admin

import (
	"context"

	"github.com/spf13/cobra"
)

type app struct {
	open       Opener
	configPath string
}

// NewRootCommand returns the authctl command tree. open is called once per
// command to reach the database.
func NewRootCommand(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:           "authctl",
		Short:         "Administer gophauth users, groups and permissions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a JSON or YAML config file")

	root.AddCommand(
		a.migrateCmd(),
		a.createUserCmd(),
		a.passwdCmd(),
		a.setGroupCmd(),
		a.showUserCmd(),
		a.availableCmd(),
		a.permissionsCmd(),
		a.groupsCmd(),
	)
	return root
}

// withEnv opens the environment for one command and closes it afterwards.
func (a *app) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := a.open(ctx, a.configPath)
	if err != nil {
		return err
	}
	defer env.Close()

	return fn(ctx, env)
}
