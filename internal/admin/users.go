package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/spf13/cobra"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				if err := env.handle.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func (a *app) createUserCmd() *cobra.Command {
	var group int64
	cmd := &cobra.Command{
		Use:     "create-user <username>",
		Short:   "Create a user; the password is read from the terminal or stdin.",
		Example: "authctl create-user alice --group 2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if group <= 0 {
				return errors.New("--group is required")
			}
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				ok, err := env.users.UsernameAvailable(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("user %q already exists", args[0])
				}

				pw, err := newPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				id, err := env.users.Create(ctx, args[0], pw, group)
				if errors.Is(err, common.ErrUsernameTaken) {
					return fmt.Errorf("user %q already exists", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %q created with id %d\n", args[0], id)
				return nil
			})
		},
	}
	cmd.Flags().Int64VarP(&group, "group", "g", 0, "group id of the new user")
	return cmd
}

func (a *app) passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <user-id>",
		Short: "Set a user's password.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				pw, err := newPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				if err := env.users.ChangePassword(ctx, id, pw); err != nil {
					return notFound(err, "user", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password of user %d changed\n", id)
				return nil
			})
		},
	}
}

func (a *app) setGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-group <user-id> <group-id>",
		Short: "Move a user into another group.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			group, err := parseID(args[1], "group id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				if _, ok, err := env.groups.Get(ctx, group); err != nil {
					return err
				} else if !ok {
					return fmt.Errorf("group %d not found", group)
				}
				if err := env.users.ChangeGroup(ctx, id, group); err != nil {
					return notFound(err, "user", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %d moved to group %d\n", id, group)
				return nil
			})
		},
	}
}

func (a *app) showUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-user <user-id>",
		Short: "Print a user with its group as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				u, err := env.users.Read(ctx, id)
				if err != nil {
					return notFound(err, "user", id)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(u)
			})
		},
	}
}

func (a *app) availableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available <username>",
		Short: "Report whether a username is free.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				ok, err := env.users.UsernameAvailable(ctx, args[0])
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is available\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%q is taken\n", args[0])
				}
				return nil
			})
		},
	}
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%s %d not found", what, id)
	}
	return err
}
