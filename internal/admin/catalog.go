package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) permissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permission catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				list, err := env.perms.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKEY\tTITLE")
				for _, p := range list {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Key, p.Title)
				}
				return tw.Flush()
			})
		},
	}
}

func (a *app) groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups with the keys of their permissions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(ctx context.Context, env *Env) error {
				groups, err := env.groups.List(ctx)
				if err != nil {
					return err
				}

				ids := make([]int64, 0, len(groups))
				for id := range groups {
					ids = append(ids, id)
				}
				sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tPERMISSIONS")
				for _, id := range ids {
					g := groups[id]
					keys := make([]string, 0, len(g.Permissions))
					for _, p := range g.Permissions {
						keys = append(keys, p.Key)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Title, strings.Join(keys, ","))
				}
				return tw.Flush()
			})
		},
	}
}
