package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func rolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage the role catalog",
	}
	cmd.AddCommand(rolesCreateCmd(), rolesInfoCmd(), rolesAddUserCmd())
	return cmd
}

func rolesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a role, or report the existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			capabilities, _ := cmd.Flags().GetStringSlice("capability")

			c, err := openContainer()
			if err != nil {
				return err
			}
			role, created, err := c.UserService.CreateRole(args[0], description, capabilities)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "role %q created\n", role.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "role %q already exists\n", role.Name)
			}
			return nil
		},
	}
	cmd.Flags().String("description", "", "role description")
	cmd.Flags().StringSlice("capability", nil, "capability granted by the role, repeatable (post.view, post.create, post.change, post.delete)")
	return cmd
}

func rolesInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show a role, its capabilities and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			role, members, err := c.UserService.RoleInfo(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "role:         %s\n", role.Name)
			fmt.Fprintf(out, "description:  %s\n", role.Description)
			fmt.Fprintf(out, "capabilities: %s\n", strings.Join(role.Capabilities, ", "))
			fmt.Fprintf(out, "members:      %d\n", len(members))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, user := range members {
				fmt.Fprintf(w, "  %d\t%s\t%s\n", user.ID, user.Username, user.Email)
			}
			return w.Flush()
		},
	}
}

func rolesAddUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-user <username> <role>",
		Short: "Grant a role to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			user, err := c.UserService.AddRole(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has roles: %s\n", user.Username, strings.Join(user.Roles, ", "))
			return nil
		},
	}
}
