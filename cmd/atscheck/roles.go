package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRolesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the predefined target roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			roles, err := c.taxonomy(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tKEYWORDS")
			for _, r := range roles.Roles() {
				fmt.Fprintf(w, "%s\t%s\n", r.Name, strings.Join(r.Keywords, ", "))
			}
			return w.Flush()
		},
	}
}
