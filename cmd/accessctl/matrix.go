package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"go-fitstaff/internal/access"

	"github.com/spf13/cobra"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "print the role by data type level table and role permission counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := evaluator()

		if flagJSON {
			out := make(map[access.Role]any, len(access.Roles))
			for _, r := range access.Roles {
				probe := &access.Subject{Role: r}
				out[r] = map[string]any{
					"permissions": e.EffectivePermissions(probe),
					"data_access": e.LevelsFor(probe),
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "role\tperms\t%s\n", strings.Join(access.DataTypes, "\t"))
		for _, r := range access.Roles {
			probe := &access.Subject{Role: r}
			levels := e.LevelsFor(probe)
			cols := make([]string, 0, len(access.DataTypes))
			for _, dt := range access.DataTypes {
				cols = append(cols, string(levels[dt]))
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", r, len(e.EffectivePermissions(probe)), strings.Join(cols, "\t"))
		}
		return w.Flush()
	},
}
