package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"go-fitstaff/internal/access"

	"github.com/spf13/cobra"
)

// errDenied makes the process exit with status 2 without printing anything more
var errDenied = errors.New("denied")

var (
	flagAll      bool
	flagOwner    string
	flagRecDept  string
	flagAssigned []string
)

func init() {
	checkCmd.Flags().BoolVar(&flagAll, "all", false, "require every permission instead of any")
	modifyCmd.Flags().StringVar(&flagOwner, "owner", "", "owner id of the record")
	modifyCmd.Flags().StringVar(&flagRecDept, "record-department", "", "department of the record")
	modifyCmd.Flags().StringSliceVar(&flagAssigned, "assigned", nil, "assignee id of the record")
}

var checkCmd = &cobra.Command{
	Use:   "check <permission>...",
	Short: "decide one or more permissions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := subject()
		if err != nil {
			return err
		}
		e := evaluator()

		perms := make([]access.Permission, 0, len(args))
		decisions := make(map[access.Permission]access.Decision, len(args))
		for _, a := range args {
			p := access.Permission(strings.TrimSpace(a))
			perms = append(perms, p)
			decisions[p] = e.CheckPermissionWithReason(s, p)
		}
		allowed := e.HasAnyPermission(s, perms...)
		if flagAll {
			allowed = e.HasAllPermissions(s, perms...)
		}

		if flagJSON {
			if err := printJSON(cmd.OutOrStdout(), map[string]any{"allowed": allowed, "decisions": decisions}); err != nil {
				return err
			}
		} else {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range perms {
				d := decisions[p]
				fmt.Fprintf(w, "%s\t%s\t%s\n", p, yesNo(d.Allowed), d.Reason)
			}
			fmt.Fprintf(w, "result\t%s\t\n", yesNo(allowed))
			if err := w.Flush(); err != nil {
				return err
			}
		}
		if !allowed {
			return errDenied
		}
		return nil
	},
}

var pageCmd = &cobra.Command{
	Use:   "page <path>...",
	Short: "decide dashboard page access, or list accessible pages without arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := subject()
		if err != nil {
			return err
		}
		e := evaluator()

		if len(args) == 0 {
			pages := e.AccessiblePages(s)
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), pages)
			}
			for _, p := range pages {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		}

		result := make(map[string]bool, len(args))
		for _, path := range args {
			result[path] = e.HasPageAccess(s, path)
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), result)
		}
		for _, path := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, yesNo(result[path]))
		}
		return nil
	},
}

var levelCmd = &cobra.Command{
	Use:   "level [data_type]...",
	Short: "print data access levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := subject()
		if err != nil {
			return err
		}
		e := evaluator()

		types := args
		if len(types) == 0 {
			types = access.DataTypes
		}
		levels := make(map[string]access.Level, len(types))
		for _, dt := range types {
			levels[dt] = e.DataAccessLevel(s, dt)
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), levels)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, dt := range types {
			fmt.Fprintf(w, "%s\t%s\n", dt, levels[dt])
		}
		return w.Flush()
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify <data_type>",
	Short: "decide whether the subject may change a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := subject()
		if err != nil {
			return err
		}
		allowed := evaluator().CanModifyData(s, args[0], access.Target{
			OwnerID:     flagOwner,
			Department:  flagRecDept,
			AssignedIDs: flagAssigned,
		})
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]bool{"allowed": allowed})
		}
		fmt.Fprintln(cmd.OutOrStdout(), yesNo(allowed))
		return nil
	},
}
