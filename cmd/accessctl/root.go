package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go-fitstaff/internal/access"

	"github.com/spf13/cobra"
)

var (
	flagID                     string
	flagRole                   string
	flagPosition               string
	flagDepartment             string
	flagOverrides              []string
	flagJSON                   bool
	flagAllowMissingDepartment bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagID, "id", "", "staff id of the subject")
	pf.StringVarP(&flagRole, "role", "r", "", "role of the subject (admin, reception, fitness, pilates, golf)")
	pf.StringVarP(&flagPosition, "position", "p", "", "position of the subject")
	pf.StringVarP(&flagDepartment, "department", "d", "", "department of the subject, defaults to the role's")
	pf.StringSliceVar(&flagOverrides, "override", nil, "extra permission granted to the subject")
	pf.BoolVar(&flagJSON, "json", false, "print JSON")
	pf.BoolVar(&flagAllowMissingDepartment, "allow-missing-department", false, "department checks pass for records without department")

	rootCmd.AddCommand(checkCmd, pageCmd, levelCmd, modifyCmd, matrixCmd)
}

var rootCmd = &cobra.Command{
	Use:           "accessctl",
	Short:         "inspect staff access rules",
	Long:          `accessctl evaluates permissions, pages and data access levels for a hypothetical staff member.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func evaluator() *access.Evaluator {
	return access.New(access.Policy{AllowMissingDepartment: flagAllowMissingDepartment})
}

// subject builds the subject described by the persistent flags. No role means anonymous.
func subject() (*access.Subject, error) {
	if flagRole == "" {
		return nil, nil
	}
	role, ok := access.ParseRole(flagRole)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", flagRole)
	}
	s := &access.Subject{ID: flagID, Role: role, Department: flagDepartment}
	if s.Department == "" {
		s.Department = access.DepartmentOf(role)
	}
	if flagPosition != "" {
		p, ok := access.ParsePosition(flagPosition)
		if !ok {
			return nil, fmt.Errorf("unknown position %q", flagPosition)
		}
		s.Position = p
	}
	for _, o := range flagOverrides {
		s.Overrides = append(s.Overrides, access.Permission(strings.TrimSpace(o)))
	}
	return s, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
