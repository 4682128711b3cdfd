package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fixtures/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a fixture file against a schema",
	Long: `Loads a fixture file and validates it against a schema from the schema directory.
With --each, every element of a list document is validated on its own.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		name, _ := cmd.Flags().GetString("schema")
		each, _ := cmd.Flags().GetBool("each")

		res := a.session.ValidateFile(cmd.Context(), args[0], name, each)
		tui.WriteResult(cmd.OutOrStdout(), tui.Profile(os.Stdout), fmt.Sprintf("%s (schema '%s')", args[0], name), res)
		if !res.Valid {
			return fmt.Errorf("validation failed with %d errors", len(res.Errors))
		}
		return nil
	}),
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage validation schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the schemas in the schema directory",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		names, err := a.session.Schemas().Names()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintf(out, "No schemas found in %s.\n", a.session.Schemas().Dir())
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}),
}

var schemasInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default user and device schemas",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.session.Schemas().WriteDefaults(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default schemas written to %s\n", a.session.Schemas().Dir())
		return nil
	}),
}

func init() {
	validateCmd.Flags().String("schema", "", "Schema name without the .json extension")
	validateCmd.Flags().Bool("each", false, "Validate every element of a list document")
	_ = validateCmd.MarkFlagRequired("schema")

	schemasCmd.AddCommand(schemasListCmd, schemasInitCmd)
	rootCmd.AddCommand(validateCmd, schemasCmd)
}
