package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/fixtures/pkg/data"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the fixture files in the data directory",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		files, err := a.session.ListFiles()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(out, "No fixture files found.")
			return nil
		}
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return nil
	}),
}

var getCmd = &cobra.Command{
	Use:   "get <file>",
	Short: "Print a parsed fixture file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		load := a.session.Load
		if reload, _ := cmd.Flags().GetBool("reload"); reload {
			load = a.session.Reload
		}
		value, err := load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), value)
	}),
}

var usersCmd = &cobra.Command{
	Use:   "users [category]",
	Short: "Print users from users.json",
	Long:  `Prints the users of a category (valid_users by default), or a single user with --id.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			user := a.session.UserByID(cmd.Context(), id, category)
			if user == nil {
				return fmt.Errorf("user %q not found", id)
			}
			return printJSON(cmd.OutOrStdout(), user)
		}
		return printJSON(cmd.OutOrStdout(), a.session.Users(cmd.Context(), category))
	}),
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List test devices from devices.csv",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		platform, _ := cmd.Flags().GetString("platform")
		priority, _ := cmd.Flags().GetString("priority")
		devices := a.session.Devices(cmd.Context(), data.DeviceFilter{Platform: platform, Priority: priority})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), devices)
		}
		typed, err := data.DecodeDevices(devices)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE\tPLATFORM\tVERSION\tRAM\tPRIORITY")
		for _, d := range typed {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", cell(d.Name), cell(d.Platform), cell(d.PlatformVersion), ram(d.RAMGB), cell(d.Priority))
		}
		return w.Flush()
	}),
}

func init() {
	getCmd.Flags().Bool("reload", false, "Bypass the cache and parse the file again")
	usersCmd.Flags().String("id", "", "Print only the user with this id")
	devicesCmd.Flags().String("platform", "", "Filter by platform (case-insensitive)")
	devicesCmd.Flags().String("priority", "", "Filter by test priority (case-insensitive)")
	devicesCmd.Flags().Bool("json", false, "Print the matching rows as JSON")

	rootCmd.AddCommand(listCmd, getCmd, usersCmd, devicesCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func ram(gb int) string {
	if gb == 0 {
		return "-"
	}
	return fmt.Sprintf("%d GB", gb)
}
