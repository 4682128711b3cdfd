package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/fixtures"
	"github.com/aretw0/fixtures/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the data directory and the cache",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		md := tui.InfoMarkdown(a.session.Info(cmd.Context()), a.session.Data().Environment(), strings.TrimSpace(fixtures.Version))

		render, err := tui.NewRenderer(tui.Interactive(os.Stdout))
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}),
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fixture cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [file]",
	Short: "Evict one file, or every file, from the cache",
	Long: `Evicts cached fixtures. This is only useful with a shared Redis cache;
the in-memory cache lives for a single command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		if err := a.session.ClearCache(cmd.Context(), file); err != nil {
			return err
		}
		if file == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Evicted %s\n", file)
		}
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fixtures",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fixtures version %s\n", strings.TrimSpace(fixtures.Version))
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(infoCmd, cacheCmd, versionCmd)
}
