package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the workday application
var rootCmd = &cobra.Command{
	Use:   "workday",
	Short: "Finds free time, tracks deadlines and answers mail while you are away",
	Long: `workday reads your Google Calendar (or ICS feeds) and Gmail to help plan a
working day:

  - gaps:      free time slots inside working hours
  - summary:   meeting summary reports for a day, week or month
  - remind:    Google Tasks reminders for deadlines mentioned in email
  - autoreply: a vacation responder for unread email

It can also run as an MCP (Model Context Protocol) server for AI assistants.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "workday version %s\n" .Version}}`)

	// If no subcommand is provided, run the gaps command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "gaps")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd, &globalOpts)

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newGapsCmd())
	rootCmd.AddCommand(newRemindCmd())
	rootCmd.AddCommand(newAutoReplyCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
