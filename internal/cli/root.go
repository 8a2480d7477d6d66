package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/megaplex/realestate/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd wires every subcommand against env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitectl",
		Short: "sitectl - Manage the marketing site content",
		Long: `sitectl - Edit the marketing site's sections from the terminal.

Sign in once with 'sitectl login'; the session cookie is kept in the OS
keyring and reused by the write commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.Server = strings.TrimRight(env.Server, "/")
		},
	}

	rootCmd.SetOut(env.Out)
	rootCmd.PersistentFlags().StringVar(&env.Server, "server", env.Server, "API base URL (or set REALESTATE_SERVER)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Out, "sitectl version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewStatusCmd(env))
	rootCmd.AddCommand(commands.NewContentCmd(env))
	rootCmd.AddCommand(commands.NewExportCmd(env))
	rootCmd.AddCommand(commands.NewImportCmd(env))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(commands.NewEnv()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
