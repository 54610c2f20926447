package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/threadline-dev/threadline/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "threadline",
	Short: "Threadline - clothing storefront back-office tools",
	Long: `Threadline CLI - Provision and maintain a Threadline deployment.

Admin accounts are designated here, at provisioning time; the login endpoint
never grants the admin flag.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("threadline version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewCreateAdminCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewMigrateCategoriesCmd())
	rootCmd.AddCommand(commands.NewListUsersCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
