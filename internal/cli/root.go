package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "circ",
	Short: "Back-office tooling for the circulation manager",
	Long: `circ is the operator CLI for the circulation manager's back office.

It registers libraries with remote discovery registries over the OPDS
Directory Registration Protocol, inspects the resulting registrations,
and manages the list of known registries.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if it exists
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(registrationsCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(authCmd)
}
