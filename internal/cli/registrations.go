package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"circstack/internal/registry"
)

var (
	registrationsRegistryURL string
	registrationsLibrary     string
	registrationsShowTerms   bool
)

// registrationsCmd represents the registrations command
var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "List discovery registry registrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistrations()
	},
}

func init() {
	registrationsCmd.Flags().StringVar(&registrationsRegistryURL, "registry-url", "", "only show registrations against this registry")
	registrationsCmd.Flags().StringVar(&registrationsLibrary, "library", "", "only show registrations for this library")
	registrationsCmd.Flags().BoolVar(&registrationsShowTerms, "terms", false, "fetch terms-of-service links from each registry")
}

func runRegistrations() error {
	database, err := connectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	rows, err := database.ListRegistrations(registrationsLibrary, registrationsRegistryURL)
	if err != nil {
		return fmt.Errorf("failed to list registrations: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No registrations found")
		return nil
	}

	registrar := registry.NewRegistrar(database, nil)
	termsByRegistry := map[string]*registry.TermsOfService{}

	for _, row := range rows {
		fmt.Printf("%s @ %s\n", row.LibraryShortName, row.RegistryURL)
		fmt.Printf("  status: %s  stage: %s\n", row.Status, row.Stage)
		if row.ShortName != nil {
			fmt.Printf("  registry short name: %s\n", *row.ShortName)
		}
		if row.WebClientURL != nil {
			fmt.Printf("  web client: %s\n", *row.WebClientURL)
		}
		if row.VendorID != nil {
			fmt.Printf("  vendor id: %s\n", *row.VendorID)
		}

		if registrationsShowTerms {
			tos, seen := termsByRegistry[row.RegistryURL]
			if !seen {
				// Best-effort: an unreachable registry shows no terms.
				tos, _ = registrar.FetchRegistrationDocument(context.Background(), row.RegistryURL)
				termsByRegistry[row.RegistryURL] = tos
			}
			if tos != nil && tos.Link != "" {
				fmt.Printf("  terms of service: %s\n", tos.Link)
			}
		}
		fmt.Println()
	}

	return nil
}
