package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"circstack/internal/db"
	"circstack/internal/keys"
)

var (
	libraryAddName         string
	libraryAddContactEmail string
)

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage this circulation manager's libraries",
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <short-name>",
	Short: "Provision a new library with a fresh RSA keypair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryAdd(args[0])
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryList()
	},
}

func init() {
	libraryAddCmd.Flags().StringVar(&libraryAddName, "name", "", "display name (default: the short name)")
	libraryAddCmd.Flags().StringVar(&libraryAddContactEmail, "contact-email", "", "administrative contact email")
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
}

func runLibraryAdd(shortName string) error {
	name := libraryAddName
	if name == "" {
		name = shortName
	}

	database, err := connectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	privatePEM, publicPEM, err := keys.GenerateKeyPair()
	if err != nil {
		return err
	}

	lib := db.Library{
		ShortName:  shortName,
		Name:       name,
		PrivateKey: privatePEM,
		PublicKey:  publicPEM,
	}
	if libraryAddContactEmail != "" {
		lib.ContactEmail = &libraryAddContactEmail
	}

	created, err := database.CreateLibrary(lib)
	if err != nil {
		return fmt.Errorf("failed to create library: %w", err)
	}

	fmt.Printf("Created library '%s' (%s)\n", created.ShortName, created.Name)
	return nil
}

func runLibraryList() error {
	database, err := connectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	libraries, err := database.ListLibraries()
	if err != nil {
		return fmt.Errorf("failed to list libraries: %w", err)
	}

	if len(libraries) == 0 {
		fmt.Println("No libraries found")
		return nil
	}

	for _, lib := range libraries {
		fmt.Printf("%s\t%s", lib.ShortName, lib.Name)
		if contact := lib.ContactURI(); contact != "" {
			fmt.Printf("\t%s", contact)
		}
		fmt.Println()
	}
	return nil
}
