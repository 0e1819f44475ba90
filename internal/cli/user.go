package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"circstack/internal/db"
)

var userCreateEmail string

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage back-office admin accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an admin account",
	Long: `Create an admin account for the back-office API.

This talks to the database directly, so it also bootstraps the very first
account before anyone can log in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUserCreate(args[0])
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userCreateEmail, "email", "", "account email (required)")
	userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(username string) error {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	database, err := connectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	user, err := database.CreateUser(db.CreateUserRequest{
		Username: username,
		Email:    userCreateEmail,
		Password: string(password),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created admin account '%s'\n", user.Username)
	return nil
}
