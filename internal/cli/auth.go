package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"circstack/internal/config"
)

var authAPIURL string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against the back-office API",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store an API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthLogin()
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthLogout()
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthStatus()
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&authAPIURL, "api-url", "", "back-office API base URL")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

func runAuthLogin() error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	apiURL := authAPIURL
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		return fmt.Errorf("no API URL configured. Pass --api-url once to store it")
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": string(passwordBytes),
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(strings.TrimRight(apiURL, "/")+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed (status %d)", resp.StatusCode)
	}

	var result loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}

	cfg.APIURL = apiURL
	cfg.Username = result.Username
	cfg.JWTToken = result.Token
	if err := config.SaveCLI(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Logged in as %s (token expires %s)\n", result.Username, result.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runAuthLogout() error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Username = ""
	cfg.JWTToken = ""
	if err := config.SaveCLI(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("Logged out")
	return nil
}

func runAuthStatus() error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.JWTToken == "" {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Logged in as %s against %s\n", cfg.Username, cfg.APIURL)
	return nil
}
