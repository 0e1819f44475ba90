package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"circstack/internal/config"
)

// registryCmd represents the registry command
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage known discovery registries",
}

var registryAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a discovery registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistryAdd(args[0], args[1])
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known discovery registries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistryList()
	},
}

var registryRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a discovery registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistryRemove(args[0])
	},
}

var registryUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active discovery registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistryUse(args[0])
	},
}

func init() {
	registryCmd.AddCommand(registryAddCmd)
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryRemoveCmd)
	registryCmd.AddCommand(registryUseCmd)
}

func runRegistryAdd(name, url string) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Registries[name] = config.Registry{URL: url}

	// First registry becomes the active one
	if cfg.Current == "" {
		cfg.Current = name
	}

	if err := config.SaveCLI(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Added registry '%s' (%s)\n", name, url)
	return nil
}

func runRegistryList() error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Registries) == 0 {
		fmt.Println("No registries configured. Use 'circ registry add' to add one")
		return nil
	}

	for name, reg := range cfg.Registries {
		marker := " "
		if name == cfg.Current {
			marker = "*"
		}
		fmt.Printf("%s %s\t%s\n", marker, name, reg.URL)
	}
	return nil
}

func runRegistryRemove(name string) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Registries[name]; !exists {
		return fmt.Errorf("registry '%s' not found", name)
	}

	delete(cfg.Registries, name)
	if cfg.Current == name {
		cfg.Current = ""
	}

	if err := config.SaveCLI(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Removed registry '%s'\n", name)
	return nil
}

func runRegistryUse(name string) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Registries[name]; !exists {
		return fmt.Errorf("registry '%s' not found", name)
	}

	cfg.Current = name
	if err := config.SaveCLI(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Now using registry '%s'\n", name)
	return nil
}
