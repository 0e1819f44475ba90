package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"circstack/internal/api"
	"circstack/internal/db"
	"circstack/internal/registry"
)

var (
	registerRegistryURL string
	registerStage       string
	registerLibraries   []string
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register libraries with a discovery registry",
	Long: `Register one or more libraries with a remote discovery registry.

Each library is pushed independently: one library's failure is logged and
the batch moves on to the next. The command exits nonzero if any library
failed. Without --library flags, every library is registered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister()
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerRegistryURL, "registry-url", "", "registry catalog URL (default: active registry from config)")
	registerCmd.Flags().StringVar(&registerStage, "stage", "testing", "registration stage: testing or production")
	registerCmd.Flags().StringArrayVar(&registerLibraries, "library", nil, "library short name (repeatable; default: all libraries)")
}

func runRegister() error {
	// Reject a bad stage before touching the database or the network.
	if _, err := registry.ValidateStage(registerStage); err != nil {
		return err
	}

	registryURL, err := resolveRegistryURL(registerRegistryURL)
	if err != nil {
		return err
	}

	base, err := publicBaseURL()
	if err != nil {
		return err
	}

	database, err := connectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	libraries, err := selectLibraries(database)
	if err != nil {
		return err
	}
	if len(libraries) == 0 {
		return fmt.Errorf("no libraries to register")
	}

	ref, err := database.GetOrCreateRegistryReference(api.OPDSRegistrationProtocol, db.GoalDiscovery, registryURL)
	if err != nil {
		return fmt.Errorf("failed to look up registry: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	registrar := registry.NewRegistrar(database, nil)
	builder := registry.BaseURLBuilder{Base: base}

	failed := 0
	for i := range libraries {
		library := &libraries[i]
		if err := pushOne(registrar, database, library, ref, builder); err != nil {
			log.Error().
				Str("library", library.ShortName).
				Str("registry", registryURL).
				Err(err).
				Msg("registration failed")
			failed++
			continue
		}
		log.Info().
			Str("library", library.ShortName).
			Str("registry", registryURL).
			Str("stage", registerStage).
			Msg("registration succeeded")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d libraries failed to register", failed, len(libraries))
	}
	return nil
}

// pushOne runs a single push, converting the unrecoverable missing-key
// panic into an error so one misconfigured library cannot take down the
// whole batch.
func pushOne(registrar *registry.Registrar, database *db.DB, library *db.Library, ref *db.RegistryReference, builder registry.CallbackURLBuilder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("misconfigured library: %v", r)
		}
	}()

	reg, err := database.GetOrCreateRegistration(library, ref)
	if err != nil {
		return fmt.Errorf("failed to look up registration: %w", err)
	}

	return registrar.Push(context.Background(), library, ref, reg, registerStage, builder, "")
}

// selectLibraries resolves the --library flags, or lists everything.
func selectLibraries(database *db.DB) ([]db.Library, error) {
	if len(registerLibraries) == 0 {
		return database.ListLibraries()
	}

	var libraries []db.Library
	for _, shortName := range registerLibraries {
		library, err := database.GetLibraryByShortName(shortName)
		if err != nil {
			return nil, fmt.Errorf("library '%s' not found", shortName)
		}
		libraries = append(libraries, *library)
	}
	return libraries, nil
}
