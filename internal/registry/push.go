package registry

import (
	"context"
	"fmt"
	"net/http"

	"circstack/internal/db"
	"circstack/internal/keys"
)

// Push runs one registration attempt against the registry behind ref.
// The attempt is atomic in its effect on stored credentials: status drops
// to failure up front and only flips back to success when every step
// completed, and no step short of a fully processed response touches any
// other column.
//
// catalogURL overrides the registry's configured URL when non-empty.
// Retries are the caller's concern.
func (r *Registrar) Push(ctx context.Context, library *db.Library, ref *db.RegistryReference, reg *db.Registration, stage string, builder CallbackURLBuilder, catalogURL string) error {
	validStage, err := ValidateStage(stage)
	if err != nil {
		return err
	}

	// A library with no private key is a deployment bug, not a protocol
	// error; there is nothing sensible to do downstream.
	if library.PrivateKey == "" {
		panic(fmt.Sprintf("library %s has no private key; cannot register", library.ShortName))
	}
	decryptor, err := keys.NewDecryptor(library.PrivateKey)
	if err != nil {
		panic(fmt.Sprintf("library %s has an unusable private key: %v", library.ShortName, err))
	}

	reg.Status = db.StatusFailure
	if err := r.store.SaveRegistration(reg); err != nil {
		return fmt.Errorf("failed to record registration attempt: %w", err)
	}

	if catalogURL == "" {
		catalogURL = ref.URL
	}

	info, err := r.FetchCatalog(ctx, catalogURL)
	if err != nil {
		return err
	}

	// The vendor id lives on the shared reference, visible to every
	// library registered against this registry.
	if info.VendorID != "" {
		if err := r.store.SetVendorID(ref, info.VendorID); err != nil {
			return fmt.Errorf("failed to store vendor id: %w", err)
		}
	}

	payload, err := buildPayload(library, validStage, builder)
	if err != nil {
		return err
	}

	headers := http.Header{}
	if reg.HasSharedSecret() {
		headers.Set("Authorization", "Bearer "+*reg.SharedSecret)
	}

	body, err := r.send(ctx, info.RegistrationURL, headers, payload)
	if err != nil {
		return err
	}

	if err := processResult(reg, body, decryptor, validStage); err != nil {
		return err
	}

	if err := r.store.SaveRegistration(reg); err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}

	return nil
}
