// ABOUTME: Connection validation for the professor store used by the setup wizard.
// ABOUTME: Checks the PostgREST table with the entered URL and anon key.
package tui

import (
	"context"
	"fmt"

	"github.com/2389-research/profsearch/internal/storage"
)

// ValidateConnection checks that the professors table answers with the given key.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, storeURL, apiKey, table string) error {
	client := storage.NewRestClient(storeURL, apiKey, table)
	defer func() { _ = client.Close() }()

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
