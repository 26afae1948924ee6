package todo

import (
	"context"
	"fmt"
)

// DefaultSeedTitles are the starter todos loaded when seeding is enabled.
var DefaultSeedTitles = []string{
	"Aprender CI/CD",
	"Configurar pipeline",
}

// Seed creates one todo per title, in order, directly on the store so no
// change events are emitted.
func Seed(ctx context.Context, store Store, titles ...string) error {
	for _, title := range titles {
		if _, err := store.Create(ctx, title); err != nil {
			return fmt.Errorf("seeding %q: %w", title, err)
		}
	}
	return nil
}
