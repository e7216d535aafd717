package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/casevault/backend/internal/catalog"
)

// SeedCatalog publishes every case from the configured catalog file.
// A missing file is not an error so deployments can manage the catalog
// entirely through the publish endpoint instead.
func SeedCatalog(ctx context.Context, svc catalog.Service, path string) error {
	count, err := svc.PublishFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info(LogMsgCatalogSeedSkipped, "path", path)
			return nil
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToSeedCatalog, err)
	}

	slog.Info(LogMsgCatalogSeeded, "path", path, "cases", count)
	return nil
}
