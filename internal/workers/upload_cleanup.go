package workers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/threadline-dev/threadline/internal/catalog"
	"github.com/threadline-dev/threadline/internal/tasks"
	"github.com/threadline-dev/threadline/internal/uploads"
)

// orphanGracePeriod protects fresh uploads that have not been attached to a
// product yet (the admin UI uploads images before saving the product)
const orphanGracePeriod = 24 * time.Hour

// HandleCleanupOrphanUploads sweeps the upload store and removes files that
// no product references and that are older than the grace period
func HandleCleanupOrphanUploads(ctx context.Context, t *asynq.Task, store *uploads.Store, svc *catalog.Service, logger zerolog.Logger) error {
	referenced, err := svc.ReferencedImages(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load referenced images")
		return err
	}

	keys, err := store.Keys()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list stored uploads")
		return err
	}

	removed := 0
	for _, key := range keys {
		if referenced[uploads.URL(key)] {
			continue
		}
		if uploadedAt, ok := keyTimestamp(key); !ok || time.Since(uploadedAt) < orphanGracePeriod {
			continue
		}
		if err := store.Delete(key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to delete orphaned upload")
			continue
		}
		removed++
	}

	logger.Info().
		Int("scanned", len(keys)).
		Int("removed", removed).
		Msg("Orphan upload cleanup complete")

	return nil
}

// HandleCleanupProductImages removes the stored images of a deleted product,
// skipping any image another product still references
func HandleCleanupProductImages(ctx context.Context, t *asynq.Task, store *uploads.Store, svc *catalog.Service, logger zerolog.Logger) error {
	payload, err := tasks.ParseImageCleanupPayload(t)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse image cleanup payload")
		return err
	}

	referenced, err := svc.ReferencedImages(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load referenced images")
		return err
	}

	removed := 0
	for _, image := range payload.Images {
		key := uploads.KeyFromURL(image)
		if key == "" {
			// Externally hosted image, nothing stored locally
			continue
		}
		if referenced[image] {
			continue
		}
		if err := store.Delete(key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to delete product image")
			continue
		}
		removed++
	}

	logger.Info().
		Str("product_id", payload.ProductID).
		Int("removed", removed).
		Msg("Deleted product image cleanup complete")

	return nil
}

// keyTimestamp extracts the upload time embedded in a storage key
// (products/<unix-ms>-<filename>)
func keyTimestamp(key string) (time.Time, bool) {
	name := key
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	idx := strings.Index(name, "-")
	if idx <= 0 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(name[:idx], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
