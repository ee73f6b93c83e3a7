package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/metrics"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"git.solsynth.dev/hypernet/chat/pkg/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

func DoAutoDatabaseCleanup() {
	retention := viper.GetDuration("cleanup.retention")
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	deadline := time.Now().UTC().Add(-retention)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	// Blobs first, the rows pointing at them are gone afterwards
	purgeMessageImages(context.Background(), deadline)

	// Purge soft deleted rows past retention
	var count int64
	for _, model := range database.SoftDeleteRange {
		tx := database.C.Unscoped().Where("deleted_at < ?", deadline).Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
			continue
		}
		count += tx.RowsAffected
	}

	metrics.CleanupPurged.Add(float64(count))
	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}

// purgeMessageImages removes the blobs of messages about to be purged.
// A blob still referenced by a live message is kept.
func purgeMessageImages(ctx context.Context, deadline time.Time) {
	if storage.B == nil {
		return
	}

	var refs []string
	if err := database.C.WithContext(ctx).Unscoped().
		Model(&models.Message{}).
		Where("deleted_at < ? AND image IS NOT NULL", deadline).
		Pluck("image", &refs).Error; err != nil {
		log.Error().Err(err).Msg("Unable to collect images of purged messages...")
		return
	}
	refs = lo.Uniq(lo.Compact(refs))
	if len(refs) == 0 {
		return
	}

	var live []string
	if err := database.C.WithContext(ctx).
		Model(&models.Message{}).
		Where("image IN ?", refs).
		Pluck("image", &live).Error; err != nil {
		log.Error().Err(err).Msg("Unable to check images still in use...")
		return
	}

	for _, ref := range lo.Without(refs, live...) {
		if err := storage.B.Remove(ctx, ref); err != nil {
			log.Warn().Err(err).Str("ref", ref).Msg("Unable to remove the image of a purged message.")
		}
	}
}
