package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chat/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/metrics"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type cascadeStep struct {
	Kind  string
	Model any
	Scope func(tx *gorm.DB) *gorm.DB
}

type cascadeError struct {
	Stage string
	Err   error
}

func (v *cascadeError) Error() string {
	return fmt.Sprintf("cascade stopped at %s: %v", v.Stage, v.Err)
}

func (v *cascadeError) Unwrap() error {
	return v.Err
}

// runCascade deletes every step and then the root inside one transaction.
// Any failure rolls the whole cascade back, the failed stage is logged and counted.
func runCascade(ctx context.Context, root string, rootId uint, steps []cascadeStep, final cascadeStep) error {
	affected := make(map[string]int64, len(steps)+1)

	err := database.C.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range append(steps, final) {
			res := step.Scope(tx).Delete(step.Model)
			if res.Error != nil {
				return &cascadeError{Stage: step.Kind, Err: res.Error}
			}
			affected[step.Kind] = res.RowsAffected
		}
		if affected[final.Kind] == 0 {
			return &cascadeError{Stage: final.Kind, Err: fmt.Errorf("%w: %s not found", ErrNotFound, root)}
		}
		return nil
	})

	if err != nil {
		stage := "commit"
		var ce *cascadeError
		if errors.As(err, &ce) {
			stage = ce.Stage
		}
		if !errors.Is(err, ErrNotFound) {
			metrics.CascadeFailures.WithLabelValues(root, stage).Inc()
			log.Error().Err(err).
				Str("root", root).
				Uint("id", rootId).
				Str("stage", stage).
				Msg("Cascading deletion failed and was rolled back.")
		}
		return err
	}

	event := log.Debug().Str("root", root).Uint("id", rootId)
	for kind, count := range affected {
		event = event.Int64(kind, count)
	}
	event.Msg("Cascading deletion accomplished.")
	return nil
}

func cascadeWorkspace(ctx context.Context, id uint) error {
	inWorkspace := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("workspace_id = ?", id)
	}

	err := runCascade(ctx, "workspace", id, []cascadeStep{
		{Kind: "members", Model: &models.Member{}, Scope: inWorkspace},
		{Kind: "reactions", Model: &models.Reaction{}, Scope: inWorkspace},
		{Kind: "messages", Model: &models.Message{}, Scope: inWorkspace},
		{Kind: "conversations", Model: &models.Conversation{}, Scope: inWorkspace},
		{Kind: "channels", Model: &models.Channel{}, Scope: inWorkspace},
	}, cascadeStep{
		Kind:  "workspace",
		Model: &models.Workspace{},
		Scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("id = ?", id)
		},
	})
	if err == nil {
		cache.InvalidateWorkspace(ctx, id)
	}
	return err
}

func cascadeChannel(ctx context.Context, id uint) error {
	return runCascade(ctx, "channel", id, []cascadeStep{
		{Kind: "reactions", Model: &models.Reaction{}, Scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where(
				"message_id IN (?)",
				tx.Model(&models.Message{}).Select("id").Where("channel_id = ?", id),
			)
		}},
		{Kind: "messages", Model: &models.Message{}, Scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("channel_id = ?", id)
		}},
	}, cascadeStep{
		Kind:  "channel",
		Model: &models.Channel{},
		Scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("id = ?", id)
		},
	})
}
