package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// EnrichMessages enriches every message concurrently and keeps the input order.
// Messages whose author no longer resolves are dropped.
func EnrichMessages(ctx context.Context, messages []models.Message) ([]models.EnrichedMessage, error) {
	enriched := make([]*models.EnrichedMessage, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	for idx, message := range messages {
		g.Go(func() error {
			item, err := EnrichMessage(gctx, message)
			enriched[idx] = item
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lo.FilterMap(enriched, func(item *models.EnrichedMessage, _ int) (models.EnrichedMessage, bool) {
		if item == nil {
			return models.EnrichedMessage{}, false
		}
		return *item, true
	}), nil
}

// EnrichMessage joins a message with its author, image URL, reactions and thread summary.
// It returns nil without an error when the author member or account is missing.
func EnrichMessage(ctx context.Context, message models.Message) (*models.EnrichedMessage, error) {
	var (
		member    *models.Member
		account   *models.Account
		reactions []models.Reaction
		thread    models.ThreadSummary
		image     *string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		member, account, err = populateAuthor(gctx, message.MemberID)
		return err
	})
	g.Go(func() error {
		return database.C.WithContext(gctx).
			Where("message_id = ?", message.ID).
			Order("id ASC").
			Find(&reactions).Error
	})
	g.Go(func() (err error) {
		thread, err = SummarizeThread(gctx, message.ID)
		return err
	})
	g.Go(func() error {
		if message.Image != nil {
			image = ResolveImageURL(gctx, *message.Image)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if member == nil || account == nil {
		return nil, nil
	}

	return &models.EnrichedMessage{
		ID:              message.ID,
		CreatedAt:       message.CreatedAt,
		EditedAt:        message.EditedAt,
		Body:            message.Body,
		Image:           image,
		MemberID:        message.MemberID,
		WorkspaceID:     message.WorkspaceID,
		ChannelID:       message.ChannelID,
		ParentMessageID: message.ParentMessageID,
		ConversationID:  message.ConversationID,
		Member:          *member,
		User:            *account,
		Reactions:       SummarizeReactions(reactions),
		ThreadCount:     thread.Count,
		ThreadImage:     thread.Image,
		ThreadTimestamp: thread.Timestamp,
	}, nil
}

// populateAuthor resolves member then account, either may come back nil.
func populateAuthor(ctx context.Context, memberId uint) (*models.Member, *models.Account, error) {
	member, err := findMember(ctx, memberId)
	if err != nil || member == nil {
		return nil, nil, err
	}
	account, err := GetAccount(ctx, member.AccountID)
	if err != nil {
		return member, nil, err
	}
	return member, account, nil
}

// SummarizeReactions groups reactions by value in first-seen order.
// Member ids are deduplicated and Count is the number of distinct members.
func SummarizeReactions(reactions []models.Reaction) []models.ReactionSummary {
	out := make([]models.ReactionSummary, 0)
	index := make(map[string]int)

	for _, reaction := range reactions {
		if idx, ok := index[reaction.Value]; ok {
			if !lo.Contains(out[idx].MemberIDs, reaction.MemberID) {
				out[idx].MemberIDs = append(out[idx].MemberIDs, reaction.MemberID)
			}
			continue
		}
		index[reaction.Value] = len(out)
		out = append(out, models.ReactionSummary{
			MessageID:   reaction.MessageID,
			WorkspaceID: reaction.WorkspaceID,
			Value:       reaction.Value,
			MemberIDs:   []uint{reaction.MemberID},
		})
	}

	for idx := range out {
		out[idx].Count = len(out[idx].MemberIDs)
	}
	return out
}

// SummarizeThread counts the direct replies of a message and describes the latest one.
// The latest reply is chosen by creation time. If its author is gone the summary is empty.
func SummarizeThread(ctx context.Context, messageId uint) (models.ThreadSummary, error) {
	var count int64
	if err := database.C.WithContext(ctx).
		Model(&models.Message{}).
		Where("parent_message_id = ?", messageId).
		Count(&count).Error; err != nil {
		return models.ThreadSummary{}, err
	} else if count == 0 {
		return models.ThreadSummary{}, nil
	}

	var last models.Message
	if err := database.C.WithContext(ctx).
		Where("parent_message_id = ?", messageId).
		Order("created_at DESC").
		Order("id DESC").
		First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ThreadSummary{}, nil
		}
		return models.ThreadSummary{}, err
	}

	member, account, err := populateAuthor(ctx, last.MemberID)
	if err != nil {
		return models.ThreadSummary{}, err
	} else if member == nil {
		return models.ThreadSummary{}, nil
	}

	summary := models.ThreadSummary{
		Count:     int(count),
		Timestamp: last.CreatedAt.UnixMilli(),
	}
	if account != nil {
		summary.Image = account.Image
	}
	return summary, nil
}
