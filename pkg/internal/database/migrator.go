package database

import (
	"git.solsynth.dev/hypernet/chat/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Workspace{},
	&models.Member{},
	&models.Channel{},
	&models.Conversation{},
	&models.Message{},
	&models.Reaction{},
}

// SoftDeleteRange is the part of AutoMaintainRange that carries deleted_at.
var SoftDeleteRange = []any{
	&models.Account{},
	&models.Workspace{},
	&models.Channel{},
	&models.Conversation{},
	&models.Message{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
