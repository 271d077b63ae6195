package message

import (
	"database/sql"

	"go.uber.org/zap"

	"samovar/internal/message/controller"
	"samovar/internal/message/repository"
)

func NewModule(db *sql.DB, publisher controller.EventPublisher, logger *zap.Logger) *controller.MessageController {
	repo := repository.NewMySQLMessageRepository(db)
	return controller.NewMessageController(repo, publisher, logger)
}
