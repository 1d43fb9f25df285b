package router

import (
	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/internal/container"
	"github.com/oksasatya/kanban-board-api/internal/infrastructure/mongodb"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/router/modules"
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
)

// Deps holds every constructed handler so modules can be wired from one
// place.
type Deps struct {
	Users       *handlers.UserHandler
	Boards      *handlers.BoardHandler
	Columns     *handlers.ColumnHandler
	Cards       *handlers.CardHandler
	Invitations *handlers.InvitationHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongoDB()

	userRepo := mongodb.NewUserRepository(db)
	boardRepo := mongodb.NewBoardRepository(db)
	columnRepo := mongodb.NewColumnRepository(db)
	cardRepo := mongodb.NewCardRepository(db)
	invitationRepo := mongodb.NewInvitationRepository(db)

	var uploader helpers.Uploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	var queue application.EmailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		queue = pub
	}

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		uploader,
		container.GetRedis(),
		queue,
		cfg.WebsiteDomain,
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
	)
	boardSvc := application.NewBoardService(boardRepo, columnRepo, cardRepo, logger)
	columnSvc := application.NewColumnService(boardRepo, columnRepo, cardRepo, logger)
	cardSvc := application.NewCardService(columnRepo, cardRepo, userRepo, uploader, logger)
	invitationSvc := application.NewInvitationService(userRepo, boardRepo, invitationRepo, queue, cfg.WebsiteDomain, logger)

	return Deps{
		Users:       handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		Boards:      handlers.NewBoardHandler(boardSvc, logger),
		Columns:     handlers.NewColumnHandler(columnSvc, logger),
		Cards:       handlers.NewCardHandler(cardSvc, logger),
		Invitations: handlers.NewInvitationHandler(invitationSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	d := buildDeps()
	r.Add(modules.NewUserModule(d.Users))
	r.Add(modules.NewBoardModule(d.Boards))
	r.Add(modules.NewColumnModule(d.Columns))
	r.Add(modules.NewCardModule(d.Cards))
	r.Add(modules.NewInvitationModule(d.Invitations))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
