package router

import (
	"context"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/storycircle/backend/internal/cache"
	"github.com/storycircle/backend/internal/handlers"
	"github.com/storycircle/backend/internal/mailer"
	"github.com/storycircle/backend/internal/middleware"
	"github.com/storycircle/backend/internal/models"
	"github.com/storycircle/backend/internal/repositories"
	"github.com/storycircle/backend/internal/search"
	"github.com/storycircle/backend/pkg/config"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// Dependencies carries the wired infrastructure the route tree needs.
// LikeCache may be nil and Sync may wrap a nil index; the affected handlers
// degrade rather than fail.
type Dependencies struct {
	DB        *gorm.DB
	Sync      *search.Synchronizer
	LikeCache *cache.RedisCache
	Mailer    mailer.Mailer
	Config    *config.Config
	Log       zerolog.Logger
}

// SetupRoutes migrates the schema, seeds roles, and wires every handler
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	log := deps.Log.With().Str("component", "router").Logger()

	err := deps.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Message{},
		&models.Notification{},
		&models.Post{},
		&models.Blog{},
		&models.Platform{},
	)
	if err != nil {
		return err
	}
	log.Info().Msg("auto-migrations completed")

	// --- Initialize Repositories ---
	roleRepo := repositories.NewPostgresRoleRepository(deps.DB)
	userRepo := repositories.NewPostgresUserRepository(deps.DB, deps.Config.AdminEmail)
	engagementRepo := repositories.NewPostgresEngagementRepository(deps.DB)
	followRepo := repositories.NewPostgresFollowRepository(deps.DB)
	messageRepo := repositories.NewPostgresMessageRepository(deps.DB)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.DB)
	commentRepo := repositories.NewPostgresCommentRepository(deps.DB)
	postRepo := repositories.NewContentRepository[models.Post](deps.DB, deps.Sync)
	blogRepo := repositories.NewContentRepository[models.Blog](deps.DB, deps.Sync)
	platformRepo := repositories.NewContentRepository[models.Platform](deps.DB, deps.Sync)

	if err := roleRepo.SeedRoles(context.Background()); err != nil {
		return err
	}
	log.Info().Msg("roles seeded")

	exists := targetExistenceChecks(postRepo, blogRepo, platformRepo, commentRepo)

	// Health check - always accessible
	healthHandler := handlers.NewHealthHandler(deps.Sync)
	healthHandler.RegisterHealthRoutes(e)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.Mailer, deps.Config.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	public := e.Group("/api/v1")
	contactHandler := handlers.NewContactHandler(deps.Mailer, deps.Config.AdminEmail, deps.Log)
	contactHandler.RegisterContactRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, deps.Config.PageSize)
	followHandler.RegisterFollowRoutes(api)

	likeHandler := handlers.NewLikeHandler(engagementRepo, exists, deps.LikeCache, deps.Log)
	likeHandler.RegisterLikeRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, deps.Config.PageSize)
	messageHandler.RegisterMessageRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	// Comments only attach to top-level content, not to other comments.
	parentExists := map[models.TargetKind]handlers.TargetExistsFunc{
		models.TargetPost:     exists[models.TargetPost],
		models.TargetBlog:     exists[models.TargetBlog],
		models.TargetPlatform: exists[models.TargetPlatform],
	}
	commentHandler := handlers.NewCommentHandler(commentRepo, userRepo, parentExists, deps.Config.PageSize)
	commentHandler.RegisterCommentRoutes(api)

	postHandler := handlers.NewContentHandler(
		postRepo, userRepo, "posts",
		func(req models.CreateContentRequest, userID uint) *models.Post {
			return &models.Post{UserID: userID, City: req.City, Category: req.Category, Title: req.Title, Story: req.Story, Summary: req.Summary}
		},
		applyContentUpdate(
			func(p *models.Post) *contentFields {
				return &contentFields{&p.City, &p.Category, &p.Title, &p.Story, &p.Summary}
			},
		),
		func(p *models.Post) uint { return p.UserID },
		deps.Config.PageSize,
	)
	postHandler.RegisterContentRoutes(api)

	blogHandler := handlers.NewContentHandler(
		blogRepo, userRepo, "blogs",
		func(req models.CreateContentRequest, userID uint) *models.Blog {
			return &models.Blog{UserID: userID, City: req.City, Category: req.Category, Title: req.Title, Story: req.Story, Summary: req.Summary}
		},
		applyContentUpdate(
			func(b *models.Blog) *contentFields {
				return &contentFields{&b.City, &b.Category, &b.Title, &b.Story, &b.Summary}
			},
		),
		func(b *models.Blog) uint { return b.UserID },
		deps.Config.PageSize,
	)
	blogHandler.RegisterContentRoutes(api)

	platformHandler := handlers.NewPlatformHandler(platformRepo, userRepo, deps.Config.PageSize)
	platformHandler.RegisterPlatformRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, followRepo, deps.Config.PageSize)
	feedHandler.RegisterFeedRoutes(api)

	searchHandler := handlers.NewSearchHandler(
		deps.Sync, userRepo,
		map[string]handlers.FetchByIDsFunc{
			"posts": func(ctx context.Context, ids []uint) (interface{}, error) {
				return postRepo.GetByIDs(ctx, ids)
			},
			"blogs": func(ctx context.Context, ids []uint) (interface{}, error) {
				return blogRepo.GetByIDs(ctx, ids)
			},
			"platforms": func(ctx context.Context, ids []uint) (interface{}, error) {
				return platformRepo.GetByIDs(ctx, ids)
			},
		},
		map[string]handlers.ReindexFunc{
			"posts":     postRepo.Reindex,
			"blogs":     blogRepo.Reindex,
			"platforms": platformRepo.Reindex,
		},
		deps.Config.PageSize,
		deps.Log,
	)
	searchHandler.RegisterSearchRoutes(api)

	log.Info().Msg("routes configured")
	return nil
}

// contentFields points at the fields shared by the story-shaped kinds so one
// update rule covers both.
type contentFields struct {
	city, category, title, story, summary *string
}

func applyContentUpdate[T any](fields func(*T) *contentFields) func(*T, models.UpdateContentRequest) {
	return func(entity *T, req models.UpdateContentRequest) {
		f := fields(entity)
		if req.City != "" {
			*f.city = req.City
		}
		if req.Category != "" {
			*f.category = req.Category
		}
		if req.Title != "" {
			*f.title = req.Title
		}
		if req.Story != "" {
			*f.story = req.Story
		}
		if req.Summary != "" {
			*f.summary = req.Summary
		}
	}
}

// targetExistenceChecks builds the per-kind lookups used before a like or
// comment is attached to a target.
func targetExistenceChecks(
	postRepo *repositories.ContentRepository[models.Post, *models.Post],
	blogRepo *repositories.ContentRepository[models.Blog, *models.Blog],
	platformRepo *repositories.ContentRepository[models.Platform, *models.Platform],
	commentRepo repositories.CommentRepository,
) map[models.TargetKind]handlers.TargetExistsFunc {
	commentOfKind := func(kind models.TargetKind) handlers.TargetExistsFunc {
		return func(ctx context.Context, id uint) (bool, error) {
			comment, err := commentRepo.GetCommentByID(ctx, id)
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			return comment.CommentKind() == kind, nil
		}
	}
	return map[models.TargetKind]handlers.TargetExistsFunc{
		models.TargetPost: func(ctx context.Context, id uint) (bool, error) {
			return existsByID(ctx, id, postRepo.GetByID)
		},
		models.TargetBlog: func(ctx context.Context, id uint) (bool, error) {
			return existsByID(ctx, id, blogRepo.GetByID)
		},
		models.TargetPlatform: func(ctx context.Context, id uint) (bool, error) {
			return existsByID(ctx, id, platformRepo.GetByID)
		},
		models.TargetComment:         commentOfKind(models.TargetComment),
		models.TargetBlogComment:     commentOfKind(models.TargetBlogComment),
		models.TargetPlatformComment: commentOfKind(models.TargetPlatformComment),
	}
}

func existsByID[P any](ctx context.Context, id uint, get func(context.Context, uint) (P, error)) (bool, error) {
	if _, err := get(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
