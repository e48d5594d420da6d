package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/vidgate-io/vidgate_api/docs"
	"github.com/vidgate-io/vidgate_api/services/handlers"
	"github.com/vidgate-io/vidgate_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	interactionSvc *InteractionService
	gradingSvc     *GradingService
	progressSvc    *ProgressService
	mediaSvc       *MediaService
	rateLimitSvc   *RateLimitService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.interactionSvc = svc.Service(INTERACTION_SVC).(*InteractionService)
	svc.gradingSvc = svc.Service(GRADING_SVC).(*GradingService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.errorHandler,
		BodyLimit:    2 << 30,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes(app)

	svc.server = app

	log.Printf("HTTP server listening on :%d", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	interactionHandler := handlers.NewInteractionHandler(svc.interactionSvc)
	playbackHandler := handlers.NewPlaybackHandler(svc.gradingSvc, svc.progressSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/register", svc.rateLimitSvc.Middleware("register"), authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.Middleware("login"), authHandler.Login)
	v1.Get("/interaction-types", interactionHandler.ListTypes)

	auth := v1.Group("", svc.authSvc.RequiredAuth())

	auth.Get("/videos", interactionHandler.ListVideos)
	auth.Get("/videos/:videoId", interactionHandler.GetVideo)
	auth.Get("/videos/:videoId/interactions", interactionHandler.ListForPlayback)

	auth.Get("/videos/:videoId/progress", progressHandler.Snapshot)
	auth.Post("/videos/:videoId/progress/reset", progressHandler.Reset)
	auth.Get("/videos/:videoId/can-proceed", progressHandler.CanProceed)

	auth.Post("/videos/:videoId/playback", svc.rateLimitSvc.Middleware("heartbeat"), playbackHandler.Heartbeat)
	auth.Get("/videos/:videoId/playback", playbackHandler.LastPosition)

	auth.Post("/interactions/:id/answer", svc.rateLimitSvc.Middleware("answer"), playbackHandler.SubmitAnswer)
	auth.Post("/interactions/:id/skip", playbackHandler.Skip)

	admin := auth.Group("/admin", svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Post("/videos", interactionHandler.CreateVideo)
	admin.Put("/videos/:videoId", interactionHandler.UpdateVideo)
	admin.Delete("/videos/:videoId", interactionHandler.DeleteVideo)
	admin.Post("/videos/:videoId/interactions", interactionHandler.CreateInteraction)
	admin.Get("/interactions/:id", interactionHandler.GetInteraction)
	admin.Put("/interactions/:id", interactionHandler.UpdateInteraction)
	admin.Delete("/interactions/:id", interactionHandler.DeleteInteraction)
	admin.Post("/media/upload", mediaHandler.Upload)
	admin.Post("/videos/:videoId/media", mediaHandler.Attach)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
