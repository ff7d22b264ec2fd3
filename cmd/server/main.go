package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clanci-blog/internal/config"
	"clanci-blog/internal/controllers"
	"clanci-blog/internal/db"
	"clanci-blog/internal/logger"
	"clanci-blog/internal/media"
	"clanci-blog/internal/middleware"
	"clanci-blog/internal/redis"
	"clanci-blog/internal/repository"
	"clanci-blog/internal/services"
	"clanci-blog/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Init(cfg.Database, lg)
	if err != nil {
		return err
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var limiter services.AttemptLimiter
	if cfg.Verification.MaxAttempts > 0 {
		rdb, err := redis.Init(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = redis.NewAttemptLimiter(rdb, "verify", cfg.Verification.MaxAttempts, cfg.Verification.AttemptWindow)
	}

	images, err := media.NewStore(ctx, cfg.Media, lg)
	if err != nil {
		return err
	}
	mailer := utils.NewSMTPClient(cfg.SMTP, lg)

	accountRepo := repository.NewAccountRepository(dbConn, lg)
	postRepo := repository.NewPostRepository(dbConn, lg)

	accounts := services.NewAccountService(accountRepo, mailer, limiter, cfg.Verification.CodeTTL, lg)
	posts := services.NewPostService(postRepo, accountRepo, images, lg)
	profiles := services.NewProfileService(accountRepo, images, lg)

	if err := controllers.RegisterValidators(); err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(lg))
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	registerRoutes(r, cfg,
		controllers.NewAuthController(accounts, cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, lg),
		controllers.NewPostController(posts, cfg.Server.MaxUploadBytes, lg),
		controllers.NewProfileController(profiles, cfg.Server.MaxUploadBytes, lg),
	)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func registerRoutes(r *gin.Engine, cfg *config.Config, auth *controllers.AuthController, posts *controllers.PostController, profile *controllers.ProfileController) {
	requireAuth := middleware.JWTMiddleware(cfg.JWT.Secret)

	api := r.Group("/api")
	{
		api.POST("/sign-up", auth.SignUp)
		api.POST("/register", auth.SignUp)
		api.POST("/verify-code", auth.VerifyCode)
		api.POST("/verify", auth.VerifyCode)
		api.POST("/login", auth.Login)

		api.GET("/posts", posts.List)
		api.GET("/users/:username/posts/:slug", posts.Get)
		api.GET("/users/:username/posts/:slug/comments", posts.Comments)
	}

	protected := r.Group("/api", requireAuth)
	{
		protected.GET("/me", auth.Me)

		protected.POST("/posts", posts.Create)
		protected.PATCH("/users/:username/posts/:slug", posts.Update)
		protected.DELETE("/users/:username/posts/:slug", posts.Delete)
		protected.POST("/users/:username/posts/:slug/comments", posts.AddComment)
		protected.PATCH("/users/:username/posts/:slug/comments/:commentId", posts.UpdateComment)
		protected.DELETE("/users/:username/posts/:slug/comments/:commentId", posts.DeleteComment)
		protected.PATCH("/users/:username/posts/:slug/like", posts.ToggleLike)

		protected.PATCH("/profile/bio", profile.UpdateBio)
		protected.PATCH("/profile/name", profile.UpdateName)
		protected.DELETE("/profile/name", profile.DeleteName)
		protected.PATCH("/profile/interest", profile.AddInterests)
		protected.DELETE("/profile/interest", profile.ClearInterests)
		protected.PATCH("/profile/picture", profile.UpdatePicture)
		protected.DELETE("/profile/picture", profile.DeletePicture)
	}
}
