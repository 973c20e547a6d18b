package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"task-api/internal/config"
	v1 "task-api/internal/delivery/http/v1"
	"task-api/internal/repository"
	"task-api/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	userStore := repository.NewUserStore(globalLogger, globalPostgresPool)
	taskStore := repository.NewTaskStore(globalLogger, globalPostgresPool)

	tokenService := services.NewTokenService(
		globalLogger,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.TokenTTL,
	)
	authService := services.NewAuthService(globalLogger, userStore, tokenService)
	taskService := services.NewTaskService(globalLogger, userStore, taskStore)

	handler := v1.New(globalLogger, authService, taskService)

	api := router.Group("/api")

	authRouter := api.Group("/auth")
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/login", handler.HandleLogin)

	taskRouter := api.Group("/tasks", handler.HandleAuthMiddleware)
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("", handler.HandleListTasks)
	taskRouter.GET("/:id", handler.HandleGetTask)
	taskRouter.PUT("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleDeleteTask)

	userRouter := api.Group("/users", handler.HandleAuthMiddleware)
	userRouter.GET("/me", handler.HandleGetCurrentUser)
}
