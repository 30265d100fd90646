package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"tasknest/config"
	"tasknest/handler"
	"tasknest/middleware"
	"tasknest/remote"
	"tasknest/repository"
	"tasknest/usecase"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "tasknest",
	Short: "Personal task manager data layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tasknest " + version)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe() error {
	// Load environment variables from .env file when present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	router := setupRouter(backend)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server starting on %s", serverAddr)
	return router.Run(serverAddr)
}

// newBackend picks the backend once per process: the store-backed service by
// default, the remote gateway when a remote URL is configured. Everything
// downstream holds only the usecase.Backend contract.
func newBackend(cfg config.Config) (usecase.Backend, error) {
	if cfg.RemoteURL == "" {
		db, err := repository.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return usecase.NewTaskService(context.Background(), repository.NewStore(db))
	}

	var cache remote.SnapshotStore = remote.NewMemorySnapshotStore()
	if cfg.RedisURL != "" {
		redisCache, err := remote.NewRedisSnapshotStore(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache = redisCache
	}

	return remote.NewGateway(remote.GatewayConfig{
		BaseURL: cfg.RemoteURL,
		Client:  &http.Client{Timeout: cfg.RemoteTimeout},
		Cache:   cache,
		Retry: remote.RetryOptions{
			MaxAttempts:   cfg.RetryMaxAttempts,
			InitialDelay:  cfg.RetryInitialDelay,
			MaxDelay:      cfg.RetryMaxDelay,
			BackoffFactor: cfg.RetryBackoffFactor,
		},
	}), nil
}

func setupRouter(backend usecase.Backend) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	taskHandler := handler.NewTaskHandler(backend)
	viewHandler := handler.NewViewHandler(backend)
	listHandler := handler.NewListHandler(backend)
	statsHandler := handler.NewStatsHandler(backend)

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		reads := api.Group("")
		reads.Use(middleware.CacheControlMiddleware("5"))
		{
			reads.GET("/views", viewHandler.ListViews)
			reads.GET("/tasks", taskHandler.ListTasks)
			reads.GET("/lists", listHandler.ListLists)
			reads.GET("/lists/:id", listHandler.GetList)
			reads.GET("/stats", statsHandler.GetStats)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/reorder", taskHandler.ReorderTasks)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		api.POST("/areas", listHandler.AddArea)
		api.POST("/projects", listHandler.AddProject)

		lists := api.Group("/lists/:id")
		{
			lists.POST("/sections", listHandler.AddSection)
			lists.PATCH("/sections/:sectionId", listHandler.UpdateSection)
			lists.DELETE("/sections/:sectionId", listHandler.DeleteSection)
			lists.POST("/journal", listHandler.AddJournalEntry)
			lists.DELETE("/journal/:entryId", listHandler.DeleteJournalEntry)
		}
	}

	return router
}
