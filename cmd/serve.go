package cmd

import (
	"context"
	"log"
	"os"
	"time"

	"modparts/internal/core/container"
	"modparts/internal/core/routes"
	"modparts/internal/database"
	"modparts/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func serveCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(ctx)
		},
	}
}

func serve(_ context.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	dbURL := os.Getenv("DATABASE_URL")

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		return err
	}

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	appContainer := container.NewAppContainer(db)

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return router.Run(":" + port)
}
