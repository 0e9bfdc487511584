// Package app wires the product service dependencies together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/artztall/product_service/internal/config"
	"github.com/artztall/product_service/internal/service"
	"github.com/artztall/product_service/internal/store"
	"github.com/artztall/product_service/internal/transport/rest"
	"github.com/artztall/product_service/pkg/messaging"
	"github.com/artztall/product_service/pkg/server"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds the shared application dependencies.
type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
}

// SetupDependencies builds the store and service layers on top of the Mongo database.
func SetupDependencies(db *mongo.Database, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	productStore := store.NewMongoStore(db)
	productService := service.NewService(productStore, publisher)
	return &Dependencies{
		ProductService: productService,
		Logger:         logger,
	}
}

// SetupHttpHandler builds the chi router with all product routes registered.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	router := server.NewChiRouter(deps.Logger)
	handler := rest.NewHandler(deps.ProductService, deps.Logger)
	handler.RegisterRoutes(router)
	return router
}

// SetupHttpServer builds the HTTP server for the product API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}, SetupHttpHandler(deps))
}
