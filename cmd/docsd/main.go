package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/primex/docs-cms/handlers"
	"github.com/primex/docs-cms/internal/categories"
	"github.com/primex/docs-cms/internal/database"
	"github.com/primex/docs-cms/internal/docs"
	docsrepo "github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/search"
)

// docsd is a standalone document server for local editor development: no
// auth, every request acts as an admin. Use the full server for anything
// beyond a single-user sandbox.
func main() {
	port := os.Getenv("DOCS_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Prefer a Mongo-backed repo when MONGODB_URI is provided; fall back to
	// memory so the editor works with zero infrastructure.
	var docRepo docsrepo.Repository = docsrepo.NewMemoryRepo()
	var catRepo categories.Repository = categories.NewMemoryRepo()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repos", err)
		} else {
			db := client.Database(os.Getenv("MONGODB_DATABASE"))
			docRepo = docsrepo.NewMongoRepo(db.Collection("documents"))
			catRepo = categories.NewMongoRepo(db.Collection("categories"))
		}
	}

	idx := search.NewIndex()
	idx.Initialize(nil)
	docSvc := docs.NewService(docRepo, docs.WithPublishListener(idx))
	catSvc := categories.NewService(catRepo, docRepo)

	adminClaims := func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{
			"sub":  "local-dev",
			"name": "Local Developer",
			"role": "admin",
		})
		c.Next()
	}

	responder := handlers.Responder{Environment: "sandbox"}
	docsHandler := handlers.NewDocsHandler(docSvc, responder)
	catsHandler := handlers.NewCategoriesHandler(catSvc, responder)
	searchHandler := handlers.NewSearchHandler(idx, responder)

	api := r.Group("/api", adminClaims)
	docsHandler.Register(api)
	docsHandler.RegisterPublic(api)
	catsHandler.Register(api)
	searchHandler.Register(api)

	log.Printf("docsd listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
