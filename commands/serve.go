package commands

import (
	"context"
	"strings"
	"time"

	"skinviz/cache"
	"skinviz/config"
	"skinviz/db"
	"skinviz/faces"
	"skinviz/handlers"
	"skinviz/logger"
	"skinviz/models"
	"skinviz/processing"
	"skinviz/storage"
	"skinviz/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if err := validate(); err != nil {
		return err
	}
	if err := db.Init(config.MYSQL_DSN, config.SQLITE_FILE); err != nil {
		return err
	}
	if err := models.Init(); err != nil {
		return err
	}
	if err := storage.Init(); err != nil {
		return err
	}
	detector, closeDetector, err := newDetector(backend)
	if err != nil {
		return err
	}
	defer closeDetector()

	rc := cache.New(config.REDIS_ADDR, config.REDIS_PASSWORD)
	if m, ok := rc.(*cache.Memory); ok {
		go purgeLoop(ctx, m, time.Minute)
	}
	handlers.Init(processing.NewCompositor(faces.NewAdapter(detector)), rc)

	router := newRouter()
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	logger.Error(logger.Fields{"error": err}, "Server stopped")
	return err
}

func purgeLoop(ctx context.Context, m *cache.Memory, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Purge()
		}
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		// JPEGs don't compress
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{"/overlay/", "/composite$"})))
	}
	router.Use(utils.CacheControl(utils.CacheNoCache)) // image end-points override this

	router.GET("/api/health", handlers.Health)
	router.POST("/api/visualize", handlers.Visualize)
	router.GET("/api/result/:id", handlers.ResultGet)
	router.DELETE("/api/result/:id", handlers.ResultDelete)
	router.GET("/api/result/:id/overlay/:concern", handlers.OverlayFetch)
	router.GET("/api/result/:id/composite", handlers.CompositeFetch)
	return router
}
