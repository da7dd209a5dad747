package restserver

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/polarviz/icesheet/internal/log"
	"github.com/polarviz/icesheet/pkg/config"
	"github.com/polarviz/icesheet/pkg/icesheet"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	restConfig     config.RESTServerData
	Server         http.Server
	FS             *fs.FS
	Engine         *icesheet.Engine
	Counters       *Counters
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, rc config.RESTServerData, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		restConfig:     rc,
		logger:         logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if ctrl.restConfig.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.restConfig.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if ctrl.restConfig.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		ctrl.restConfig.Port = 8080
	}

	if ctrl.restConfig.Site.PageTitle == "" {
		ctrl.restConfig.Site.PageTitle = "Ice Sheet Melt Visualization"
	}

	// Request counters back the health endpoint and feed the engine's
	// observability hook
	ctrl.Counters = NewCounters()
	ctrl.Engine = icesheet.NewEngine(ctrl.Counters, logger)

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	// Set up embedded filesystem for assets
	assetsFS := GetAssets()
	ctrl.FS = &assetsFS

	// Set up router
	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.restConfig.ListenAddr, ctrl.restConfig.Port)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("REST server starting on %s", c.Server.Addr)

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(c.loggingMiddleware)
	router.Use(c.corsMiddleware) // CORS is always enabled

	// API endpoints
	router.HandleFunc("/api/icesheet", c.handlers.GetAPIInfo).Methods("GET")
	router.HandleFunc("/api/icesheet/health", c.handlers.GetHealth).Methods("GET")
	router.HandleFunc("/api/icesheet/{iceSheet}/details", c.handlers.GetDetails).Methods("GET")
	router.HandleFunc("/api/icesheet/{iceSheet}/visualization", c.handlers.GetVisualization).Methods("GET")

	// Template endpoints
	router.HandleFunc("/", c.handlers.ServeIndexTemplate).Methods("GET")

	// Static file serving, gzip-compressed where the client accepts it
	router.PathPrefix("/").Handler(handlers.CompressHandler(http.FileServer(http.FS(*c.FS))))

	return router
}

// loggingMiddleware tags each request with an ID and logs it on completion
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		metrics := httpsnoop.CaptureMetrics(next, w, r)

		c.logger.Infof("%s %s %s %d %dB %v request_id=%s",
			r.Method, r.RequestURI, r.RemoteAddr,
			metrics.Code, metrics.Written, metrics.Duration.Round(time.Microsecond),
			requestID)
	})
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
