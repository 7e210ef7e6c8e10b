package httptransport

import (
	"fmt"

	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/config"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wraps the Fiber application with the middleware stack.
type Server struct {
	App *fiber.App
	cfg *config.AppConfig
}

func NewServer(cfg *config.AppConfig, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "order-workflow",
	})

	app.Use(requestid.New())

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger,
	}))

	// Request-scoped logger for the application layer.
	app.Use(func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		reqLogger := logger.With(zap.String("request_id", rid))
		c.SetUserContext(logging.ContextWithLogger(c.UserContext(), reqLogger))
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return &Server{App: app, cfg: cfg}
}

// Listen starts serving on the configured port; it blocks until shutdown.
func (s *Server) Listen() error {
	return s.App.Listen(fmt.Sprintf(":%d", s.cfg.ServerPort))
}
