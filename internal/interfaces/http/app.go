package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/crm-motorenting/pkg/logger"
)

// MaxUploadBytes límite del cuerpo; cubre importaciones y avatares.
const MaxUploadBytes = 20 << 20

// AppConfig ajustes del servidor Fiber.
type AppConfig struct {
	Name    string
	Logger  *logger.Logger
	Metrics *Metrics // nil = sin métricas
}

// NewApp crea la aplicación Fiber con el manejo de errores y los middlewares comunes.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler,
		BodyLimit:    MaxUploadBytes,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(log.Component("http")))
	if cfg.Metrics != nil {
		app.Use(cfg.Metrics.Middleware())
	}
	return app
}
