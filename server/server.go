// Package server exposes the reading-list engine and the book catalog over
// HTTP. Every route wraps exactly one engine or catalog operation; the engine
// itself knows nothing about the transport.
package server

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"booktracker/library"
)

// Server wires the Fiber app, the catalog database, and the per-user
// reading-list engine together.
type Server struct {
	cfg      Config
	app      *fiber.App
	db       *library.Database
	lists    *library.ReadingLists
	validate *validator.Validate
	revoked  *revokedTokens
}

// New builds the HTTP server on top of an open database.
func New(cfg Config, db *library.Database) *Server {
	s := &Server{
		cfg:      cfg,
		db:       db,
		lists:    library.NewReadingLists(db),
		validate: validator.New(),
		revoked:  newRevokedTokens(),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger())

	s.registerRoutes()
	return s
}

// Listen serves HTTP on the configured address until Shutdown.
func (s *Server) Listen() error { return s.app.Listen(s.cfg.Addr) }

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error { return s.app.ShutdownWithTimeout(5 * time.Second) }

// bind parses the JSON body into req and validates the required fields.
func (s *Server) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// mapError classifies a handler error into a status code and client message.
// Engine and catalog failures are deterministic and non-retryable, so nothing
// ever retries; unrecognized errors become a bare 500.
func mapError(err error) (int, string) {
	var fe *fiber.Error
	var verr *library.ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Error()
	case errors.Is(err, library.ErrInvalidSelection),
		errors.Is(err, library.ErrEmptyList):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, library.ErrBookNotFound),
		errors.Is(err, library.ErrUserNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, library.ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	}
	return fiber.StatusInternalServerError, "an internal error occurred"
}

// errorHandler renders the common error envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, msg := mapError(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": msg})
}
