package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/logger"
	"github.com/porticus-lab/bionic-api/internal/metrics"
)

// errorHandler renders every handler error as {"error": message} with the
// status of its kind. fiber's own errors (404, 413, ...) keep their code.
func errorHandler(c *fiber.Ctx, err error) error {
	status := apperr.KindOf(err).Status()
	msg := logger.RedactSensitiveData(apperr.Message(err))

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}

	if status >= fiber.StatusInternalServerError {
		logger.ErrorContext(c.UserContext(), "request failed",
			"route", c.Path(),
			"request_id", requestID(c),
			logger.Err(err),
		)
	} else {
		logger.WarnContext(c.UserContext(), "request rejected",
			"route", c.Path(),
			"status", status,
			"request_id", requestID(c),
			"error", msg,
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// accessLog resolves handler errors, then logs and records each request.
func accessLog(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		took := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		// fiber strings alias the reused request buffer; labels outlive it.
		method := utils.CopyString(c.Method())

		m.ObserveRequest(route, method, status, took)
		logger.InfoContext(c.UserContext(), "request",
			"method", method,
			"route", route,
			"status", status,
			"took", took,
			"request_id", requestID(c),
		)
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
