package handlers

import (
	"github.com/gofiber/fiber/v2"

	"comanda/internal/apperr"
	applog "comanda/internal/log"
)

// fail maps business error kinds onto HTTP statuses. Anything without
// a kind is an internal failure and gets logged with its cause; the
// client only sees a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindInvalid:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case apperr.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case apperr.KindConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
