package handlers

import (
	"github.com/gofiber/fiber/v2"

	"comanda/internal/domain"
	applog "comanda/internal/log"
	"comanda/internal/services"
	"comanda/internal/validate"
)

type TableHandler struct {
	Tables *services.TableService
}

func (h *TableHandler) List(c *fiber.Ctx) error {
	out, err := h.Tables.List()
	if err != nil {
		return fail(c, "tables.list", err)
	}
	return c.JSON(out)
}

func (h *TableHandler) ListFree(c *fiber.Ctx) error {
	out, err := h.Tables.ListFree()
	if err != nil {
		return fail(c, "tables.free", err)
	}
	return c.JSON(out)
}

func (h *TableHandler) Create(c *fiber.Ctx) error {
	var body struct {
		Label string `json:"label"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	label, ok := validate.Label(body.Label)
	if !ok {
		return badRequest(c, "label must be 1-30 characters")
	}
	t, err := h.Tables.Create(label)
	if err != nil {
		return fail(c, "tables.create", err)
	}
	applog.Audit(c, "tables.create", map[string]any{"table_id": t.ID})
	return c.Status(fiber.StatusCreated).JSON(t)
}

// SetStatus is the administrative occupancy override; normal occupancy
// changes come from the sale lifecycle.
func (h *TableHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid table id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	t, err := h.Tables.SetStatus(id, domain.TableStatus(body.Status))
	if err != nil {
		return fail(c, "tables.status", err)
	}
	applog.Audit(c, "tables.status", map[string]any{"table_id": id, "status": body.Status})
	return c.JSON(t)
}

func (h *TableHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid table id")
	}
	if err := h.Tables.Delete(id); err != nil {
		return fail(c, "tables.delete", err)
	}
	applog.Audit(c, "tables.delete", map[string]any{"table_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
