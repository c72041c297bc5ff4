package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "comanda/internal/log"
	"comanda/internal/services"
	"comanda/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.Products.List()
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(out)
}

func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	out, err := h.Products.ListByCategory(c.Params("category"))
	if err != nil {
		return fail(c, "products.by_category", err)
	}
	return c.JSON(out)
}

func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.Products.LowStock()
	if err != nil {
		return fail(c, "products.low_stock", err)
	}
	return c.JSON(out)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed body")
	}
	p, err := h.Products.Create(in)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed body")
	}
	p, err := h.Products.Update(id, in)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.Products.Delete(id); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
