package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "comanda/internal/log"
	"comanda/internal/services"
	"comanda/internal/validate"
)

type SaleHandler struct {
	Sales *services.SaleService
}

func (h *SaleHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var in services.CreateSaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed body")
	}
	sale, err := h.Sales.Create(u.ID, in)
	if err != nil {
		return fail(c, "sales.create", err)
	}
	applog.Audit(c, "sales.create", map[string]any{"sale_id": sale.ID, "table_id": sale.TableID, "total": sale.Total.String()})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	sale, err := h.Sales.Get(id)
	if err != nil {
		return fail(c, "sales.get", err)
	}
	return c.JSON(sale)
}

func (h *SaleHandler) AddProducts(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	var body struct {
		Lines []services.LineRequest `json:"lines"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	sale, err := h.Sales.AddProducts(id, body.Lines)
	if err != nil {
		return fail(c, "sales.add_products", err)
	}
	applog.Audit(c, "sales.add_products", map[string]any{"sale_id": id, "total": sale.Total.String()})
	return c.JSON(sale)
}

func (h *SaleHandler) RemoveProductUnit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	sale, err := h.Sales.RemoveProductUnit(id, productID)
	if err != nil {
		return fail(c, "sales.remove_unit", err)
	}
	applog.Audit(c, "sales.remove_unit", map[string]any{"sale_id": id, "product_id": productID})
	return c.JSON(sale)
}

func (h *SaleHandler) UpdateDiscountAndNote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	var body struct {
		Discount *decimal.Decimal `json:"discount"`
		Note     string           `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	sale, err := h.Sales.UpdateDiscountAndNote(id, body.Discount, body.Note)
	if err != nil {
		return fail(c, "sales.update", err)
	}
	applog.Audit(c, "sales.update", map[string]any{"sale_id": id, "total": sale.Total.String()})
	return c.JSON(sale)
}

func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	sale, err := h.Sales.Complete(id)
	if err != nil {
		return fail(c, "sales.complete", err)
	}
	applog.Audit(c, "sales.complete", map[string]any{"sale_id": id, "total": sale.Total.String()})
	return c.JSON(sale)
}

// ListByDateRange is the admin view over all sales in a window.
func (h *SaleHandler) ListByDateRange(c *fiber.Ctx) error {
	start, end, ok := validate.DateRange(c.Query("start"), c.Query("end"))
	if !ok {
		return badRequest(c, "start and end must be RFC3339 timestamps, start <= end")
	}
	out, err := h.Sales.ListByDateRange(start, end)
	if err != nil {
		return fail(c, "sales.list", err)
	}
	return c.JSON(out)
}

// ListMine returns the calling user's sales in a window.
func (h *SaleHandler) ListMine(c *fiber.Ctx) error {
	u := currentUser(c)
	start, end, ok := validate.DateRange(c.Query("start"), c.Query("end"))
	if !ok {
		return badRequest(c, "start and end must be RFC3339 timestamps, start <= end")
	}
	out, err := h.Sales.ListByUserAndDateRange(u.ID, start, end)
	if err != nil {
		return fail(c, "sales.mine", err)
	}
	return c.JSON(out)
}
