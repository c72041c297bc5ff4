package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "comanda/internal/log"
	"comanda/internal/services"
	"comanda/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	username, ok := validate.Username(body.Username)
	if !ok || !validate.Password(body.Password) {
		applog.Security(c, "auth.login.reject", map[string]any{"username": body.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	tok, u, err := h.Auth.Login(username, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"token": tok, "user": u})
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Auth.ListUsers()
	if err != nil {
		return fail(c, "users.list", err)
	}
	return c.JSON(users)
}

func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed body")
	}
	u, err := h.Auth.CreateUser(in)
	if err != nil {
		return fail(c, "users.create", err)
	}
	applog.Audit(c, "users.create", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var in services.UpdateUserInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed body")
	}
	if in.Password != "" && !validate.Password(in.Password) {
		return badRequest(c, "password must be 8-64 characters")
	}
	u, err := h.Auth.UpdateUser(id, in)
	if err != nil {
		return fail(c, "users.update", err)
	}
	applog.Audit(c, "users.update", map[string]any{"user_id": u.ID, "role": u.Role})
	return c.JSON(u)
}

func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	if err := h.Auth.DeleteUser(id); err != nil {
		return fail(c, "users.delete", err)
	}
	applog.Audit(c, "users.delete", map[string]any{"user_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
