package controller

import (
	"security-training-be/internal/dto"
	"security-training-be/internal/pkg/serverutils"
	"security-training-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWizardController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	GetScript(ctx *fiber.Ctx) error
	ExportScript(ctx *fiber.Ctx) error
	CustomizeSection(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type wizardController struct {
	service service.IWizardService
}

func NewWizardController(service service.IWizardService) IWizardController {
	return &wizardController{service: service}
}

func (c *wizardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wizard/v1")
	h.Post("/session", c.CreateSession)
	h.Post("/message", c.SendMessage)
	h.Get("/session/:id/history", c.GetHistory)
	h.Get("/session/:id/summary", c.GetSummary)
	h.Get("/session/:id/script", c.GetScript)
	h.Get("/session/:id/script/export", c.ExportScript)
	h.Post("/section/customize", c.CustomizeSection)
	h.Delete("/session/:id", c.DeleteSession)
}

func (c *wizardController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *wizardController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *wizardController) GetHistory(ctx *fiber.Ctx) error {
	res, err := c.service.GetHistory(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *wizardController) GetSummary(ctx *fiber.Ctx) error {
	res, err := c.service.GetSummary(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get summary", res))
}

func (c *wizardController) GetScript(ctx *fiber.Ctx) error {
	res, err := c.service.GetScript(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get script", res))
}

func (c *wizardController) ExportScript(ctx *fiber.Ctx) error {
	res, err := c.service.ExportScript(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export script", res))
}

func (c *wizardController) CustomizeSection(ctx *fiber.Ctx) error {
	var req dto.CustomizeSectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CustomizeSection(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success customize section", res))
}

func (c *wizardController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.service.DeleteSession(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}
