package controller

import (
	"security-training-be/internal/dto"
	"security-training-be/internal/pkg/serverutils"
	"security-training-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Count(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
}

func NewKnowledgeController(service service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{service: service}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("/documents", c.Ingest)
	h.Get("/collections/:collection/count", c.Count)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue documents", res))
}

func (c *knowledgeController) Count(ctx *fiber.Ctx) error {
	res, err := c.service.Count(ctx.Context(), ctx.Params("collection"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success count documents", res))
}
