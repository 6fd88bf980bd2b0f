package controller

import (
	"interview-ready-be/internal/dto"
	"interview-ready-be/internal/pkg/apperror"
	"interview-ready-be/internal/pkg/serverutils"
	"interview-ready-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SubmitAnswer(ctx *fiber.Ctx) error
	GetFeedback(ctx *fiber.Ctx) error
}

type interviewController struct {
	interviewService service.IInterviewService
	feedbackService  service.IFeedbackService
}

func NewInterviewController(
	interviewService service.IInterviewService,
	feedbackService service.IFeedbackService,
) IInterviewController {
	return &interviewController{
		interviewService: interviewService,
		feedbackService:  feedbackService,
	}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interview/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetHistory)
	h.Get(":id", c.Show)
	h.Post(":id/answer", c.SubmitAnswer)
	h.Get(":id/feedback", c.GetFeedback)
}

func (c *interviewController) Create(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interviewService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create interview", res))
}

func (c *interviewController) GetHistory(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return err
	}

	status := ctx.Query("status", "completed")
	limit := ctx.QueryInt("limit", 20)
	skip := ctx.QueryInt("skip", 0)

	res, err := c.interviewService.GetHistory(ctx.Context(), userId, status, limit, skip)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list interviews", res))
}

func (c *interviewController) Show(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.interviewService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show interview", res))
}

func (c *interviewController) SubmitAnswer(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interviewService.SubmitAnswer(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", res))
}

func (c *interviewController) GetFeedback(ctx *fiber.Ctx) error {
	userId, err := authenticatedUser(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.feedbackService.GetFeedback(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get feedback", res))
}

func authenticatedUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("missing authenticated user")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid authenticated user id")
	}
	return userId, nil
}

func parseIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid interview id")
	}
	return id, nil
}
