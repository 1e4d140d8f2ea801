// Package web provides HTTP handlers and REST API endpoints for the newsdesk API.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/create-newspulse/newsdesk/pkg/auth"
	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/create-newspulse/newsdesk/pkg/services"
	"github.com/create-newspulse/newsdesk/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	storyService     *services.Story
	workflowService  *services.Workflow
	checklistService *services.Checklist
	validator        *validator.Validate
}

func NewAPIHandlers(
	storyService *services.Story,
	workflowService *services.Workflow,
	checklistService *services.Checklist,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		storyService:     storyService,
		workflowService:  workflowService,
		checklistService: checklistService,
		validator:        validator,
	}
}

func (h *APIHandlers) GetStories(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanView(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not view stories")
	}

	req, err := h.parseListStoriesRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.storyService.List(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"stories":       result.Stories,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListStoriesRequest parses and validates query parameters for listing stories.
func (h *APIHandlers) parseListStoriesRequest(c fiber.Ctx) (*services.ListStoriesRequest, error) {
	req := &services.ListStoriesRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.Author = c.Query("author")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.StoryStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetStory(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanView(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not view stories")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	story, err := h.storyService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsStoryNotFound(err) {
			return notFound(c, "story not found")
		}

		return internalError(c, err)
	}

	return c.JSON(story)
}

func (h *APIHandlers) CreateStory(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanView(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not create stories")
	}

	var req CreateStoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	story := &models.Story{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Tags:     req.Tags,
		Author:   actor.ID,
	}

	created, err := h.storyService.Create(c.Context(), story)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteStory(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanDelete(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not delete stories")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	if err := h.storyService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflowState(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanView(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not view stories")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	state, err := h.workflowService.State(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(state)
}

func (h *APIHandlers) GetApprovals(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanView(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not view stories")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	approvals, err := h.workflowService.Approvals(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"approvals": approvals})
}

func (h *APIHandlers) PatchChecklist(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	if !auth.CanEditChecklist(actor.Role) {
		return forbidden(c, "role "+string(actor.Role)+" may not edit the checklist")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	var patch ChecklistPatchRequest
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if len(patch) == 0 {
		return badRequest(c, "Checklist patch is empty")
	}

	checklist, err := h.checklistService.Merge(c.Context(), id, patch)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(checklist)
}

func (h *APIHandlers) Transition(c fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return forbidden(c, "no authenticated actor")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	var req TransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	// Unknown actions fall through so the engine can report them as 400.
	action := workflow.Action(req.Action)
	if _, known := workflow.AllowedRoles(action); known && !auth.CanTransition(actor.Role, action) {
		return forbidden(c, "role "+string(actor.Role)+" may not request "+req.Action)
	}

	story, err := h.workflowService.Transition(c.Context(), id, workflow.Request{
		Action: action,
		Actor:  actor,
		When:   req.When,
		Note:   req.Note,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(story)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.storyService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Newsdesk API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Newsdesk API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
