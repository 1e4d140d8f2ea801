package web

import (
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/create-newspulse/newsdesk/pkg/services"
	"github.com/create-newspulse/newsdesk/pkg/workflow"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func forbidden(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(403).
		WithInstance(c.Path()).
		WithType("insufficient_role").
		WithDetail(detail)

	return c.Status(fiber.StatusForbidden).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("story_not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps workflow and service errors onto problem responses:
// guard refusals are 403, missing stories 404, guard preconditions that depend
// on state (checklist, status) are 409, and malformed input is 400.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case workflow.IsInsufficientRole(err):
		return forbidden(c, err.Error())

	case persistence.IsStoryNotFound(err):
		return notFound(c, "story not found")

	case workflow.IsChecklistIncomplete(err), workflow.IsInvalidTransition(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("transition_blocked").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case workflow.IsUnknownAction(err), services.IsValidationError(err):
		return badRequest(c, err.Error())

	default:
		return internalError(c, err)
	}
}
