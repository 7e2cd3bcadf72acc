package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/roster"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, staff echo.MiddlewareFunc, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	ag := g.Group("/assignments")
	ag.GET("", api.query)
	ag.POST("", api.create, staff)
	ag.PUT("/:id", api.update, staff)
	ag.DELETE("/:id", api.destroy, staff)
	ag.POST("/:id/submit", api.submit, roleMiddleware(roster.RoleStudent))
	ag.PUT("/:id/submissions/:studentId/grade", api.grade, staff)
	ag.GET("/:id/candidate-view", api.candidateView)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	filter := new(assignment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonOK(ctx, []assignment.Assignment{})
	}
	filter.Clean()

	assignments, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering assignments")
	}
	return jsonOK(ctx, assignments)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	// a teacher creates on their own behalf
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.IsTeacher() {
		data.TeacherID = claims.Subject
		if data.TeacherName == "" {
			data.TeacherName = claims.Name
		}
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return jsonData(ctx, http.StatusCreated, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return jsonOK(ctx, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	a, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return jsonOK(ctx, a)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	// a student only ever submits as themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.StudentID = claims.Subject
	if data.StudentName == "" {
		data.StudentName = claims.Name
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return jsonData(ctx, http.StatusCreated, a)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	var data assignment.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Grade(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentId"), data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return jsonOK(ctx, a)
}

func (api *assignmentApi) candidateView(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID := ctx.QueryParam("studentId")
	if claims.IsStudent() || studentID == "" {
		studentID = claims.Subject
	}

	a, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting assignment")
	}
	return jsonOK(ctx, assignment.NewCandidateView(a, studentID, time.Now().UTC()))
}
