package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assess"
	"github.com/trezcool/darasa/core/user"
)

type assessApi struct {
	svc    *assess.Service
	usrSvc *user.Service
}

func registerAssessAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assess.Service, usrSvc *user.Service) {
	api := assessApi{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.createAssignment, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	ag.GET("/mine", api.myAssignments, roleMiddleware(user.RoleStudent))
	ag.GET("/:id", api.retrieveAssignment)
	ag.POST("/:id/answer", api.answerAssignment, roleMiddleware(user.RoleStudent))

	eg := g.Group("/exams", jwt)
	eg.POST("", api.createExam, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	eg.GET("", api.queryExams)
	eg.GET("/:id", api.retrieveExam)
	eg.POST("/:id/answer", api.answerExam, roleMiddleware(user.RoleStudent))
	eg.PATCH("/:id/approve", api.approveExam, adminMiddleware())
	eg.PATCH("/:id/available", api.setExamAvailable, adminMiddleware())
}

// Assignment handlers

func (api *assessApi) createAssignment(ctx echo.Context) error {
	var data assess.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	asg, err := api.svc.CreateAssignment(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

// myAssignments lists the assignments targeting the calling student's class.
func (api *assessApi) myAssignments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.AssignmentsForStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assessApi) retrieveAssignment(ctx echo.Context) error {
	resp, err := api.svc.Assignment(ctx.Param("id")).Response(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "finding assignment")
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *assessApi) answerAssignment(ctx echo.Context) error {
	return api.answer(ctx, user.KindAssignment)
}

func (api *assessApi) answerExam(ctx echo.Context) error {
	return api.answer(ctx, user.KindExam)
}

// answer records a one-time submission: answers are first matched to the
// item's question order, then appended to the student's history. A second
// submission for the same item fails.
func (api *assessApi) answer(ctx echo.Context, kind string) error {
	var data assess.SubmitAnswers
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAnswers")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	id := ctx.Param("id")

	var checked []user.Answer
	var err error
	if kind == user.KindExam {
		checked, err = api.svc.Exam(id).CheckAnswer(rctx, data.Answers)
	} else {
		checked, err = api.svc.Assignment(id).CheckAnswer(rctx, data.Answers)
	}
	if err != nil {
		return errors.Wrap(err, "checking answers")
	}

	res, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err = api.usrSvc.RecordAnswer(rctx, res, kind, id, checked); err != nil {
		return errors.Wrap(err, "recording answers")
	}
	return ctx.JSON(http.StatusNonAuthoritativeInfo, AnswersResponse{Answers: checked})
}

// Exam handlers

func (api *assessApi) createExam(ctx echo.Context) error {
	var data assess.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exam, err := api.svc.CreateExam(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return ctx.JSON(http.StatusCreated, exam)
}

// queryExams searches exams. Non-admin callers only ever see available exams;
// admins may filter on approved/available freely.
func (api *assessApi) queryExams(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	privileged := claims.Role == user.RoleAdmin

	var filter assess.ExamFilter
	filter.Subject = core.CleanString(ctx.QueryParam("subject"), true /* lower */)
	if v := ctx.QueryParam("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return core.NewBadRequestError("invalid month value")
		}
		filter.ForMonth = &month
	}
	if v := ctx.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return core.NewBadRequestError("invalid year value")
		}
		filter.SchoolYear = &year
	}
	if privileged {
		if v := ctx.QueryParam("approved"); v != "" {
			approved, err := strconv.ParseBool(v)
			if err != nil {
				return core.NewBadRequestError("invalid approved value")
			}
			filter.Approved = &approved
		}
		if v := ctx.QueryParam("available"); v != "" {
			available, err := strconv.ParseBool(v)
			if err != nil {
				return core.NewBadRequestError("invalid available value")
			}
			filter.Available = &available
		}
	} else {
		available := true
		filter.Available = &available
	}

	items, err := api.svc.GetExams(ctx.Request().Context(), filter, privileged)
	if err != nil {
		return errors.Wrap(err, "searching exams")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *assessApi) retrieveExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	resp, err := api.svc.Exam(ctx.Param("id")).Response(ctx.Request().Context(), claims.Role == user.RoleAdmin)
	if err != nil {
		return errors.Wrap(err, "finding exam")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// approveExam turns the approval flag on; `?reject=true` deletes the exam
// instead.
func (api *assessApi) approveExam(ctx echo.Context) error {
	h := api.svc.Exam(ctx.Param("id"))
	rctx := ctx.Request().Context()

	if ctx.QueryParam("reject") == "true" {
		if err := h.Delete(rctx); err != nil {
			return errors.Wrap(err, "rejecting exam")
		}
		return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "exam rejected"})
	}

	if err := h.Approve(rctx); err != nil {
		return errors.Wrap(err, "approving exam")
	}
	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "exam approved"})
}

func (api *assessApi) setExamAvailable(ctx echo.Context) error {
	available, err := strconv.ParseBool(ctx.QueryParam("available"))
	if err != nil {
		return core.NewBadRequestError("invalid available value")
	}
	if err = api.svc.Exam(ctx.Param("id")).SetAvailable(ctx.Request().Context(), available); err != nil {
		return errors.Wrap(err, "updating exam availability")
	}
	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "exam availability updated"})
}
