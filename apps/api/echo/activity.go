package echoapi

import (
	"net/http"
	"net/mail"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
)

var errInvalidMode = "must be one of: full, sparse"

type activityApi struct {
	svc        activity.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerActivityAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc activity.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := activityApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/activities", jwt)
	ag.GET("", api.query)

	// detail endpoints
	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/attendance", api.attendanceReport)
	dg.POST("/attendance", api.recordAttendance, staffMiddleware())
	dg.POST("/attendance/send", api.sendReport, staffMiddleware())
}

// SendReportRequest selects the recipients of an emailed attendance report.
type SendReportRequest struct {
	Mode string   `json:"mode" validate:"omitempty,oneof=full sparse"`
	To   []string `json:"to" validate:"required,min=1,dive,email"`
}

func (r SendReportRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Handlers

func (api *activityApi) query(ctx echo.Context) error {
	acts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	return ctx.JSON(http.StatusOK, acts)
}

func (api *activityApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	act, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *activityApi) attendanceReport(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	mode, ok := activity.ParseCalendarMode(ctx.QueryParam("mode"))
	if !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "mode", Error: errInvalidMode})
	}

	report, err := api.svc.AttendanceReport(ctx.Request().Context(), id, mode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *activityApi) recordAttendance(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data activity.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.ActivityID = id
	data.RecordedBy = claimsPerson(claims)

	rec, err := api.svc.RecordAttendance(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *activityApi) sendReport(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data SendReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendReportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	mode, _ := activity.ParseCalendarMode(data.Mode)

	to := make([]mail.Address, 0, len(data.To))
	for _, addr := range data.To {
		to = append(to, mail.Address{Address: addr})
	}
	if err := api.svc.SendReport(ctx.Request().Context(), id, mode, to); err != nil {
		return errors.Wrap(err, "sending report")
	}
	return ctx.NoContent(http.StatusAccepted)
}

func pathID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, errHttpNotFound
	}
	return id, nil
}

func claimsPerson(claims *Claims) activity.Person {
	id, _ := uuid.Parse(claims.Subject)
	return activity.Person{
		ID:        id,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      activity.RoleStaff,
	}
}
