package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brightwood/attendance-api/models"
)

var validate = validator.New()

// writeError maps the domain error taxonomy onto HTTP responses. Everything
// is per-operation and recoverable; nothing here aborts the process.
func writeError(c echo.Context, err error) error {
	var (
		vErr *models.ValidationError
		nErr *models.NotFoundError
		cErr *models.ConflictError
		bErr *models.BusyError
		sErr *models.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		body := map[string]any{"error": "VALIDATION_ERROR", "message": vErr.Message}
		if len(vErr.Fields) > 0 {
			body["fields"] = vErr.Fields
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nErr):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": nErr.Error()})
	case errors.As(err, &cErr):
		return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE_RECORD", "message": cErr.Error()})
	case errors.As(err, &bErr):
		return c.JSON(http.StatusConflict, map[string]any{"error": "SAVE_IN_PROGRESS", "message": bErr.Error()})
	case errors.As(err, &sErr):
		c.Logger().Errorf("store failure: %v", sErr)
		return c.JSON(http.StatusBadGateway, map[string]any{"error": "STORE_ERROR"})
	default:
		c.Logger().Errorf("unexpected error: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL_ERROR"})
	}
}

// bindAndValidate decodes the JSON body and runs validator tags over it,
// folding failures into the domain's ValidationError.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return models.NewValidationError("invalid payload")
	}
	if err := validate.Struct(dst); err != nil {
		fields := map[string]string{}
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, fe := range vErrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return &models.ValidationError{Message: "invalid payload", Fields: fields}
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
