package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeSuccess(w http.ResponseWriter, status int, message string, data any, meta *model.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error. Please try again."
	var fieldErrors []string

	var apiErr *apierror.APIError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
		if apiErr.Details != "" && status >= 500 {
			slog.Error("internal error", "error", apiErr.Details)
		}
	case errors.As(err, &validationErrs):
		status = http.StatusBadRequest
		message = "Validation failed"
		fieldErrors = translateValidation(validationErrs)
	default:
		// Unclassified errors stay generic for the client but land in logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}

// decodeAndValidate parses the JSON body into dst and runs the struct's
// validate tags. The returned error is ready for writeError.
func decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("Invalid JSON body")
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validationErrs
		}
		return apierror.BadRequest("Invalid request body")
	}

	return nil
}

func translateValidation(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			out = append(out, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}
