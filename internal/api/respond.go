package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	apperrors "fleetbook/internal/errors"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps any error onto the API error envelope. Unknown errors
// become storage failures; those and only those are logged with their cause.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.As(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logrus.WithError(appErr.Err).Error(appErr.Message)
	}
	writeJSON(w, appErr.HTTPStatus, appErr)
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, translating both failure modes to INVALID_INPUT.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}
