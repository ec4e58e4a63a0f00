package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"farmacia-compras/counteroffer"
	"farmacia-compras/logger"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
	"farmacia-compras/service"
	"farmacia-compras/workflow"
)

var validate = validator.New()

// decodeRequest decodes a JSON body into dst and validates its struct tags
func decodeRequest(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid request: %s", strings.Join(fields, "; "))
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// idFromPath reads the numeric segment right after prefix and returns the rest of the path.
// Example: idFromPath("/orders/7/submit", "/orders/") returns 7, "submit".
func idFromPath(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	idPart, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id %q", idPart)
	}
	return id, strings.Trim(tail, "/"), nil
}

func writeJSON(w http.ResponseWriter, op string, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("❌ %s: Error encoding response: %v", op, err)
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderNotEditable),
		errors.Is(err, service.ErrCounterOfferOpen),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrZeroQuantitySelection),
		errors.Is(err, service.ErrNothingSelected),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, counteroffer.ErrOfferExpired),
		errors.Is(err, counteroffer.ErrOfferNotPending),
		errors.Is(err, counteroffer.ErrOrderMismatch),
		errors.Is(err, counteroffer.ErrNoChanges):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Errorf("❌ %s: %v", op, err)
		http.Error(w, "Internal server error", status)
		return
	}
	logger.Log.Infof("ℹ️  %s: %v", op, err)
	http.Error(w, err.Error(), status)
}

func methodNotAllowed(w http.ResponseWriter, op string, r *http.Request) {
	logger.Log.Warnf("❌ %s: Method not allowed: %s", op, r.Method)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
