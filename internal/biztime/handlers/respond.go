package handlers

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/go-playground/validator/v10"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

var (
	marshaler = &runtime.JSONBuiltin{}
	validate  = newValidator()
)

type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. An empty body decodes
// as an empty object so that missing fields are reported by validation.
func decode(r *http.Request, dst interface{}) error {
	if err := marshaler.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return e.InvalidInput("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return e.InvalidInput("%s", validationMessage(verrs))
		}
		return e.InvalidInput("invalid request body: %v", err)
	}
	return nil
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := marshaler.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", marshaler.ContentType(v))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError is the single place where errors become HTTP responses.
// Classified errors keep their message; anything else is logged and
// reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	status := e.StatusOf(err)
	message := http.StatusText(http.StatusInternalServerError)

	var classified *e.Error
	if errors.As(err, &classified) {
		message = classified.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message, Status: status}})
}
