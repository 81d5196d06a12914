package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

// maxBodyBytes caps request bodies; chat history lives server side so
// requests stay small.
const maxBodyBytes = 64 << 10

// Generator is the generation client as seen by the handlers.
type Generator interface {
	Summarize(ctx context.Context, need domain.Need) (string, bool)
	Plan(ctx context.Context, scenario string) (domain.ResponsePlan, bool)
	Chat(ctx context.Context, message string, history []domain.ChatMessage) string
}

// UsageReporter aggregates stored usage events.
type UsageReporter interface {
	Summary(ctx context.Context, since time.Time) ([]domain.UsageSummaryRow, error)
}

type App struct {
	Needs       domain.NeedRepository
	Transcripts domain.TranscriptRepository
	AI          Generator
	Dashboard   domain.Dashboard
	// Usage is nil when no database is configured.
	Usage  UsageReporter
	Logger zerolog.Logger

	Now   func() time.Time
	NewID func() string

	validate *validator.Validate
}

func NewApp(needs domain.NeedRepository, transcripts domain.TranscriptRepository, ai Generator, dashboard domain.Dashboard, logger zerolog.Logger) *App {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &App{
		Needs:       needs,
		Transcripts: transcripts,
		AI:          ai,
		Dashboard:   dashboard,
		Logger:      logger,
		Now:         time.Now,
		NewID:       uuid.NewString,
		validate:    validate,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// fail maps domain errors to HTTP statuses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "need not found")
	case errors.Is(err, domain.ErrInvalidAmount):
		a.error(w, http.StatusBadRequest, "invalid_amount", "Please enter a donation amount greater than zero.")
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}

// decode reads a single JSON document from the body. Unknown fields are
// rejected so typos in client payloads surface early.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// validationMessage turns validator errors into one readable sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be an email address", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
