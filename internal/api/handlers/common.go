// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/activity"
	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

// DateLayout is the calendar-date form accepted alongside RFC 3339.
const DateLayout = "2006-01-02"

// DefaultActivityLimit applies when activity-logs is called without limit.
const DefaultActivityLimit = 10

// Events announces data changes to connected clients.
// *websocket.EventBroadcaster implements it.
type Events interface {
	BroadcastEntityChanged(entity, action, id string)
}

// Deps are the collaborators shared by the CRUD handlers.
type Deps struct {
	Store    storage.Store
	Activity *activity.Logger
	Events   Events
	Log      logrus.FieldLogger

	// Loc anchors date-only inputs. Nil means UTC.
	Loc *time.Location
}

func (d Deps) location() *time.Location {
	if d.Loc == nil {
		return time.UTC
	}
	return d.Loc
}

// changed announces a mutation when a broadcaster is configured.
func (d Deps) changed(entity, action, id string) {
	if d.Events != nil {
		d.Events.BroadcastEntityChanged(entity, action, id)
	}
}

// audit appends an activity log entry when a logger is configured.
func (d Deps) audit(ctx context.Context, entityType, entityID, action, message string) {
	if d.Activity != nil {
		d.Activity.Log(ctx, entityType, entityID, action, message)
	}
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errValidation carries field details out of request decoding.
type errValidation struct {
	message string
	details []middleware.FieldError
}

func (e *errValidation) Error() string {
	return e.message
}

func invalid(field, code, message string) *errValidation {
	return &errValidation{
		message: "Invalid request",
		details: []middleware.FieldError{{Field: field, Message: message, Code: code}},
	}
}

// decodeBody decodes the JSON body into dst and runs struct validation.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &errValidation{message: "Invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &errValidation{message: err.Error()}
		}
		out := &errValidation{message: "Invalid request"}
		for _, fe := range verrs {
			out.details = append(out.details, middleware.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Code:    fe.Tag(),
			})
		}
		return out
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// writeRequestError maps decoding and store errors onto the error envelope.
// Anything unrecognized is an opaque 500.
func writeRequestError(w http.ResponseWriter, log logrus.FieldLogger, err error, what string) {
	var verr *errValidation
	switch {
	case errors.As(err, &verr):
		middleware.WriteValidationError(w, verr.message, verr.details)
	case errors.Is(err, storage.ErrInvalidReference):
		middleware.WriteValidationError(w, "Referenced record does not exist", nil)
	case errors.Is(err, storage.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, what+" not found")
	default:
		middleware.WriteInternalError(w, log, "Failed to process "+strings.ToLower(what), err)
	}
}

// parseTime accepts a calendar date, taken as midnight in loc, or an
// RFC 3339 timestamp.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// optionalTime treats nil and empty strings as absent.
func optionalTime(field string, s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseTime(strings.TrimSpace(*s), loc)
	if err != nil {
		return nil, invalid(field, "date", field+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	return &t, nil
}

// queryTime parses an optional date query parameter.
func queryTime(q url.Values, key string, loc *time.Location) (*time.Time, error) {
	v := q.Get(key)
	return optionalTime(key, &v, loc)
}

// queryBool parses an optional boolean query parameter.
func queryBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, invalid(key, "boolean", key+" must be true or false")
	}
	return &b, nil
}

// queryLimit parses a positive limit, returning def when absent.
func queryLimit(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, invalid(key, "min", key+" must be a positive integer")
	}
	return n, nil
}

// nullable returns nil for blank strings.
func nullable(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
