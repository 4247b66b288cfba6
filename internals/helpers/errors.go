package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const msgInternal = "Internal server error"

type ErrorResponse struct {
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// ValidationErr carries per-field failures; rendered as 422.
type ValidationErr struct {
	Fields map[string]string
}

func (e *ValidationErr) Error() string { return "validation failed" }

func NewValidationErr(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationErr{Fields: fields}
}

func BadRequest(msg string) error { return fiber.NewError(fiber.StatusBadRequest, msg) }
func NotFound(msg string) error   { return fiber.NewError(fiber.StatusNotFound, msg) }

// ErrorHandler is the central sink every controller forwards errors to.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *ValidationErr
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message:    ve.Error(),
			StatusCode: fiber.StatusUnprocessableEntity,
			Errors:     ve.Fields,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
			msg = msgInternal
		}
		return c.Status(fe.Code).JSON(ErrorResponse{Message: msg, StatusCode: fe.Code})
	}

	if code, msg, ok := MapDBError(err); ok {
		return c.Status(code).JSON(ErrorResponse{Message: msg, StatusCode: code})
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message:    msgInternal,
		StatusCode: fiber.StatusInternalServerError,
	})
}

// MapDBError turns known driver errors into client-facing statuses.
func MapDBError(err error) (int, string, bool) {
	if err == nil {
		return 0, "", false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, "Resource not found", true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return mapSQLState(pgxErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return mapSQLState(string(pqErr.Code))
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return fiber.StatusBadRequest, "Duplicate record", true
	}
	return 0, "", false
}

func mapSQLState(code string) (int, string, bool) {
	switch code {
	case "23505":
		return fiber.StatusBadRequest, "Duplicate record", true
	case "23503":
		return fiber.StatusBadRequest, "Referenced record does not exist", true
	case "23514":
		return fiber.StatusBadRequest, "Value violates a constraint", true
	default:
		return 0, "", false
	}
}

// IsDuplicateKey is used where a unique race must surface as a conflict.
func IsDuplicateKey(err error) bool {
	_, msg, ok := MapDBError(err)
	return ok && msg == "Duplicate record"
}
