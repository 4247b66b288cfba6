// file: internals/helpers/json_response.go
package helper

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Success envelope
=================================*/

type SuccessResponse struct {
	Success     bool        `json:"success"`
	Data        any         `json:"data"`
	ResultCount int64       `json:"resultCount"`
	Message     string      `json:"message"`
	Pagination  *Pagination `json:"pagination,omitempty"`
}

// countOf: slices/arrays/maps → len, nil → 0, everything else → 1.
func countOf(v any) int64 {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return int64(rv.Len())
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
	}
	return 1
}

func Respond(c *fiber.Ctx, status int, data any, count int64, message string) error {
	return c.Status(status).JSON(SuccessResponse{
		Success:     true,
		Data:        data,
		ResultCount: count,
		Message:     message,
	})
}

// JsonOK: response sukses generic (GET detail, dsb)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	return Respond(c, fiber.StatusOK, data, countOf(data), message)
}

// JsonCreated: response sukses create (POST)
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "created"
	}
	return Respond(c, fiber.StatusCreated, data, countOf(data), message)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "updated"
	}
	return Respond(c, fiber.StatusOK, data, countOf(data), message)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = "deleted"
	}
	return Respond(c, fiber.StatusOK, data, countOf(data), message)
}

// JsonList: resultCount carries the total across pages, not the page length.
func JsonList(c *fiber.Ctx, message string, data any, pg *Pagination) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	total := countOf(data)
	if pg != nil {
		total = pg.Total
		pg.Count = int(countOf(data))
	}
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success:     true,
		Data:        data,
		ResultCount: total,
		Message:     message,
		Pagination:  pg,
	})
}
