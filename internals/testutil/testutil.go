// Package testutil wires an in-memory database and a Fiber app the way
// main.go does, minus JWT: the tenant and role are injected as locals.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

// NewDB opens a private in-memory SQLite database and migrates models.
func NewDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(0)",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())+"_"+uuid.NewString()[:8])
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}

type Identity struct {
	SchoolID uuid.UUID
	UserID   uuid.UUID
	Role     string
	// Loc is the school zone put in locals; nil means UTC.
	Loc *time.Location
	// StudentIDs are the students the caller may act for (student_ids claim).
	StudentIDs []string
}

func AdminIdentity() Identity {
	return Identity{SchoolID: uuid.New(), UserID: uuid.New(), Role: "admin"}
}

// NewApp returns an app with the production error handler and the
// identity pre-populated in locals.
func NewApp(id Identity) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if id.SchoolID != uuid.Nil {
			c.Locals(helperAuth.LocActiveSchoolID, id.SchoolID.String())
		}
		if id.UserID != uuid.Nil {
			c.Locals(helperAuth.LocUserID, id.UserID.String())
		}
		if id.Role != "" {
			c.Locals(helperAuth.LocRole, id.Role)
		}
		loc := id.Loc
		if loc == nil {
			loc = time.UTC
		}
		c.Locals(dbtime.LocSchoolLoc, loc)
		if id.StudentIDs != nil {
			c.Locals(helperAuth.LocStudentIDs, id.StudentIDs)
		}
		return c.Next()
	})
	return app
}

type Envelope struct {
	Success     bool              `json:"success"`
	Data        json.RawMessage   `json:"data"`
	ResultCount int64             `json:"resultCount"`
	Message     string            `json:"message"`
	StatusCode  int               `json:"statusCode"`
	Errors      map[string]string `json:"errors"`
}

// Do sends a JSON request and decodes the envelope.
func Do(t *testing.T, app *fiber.App, method, path string, body any) (int, Envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

// DecodeData unmarshals env.Data into dst.
func DecodeData(t *testing.T, env Envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
}

// FixedClock pins dbtime.Now for the duration of the test.
func FixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := dbtime.Now
	dbtime.Now = func() time.Time { return at }
	t.Cleanup(func() { dbtime.Now = prev })
}
