package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestParseIDParam(t *testing.T) {
	app := fiber.New()

	var gotID uint
	var gotErr error
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		gotID, gotErr = parseIDParam(c, "id")
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name    string
		path    string
		wantID  uint
		wantErr bool
	}{
		{name: "numeric id", path: "/things/42", wantID: 42},
		{name: "zero is rejected", path: "/things/0", wantErr: true},
		{name: "non numeric is rejected", path: "/things/abc", wantErr: true},
		{name: "negative is rejected", path: "/things/-5", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotID, gotErr = 0, nil
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			if tc.wantErr {
				assert.Error(t, gotErr)
			} else {
				assert.NoError(t, gotErr)
				assert.Equal(t, tc.wantID, gotID)
			}
		})
	}
}

func TestJSONErrorShape(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return jsonError(c, fiber.StatusConflict, "conflict", "already there")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
}
