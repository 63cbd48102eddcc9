package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFrom(t *testing.T, target string) Params {
	t.Helper()
	app := fiber.New()
	var got Params
	app.Get("/x", func(c *fiber.Ctx) error {
		got = Parse(c)
		return c.SendString("ok")
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return got
}

func TestParseDefaults(t *testing.T) {
	p := parseFrom(t, "/x")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestParseClampsBadValues(t *testing.T) {
	p := parseFrom(t, "/x?page=0&limit=-5")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = parseFrom(t, "/x?page=abc&limit=xyz")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = parseFrom(t, "/x?limit=5000")
	assert.Equal(t, 100, p.Limit)
}

func TestParseOffset(t *testing.T) {
	p := parseFrom(t, "/x?page=3&limit=25")
	assert.Equal(t, 50, p.Offset())
}

func TestWrapEnvelope(t *testing.T) {
	env := Wrap([]int{1, 2, 3}, 45, Params{Page: 2, Limit: 20})
	assert.Equal(t, int64(45), env.TotalRecords)
	assert.Equal(t, 3, env.TotalPages)
	assert.Equal(t, 2, env.CurrentPage)

	empty := Wrap([]int{}, 0, Params{Page: 1, Limit: 20})
	assert.Equal(t, 1, empty.TotalPages)
}
