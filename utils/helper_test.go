package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, rawQuery string) (int, int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return ParsePagination(c)
}

func TestParsePagination(t *testing.T) {
	page, limit, offset := paginationFor(t, "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	page, limit, offset = paginationFor(t, "page=3&limit=20")
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	// Out-of-range values clamp rather than error.
	page, limit, _ = paginationFor(t, "page=-2&limit=900")
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)

	page, limit, _ = paginationFor(t, "page=abc&limit=xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
