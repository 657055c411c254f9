package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashSurvivesRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/delete", func(c *gin.Context) {
		AddFlash(c, "first")
		RedirectWithFlash(c, "/list", "second")
	})
	r.GET("/list", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"messages": PopFlash(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/delete", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/list", w.Header().Get("Location"))

	var flash *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == FlashCookie {
			flash = cookie
		}
	}
	require.NotNil(t, flash)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.AddCookie(flash)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"messages":["first","second"]}`, w.Body.String())

	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == FlashCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestPopFlashIgnoresGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: FlashCookie, Value: "%%not-base64"})

	assert.Nil(t, PopFlash(c))
}
