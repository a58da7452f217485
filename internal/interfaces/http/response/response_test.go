package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "donation-platform.backend/internal/domain/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, w := newTestContext()

	Success(c, http.StatusOK, gin.H{"ok": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, domainerrors.NotFound("missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, domainerrors.CodeNotFound, body["code"])
	assert.Equal(t, "missing", body["message"])
	assert.Equal(t, "missing", body["error"])
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, fmt.Errorf("handler: %w", domainerrors.BadRequest("bad amount")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad amount", decode(t, w)["message"])
}

func TestError_GenericError(t *testing.T) {
	t.Cleanup(func() { SetExposeInternalErrors(false) })

	t.Run("hidden", func(t *testing.T) {
		SetExposeInternalErrors(false)
		c, w := newTestContext()

		Error(c, errors.New("db exploded"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, domainerrors.CodeInternal, body["code"])
		assert.NotContains(t, w.Body.String(), "db exploded")
	})

	t.Run("exposed", func(t *testing.T) {
		SetExposeInternalErrors(true)
		c, w := newTestContext()

		Error(c, errors.New("db exploded"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "db exploded", decode(t, w)["error"])
	})
}

func TestError_ClientErrorsNeverExposeCause(t *testing.T) {
	t.Cleanup(func() { SetExposeInternalErrors(false) })
	SetExposeInternalErrors(true)
	c, w := newTestContext()

	Error(c, domainerrors.PaymentRequired("Your card was declined.", errors.New("stripe: card_declined")))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Your card was declined.", decode(t, w)["error"])
}

func TestErrorWithError(t *testing.T) {
	c, w := newTestContext()

	ErrorWithError(c, http.StatusBadRequest, "ERR_X", "bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_X"`)
}
