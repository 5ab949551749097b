package middleware

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradeflow/internal/consts"
	"tradeflow/pkg/errors"
	"tradeflow/pkg/errors/ecode"
	"tradeflow/pkg/jwt"
	"tradeflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEngine(hs ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(RequestId(), Recovery(), ErrorHandler())
	g.Use(hs...)
	return g
}

func serve(g *gin.Engine, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.ApiResponse {
	t.Helper()
	var res response.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, ecode.NotFoundErr},
		{"duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict, ecode.ConflictErr},
		{"coded", errors.WithCode(ecode.ValidateErr, "limit must be >= 0"), http.StatusBadRequest, ecode.ValidateErr},
		{"store", stderrors.New("connection refused"), http.StatusInternalServerError, ecode.Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := newEngine()
			g.GET("/x", func(ctx *gin.Context) {
				_ = ctx.Error(c.err)
				ctx.Abort()
			})
			w := serve(g, http.MethodGet, "/x", consts.RequestIdHeader, "req-1")
			assert.Equal(t, c.status, w.Code)
			res := decode(t, w)
			assert.Equal(t, c.code, res.Code)
			assert.Equal(t, "req-1", res.RequestId)
			assert.Nil(t, res.Data)
		})
	}
}

func TestErrorHandler_StoreErrorMessage(t *testing.T) {
	g := newEngine()
	g.GET("/x", func(ctx *gin.Context) {
		_ = ctx.Error(stderrors.New("connection refused"))
	})
	w := serve(g, http.MethodGet, "/x")
	assert.Equal(t, "connection refused", decode(t, w).Message)
}

func TestErrorHandler_AlreadyWritten(t *testing.T) {
	g := newEngine()
	g.GET("/x", func(ctx *gin.Context) {
		ctx.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = ctx.Error(stderrors.New("late"))
	})
	w := serve(g, http.MethodGet, "/x")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	g := newEngine()
	g.GET("/x", func(ctx *gin.Context) {
		panic("boom")
	})
	w := serve(g, http.MethodGet, "/x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ecode.Unknown, decode(t, w).Code)
}

func TestRequestId(t *testing.T) {
	g := newEngine()
	g.GET("/x", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(consts.RequestId))
	})

	w := serve(g, http.MethodGet, "/x", consts.RequestIdHeader, "abc")
	assert.Equal(t, "abc", w.Header().Get(consts.RequestIdHeader))
	assert.Equal(t, "abc", w.Body.String())

	w = serve(g, http.MethodGet, "/x")
	id := w.Header().Get(consts.RequestIdHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
}

func TestOptions(t *testing.T) {
	g := newEngine(Options())
	g.GET("/x", func(ctx *gin.Context) { ctx.Status(http.StatusTeapot) })

	w := serve(g, http.MethodOptions, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusTeapot, serve(g, http.MethodGet, "/x").Code)
}

func TestAntiDuplicate(t *testing.T) {
	g := newEngine()
	g.POST("/x", AntiDuplicate(50*time.Millisecond, 16), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	g.POST("/y", AntiDuplicate(time.Minute, 16), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(g, http.MethodPost, "/x").Code)
	w := serve(g, http.MethodPost, "/x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ecode.TooManyRequestsErr, decode(t, w).Code)

	// 各路由独立计数
	assert.Equal(t, http.StatusOK, serve(g, http.MethodPost, "/y").Code)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve(g, http.MethodPost, "/x").Code)
}

func TestAntiDuplicate_DistinctBodies(t *testing.T) {
	g := newEngine()
	g.POST("/x", AntiDuplicate(time.Minute, 16), func(ctx *gin.Context) {
		body, _ := io.ReadAll(ctx.Request.Body)
		ctx.String(http.StatusOK, string(body))
	})
	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		g.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body)))
		return w
	}

	w := post(`{"tran_id":"T1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	// body 读取后仍可被后续 handler 使用
	assert.Equal(t, `{"tran_id":"T1"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, post(`{"tran_id":"T2"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(`{"tran_id":"T1"}`).Code)
}

func TestAuthToken(t *testing.T) {
	g := newEngine()
	g.DELETE("/x", AuthToken("secret"), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(consts.UserID))
	})

	w := serve(g, http.MethodDelete, "/x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ecode.RequireAuthErr, decode(t, w).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(g, http.MethodDelete, "/x", "Authorization", "Token abc").Code)

	other, err := jwt.GenToken(jwt.BuildClaims(time.Now().Add(time.Hour), "desk-1", "tradeflow"), "other")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(g, http.MethodDelete, "/x", "Authorization", "Bearer "+other).Code)

	expired, err := jwt.GenToken(jwt.BuildClaims(time.Now().Add(-time.Minute), "desk-1", "tradeflow"), "secret")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(g, http.MethodDelete, "/x", "Authorization", "Bearer "+expired).Code)

	token, err := jwt.GenToken(jwt.BuildClaims(time.Now().Add(time.Hour), "desk-1", "tradeflow"), "secret")
	require.NoError(t, err)
	w = serve(g, http.MethodDelete, "/x", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "desk-1", w.Body.String())
}
