package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1arunjyoti/resume-builder/internal/auth"
	"github.com/1arunjyoti/resume-builder/internal/database"
)

type memSettings struct {
	values map[string][]byte
}

func (r *memSettings) GetSetting(_ context.Context, name string) ([]byte, error) {
	data, ok := r.values[name]
	if !ok {
		return nil, database.ErrSettingNotFound
	}
	return data, nil
}

func (r *memSettings) PutSetting(_ context.Context, name string, value []byte) error {
	r.values[name] = append([]byte(nil), value...)
	return nil
}

func gateRouter(t *testing.T, gate *auth.Gate) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", GateMiddleware(gate), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func request(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGateMiddleware_PassThroughWhenDisabled(t *testing.T) {
	gate, err := auth.NewGate(context.Background(), &memSettings{values: map[string][]byte{}}, time.Hour)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	router := gateRouter(t, gate)

	if w := request(router, ""); w.Code != http.StatusOK {
		t.Fatalf("disabled gate should pass through, got %d", w.Code)
	}
}

func TestGateMiddleware_RequiresValidToken(t *testing.T) {
	ctx := context.Background()
	gate, err := auth.NewGate(ctx, &memSettings{values: map[string][]byte{}}, time.Hour)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if err := gate.SetPassphrase(ctx, "pw"); err != nil {
		t.Fatalf("set passphrase: %v", err)
	}
	router := gateRouter(t, gate)

	if w := request(router, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: got %d", w.Code)
	}
	if w := request(router, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: got %d", w.Code)
	}
	if w := request(router, "Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d", w.Code)
	}

	token, err := gate.Unlock("pw")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if w := request(router, "Bearer "+token); w.Code != http.StatusOK {
		t.Fatalf("valid token rejected: got %d", w.Code)
	}
}
