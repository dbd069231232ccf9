package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/jpashop-api/internal/config"
	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file:router_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	cfg := config.Default()
	cfg.Server.Mode = "debug"
	return SetupRouter(cfg, provider.NewContainerWithDB(cfg, db))
}

func TestSetupRouterRegistersOrderRoutes(t *testing.T) {
	r := setupRouterTest(t)

	got := make([]string, 0)
	for _, route := range r.Routes() {
		if strings.HasPrefix(route.Path, "/api/") {
			got = append(got, route.Method+" "+route.Path)
		}
	}
	sort.Strings(got)
	want := []string{
		"GET /api/v1/orders",
		"GET /api/v1/simple-orders",
		"GET /api/v2/orders",
		"GET /api/v2/simple-orders",
		"GET /api/v3.1/orders",
		"GET /api/v3/orders",
		"GET /api/v3/simple-orders",
		"GET /api/v4/orders",
		"GET /api/v4/simple-orders",
		"GET /api/v5/orders",
		"GET /api/v6/orders",
	}
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("routes mismatch\nwant %v\ngot  %v", want, got)
	}
}

func TestSetupRouterEmptyDatabase(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v5/orders", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty database should return [], got %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("request id header should be set")
	}
}

func TestSetupRouterHealthAndNoRoute(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status want 200 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v9/orders", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"status_code":404`) {
		t.Fatalf("unknown route should return 404 envelope, got %d %s", w.Code, w.Body.String())
	}
}
