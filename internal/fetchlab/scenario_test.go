package fetchlab

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jpashop-api/internal/models"
	"github.com/jpashop-api/internal/repository"
	"github.com/jpashop-api/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupLabTest(t *testing.T, batchSize int) *Lab {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:lab_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if _, err := NewSampleSeeder(db).Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	counter := models.NewQueryCounter()
	if err := db.Use(counter); err != nil {
		t.Fatalf("register query counter failed: %v", err)
	}
	queries := service.NewOrderQueryService(
		repository.NewOrderRepository(db),
		repository.NewOrderQueryRepository(db),
		batchSize,
		100,
	)
	return NewLab(queries, counter)
}

func TestRunScenariosAgreeAndCountQueries(t *testing.T) {
	lab := setupLabTest(t, 100)

	results := lab.RunScenarios(context.Background())
	if len(results) != 11 {
		t.Fatalf("scenario count want 11 got %d", len(results))
	}
	if Failed(results) {
		for _, res := range results {
			t.Logf("%s %s matches=%v err=%v", res.Type, res.Name, res.Matches, res.Err)
		}
		t.Fatalf("all scenarios should agree with v2")
	}

	want := map[string]int64{
		TypeSimple + " v2":   5,
		TypeSimple + " v3":   1,
		TypeSimple + " v4":   1,
		TypeDetail + " v2":   11,
		TypeDetail + " v3":   1,
		TypeDetail + " v3.1": 3,
		TypeDetail + " v4":   3,
		TypeDetail + " v5":   2,
		TypeDetail + " v6":   1,
	}
	for _, res := range results {
		expected, ok := want[res.Type+" "+res.Name]
		if !ok {
			continue
		}
		if res.Queries != expected {
			t.Fatalf("%s %s queries want %d got %d", res.Type, res.Name, expected, res.Queries)
		}
		if res.Orders != 2 {
			t.Fatalf("%s %s orders want 2 got %d", res.Type, res.Name, res.Orders)
		}
		if res.Type == TypeDetail && res.Items != 4 {
			t.Fatalf("%s %s items want 4 got %d", res.Type, res.Name, res.Items)
		}
	}
}

func TestWriteReport(t *testing.T) {
	results := []ScenarioResult{
		{Type: TypeDetail, Name: "v5", Path: "/api/v5/orders", Queries: 2, Orders: 2, Items: 4, Matches: true},
		{Type: TypeDetail, Name: "v6", Path: "/api/v6/orders", Queries: 1, Orders: 2, Items: 4, Matches: false},
		{Type: TypeDetail, Name: "v4", Path: "/api/v4/orders", Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, results); err != nil {
		t.Fatalf("write report failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/api/v5/orders", "MISMATCH", "ERR: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report should contain %q, got:\n%s", want, out)
		}
	}
	if !Failed(results) {
		t.Fatalf("results with mismatch should be reported as failed")
	}
}
