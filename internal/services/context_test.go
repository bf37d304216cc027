package services_test

import (
	"context"
	"testing"

	"renoquote/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "estimate")
	ctx = services.WithGroup(ctx, 3)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "estimate" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if group, ok := services.GroupFromContext(ctx); !ok || group != 3 {
		t.Fatalf("unexpected group: %v %v", group, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithGroup(ctx, 0)
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.GroupFromContext(ctx); ok {
		t.Fatal("expected no group value")
	}
}
