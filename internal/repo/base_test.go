package repo

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestLoadError(t *testing.T) {
	if err := LoadError(nil, "x", "y"); err != nil {
		t.Fatalf("expected nil passthrough, got %v", err)
	}

	err := LoadError(gorm.ErrRecordNotFound, "listing not found", "load listing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) || pkgerrors.As(err).Message() != "listing not found" {
		t.Fatalf("expected not found, got %v", err)
	}

	cause := errors.New("connection reset")
	err = LoadError(cause, "listing not found", "load listing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped internal error, got %v", err)
	}
}

func TestLoadErrorFromQuery(t *testing.T) {
	type row struct {
		ID string `gorm:"primaryKey"`
	}
	db := newTestDB(t)
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var got row
	err := LoadError(NewBase(db).DB(context.Background()).First(&got, "id = ?", "missing").Error, "row not found", "load row")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found from empty table, got %v", err)
	}
}
