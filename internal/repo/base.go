// Package repo holds the plumbing shared by gorm-backed repositories.
package repo

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"gorm.io/gorm"
)

// Base binds a repository to one gorm handle, either the pool or a transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle scoped to ctx; a nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// LoadError maps a failed lookup onto the typed taxonomy: a missing row is
// CodeNotFound with notFoundMsg, anything else is CodeInternal.
func LoadError(err error, notFoundMsg, internalMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, internalMsg)
}
