package pipeline

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"gorm.io/gorm"

	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
)

// Gateway persists one validated row and yields the surrogate key the store
// assigned. The pipeline is its only caller.
type Gateway interface {
	Insert(ctx context.Context, row schema.Row) (uint, error)
}

type gormGateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) Gateway {
	return &gormGateway{db: db}
}

// Insert writes the row within the caller's transaction. A store rejection
// comes back as ConstraintViolationError so the caller can skip the row; a
// transport failure is returned as-is, because feeding more rows to a dead
// connection only burns the abort budget.
func (g *gormGateway) Insert(ctx context.Context, row schema.Row) (uint, error) {
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		if isTransportError(err) {
			return 0, err
		}
		return 0, &ConstraintViolationError{Table: row.TableName(), Err: err}
	}
	return row.PK(), nil
}

func isTransportError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
