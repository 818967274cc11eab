package repositories

import (
	"errors"
	"fmt"
	"strings"

	"board-cms/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapError translates storage failures into the domain error kinds. notFound
// is the kind to report for a missing row.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505", "40001", "40P01", "55P03": // unique, serialization, deadlock, lock_not_available
			return fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key") {
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}
	return err
}
