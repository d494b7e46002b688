package infrastructure

import (
	"context"
	"errors"
	"strings"

	appErrors "clinicdesk/internal/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sumRow recebe agregações em decimal; Scan direto num decimal.Decimal
// seria tratado pelo gorm como um modelo.
type sumRow struct {
	Total decimal.Decimal
}

func sumDecimal(query *gorm.DB, expr string, args ...interface{}) (decimal.Decimal, error) {
	var row sumRow
	if err := query.Select("COALESCE("+expr+", 0) AS total", args...).Scan(&row).Error; err != nil {
		return decimal.Zero, appErrors.NewDatabaseError(err)
	}
	return row.Total, nil
}

func notFoundOr(err error, notFound *appErrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound.WithError(err)
	}
	return appErrors.NewDatabaseError(err)
}

// updateAll grava todas as colunas, inclusive valores zerados.
func updateAll(tx *gorm.DB, table, id string, row interface{}, notFound *appErrors.AppError) error {
	result := tx.Table(table).Where("id = ?", id).Select("*").Updates(row)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, table, id string, model interface{}, notFound *appErrors.AppError) error {
	result := db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func optionalID(id *ulid.ULID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []ulid.ULID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// txError preserva AppError devolvidos de dentro de uma transação.
func txError(err error) error {
	if err == nil {
		return nil
	}
	if appErrors.IsAppError(err) {
		return err
	}
	return appErrors.NewDatabaseError(err)
}
