package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// リポジトリ層のセンチネルエラー。
// サービス層はerrors.Isで判定し、ドメインのAPIErrorに変換する。
var (
	// ErrDuplicate は一意制約違反（23505）を表す。
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenceMissing は外部キー制約違反（23503）を表す。
	ErrReferenceMissing = errors.New("referenced row does not exist")
	// ErrNotFound は削除対象の行が存在しないことを表す。
	ErrNotFound = errors.New("row not found")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateError はPostgreSQLのエラーコードをセンチネルエラーに変換する。
// 該当しないエラーはそのまま返す。
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReferenceMissing, pqErr.Constraint)
	default:
		return err
	}
}
