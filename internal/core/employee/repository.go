package employee

import "context"

// Repository は社員データの取得元の抽象です。PostgreSQL と外部 API の双方が実装します。
// 返却する一覧は取得元の並び順を保持します。
type Repository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*Employee, error)
}
