package company

import "context"

// Repository は会社と部署の参照を行うインターフェースです。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Company, error)
	// ListDepartments は部署を名前順で返します。
	ListDepartments(ctx context.Context, companyID string) ([]*Department, error)
}
