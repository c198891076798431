package employee

import (
	"context"
	"strconv"
	"strings"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const maxListPageSize = 200

// Service は社員一覧に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は社員一覧ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// ListEmployeesInput は一覧取得時の入力です。PageSize が 0 以下の場合は絞り込み結果をすべて返します。
type ListEmployeesInput struct {
	CompanyID string
	Criteria  Criteria
	PageSize  int
	PageToken string
}

// ListEmployeesResult は一覧取得結果を表します。Total はページング前の絞り込み件数です。
type ListEmployeesResult struct {
	Employees     []*Employee
	Total         int
	NextPageToken string
}

// ListEmployees は会社の社員を取得し、条件で絞り込んだ結果を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, ErrInvalidCompanyID
	}

	criteria := in.Criteria
	if criteria.Status == "" {
		criteria.Status = StatusAll
	}
	if _, err := ParseStatusFilter(string(criteria.Status)); err != nil {
		return nil, err
	}

	if in.PageSize > maxListPageSize {
		return nil, ErrInvalidPageSize
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var records []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListByCompany(txCtx, companyID)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	selected := Select(records, criteria)
	result := &ListEmployeesResult{Employees: selected, Total: len(selected)}

	if in.PageSize <= 0 {
		if offset > 0 {
			result.Employees = page(selected, offset, len(selected))
		}
		return result, nil
	}

	result.Employees = page(selected, offset, in.PageSize)
	if end := offset + in.PageSize; end < len(selected) {
		result.NextPageToken = strconv.Itoa(end)
	}
	return result, nil
}

func page(items []*Employee, offset, limit int) []*Employee {
	if offset >= len(items) {
		return []*Employee{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
