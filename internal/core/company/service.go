package company

import (
	"context"
	"fmt"
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

// Service は会社に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は会社ユースケースの公開インターフェースです。
type UseCase interface {
	GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error)
	ListDepartments(ctx context.Context, in ListDepartmentsInput) ([]string, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// GetCompanyInput は会社取得時の入力です。
type GetCompanyInput struct {
	ID string
}

// ListDepartmentsInput は部署一覧取得時の入力です。
type ListDepartmentsInput struct {
	CompanyID string
}

// GetCompany は ID で会社を取得します。
func (s *Service) GetCompany(ctx context.Context, in GetCompanyInput) (*Company, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var company *Company
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		company = result
		return nil
	}); err != nil {
		return nil, err
	}

	return company, nil
}

// ListDepartments は部署名の一覧を返します。名前は社員の部署名と完全一致で照合されるため加工せず、
// 重複と空白のみの名前を除外して取得順を保持します。
// 停止中の会社は ErrInactive を返します。
func (s *Service) ListDepartments(ctx context.Context, in ListDepartmentsInput) ([]string, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, fmt.Errorf("company_id: %w", ErrInvalidID)
	}

	var departments []*Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		company, err := s.repo.FindByID(txCtx, companyID)
		if err != nil {
			return err
		}
		if company.Status == StatusInactive {
			return ErrInactive
		}

		result, err := s.repo.ListDepartments(txCtx, companyID)
		if err != nil {
			return err
		}
		departments = result
		return nil
	}); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(departments))
	names := make([]string, 0, len(departments))
	for _, d := range departments {
		if d == nil {
			continue
		}
		name := d.Name
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
