package employee

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// StatusFilter は在籍状態による絞り込み条件です。
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter は画面から渡された値を StatusFilter に変換します。空文字列は all として扱います。
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, raw)
	}
}

// Criteria は社員一覧の絞り込み条件です。3 つの条件はすべて AND で評価されます。
type Criteria struct {
	// Search は氏名・メールアドレス・部署名に対する大文字小文字を区別しない部分一致です。空文字列は条件なしです。
	Search string
	// Department は部署名の完全一致（大文字小文字を区別）です。空文字列は条件なしです。
	Department string
	Status     StatusFilter
}

// Select は条件に一致する社員を元の順序のまま返します。入力のスライスおよび要素は変更しません。
// 同じ条件を結果に再適用しても結果は変わりません。
func Select(records []*Employee, c Criteria) []*Employee {
	needle := foldText(c.Search)

	out := make([]*Employee, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if !matchesStatus(rec, c.Status) {
			continue
		}
		if c.Department != "" && rec.DepartmentName != c.Department {
			continue
		}
		if needle != "" && !matchesSearch(rec, needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesStatus(rec *Employee, status StatusFilter) bool {
	switch status {
	case StatusActive:
		return rec.IsActive
	case StatusInactive:
		return !rec.IsActive
	default:
		return true
	}
}

// matchesSearch は表示項目のいずれかが needle を含むかを判定します。項目は個別に照合し、欠けている項目は一致しません。
func matchesSearch(rec *Employee, needle string) bool {
	for _, field := range [...]string{rec.FullName(), rec.Email(), rec.DepartmentName} {
		if field != "" && strings.Contains(foldText(field), needle) {
			return true
		}
	}
	return false
}

func foldText(s string) string {
	if s == "" {
		return ""
	}
	// Caser は状態を持つため呼び出し毎に生成する
	return cases.Fold().String(norm.NFC.String(s))
}
