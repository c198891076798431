package company

import "time"

// Status は会社の状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Company は会社エンティティです。PARENT ロールのユーザーがオーナーとなります。
type Company struct {
	ID          string
	Name        string
	Code        string
	Status      Status
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Department は会社に属する部署です。社員一覧の部署プルダウンに使用します。
type Department struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
}
