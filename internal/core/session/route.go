package session

import "github.com/ogurasousui/company-admin-console/internal/core/user"

const (
	PathAuth             = "/"
	PathDashboard        = "/dashboard"
	PathCompanyDashboard = "/company-dashboard"
)

// Dashboard は /dashboard で表示するビューの種類です。
type Dashboard string

const (
	DashboardAdmin    Dashboard = "admin"
	DashboardEmployee Dashboard = "employee"
	DashboardCompany  Dashboard = "company"
)

// Route はログイン状態とロールから遷移先のパスを決定します。
func Route(authenticated bool, role user.Role) string {
	if !authenticated {
		return PathAuth
	}
	if role == user.RoleParent {
		return PathCompanyDashboard
	}
	return PathDashboard
}

// DashboardFor はロールに対応するダッシュボードを返します。未知のロールは社員向けです。
func DashboardFor(role user.Role) Dashboard {
	switch role {
	case user.RoleParent:
		return DashboardCompany
	case user.RoleAdmin:
		return DashboardAdmin
	default:
		return DashboardEmployee
	}
}
