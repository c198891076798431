package company

import "errors"

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("company: invalid id")
	// ErrInactive は停止中の会社を参照した場合に返却されます。
	ErrInactive = errors.New("company: inactive")
)
