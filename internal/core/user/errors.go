package user

import "errors"

var (
	// ErrUserNotFound はユーザーが存在しない場合に返却されます。
	ErrUserNotFound = errors.New("user: not found")
	// ErrEmailAlreadyExists はメールアドレス重複時に返却されます。
	ErrEmailAlreadyExists = errors.New("user: email already exists")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("user: invalid email")
	// ErrInvalidName は氏名が不正な場合に返却されます。
	ErrInvalidName = errors.New("user: invalid name")
	// ErrInvalidPhone は電話番号が不正な場合に返却されます。
	ErrInvalidPhone = errors.New("user: invalid phone")
	// ErrInvalidRole はロールが不正な場合に返却されます。
	ErrInvalidRole = errors.New("user: invalid role")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("user: invalid id")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("user: invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("user: invalid page token")
)
