package session

import "errors"

const (
	// MsgInvalidCredentials はログイン画面に表示する認証失敗メッセージです。
	MsgInvalidCredentials = "Invalid email or password"
	// MsgAccountDeactivated は無効化されたアカウントのメッセージです。
	MsgAccountDeactivated = "Account is deactivated"
)

var (
	ErrMissingCredentials = errors.New("session: email and password are required")
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	ErrAccountDeactivated = errors.New("session: account is deactivated")
	ErrInvalidToken       = errors.New("session: invalid token")
	ErrTokenRevoked       = errors.New("session: token revoked")
)
