package adminuser

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSubmitFailed は送信処理（永続化）の失敗を表します。
	ErrSubmitFailed = errors.New("adminuser: submit failed")
	// ErrEmailTaken は同一メールアドレスのユーザーが既に存在する場合に返却されます。
	ErrEmailTaken = errors.New("adminuser: email already registered")
)

// ValidationError はフォーム検証の失敗を表します。送信は行われていません。
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "adminuser: invalid form: " + strings.Join(keys, ", ")
}

// ErrorFields は Submit のエラーを画面に表示するためのフィールドエラーへ変換します。
// 検証エラー以外はすべて予約キー submit に格納されます。
func ErrorFields(err error) FieldErrors {
	if err == nil {
		return FieldErrors{}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}

	if errors.Is(err, ErrEmailTaken) {
		return FieldErrors{FieldSubmit: MsgSubmitConflict}
	}
	return FieldErrors{FieldSubmit: MsgSubmitFailed}
}
