package adminuser

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// フォームのフィールド名です。FieldErrors のキーとして使用します。
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"

	// FieldSubmit は送信処理の失敗を報告する予約キーです。
	FieldSubmit = "submit"
)

const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email is invalid"
	MsgPhoneRequired     = "Phone number is required"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgPasswordMismatch  = "Passwords do not match"

	MsgSubmitFailed   = "Failed to create admin user. Please try again."
	MsgSubmitConflict = "An admin user with this email already exists."
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FormInput は管理ユーザー作成フォームの入力です。送信の度に生成され、検証後は破棄されます。
//
// 各フィールドのタグは左から順に評価され、最初に失敗した規則のみが報告されます。
type FormInput struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,looseemail"`
	Phone           string `json:"phone" validate:"notblank"`
	Password        string `json:"password" validate:"required,minunits=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// FieldErrors はフィールド名からエラーメッセージへの対応です。含まれないフィールドは有効です。
type FieldErrors map[string]string

// Empty はエラーが一件もないかを返します。
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

var messages = map[string]map[string]string{
	FieldFirstName:       {"notblank": MsgFirstNameRequired},
	FieldLastName:        {"notblank": MsgLastNameRequired},
	FieldEmail:           {"notblank": MsgEmailRequired, "looseemail": MsgEmailInvalid},
	FieldPhone:           {"notblank": MsgPhoneRequired},
	FieldPassword:        {"required": MsgPasswordRequired, "minunits": MsgPasswordTooShort},
	FieldConfirmPassword: {"eqfield": MsgPasswordMismatch},
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	// minunits はブラウザの String.length と同じく UTF-16 コード単位で長さを数える
	mustRegister(v, "minunits", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf16Len(fl.Field().String()) >= limit
	})
	return v
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn, true); err != nil {
		panic(err)
	}
}

// Validate は入力を検証し、違反したフィールドのメッセージを返します。
// 全フィールドを独立に評価するため、パスワード自体が不正でも確認用パスワードの不一致は報告されます。
func Validate(in FormInput) FieldErrors {
	out := FieldErrors{}

	err := formValidator.Struct(in)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FieldSubmit] = MsgSubmitFailed
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[field] = msg
	}
	return out
}
