package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// echo.Validator の実装。c.Validate(&req) で呼ばれる。
type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New()
	//エラーのキーは json タグ名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	//金額は float として gte などを効かせる
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return &FieldsError{Fields: fieldMessages(err)}
	}
	return nil
}

// 入力チェックのエラー（フィールド名→メッセージ）
type FieldsError struct {
	Fields map[string]string
}

func (e *FieldsError) Error() string {
	return "validation error"
}

func AsFieldsError(err error) (*FieldsError, bool) {
	var fe *FieldsError
	ok := errors.As(err, &fe)
	return fe, ok
}

func fieldMessages(err error) map[string]string {
	out := map[string]string{}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["_"] = err.Error()
		return out
	}

	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

var _ echo.Validator = (*RequestValidator)(nil)
