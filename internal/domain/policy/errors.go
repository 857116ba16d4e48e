package policy

import (
	"errors"
	"sort"
	"strings"
)

// 業務ルール違反（フィールド単位のエラー）。
// ハンドラでは 422 + fields として返す。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func fieldError(field string, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
