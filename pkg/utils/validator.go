package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` struct tags on v and returns the first
// constraint violation, or nil when all fields pass.
// ValidateStruct 执行结构体上的 `validate` 标签校验，返回第一个违规项。
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
