// Package errs 定义能源进口分析流程中使用的错误分类
package errs

import (
	"errors"
	"fmt"
)

// 哨兵错误，配合 errors.Is 使用
var (
	ErrNotFound   = errors.New("not found")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError 输入文件、国家或年份列不存在
type NotFoundError struct {
	Kind string // "file" / "country" / "year" / "column" / "sheet"
	Name string
	Err  error // 底层错误(可选)
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q not found: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError 输入内容格式错误
// Line/Column 从1开始计数，0表示未知
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Path
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d", msg, e.Line)
	}
	if e.Column != "" {
		msg = fmt.Sprintf("%s column %q", msg, e.Column)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError 数据质量或参数校验失败，可在本地恢复
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewNotFound 构造 NotFoundError
func NewNotFound(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// NewValidation 构造 ValidationError
func NewValidation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
