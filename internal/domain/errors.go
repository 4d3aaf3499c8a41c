package domain

import "errors"

// 领域错误：在检测点 raise，原样冒泡到最外层 handler 统一映射 HTTP 状态码
var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTitleTaken         = errors.New("title already used")
	ErrSlugTaken          = errors.New("slug already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound 同时覆盖“不存在”和“存在但不属于你”，故意不区分
	ErrNotFound = errors.New("not found")
)
