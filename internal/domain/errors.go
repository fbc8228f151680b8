package domain

import "errors"

// 领域层哨兵错误，transport 层统一映射成 HTTP 状态码
var (
	ErrNotFound          = errors.New("record not found")
	ErrNotOwner          = errors.New("lead belongs to another agent")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrNotAnAgent        = errors.New("target user is not an agent")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv/.xls/.xlsx")
	ErrInvalidStatus     = errors.New("status must not be empty")
)
