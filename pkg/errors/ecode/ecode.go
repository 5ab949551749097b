package ecode

import "net/http"

// 业务错误码，0表示成功
const (
	Success = iota
	Unknown
	ValidateErr
	NotFoundErr
	RequireAuthErr
	ConflictErr
	TooManyRequestsErr
)

var httpStatus = map[int]int{
	Success:            http.StatusOK,
	Unknown:            http.StatusInternalServerError,
	ValidateErr:        http.StatusBadRequest,
	NotFoundErr:        http.StatusNotFound,
	RequireAuthErr:     http.StatusUnauthorized,
	ConflictErr:        http.StatusConflict,
	TooManyRequestsErr: http.StatusTooManyRequests,
}

// HTTPStatus 错误码对应的http状态码，未登记的按500处理
func HTTPStatus(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
