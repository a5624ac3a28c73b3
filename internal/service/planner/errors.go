package planner

import "errors"

var (
	// ErrInvalidRequest возвращается, когда запрос нельзя разместить по слотам
	ErrInvalidRequest = errors.New("planner: invalid request")

	// ErrOutOfRange возвращается, когда цепочка не помещается в день
	ErrOutOfRange = errors.New("planner: chain runs past the last slot")
)
