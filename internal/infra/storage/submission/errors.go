package submission

import "errors"

var (
	// ErrSubmissionNotFound возвращается, когда заявка не найдена
	ErrSubmissionNotFound = errors.New("submission.repository: submission not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("submission.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("submission.repository: failed to execute query")
)
