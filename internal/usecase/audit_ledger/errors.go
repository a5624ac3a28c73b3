package audit_ledger

import "errors"

// ErrInternal возвращается, когда сверку не удалось выполнить
var ErrInternal = errors.New("audit_ledger: internal error")
