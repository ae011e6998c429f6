package erp

import "errors"

var (
	// ErrUnavailable covers transport and HTTP-layer failures talking to
	// the ERP, including its login endpoint. Retried by the client.
	ErrUnavailable = errors.New("inventory service unavailable")

	// ErrQuotaExceeded is the ERP's rate-limit signal, delivered inside a
	// 200 response. Never retried.
	ErrQuotaExceeded = errors.New("inventory quota exceeded")

	// ErrNoStock means the ERP returned no usable result set.
	ErrNoStock = errors.New("no stock registered")
)
