// internal/common/errors/http.go
package errors

import "net/http"

// HTTPStatus maps an error code to the HTTP status returned to the caller.
// Client-fixable faults map to 4xx, upstream capability faults to 503,
// everything else to 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidSourceType, ErrCodeInvalidReportID:
		return http.StatusBadRequest
	case ErrCodeEntityNotFound, ErrCodeReportNotFound:
		return http.StatusNotFound
	case ErrCodeAIUnavailable, ErrCodeAIResponseMalformed, ErrCodeEmbeddingFailed:
		return http.StatusServiceUnavailable
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusFor resolves any error to a status code, defaulting to 500 for
// errors outside the standard taxonomy.
func HTTPStatusFor(err error) int {
	if stdErr, ok := AsStandard(err); ok {
		return HTTPStatus(stdErr.Code)
	}
	return http.StatusInternalServerError
}
