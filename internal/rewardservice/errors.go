package rewardservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// ErrorResponse is the body of every non-2xx response of the authority
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var codeErrors = []struct {
	code string
	err  error
}{
	{CodeWheelInactive, domain.ErrWheelInactive},
	{CodeNoActiveRewards, domain.ErrNoActiveRewards},
	{CodeNotEligible, domain.ErrNotEligible},
	{CodeNoSpins, domain.ErrNoSpinsAvailable},
	{CodeUnknownTrigger, domain.ErrUnknownTrigger},
	{CodeOnCooldown, domain.ErrOnCooldown},
	{CodeConfigConflict, domain.ErrConfigConflict},
	{CodeConfigNotFound, domain.ErrConfigNotFound},
	{CodeSpinNotFound, domain.ErrSpinNotFound},
	{CodeAlreadyClaimed, domain.ErrAlreadyClaimed},
	{CodeNotClaimable, domain.ErrNotClaimable},
	{CodeUserRequired, domain.ErrUserRequired},
	{CodeInvalidInput, domain.ErrInvalidInput},
	{CodeServiceUnavailable, domain.ErrServiceUnavailable},
	{CodeServiceUnavailable, domain.ErrConnectionTimeout},
	{CodeInternal, domain.ErrDatabaseError},
}

// ErrorCode returns the wire code for an error, or CodeInternal when none matches
func ErrorCode(err error) string {
	for _, ce := range codeErrors {
		if errors.Is(err, ce.err) {
			return ce.code
		}
	}
	return CodeInternal
}

// errorFromResponse converts an error response back into a domain error.
// Unknown codes fall back to the status class.
func errorFromResponse(status int, body ErrorResponse) error {
	detail := body.Error
	if detail == "" {
		detail = http.StatusText(status)
	}

	if body.Code != "" && body.Code != CodeInternal {
		for _, ce := range codeErrors {
			if ce.code == body.Code {
				return fmt.Errorf("%w: %s", ce.err, detail)
			}
		}
	}

	switch {
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyClaimed, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrSpinNotFound, detail)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrOnCooldown, detail)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrNotEligible, detail)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", domain.ErrServiceUnavailable, status, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrInvalidInput, status, detail)
	}
}

// transportError classifies a failure to reach the authority.
// Cancellation by the caller is returned as the context error.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", domain.ErrConnectionTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
}

// IsTransient reports whether a failed call may succeed when repeated
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, domain.ErrServiceUnavailable) ||
		errors.Is(err, domain.ErrConnectionTimeout) ||
		errors.Is(err, domain.ErrDatabaseError)
}

// IsRejection reports whether the authority explicitly refused a spin
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrNotEligible) ||
		errors.Is(err, domain.ErrWheelInactive) ||
		errors.Is(err, domain.ErrNoActiveRewards) ||
		errors.Is(err, domain.ErrNoSpinsAvailable) ||
		errors.Is(err, domain.ErrOnCooldown) ||
		errors.Is(err, domain.ErrUnknownTrigger) ||
		errors.Is(err, domain.ErrUserRequired) ||
		errors.Is(err, domain.ErrInvalidInput)
}
