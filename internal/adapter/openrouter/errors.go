package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/tidwall/gjson"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
)

// classifyStatus maps a non-2xx status onto the outwardly visible failure class
func classifyStatus(status int) domain.Classification {
	switch status {
	case 401:
		return domain.ClassUnauthorized
	case 402, 429:
		return domain.ClassRateLimited
	default:
		return domain.ClassProviderError
	}
}

// providerMessage pulls the most specific explanation the provider gave us.
// OpenRouter nests it under error.message, some gateways use a top-level
// message, anything else falls back to the generic text.
func providerMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, pathErrorMessage); msg.Type == gjson.String && msg.String() != "" {
			return fmt.Sprintf("OpenRouter %d: %s", status, msg.String())
		}
		if msg := gjson.GetBytes(body, pathMessage); msg.Type == gjson.String && msg.String() != "" {
			return fmt.Sprintf("OpenRouter %d: %s", status, msg.String())
		}
	}
	return fmt.Sprintf("OpenRouter %d: %s", status, constants.UnknownErrorMessage)
}

// isTimeout reports whether the attempt died because its deadline passed,
// whichever layer (context, net, client) noticed first.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectionError matches failures that happen below HTTP: DNS, refused or
// reset connections, TLS handshakes.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED:
			return true
		default:
		}
	}

	return false
}
