// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/dnspulse/dnspulse/types"
)

// classify maps an error returned by one of the platform's probing
// capabilities onto the closed [types.ErrorKind] vocabulary. The deadline
// kinds take precedence: whatever went on underneath, a missed deadline is
// always reported as a timeout.
func classify(err error) types.ErrorKind {
	switch {
	case err == nil:
		return types.KindNone
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, os.ErrDeadlineExceeded):
		return types.KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return types.KindRefused
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return types.KindUnreachable
	case errors.Is(err, syscall.EPERM),
		errors.Is(err, syscall.EACCES),
		errors.Is(err, os.ErrPermission):
		return types.KindPermission
	}
	var neterr net.Error
	if errors.As(err, &neterr) && neterr.Timeout() {
		return types.KindTimeout
	}
	var dnserr *net.DNSError
	if errors.As(err, &dnserr) {
		return types.KindUnreachable
	}
	// Anything else came back from the wire but didn't make sense to the
	// protocol machinery.
	return types.KindMalformed
}
