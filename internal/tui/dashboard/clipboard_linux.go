//go:build linux

package dashboard

import "errors"

// errNoClipboard is returned on Linux, where clipboard access needs X11 and cgo.
var errNoClipboard = errors.New("clipboard not available on this platform")

func writeClipboard(string) error {
	return errNoClipboard
}
