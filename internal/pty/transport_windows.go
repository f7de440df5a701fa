//go:build windows

package pty

// The flow control in Session relies on poll(2) over the master descriptor,
// which ConPTY pipes do not offer.
func openTransport(_ []string, _ []string, _, _ int) (Transport, error) {
	return nil, ErrPTYNotSupported
}
