//go:build !no_term

package terminfo

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// osOspeedQuerier is the default OspeedQuerier, grounded on the teacher's
// term.go: it gates the ioctl on term.IsTerminal (exactly as term.go gates
// WantColor/AskPassword) and then reads Termios.Ospeed via
// unix.IoctlGetTermios, the same call term.go's IsRawTerminal uses.
type osOspeedQuerier struct{}

// NewOSOspeedQuerier returns the default, OS-backed OspeedQuerier.
func NewOSOspeedQuerier() OspeedQuerier { return osOspeedQuerier{} }

func (osOspeedQuerier) Ospeed(fd uintptr) (int, bool) {
	if !term.IsTerminal(int(fd)) {
		return 0, false
	}
	termios, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	if err != nil {
		return 0, false
	}
	return int(termios.Ospeed), true
}

const ioctlReadTermios = unix.TCGETS
