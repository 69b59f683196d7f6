package terminfo

// ospeedToBaudrate is the fixed ospeed -> baudrate table from spec.md §6.
var ospeedToBaudrate = map[int]int{
	0: 0, 1: 50, 2: 75, 3: 110, 4: 134, 5: 150, 6: 200, 7: 300, 8: 600,
	9: 1200, 10: 1800, 11: 2400, 12: 4800, 13: 9600, 14: 19200, 15: 38400,
	4097: 57600, 4098: 115200, 4099: 230400, 4100: 460800, 4101: 500000,
	4102: 576000, 4103: 921600, 4104: 1000000, 4105: 1152000,
	4107: 2000000, 4108: 2500000, 4109: 3000000, 4110: 3500000, 4111: 4000000,
}

// BaudrateForOspeed maps an ospeed code to its baud rate, per the fixed
// table in spec.md §6. ok is false for an ospeed outside the table's
// domain (caller should warn and use baudrate 0).
func BaudrateForOspeed(ospeed int) (baudrate int, ok bool) {
	b, ok := ospeedToBaudrate[ospeed]
	return b, ok
}

// OspeedQuerier is the boundary interface for §6's "OS interface": asking
// the host's controlling terminal for its output speed on a given file
// descriptor. Absence of the capability is not an error; it just means
// ospeed stays 0. A default, x/sys/unix-backed implementation is provided
// by NewOSOspeedQuerier (ospeed_unix.go) / the no_term-tagged stub
// (ospeed_stub.go), mirroring the teacher's own IsTerminal/TerminalSize
// split across term.go and no_term.go.
type OspeedQuerier interface {
	// Ospeed returns the raw ospeed code for fd, or ok == false if it
	// could not be determined (not a terminal, ioctl unsupported, etc).
	Ospeed(fd uintptr) (ospeed int, ok bool)
}
