package terminfo_test

import (
	"os"
	"testing"

	"zgo.at/termdb"
)

// dm2500 (scenario 6) has a pad_char, so padding emits repeated PC bytes;
// forcing the baudrate via TERMINFO_BAUDRATE makes the emitted count
// deterministic without depending on the ospeed table.
func TestApplyPaddingWithPadChar(t *testing.T) {
	os.Setenv("TERMINFO_BAUDRATE", "45000")
	defer os.Unsetenv("TERMINFO_BAUDRATE")

	tf := terminfo.New()
	if err := tf.LoadCapsText("PC pad_char str pc\n"); err != nil {
		t.Fatalf("LoadCapsText: %v", err)
	}
	if err := tf.LoadDatabaseText("dm2500|dm2500 terminal,\n\tcup=\\fHr, pad_char=\\377,\n"); err != nil {
		t.Fatalf("LoadDatabaseText: %v", err)
	}
	if err := tf.SelectTerminal("dm2500", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}

	raw, ok := tf.ExpandCap("cup")
	if !ok {
		t.Fatalf("ExpandCap(cup) not found")
	}
	s := string(raw) + "$<1>"

	var out []byte
	tf.ApplyPadding(s, 1, func(b byte) { out = append(out, b) }, nil)

	want := []byte{0x0C, 0x48, 0x72, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}
	if !bytesEqual(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

// ibcs2 (scenario 5) has no pad_char, so padding falls back to a real
// sleep; the $<1000> directive's millisecond value does not change the
// emitted byte sequence - only a single 0x00 end-of-delay marker follows
// the expanded text regardless of how long the sleep actually takes.
func TestApplyPaddingWithoutPadChar(t *testing.T) {
	tf := terminfo.New()
	if err := tf.LoadDatabaseText("ibcs2|ibcs2 console,\n\tcup=\\E[%i%p1%d;%p2%dH,\n"); err != nil {
		t.Fatalf("LoadDatabaseText: %v", err)
	}
	if err := tf.SelectTerminal("ibcs2", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}

	raw, ok := tf.ExpandCap("cup", terminfo.IntValue(18), terminfo.IntValue(40))
	if !ok {
		t.Fatalf("ExpandCap(cup) not found")
	}
	s := string(raw) + "$<1000>"

	var out []byte
	tf.ApplyPadding(s, 1, func(b byte) { out = append(out, b) }, nil)

	want := []byte{0x1B, 0x5B, 0x31, 0x39, 0x3B, 0x34, 0x31, 0x48, 0x00}
	if !bytesEqual(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
