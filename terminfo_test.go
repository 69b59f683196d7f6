package terminfo_test

import (
	"testing"

	"zgo.at/termdb"
)

const fixtureTranslationTable = `
bell          bel         str   bl
columns       cols        num   co
`

func newTestTerminfo(t *testing.T, src string) *terminfo.Terminfo {
	t.Helper()
	tf := terminfo.New()
	tf.SetLogger(terminfo.NopLogger)
	if err := tf.LoadCapsText(fixtureTranslationTable); err != nil {
		t.Fatalf("LoadCapsText: %v", err)
	}
	if err := tf.LoadDatabaseText(src); err != nil {
		t.Fatalf("LoadDatabaseText: %v", err)
	}
	return tf
}

// Scenario 1: dumb / bell as termcap.
func TestScenarioDumbBellAsTermcap(t *testing.T) {
	tf := newTestTerminfo(t, "dumb|80-column dumb tty,\n\tam, cols#80, bel=^G,\n")
	if err := tf.SelectTerminal("dumb", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}

	area := &terminfo.Area{}
	got, ok := tf.GetStringTermcap("bl", area)
	if !ok || got != "^G" {
		t.Errorf("GetStringTermcap(bl) = (%q, %v), want (^G, true)", got, ok)
	}
	if area.String() != "^G" || area.Pos != 2 {
		t.Errorf("area = %q (pos %d), want ^G (pos 2)", area.String(), area.Pos)
	}
}

// Scenario 2: dumb / columns.
func TestScenarioDumbColumns(t *testing.T) {
	tf := newTestTerminfo(t, "dumb|80-column dumb tty,\n\tam, cols#80, bel=^G,\n")
	if err := tf.SelectTerminal("dumb", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}
	if got := tf.GetNumberTermcap("co"); got != 80 {
		t.Errorf("GetNumberTermcap(co) = %d, want 80", got)
	}
}

// Scenario 3: nsterm-16color / flags and numbers.
func TestScenarioNstermFlagsAndNums(t *testing.T) {
	src := "nsterm-16color|nsterm 16 color terminal,\n" +
		"\tam, bw@, cols#80, wsl#50, fsl=^G,\n"
	tf := newTestTerminfo(t, src)
	if err := tf.SelectTerminal("nsterm-16color", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}

	if got := tf.GetFlagTerminfo("am"); got != 1 {
		t.Errorf("GetFlagTerminfo(am) = %d, want 1", got)
	}
	if got := tf.GetFlagTerminfo("cols"); got != -1 {
		t.Errorf("GetFlagTerminfo(cols) = %d, want -1 (wrong type)", got)
	}
	if got := tf.GetFlagTerminfo("absentcap"); got != 0 {
		t.Errorf("GetFlagTerminfo(absentcap) = %d, want 0", got)
	}
	if got := tf.GetFlagTerminfo("bw"); got != 0 {
		t.Errorf("GetFlagTerminfo(bw) = %d, want 0 (cancelled)", got)
	}

	if got := tf.GetNumberTerminfo("wsl"); got != 50 {
		t.Errorf("GetNumberTerminfo(wsl) = %d, want 50", got)
	}
	if got := tf.GetNumberTerminfo("fsl"); got != -2 {
		t.Errorf("GetNumberTerminfo(fsl) = %d, want -2 (wrong type)", got)
	}
	if got := tf.GetNumberTerminfo("absentcap"); got != -1 {
		t.Errorf("GetNumberTerminfo(absentcap) = %d, want -1", got)
	}
	if got := tf.GetNumberTerminfo("bw"); got != -1 {
		t.Errorf("GetNumberTerminfo(bw) = %d, want -1 (cancelled)", got)
	}

	str, status := tf.GetStringTerminfo("fsl")
	if status != 1 || str != "^G" {
		t.Errorf("GetStringTerminfo(fsl) = (%q, %d), want (^G, 1)", str, status)
	}
}

// Scenario 4: ibcs2 / cursor address via terminfo cup.
func TestScenarioIbcs2CursorAddress(t *testing.T) {
	tf := newTestTerminfo(t, "ibcs2|ibcs2 console,\n\tcup=\\E[%i%p1%d;%p2%dH,\n")
	if err := tf.SelectTerminal("ibcs2", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}

	got, ok := tf.ExpandCap("cup", terminfo.IntValue(18), terminfo.IntValue(40))
	if !ok {
		t.Fatalf("ExpandCap(cup) not found")
	}
	if want := "\x1B[19;41H"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSelectTerminalUnknownNameError(t *testing.T) {
	tf := newTestTerminfo(t, "dumb|80-column dumb tty,\n\tam,\n")
	if err := tf.SelectTerminal("nonexistent", 0); err == nil {
		t.Errorf("expected an error selecting a terminal absent from the database")
	}
}

func TestIntrospectionLists(t *testing.T) {
	tf := newTestTerminfo(t, "x|x term,\n\tam, bw, cols#80, name=val,\n")
	if err := tf.SelectTerminal("x", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}
	bools := tf.Bools()
	if len(bools) != 2 || bools[0] != "am" || bools[1] != "bw" {
		t.Errorf("Bools() = %v, want [am bw]", bools)
	}
	nums := tf.Numbers()
	if len(nums) != 1 || nums[0] != "cols" {
		t.Errorf("Numbers() = %v, want [cols]", nums)
	}
	strs := tf.Strings()
	if len(strs) != 1 || strs[0] != "name" {
		t.Errorf("Strings() = %v, want [name]", strs)
	}
}

func TestOspeedAndBaudrateEnvOverride(t *testing.T) {
	t.Setenv("TERMINFO_OSPEED", "13")
	tf := newTestTerminfo(t, "x|x term,\n\tam,\n")
	if err := tf.SelectTerminal("x", 0); err != nil {
		t.Fatalf("SelectTerminal: %v", err)
	}
	if tf.Ospeed() != 13 {
		t.Errorf("Ospeed() = %d, want 13", tf.Ospeed())
	}
	if tf.Baudrate() != 9600 {
		t.Errorf("Baudrate() = %d, want 9600", tf.Baudrate())
	}
}
