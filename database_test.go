package terminfo_test

import (
	"testing"

	"zgo.at/termdb"
)

func TestEntryPrimaryAndHasAlias(t *testing.T) {
	e := terminfo.Entry{Aliases: []string{"vt100", "vt100-am"}}

	if got := e.Primary(); got != "vt100" {
		t.Errorf("Primary() = %q, want vt100", got)
	}
	if !e.HasAlias("vt100-am") {
		t.Errorf("HasAlias(vt100-am) = false, want true")
	}
	if e.HasAlias("xterm") {
		t.Errorf("HasAlias(xterm) = true, want false")
	}
}

func TestDatabaseFindFirstMatch(t *testing.T) {
	db := &terminfo.Database{Entries: []terminfo.Entry{
		{Aliases: []string{"dumb"}, Longname: "first"},
		{Aliases: []string{"dumb"}, Longname: "second"},
	}}

	got := db.Find("dumb")
	if got == nil || got.Longname != "first" {
		t.Errorf("Find returned %+v, want the first entry", got)
	}
	if db.Find("nope") != nil {
		t.Errorf("Find(nope) should be nil")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    terminfo.Kind
		want string
	}{
		{terminfo.Boolean, "bool"},
		{terminfo.Numeric, "num"},
		{terminfo.String, "str"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
