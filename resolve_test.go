package terminfo_test

import (
	"strings"
	"testing"

	"zgo.at/termdb"
)

func mustParse(t *testing.T, src string) *terminfo.Database {
	t.Helper()
	db, err := terminfo.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return db
}

func TestResolveSimpleEntry(t *testing.T) {
	db := mustParse(t, "dumb|80-column dumb tty,\n\tam, cols#80, bel=^G,\n")
	re, err := terminfo.Resolve(db, nil, "dumb", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if re.Name != "dumb" || re.Longname != "80-column dumb tty" {
		t.Errorf("re = %+v", re)
	}
	if !re.Terminfo["am"].Bool {
		t.Errorf("am not resolved true")
	}
	if re.Terminfo["cols"].Num != 80 {
		t.Errorf("cols = %d, want 80", re.Terminfo["cols"].Num)
	}
}

func TestResolveUseInheritance(t *testing.T) {
	src := "base|base term,\n\tam, cols#80,\n" +
		"child|child term,\n\tuse=base, bw,\n"
	db := mustParse(t, src)

	re, err := terminfo.Resolve(db, nil, "child", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !re.Terminfo["am"].Bool {
		t.Errorf("inherited am missing")
	}
	if re.Terminfo["cols"].Num != 80 {
		t.Errorf("inherited cols missing")
	}
	if !re.Terminfo["bw"].Bool {
		t.Errorf("own bw missing")
	}
}

func TestResolveCancellationAcrossUse(t *testing.T) {
	src := "base|base term,\n\tam, bw,\n" +
		"child|child term,\n\tbw@, use=base,\n"
	db := mustParse(t, src)

	re, err := terminfo.Resolve(db, nil, "child", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := re.Terminfo["bw"]; ok {
		t.Errorf("bw should be cancelled, found %+v", re.Terminfo["bw"])
	}
	if !re.Cancellations["bw"] {
		t.Errorf("cancellations = %v, want bw", re.Cancellations)
	}
	if !re.Terminfo["am"].Bool {
		t.Errorf("am should still be inherited")
	}
}

func TestResolveFirstWins(t *testing.T) {
	src := "base|base term,\n\tcols#80,\n" +
		"child|child term,\n\tcols#132, use=base,\n"
	db := mustParse(t, src)

	re, err := terminfo.Resolve(db, nil, "child", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if re.Terminfo["cols"].Num != 132 {
		t.Errorf("cols = %d, want 132 (first occurrence wins)", re.Terminfo["cols"].Num)
	}
}

func TestResolveCycleIsRejected(t *testing.T) {
	src := "a|a term,\n\tuse=b,\n" + "b|b term,\n\tuse=a,\n"
	db := mustParse(t, src)

	_, err := terminfo.Resolve(db, nil, "a", terminfo.NopLogger)
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	if _, ok := err.(terminfo.ErrCycle); !ok {
		t.Errorf("err = %T, want ErrCycle", err)
	}
}

func TestResolveDiamondUseIsNotACycle(t *testing.T) {
	src := "leaf|leaf term,\n\tam,\n" +
		"left|left term,\n\tuse=leaf,\n" +
		"right|right term,\n\tuse=leaf,\n" +
		"top|top term,\n\tuse=left, use=right,\n"
	db := mustParse(t, src)

	re, err := terminfo.Resolve(db, nil, "top", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v (diamond reuse of leaf via two paths must not be flagged as a cycle)", err)
	}
	if !re.Terminfo["am"].Bool {
		t.Errorf("am should have been inherited via either path")
	}
}

func TestResolveUnknownNameIsNotFound(t *testing.T) {
	db := mustParse(t, "a|a term,\n\tam,\n")
	_, err := terminfo.Resolve(db, nil, "nope", terminfo.NopLogger)
	if _, ok := err.(terminfo.ErrNotFound); !ok {
		t.Errorf("err = %v (%T), want ErrNotFound", err, err)
	}
}

func TestResolveDropsCommentCapabilities(t *testing.T) {
	src := "x|x term,\n\tam, .comment=ignored,\n"
	db := mustParse(t, src)
	re, err := terminfo.Resolve(db, nil, "x", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := re.Terminfo[".comment"]; ok {
		t.Errorf("comment capability should have been purged")
	}
}

func TestResolveBuildsVariableAndTermcapIndexes(t *testing.T) {
	caps, err := terminfo.LoadCaps(strings.NewReader("bell bel str bl\n"), terminfo.NopLogger)
	if err != nil {
		t.Fatalf("LoadCaps: %v", err)
	}
	db := mustParse(t, "x|x term,\n\tbel=^G,\n")
	re, err := terminfo.Resolve(db, caps, "x", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if re.Termcap["bl"].Str != "^G" {
		t.Errorf("Termcap[bl] = %+v", re.Termcap["bl"])
	}
	if re.Variable["bell"].Str != "^G" {
		t.Errorf("Variable[bell] = %+v", re.Variable["bell"])
	}
}

func TestResolveTypeMismatchSkipsTranslation(t *testing.T) {
	caps, err := terminfo.LoadCaps(strings.NewReader("columns cols num co\n"), terminfo.NopLogger)
	if err != nil {
		t.Fatalf("LoadCaps: %v", err)
	}
	// "cols" declared as a string here, disagreeing with the table's "num".
	db := mustParse(t, "x|x term,\n\tcols=oops,\n")
	re, err := terminfo.Resolve(db, caps, "x", terminfo.NopLogger)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := re.Termcap["co"]; ok {
		t.Errorf("mismatched capability should not have been translated into termcap index")
	}
	if re.Terminfo["cols"].Str != "oops" {
		t.Errorf("the raw terminfo capability itself should still be kept")
	}
}
