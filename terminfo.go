package terminfo

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// BlobLoader is the boundary interface for a pre-parsed database blob
// (§6): any implementation that can produce the same Database the source
// parser would have built. The encoding is deliberately unspecified by
// spec.md; this module only needs the interface, not a concrete format.
type BlobLoader interface {
	Load() (*Database, error)
}

// Terminfo is the runtime facade (component R): it owns the loaded
// Database and CapTable, the currently selected ResolvedEntry, the
// compiled-string cache, the logger and the ospeed collaborator (the
// padding flush callback is passed to each ApplyPadding call). It is not
// safe for concurrent use (spec.md §5) - callers sharing one Terminfo
// across goroutines must serialize externally.
type Terminfo struct {
	db    *Database
	caps  *CapTable
	entry *ResolvedEntry
	cache *compileCache

	log    Logger
	ospeed OspeedQuerier
}

// New returns an empty Terminfo with the default logger and OS-backed
// ospeed querier. Call one of the Load* methods and then SelectTerminal
// before querying capabilities.
func New() *Terminfo {
	return &Terminfo{
		cache:  newCompileCache(),
		log:    DefaultLogger,
		ospeed: NewOSOspeedQuerier(),
	}
}

// SetLogger overrides the warning sink (default DefaultLogger).
func (t *Terminfo) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger
	}
	t.log = l
}

// SetOspeedQuerier overrides the OS ospeed collaborator (default
// NewOSOspeedQuerier()).
func (t *Terminfo) SetOspeedQuerier(q OspeedQuerier) { t.ospeed = q }

func (t *Terminfo) logger() Logger {
	if t.log == nil {
		return NopLogger
	}
	return t.log
}

// LoadDatabaseText parses src (§4.2) and replaces the current database.
func (t *Terminfo) LoadDatabaseText(src string) error {
	db, err := Parse(src)
	if err != nil {
		return err
	}
	t.db = db
	return nil
}

// LoadDatabaseFile reads path and parses it as a terminfo source buffer.
func (t *Terminfo) LoadDatabaseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrDatabaseUnavailable{reason: err.Error()}
	}
	return t.LoadDatabaseText(string(data))
}

// LoadDatabaseBlob loads a pre-parsed database through loader (§6).
func (t *Terminfo) LoadDatabaseBlob(loader BlobLoader) error {
	db, err := loader.Load()
	if err != nil {
		return ErrDatabaseUnavailable{reason: err.Error()}
	}
	t.db = db
	return nil
}

// LoadCapsFile reads and parses a translation-table file (§4.1).
func (t *Terminfo) LoadCapsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrDatabaseUnavailable{reason: err.Error()}
	}
	defer f.Close()
	ct, err := LoadCaps(f, t.logger())
	if err != nil {
		return err
	}
	t.caps = ct
	return nil
}

// LoadCapsText parses a translation-table buffer already held in memory.
func (t *Terminfo) LoadCapsText(src string) error {
	ct, err := LoadCaps(strings.NewReader(src), t.logger())
	if err != nil {
		return err
	}
	t.caps = ct
	return nil
}

// LoadFromEnv loads the database and translation table per the
// environment-variable precedence of spec.md §6 (text file > text buffer
// for the database), reading each fixed variable name with os.Getenv.
// A MARPAX_DATABASE_TERMINFO_BIN setting is not loaded: it yields
// ErrDatabaseUnavailable, and a blob is loaded only through
// LoadDatabaseBlob. Load* calls made afterwards replace what it loaded.
func (t *Terminfo) LoadFromEnv() error {
	file := os.Getenv("MARPAX_DATABASE_TERMINFO_FILE")
	text := os.Getenv("MARPAX_DATABASE_TERMINFO_TXT")
	bin := os.Getenv("MARPAX_DATABASE_TERMINFO_BIN")

	switch {
	case file != "":
		if err := t.LoadDatabaseFile(file); err != nil {
			return err
		}
	case text != "":
		if err := t.LoadDatabaseText(text); err != nil {
			return err
		}
	case bin != "":
		return ErrDatabaseUnavailable{reason: "MARPAX_DATABASE_TERMINFO_BIN set, but no BlobLoader registered; call LoadDatabaseBlob explicitly"}
	default:
		return ErrDatabaseUnavailable{reason: "no MARPAX_DATABASE_TERMINFO_* environment variable set"}
	}

	if capsFile := os.Getenv("MARPAX_DATABASE_TERMINFO_CAPS"); capsFile != "" {
		if err := t.LoadCapsFile(capsFile); err != nil {
			return err
		}
	}
	return nil
}

// SelectTerminal runs the entry resolver (E) for name and makes it the
// current entry (§4.3). fd, if non-zero, names an open terminal used for
// ospeed detection; pass 0 to skip OS detection (TERMINFO_OSPEED /
// TERMINFO_BAUDRATE environment overrides still apply).
func (t *Terminfo) SelectTerminal(name string, fd uintptr) error {
	if name == "" {
		name = os.Getenv("TERM")
	}
	if name == "" {
		name = "unknown"
	}

	re, err := Resolve(t.db, t.caps, name, t.logger())
	if err != nil {
		return err
	}

	ospeed, haveOspeed := t.resolveOspeed(fd)
	baudrate := t.resolveBaudrate(ospeed, haveOspeed)
	if re.Variable == nil {
		re.Variable = make(map[string]Capability)
	}
	re.Variable["ospeed"] = Capability{Name: "ospeed", Kind: Numeric, Num: ospeed}
	re.Variable["baudrate"] = Capability{Name: "baudrate", Kind: Numeric, Num: baudrate}

	t.entry = re
	return nil
}

func (t *Terminfo) resolveOspeed(fd uintptr) (int, bool) {
	if v := os.Getenv("TERMINFO_OSPEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	if fd != 0 && t.ospeed != nil {
		if o, ok := t.ospeed.Ospeed(fd); ok {
			return o, true
		}
	}
	return 0, false
}

func (t *Terminfo) resolveBaudrate(ospeed int, haveOspeed bool) int {
	if v := os.Getenv("TERMINFO_BAUDRATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if !haveOspeed {
		return 0
	}
	b, ok := BaudrateForOspeed(ospeed)
	if !ok {
		t.logger().Warnf("ospeed %d has no known baudrate", ospeed)
		return 0
	}
	return b
}

// Baudrate returns the current entry's resolved baud rate, or 0 if none
// is selected yet.
func (t *Terminfo) Baudrate() int {
	if t.entry == nil {
		return 0
	}
	return t.entry.Variable["baudrate"].Num
}

// Ospeed returns the current entry's resolved ospeed code, or 0.
func (t *Terminfo) Ospeed() int {
	if t.entry == nil {
		return 0
	}
	return t.entry.Variable["ospeed"].Num
}

// Entry returns the currently selected ResolvedEntry, or nil.
func (t *Terminfo) Entry() *ResolvedEntry { return t.entry }

type lookupStatus int

const (
	stOK lookupStatus = iota
	stAbsent
	stWrongType
)

func lookup(m map[string]Capability, id string, want Kind) (Capability, lookupStatus) {
	c, ok := m[id]
	if !ok {
		return Capability{}, stAbsent
	}
	if c.Kind != want {
		return Capability{}, stWrongType
	}
	return c, stOK
}

// GetFlagTerminfo returns the tri-state terminfo boolean getter of
// spec.md §4.6: 1 true, 0 absent (or cancelled), -1 wrong type.
func (t *Terminfo) GetFlagTerminfo(id string) int {
	if t.entry == nil {
		return 0
	}
	_, st := lookup(t.entry.Terminfo, id, Boolean)
	switch st {
	case stOK:
		return 1
	case stWrongType:
		return -1
	default:
		return 0
	}
}

// GetFlagTermcap returns false when id is absent, matching spec.md §4.6
// ("boolean, default false when absent").
func (t *Terminfo) GetFlagTermcap(id string) bool {
	if t.entry == nil {
		return false
	}
	c, st := lookup(t.entry.Termcap, id, Boolean)
	return st == stOK && c.Bool
}

// GetNumberTerminfo returns the tri-state terminfo numeric getter:
// the value, -1 absent/cancelled, -2 wrong type.
func (t *Terminfo) GetNumberTerminfo(id string) int {
	if t.entry == nil {
		return -1
	}
	c, st := lookup(t.entry.Terminfo, id, Numeric)
	switch st {
	case stOK:
		return c.Num
	case stWrongType:
		return -2
	default:
		return -1
	}
}

// GetNumberTermcap returns -1 when id is absent (spec.md §4.6).
func (t *Terminfo) GetNumberTermcap(id string) int {
	if t.entry == nil {
		return -1
	}
	c, st := lookup(t.entry.Termcap, id, Numeric)
	if st != stOK {
		return -1
	}
	return c.Num
}

// GetStringTerminfo returns the raw (not yet %-compiled) value of a
// terminfo string capability, and a status: 1 ok, -1 wrong type,
// 0 absent - mirroring spec.md §4.6's "-1 wrong type, 0 absent" literally,
// but as a (string, int) pair rather than overloading the string "0"
// the way an untyped-return language would.
func (t *Terminfo) GetStringTerminfo(id string) (string, int) {
	if t.entry == nil {
		return "", 0
	}
	c, st := lookup(t.entry.Terminfo, id, String)
	switch st {
	case stOK:
		return c.Str, 1
	case stWrongType:
		return "", -1
	default:
		return "", 0
	}
}

// Area is the mutable-string-plus-cursor carrier GetStringTermcap accepts
// (spec.md §4.6): Insert splices at Pos and advances it.
type Area struct {
	Buf []byte
	Pos int
}

// Insert splices s into a.Buf at a.Pos and advances Pos by len(s).
func (a *Area) Insert(s string) {
	merged := make([]byte, 0, len(a.Buf)+len(s))
	merged = append(merged, a.Buf[:a.Pos]...)
	merged = append(merged, s...)
	merged = append(merged, a.Buf[a.Pos:]...)
	a.Buf = merged
	a.Pos += len(s)
}

func (a *Area) String() string { return string(a.Buf) }

// GetStringTermcap returns the raw value of a termcap string capability
// and whether it was found; if area is non-nil and the capability is
// found, its raw value is appended at area's cursor.
func (t *Terminfo) GetStringTermcap(id string, area *Area) (string, bool) {
	if t.entry == nil {
		return "", false
	}
	c, st := lookup(t.entry.Termcap, id, String)
	if st != stOK {
		return "", false
	}
	if area != nil {
		area.Insert(c.Str)
	}
	return c.Str, true
}

// GetNumberVariable / GetStringVariable query the synthetic variable
// index (PC, UP, BC, ospeed, baudrate), with the same tri-state
// conventions as their terminfo counterparts (spec.md §4.6).
func (t *Terminfo) GetNumberVariable(id string) int {
	if t.entry == nil {
		return -1
	}
	c, st := lookup(t.entry.Variable, id, Numeric)
	switch st {
	case stOK:
		return c.Num
	case stWrongType:
		return -2
	default:
		return -1
	}
}

func (t *Terminfo) GetStringVariable(id string) (string, int) {
	if t.entry == nil {
		return "", 0
	}
	c, st := lookup(t.entry.Variable, id, String)
	switch st {
	case stOK:
		return c.Str, 1
	case stWrongType:
		return "", -1
	default:
		return "", 0
	}
}

// Expand compiles (if not already cached) and evaluates a raw %-language
// capability string against params, the current entry's static bank
// (which persists across calls) and a freshly-zeroed dynamic bank (§3
// "the dynamic bank is conceptually reset per top-level tparm call").
// This is tparm/tgoto from spec.md §4.6.
func (t *Terminfo) Expand(raw string, params ...Value) []byte {
	cc, ok := t.cache.get(raw)
	if !ok {
		cc = Compile(raw, t.logger())
		t.cache.put(raw, cc)
	}

	var dynamic [26]Value
	var static *[26]Value
	if t.entry != nil {
		static = &t.entry.Static
	} else {
		static = new([26]Value)
	}

	return Execute(cc, params, static, &dynamic)
}

// ExpandCap is a convenience wrapper: it looks up a terminfo string
// capability by name and expands it, mirroring tgoto(3)'s usual calling
// convention of "capability name plus positional parameters" rather than
// requiring the caller to fetch the raw string first.
func (t *Terminfo) ExpandCap(name string, params ...Value) ([]byte, bool) {
	raw, status := t.GetStringTerminfo(name)
	if status != 1 {
		return nil, false
	}
	return t.Expand(raw, params...), true
}

// Tgoto is the classic two-parameter cursor-addressing convenience
// (column, then row, per historical tgoto(3) argument order) built on top
// of ExpandCap("cup", ...).
func (t *Terminfo) Tgoto(col, row int) ([]byte, bool) {
	return t.ExpandCap("cup", IntValue(row), IntValue(col))
}

// Strings/Bools/Numbers return the sorted-by-name list of terminfo
// capability names of the given kind currently defined on the selected
// entry - an introspection surface grounded in the teacher's own
// Terminfo.String() dump (terminfo.go), useful for tests and diagnostics.
func (t *Terminfo) Strings() []string { return namesOfKind(t.entry, String) }
func (t *Terminfo) Bools() []string   { return namesOfKind(t.entry, Boolean) }
func (t *Terminfo) Numbers() []string { return namesOfKind(t.entry, Numeric) }

func namesOfKind(re *ResolvedEntry, k Kind) []string {
	if re == nil {
		return nil
	}
	var names []string
	for n, c := range re.Terminfo {
		if c.Kind == k {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
