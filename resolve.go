package terminfo

import "strings"

// Value is a tagged int-or-string, used for the %-language's stack,
// parameters, and the static/dynamic variable banks (spec.md §3, §9
// "String vs numeric on the VM stack").
type Value struct {
	IsStr bool
	Int   int
	Str   string
}

// IntValue makes a numeric Value.
func IntValue(n int) Value { return Value{Int: n} }

// StrValue makes a string Value.
func StrValue(s string) Value { return Value{IsStr: true, Str: s} }

// ResolvedEntry is the output of Resolve (§3 "Resolved entry"): three maps
// keyed by terminfo/termcap/variable name, the cancellation set inherited
// during resolution, and the persistent static / ephemeral dynamic
// variable banks belonging to this selected terminal.
type ResolvedEntry struct {
	Name          string
	Aliases       []string
	Longname      string
	Terminfo      map[string]Capability
	Termcap       map[string]Capability
	Variable      map[string]Capability
	Cancellations map[string]bool

	Static  [26]Value
	Dynamic [26]Value
}

// Resolve looks up name in db, applies use= inheritance and boolean
// cancellations (§4.3), and builds the three indexed views using caps.
// It returns ErrNotFound if name (or anything in its use= chain) is
// missing, and ErrCycle if the use= chain refers back to an entry already
// being resolved.
func Resolve(db *Database, caps *CapTable, name string, logger Logger) (*ResolvedEntry, error) {
	if logger == nil {
		logger = NopLogger
	}
	if db == nil {
		return nil, ErrDatabaseUnavailable{reason: "no database loaded"}
	}

	root := db.Find(name)
	if root == nil {
		return nil, ErrNotFound{Name: name}
	}

	featured := make(map[string]bool)
	cancellations := make(map[string]bool)
	resolved, err := resolveCaps(db, root.Capabilities, featured, cancellations, map[string]bool{name: true}, logger)
	if err != nil {
		return nil, err
	}

	// Pass B + C: drop residual cancellation markers and comment-like
	// ('.'-prefixed) capabilities.
	kept := resolved[:0]
	for _, c := range resolved {
		if c.Kind == Boolean && strings.HasSuffix(c.Name, "@") {
			continue
		}
		if strings.HasPrefix(c.Name, ".") {
			continue
		}
		kept = append(kept, c)
	}

	re := &ResolvedEntry{
		Name:          root.Primary(),
		Aliases:       append([]string(nil), root.Aliases...),
		Longname:      root.Longname,
		Terminfo:      make(map[string]Capability, len(kept)),
		Termcap:       make(map[string]Capability),
		Variable:      make(map[string]Capability),
		Cancellations: cancellations,
	}

	for _, c := range kept {
		re.Terminfo[c.Name] = c

		if caps == nil {
			continue
		}
		row, ok := caps.ByTerminfo(c.Name)
		if !ok {
			logger.Warnf("resolve %q: capability %q has no translation-table entry", name, c.Name)
			continue
		}
		if row.Kind != c.Kind {
			logger.Warnf("resolve %q: capability %q: type mismatch (source %s, table %s)", name, c.Name, c.Kind, row.Kind)
			continue
		}
		re.Variable[row.Variable] = c
		if row.Termcap != "" {
			re.Termcap[row.Termcap] = c
		}
	}

	initPseudoVar(re, "PC")
	initPseudoVar(re, "UP")
	initPseudoVar(re, "BC")

	return re, nil
}

// initPseudoVar is a no-op placeholder kept for readability: PC/UP/BC are
// already present in re.Variable if the source entry defined pad_char /
// cursor_up / backspace_if_not_bs (the translation table maps those
// terminfo names to the PC/UP/BC variable names); nothing further to
// initialize here. ospeed/baudrate are set by the runtime facade, which
// owns the OS/ENV collaborator (§4.3 step 5, §6).
func initPseudoVar(*ResolvedEntry, string) {}

// resolveCaps implements §4.3 Pass A: it walks capabilities in declaration
// order, splicing in use= chains while respecting the running
// cancellation set and the "first wins" featured set, detecting cycles
// via inProgress.
func resolveCaps(db *Database, caps []Capability, featured, cancellations map[string]bool, inProgress map[string]bool, logger Logger) ([]Capability, error) {
	var out []Capability

	for _, c := range caps {
		if c.Kind == Boolean && strings.HasSuffix(c.Name, "@") {
			cancellations[strings.TrimSuffix(c.Name, "@")] = true
			out = append(out, c)
			continue
		}

		if c.Kind == String && c.Name == "use" {
			refName := c.Str
			if inProgress[refName] {
				return nil, ErrCycle{Name: refName}
			}
			ref := db.Find(refName)
			if ref == nil {
				return nil, ErrNotFound{Name: refName}
			}
			next := make(map[string]bool, len(inProgress)+1)
			for k := range inProgress {
				next[k] = true
			}
			next[refName] = true

			// resolveCaps already applies the cancellation/featured
			// check (and records newly-featured names) to every
			// capability it emits, using the same shared maps -
			// re-checking here would see them as already featured
			// and silently drop the whole splice.
			spliced, err := resolveCaps(db, ref.Capabilities, featured, cancellations, next, logger)
			if err != nil {
				return nil, err
			}
			out = append(out, spliced...)
			continue
		}

		if cancellations[c.Name] || featured[c.Name] {
			continue
		}
		featured[c.Name] = true
		out = append(out, c)
	}

	return out, nil
}
