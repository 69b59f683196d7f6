package terminfo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CapRow is one row of the termcap/terminfo/variable translation table
// (§4.1): it ties a terminfo capability name to its (optional) two-letter
// termcap spelling and its variable name, along with its Kind.
type CapRow struct {
	Variable string
	Terminfo string
	Termcap  string // "" when the source used "-" (no termcap equivalent)
	Kind     Kind
	Line     int
}

// CapTable holds the three indexes derived from the translation table, plus
// the capalias/infoalias rows.
type CapTable struct {
	byTerminfo map[string]CapRow
	byTermcap  map[string]CapRow
	byVariable map[string]CapRow

	capalias map[string]string // termcap alias -> canonical termcap/terminfo name
	infoalias map[string]string
}

// ByTerminfo looks up a row by its terminfo capability name, falling back
// to the infoalias table for an alternate spelling.
func (c *CapTable) ByTerminfo(name string) (CapRow, bool) {
	if r, ok := c.byTerminfo[name]; ok {
		return r, ok
	}
	if canon, ok := c.infoalias[name]; ok {
		return c.byTerminfo[canon], true
	}
	return CapRow{}, false
}

// ByTermcap looks up a row by its two-letter termcap name, falling back to
// the capalias table for an alternate spelling.
func (c *CapTable) ByTermcap(name string) (CapRow, bool) {
	if r, ok := c.byTermcap[name]; ok {
		return r, ok
	}
	if canon, ok := c.capalias[name]; ok {
		return c.byTermcap[canon], true
	}
	return CapRow{}, false
}

// ByVariable looks up a row by its variable name (the first column of a
// primary row, e.g. "PC").
func (c *CapTable) ByVariable(name string) (CapRow, bool) { r, ok := c.byVariable[name]; return r, ok }

// LoadCaps parses a translation-table file (§4.1) from r. Unknown <type>
// values and malformed rows produce a warning on logger (if non-nil) and
// are skipped rather than aborting the whole load.
func LoadCaps(r io.Reader, logger Logger) (*CapTable, error) {
	if logger == nil {
		logger = NopLogger
	}
	t := &CapTable{
		byTerminfo: make(map[string]CapRow),
		byTermcap:  make(map[string]CapRow),
		byVariable: make(map[string]CapRow),
		capalias:   make(map[string]string),
		infoalias:  make(map[string]string),
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		switch fields[0] {
		case "capalias":
			if len(fields) < 3 {
				logger.Warnf("caps: line %d: malformed capalias", line)
				continue
			}
			t.capalias[fields[1]] = fields[2]
			continue
		case "infoalias":
			if len(fields) < 3 {
				logger.Warnf("caps: line %d: malformed infoalias", line)
				continue
			}
			t.infoalias[fields[1]] = fields[2]
			continue
		}

		// <variable> <terminfo> <type> <termcap> <keyname> <keyvalue> <translation> <description>
		if len(fields) < 4 {
			logger.Warnf("caps: line %d: too few columns", line)
			continue
		}

		var kind Kind
		switch fields[2] {
		case "bool":
			kind = Boolean
		case "num":
			kind = Numeric
		case "str":
			kind = String
		default:
			logger.Warnf("caps: line %d: unknown type %q", line, fields[2])
			continue
		}

		row := CapRow{
			Variable: fields[0],
			Terminfo: fields[1],
			Kind:     kind,
			Line:     line,
		}
		if fields[3] != "-" {
			row.Termcap = fields[3]
		}

		t.byTerminfo[row.Terminfo] = row
		t.byVariable[row.Variable] = row
		if row.Termcap != "" {
			t.byTermcap[row.Termcap] = row
		}
	}
	if err := sc.Err(); err != nil {
		return nil, wrapf(err, "caps: read")
	}
	if len(t.byTerminfo) == 0 {
		return nil, fmt.Errorf("caps: no capability rows found")
	}
	return t, nil
}
