package terminfo

import (
	"strconv"
	"strings"
)

// Parse tokenizes and parses a terminfo source buffer (§4.2) into a
// Database. It follows the teacher's hand-written-lexer approach
// (grounded on aymanbagabas-terminfo's Parse, which drives the same
// grammar off a small per-character state machine) rather than a general
// parser generator: the grammar is LL(1)-ish once header lines (column 0,
// non-blank, non-comment) are distinguished from feature lines (leading
// whitespace), and the longest-match rules in spec.md §4.2 reduce to a
// fixed precedence of delimiters ('=' before '#' before bare boolean)
// within a single comma-separated field.
func Parse(src string) (*Database, error) {
	db := &Database{}

	var cur *Entry
	lineNo := 0

	flush := func() {
		if cur != nil {
			db.Entries = append(db.Entries, *cur)
			cur = nil
		}
	}

	for _, raw := range splitLines(src) {
		lineNo++
		if raw == "" {
			continue
		}
		trimmed := strings.TrimLeft(raw, " \t")
		isComment := len(trimmed) > 0 && trimmed[0] == '#'
		if isComment || strings.TrimSpace(raw) == "" {
			continue
		}

		if !isIndented(raw) {
			// Header line: alias_in_col_one ("|" alias)* ("|" longname)? ","
			flush()
			header := strings.TrimRight(raw, " \t")
			if !strings.HasSuffix(header, ",") {
				return nil, ErrParse{Line: lineNo, Reason: "header line must end with ','"}
			}
			header = strings.TrimSuffix(header, ",")
			fields := strings.Split(header, "|")
			if len(fields) == 0 || fields[0] == "" {
				return nil, ErrParse{Line: lineNo, Reason: "header line has no alias"}
			}

			e := &Entry{Cancellations: make(map[string]bool)}
			for _, f := range fields {
				if looksLikeLongname(f) {
					if e.Longname != "" {
						return nil, ErrLongnameSet{Entry: e.Primary()}
					}
					e.Longname = f
					continue
				}
				if e.HasAlias(f) {
					return nil, ErrParse{Line: lineNo, Reason: "duplicate alias " + strconv.Quote(f)}
				}
				e.Aliases = append(e.Aliases, f)
			}
			if len(e.Aliases) == 0 {
				return nil, ErrParse{Line: lineNo, Reason: "header line has no alias"}
			}
			cur = e
			continue
		}

		// Feature line: WS_many feature ("," feature)* "," NEWLINE
		if cur == nil {
			return nil, ErrParse{Line: lineNo, Reason: "feature line before any header"}
		}
		content := strings.TrimLeft(raw, " \t")
		fields := splitUnescapedCommas(content)
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			parsed, err := parseFeature(f, lineNo)
			if err != nil {
				return nil, err
			}
			if parsed.Kind == Boolean && strings.HasSuffix(parsed.Name, "@") {
				cur.Cancellations[strings.TrimSuffix(parsed.Name, "@")] = true
			}
			cur.Capabilities = append(cur.Capabilities, parsed)
		}
	}
	flush()

	return db, nil
}

func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.Split(src, "\n")
}

func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// looksLikeLongname applies the conventional terminfo.src heuristic: a
// header field containing whitespace is a description, not an alias
// (aliases are drawn from ALIASINCOLUMNONE/ALIAS, both of which exclude
// blanks).
func looksLikeLongname(f string) bool {
	return strings.ContainsAny(f, " \t")
}

// splitUnescapedCommas splits on ',' while treating a backslash-escaped
// comma ("\,") as part of the preceding field, per the STRING escape table
// in spec.md §4.2.
func splitUnescapedCommas(s string) []string {
	var out []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if c == ',' {
			out = append(out, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

// parseFeature classifies and parses a single comma-delimited field into a
// Capability (§4.2 BOOLEAN/NUMERIC/STRING lexemes).
func parseFeature(f string, line int) (Capability, error) {
	idxEq := strings.IndexByte(f, '=')
	idxHash := strings.IndexByte(f, '#')

	switch {
	case idxEq >= 0 && (idxHash < 0 || idxEq < idxHash):
		return Capability{Name: f[:idxEq], Kind: String, Str: f[idxEq+1:]}, nil
	case idxHash >= 0:
		n, err := parseCInt(f[idxHash+1:])
		if err != nil {
			return Capability{}, ErrParse{Line: line, Reason: "invalid numeric capability " + strconv.Quote(f) + ": " + err.Error()}
		}
		return Capability{Name: f[:idxHash], Kind: Numeric, Num: n}, nil
	default:
		return Capability{Name: f, Kind: Boolean, Bool: true}, nil
	}
}

// parseCInt parses the C-style integer constant tail of a NUMERIC
// capability: hex (0x...), octal (leading 0), decimal, or a quoted
// character literal ('x'), each with an optional u/l/L/ll/LL suffix.
func parseCInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrParse{Reason: "empty numeric value"}
	}

	if s[0] == '\'' && strings.HasSuffix(s, "'") && len(s) >= 3 {
		inner := s[1 : len(s)-1]
		b, consumed, ok := decodeLiteralChar(inner, 0)
		if ok && consumed == len(inner) {
			return int(b), nil
		}
		return 0, ErrParse{Reason: "invalid character literal " + strconv.Quote(s)}
	}

	s = strings.TrimRight(s, "uUlL")
	if s == "" {
		return 0, ErrParse{Reason: "numeric value has no digits"}
	}

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, err := strconv.ParseInt(s[2:], 16, 64)
		return int(n), err
	case len(s) > 1 && s[0] == '0':
		n, err := strconv.ParseInt(s, 8, 64)
		return int(n), err
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		return int(n), err
	}
}
