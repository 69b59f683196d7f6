package terminfo

// decodeLiteralChar decodes one escaped-or-plain character starting at
// s[i], per the literal forms table in spec.md §4.4 (also reused by the
// %'c'' character-constant directive and by NUMERIC character-literal
// constants in spec.md §4.2). It returns the decoded byte, how many input
// bytes were consumed, and whether the escape was recognized; ok == false
// means an UnsupportedEscape (caller should warn and emit nothing for
// this token).
func decodeLiteralChar(s string, i int) (b byte, consumed int, ok bool) {
	if i >= len(s) {
		return 0, 0, false
	}

	c := s[i]
	if c == '^' {
		if i+1 >= len(s) {
			return 0, 0, false
		}
		x := s[i+1]
		switch {
		case x == '@' || (x >= 'A' && x <= 'Z') || x == '[' || x == '\\' || x == ']' || x == '^' || x == '_' || x == '?':
			return x ^ 0x40, 2, true
		default:
			return 0, 2, false
		}
	}

	if c != '\\' {
		return c, 1, true
	}
	if i+1 >= len(s) {
		return 0, 1, false
	}

	switch x := s[i+1]; x {
	case 'E', 'e':
		return 0x1B, 2, true
	case 'n':
		return '\n', 2, true
	case 'l':
		return 0x0A, 2, true
	case 'r':
		return '\r', 2, true
	case 't':
		return '\t', 2, true
	case 'b':
		return '\b', 2, true
	case 'f':
		return '\f', 2, true
	case 's':
		return ' ', 2, true
	case '^':
		return '^', 2, true
	case '\\':
		return '\\', 2, true
	case ',':
		return ',', 2, true
	case ':':
		return ':', 2, true
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 0
		j := i + 1
		for k := 0; k < 3 && j < len(s) && s[j] >= '0' && s[j] <= '7'; k++ {
			n = n*8 + int(s[j]-'0')
			j++
		}
		if n == 0 {
			return 0x80, j - i, true
		}
		return byte(n), j - i, true
	default:
		return 0, 2, false
	}
}

// decodeEscapedString runs decodeLiteralChar across the whole of s. It is
// used for the handful of string capabilities - pad_char chief among them
// - that are emitted as raw bytes rather than run through Compile/Execute,
// but whose source text still uses the same escape notation.
func decodeEscapedString(s string) string {
	var out []byte
	for i := 0; i < len(s); {
		b, n, ok := decodeLiteralChar(s, i)
		if !ok {
			if n == 0 {
				n = 1
			}
			i += n
			continue
		}
		out = append(out, b)
		i += n
	}
	return string(out)
}
