package terminfo

import (
	"strconv"
	"strings"
	"time"
)

// paddingDirective is one parsed "$<ms[*][/]>" token (§4.6 last bullet,
// §9 "keep the padding parser separate from the %-language parser").
type paddingDirective struct {
	ms         float64
	perLine    bool // trailing '*'
	mandatory  bool // trailing '/'
}

// parsePaddingDirective parses the content between "$<" and ">" (not
// including the delimiters). ok is false for a malformed directive
// (InvalidPadding, §7): the caller should warn and skip it.
func parsePaddingDirective(s string) (paddingDirective, bool) {
	var d paddingDirective
	digits := s
	if i := strings.IndexAny(s, "*/"); i >= 0 {
		digits = s[:i]
		for _, c := range s[i:] {
			switch c {
			case '*':
				d.perLine = true
			case '/':
				d.mandatory = true
			}
		}
	}
	digits = strings.TrimSpace(digits)
	if digits == "" {
		return d, false
	}
	ms, err := strconv.ParseFloat(digits, 64)
	if err != nil || ms < 0 {
		return d, false
	}
	d.ms = ms
	return d, true
}

// ApplyPadding emits the already-%-expanded string s one byte at a time
// via emit, honoring "$<ms>" / "$<ms*>" padding directives (§4.6):
// affectedLines scales a directive with a trailing '*'. If the selected
// terminal has no_pad_char set or no PC value, the delay is a real sleep;
// otherwise ApplyPadding emits (ms * baudrate) / (9 * 1000) copies of PC
// and then calls flush (if non-nil). Either way, a single 0x00 byte marks
// completion of the delay, so callers can observe when it's done even in
// tests that can't literally block (spec.md §8 scenarios 5 and 6).
func (t *Terminfo) ApplyPadding(s string, affectedLines int, emit func(byte), flush func()) {
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '<' {
			end := strings.IndexByte(s[i+2:], '>')
			if end < 0 {
				emit(s[i])
				i++
				continue
			}
			raw := s[i+2 : i+2+end]
			i = i + 2 + end + 1

			d, ok := parsePaddingDirective(raw)
			if !ok {
				t.logger().Warnf("apply_padding: malformed directive %q", raw)
				continue
			}
			ms := d.ms
			if d.perLine {
				ms *= float64(affectedLines)
			}
			t.delay(ms, emit, flush)
			continue
		}
		emit(s[i])
		i++
	}
}

func (t *Terminfo) delay(ms float64, emit func(byte), flush func()) {
	pc, havePC := "", false
	if t.entry != nil {
		if c, ok := t.entry.Variable["PC"]; ok && c.Kind == String {
			pc, havePC = decodeEscapedString(c.Str), true
		}
	}
	noPad := t.entry != nil && t.entry.Terminfo["npc"].Bool

	if noPad || !havePC {
		time.Sleep(time.Duration(ms * float64(time.Millisecond)))
		emit(0x00)
		return
	}

	count := int((ms * float64(t.Baudrate())) / (9 * 1000))
	for n := 0; n < count; n++ {
		for i := 0; i < len(pc); i++ {
			emit(pc[i])
		}
	}
	if flush != nil {
		flush()
	}
	emit(0x00)
}
