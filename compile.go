package terminfo

import "strings"

// opcode identifies one instruction in a CompiledCap's program, per the
// flat-opcode design spec.md §9 recommends in place of the historical
// "compile to text, then interpret the text" pipeline.
type opcode int

const (
	opLit opcode = iota // emit Str literally
	opPercent           // emit '%'
	opChar              // pop, emit as one byte
	opStr               // pop, emit as bytes
	opFmt               // pop, emit formatted per Flags/Width/Prec/Verb
	opPushParam         // push params[Arg0]
	opStoreDyn          // pop into dynamic[Arg0]
	opLoadDyn           // push dynamic[Arg0]
	opStoreStatic       // pop into static[Arg0]
	opLoadStatic        // push static[Arg0]
	opStrLen            // pop string, push its length
	opPushInt           // push Arg0
	opBinOp             // pop b, pop a, push a <Str> b
	opAnd               // logical AND
	opOr                // logical OR
	opNot               // logical NOT
	opComplement        // bitwise complement
	opIncFirstTwo       // params[0]++, params[1]++ (if numeric)
	opBranchIfZero      // pop; if zero, jump to Arg0
	opJump              // jump to Arg0
)

type instr struct {
	Op    opcode
	Arg0  int
	Str   string
	Verb  byte
	Flags string
	Width int
	HasW  bool
	Prec  int
	HasP  bool
}

// CompiledCap is the executable form of a String capability's raw value,
// produced by Compile. Compiling the same source string twice always
// yields an equal program (spec.md §8 "compilation is deterministic").
type CompiledCap struct {
	Source  string
	Prog    []instr
	PreSeed bool // termcap compatibility mode, §4.4 last paragraph
}

// compileCache memoizes Compile by source string (§4.5 "optional
// caching"). Safe for concurrent Compile calls; per spec.md §5 a single
// Terminfo/runtime instance is not otherwise safe for concurrent use.
type compileCache struct {
	mu    chan struct{} // 1-buffered channel used as a cheap mutex
	cache map[string]*CompiledCap
}

func newCompileCache() *compileCache {
	c := &compileCache{mu: make(chan struct{}, 1), cache: make(map[string]*CompiledCap)}
	c.mu <- struct{}{}
	return c
}

func (c *compileCache) get(src string) (*CompiledCap, bool) {
	<-c.mu
	defer func() { c.mu <- struct{}{} }()
	cc, ok := c.cache[src]
	return cc, ok
}

func (c *compileCache) put(src string, cc *CompiledCap) {
	<-c.mu
	defer func() { c.mu <- struct{}{} }()
	c.cache[src] = cc
}

type ifFrame struct {
	pendingBranch int // index of the unpatched opBranchIfZero, or -1
	endJumps      []int
}

// Compile parses the raw value of a String capability (escapes not yet
// expanded, per parse.go) into a CompiledCap (§4.4). It is the only place
// %-language text is interpreted; the VM (vm.go) is a pure linear
// interpreter over the resulting program.
func Compile(src string, logger Logger) *CompiledCap {
	if logger == nil {
		logger = NopLogger
	}

	cc := &CompiledCap{Source: src}
	var prog []instr
	var lit strings.Builder
	var ifStack []*ifFrame
	sawP, sawNakedConv := false, false

	flushLit := func() {
		if lit.Len() > 0 {
			prog = append(prog, instr{Op: opLit, Str: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(src) {
		if src[i] != '%' {
			b, n, ok := decodeLiteralChar(src, i)
			if !ok {
				logger.Warnf("compile %q: unsupported escape at byte %d", src, i)
				i += n
				if n == 0 {
					i++
				}
				continue
			}
			lit.WriteByte(b)
			i += n
			continue
		}

		// src[i] == '%'
		if i+1 >= len(src) {
			lit.WriteByte('%')
			break
		}
		d := src[i+1]
		flushLit()

		switch d {
		case '%':
			prog = append(prog, instr{Op: opLit, Str: "%"})
			i += 2

		case 'c':
			prog = append(prog, instr{Op: opChar})
			sawNakedConv = true
			i += 2

		case 's':
			prog = append(prog, instr{Op: opStr})
			sawNakedConv = true
			i += 2

		case 'p':
			if i+2 < len(src) && src[i+2] >= '1' && src[i+2] <= '9' {
				prog = append(prog, instr{Op: opPushParam, Arg0: int(src[i+2] - '1')})
				sawP = true
				i += 3
			} else {
				logger.Warnf("compile %q: malformed %%p at byte %d", src, i)
				i += 2
			}

		case 'P':
			if i+2 < len(src) && isUpper(src[i+2]) {
				prog = append(prog, instr{Op: opStoreStatic, Arg0: int(src[i+2] - 'A')})
				i += 3
			} else if i+2 < len(src) && isLower(src[i+2]) {
				prog = append(prog, instr{Op: opStoreDyn, Arg0: int(src[i+2] - 'a')})
				i += 3
			} else {
				logger.Warnf("compile %q: malformed %%P at byte %d", src, i)
				i += 2
			}

		case 'g':
			if i+2 < len(src) && isUpper(src[i+2]) {
				prog = append(prog, instr{Op: opLoadStatic, Arg0: int(src[i+2] - 'A')})
				i += 3
			} else if i+2 < len(src) && isLower(src[i+2]) {
				prog = append(prog, instr{Op: opLoadDyn, Arg0: int(src[i+2] - 'a')})
				i += 3
			} else {
				logger.Warnf("compile %q: malformed %%g at byte %d", src, i)
				i += 2
			}

		case 'l':
			prog = append(prog, instr{Op: opStrLen})
			i += 2

		case '\'':
			b, n, ok := decodeLiteralChar(src, i+2)
			if !ok || i+2+n >= len(src) || src[i+2+n] != '\'' {
				logger.Warnf("compile %q: malformed character constant at byte %d", src, i)
				i += 2
				continue
			}
			prog = append(prog, instr{Op: opPushInt, Arg0: int(b)})
			i = i + 2 + n + 1

		case '{':
			j := i + 2
			n := 0
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				n = n*10 + int(src[j]-'0')
				j++
			}
			if j >= len(src) || src[j] != '}' {
				logger.Warnf("compile %q: malformed %%{...} at byte %d", src, i)
				i = j
				continue
			}
			prog = append(prog, instr{Op: opPushInt, Arg0: n})
			i = j + 1

		case '+', '-', '*', '/':
			prog = append(prog, instr{Op: opBinOp, Str: string(d)})
			i += 2
		case 'm':
			prog = append(prog, instr{Op: opBinOp, Str: "%"})
			i += 2
		case '&', '|', '^':
			prog = append(prog, instr{Op: opBinOp, Str: string(d)})
			i += 2
		case '=', '>', '<':
			prog = append(prog, instr{Op: opBinOp, Str: string(d)})
			i += 2

		case 'A':
			prog = append(prog, instr{Op: opAnd})
			i += 2
		case 'O':
			prog = append(prog, instr{Op: opOr})
			i += 2
		case '!':
			prog = append(prog, instr{Op: opNot})
			i += 2
		case '~':
			prog = append(prog, instr{Op: opComplement})
			i += 2

		case 'i':
			prog = append(prog, instr{Op: opIncFirstTwo})
			i += 2

		case '?':
			ifStack = append(ifStack, &ifFrame{pendingBranch: -1})
			i += 2

		case 't':
			if len(ifStack) == 0 {
				logger.Warnf("compile %q: %%t without %%?", src)
				i += 2
				continue
			}
			frame := ifStack[len(ifStack)-1]
			prog = append(prog, instr{Op: opBranchIfZero})
			frame.pendingBranch = len(prog) - 1
			i += 2

		case 'e':
			if len(ifStack) == 0 {
				logger.Warnf("compile %q: %%e without %%?", src)
				i += 2
				continue
			}
			frame := ifStack[len(ifStack)-1]
			prog = append(prog, instr{Op: opJump})
			frame.endJumps = append(frame.endJumps, len(prog)-1)
			if frame.pendingBranch >= 0 {
				prog[frame.pendingBranch].Arg0 = len(prog)
				frame.pendingBranch = -1
			}
			i += 2

		case ';':
			if len(ifStack) == 0 {
				logger.Warnf("compile %q: %%; without %%?", src)
				i += 2
				continue
			}
			frame := ifStack[len(ifStack)-1]
			closeIfFrame(prog, frame, len(prog))
			ifStack = ifStack[:len(ifStack)-1]
			i += 2

		case ':', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '#', ' ':
			ins, n := parseFormat(src, i+1)
			prog = append(prog, ins)
			sawNakedConv = true
			i += 1 + n

		case 'd', 'o', 'x', 'X':
			ins, n := parseFormat(src, i+1)
			prog = append(prog, ins)
			sawNakedConv = true
			i += 1 + n

		default:
			logger.Warnf("compile %q: unknown directive %%%c at byte %d", src, d, i)
			prog = append(prog, instr{Op: opLit, Str: "%" + string(d)})
			i += 2
		}
	}
	flushLit()

	// Implicit close at end-of-string for any %? left open (spec.md §9).
	for len(ifStack) > 0 {
		frame := ifStack[len(ifStack)-1]
		closeIfFrame(prog, frame, len(prog))
		ifStack = ifStack[:len(ifStack)-1]
	}

	cc.Prog = prog
	cc.PreSeed = !sawP && sawNakedConv
	return cc
}

func closeIfFrame(prog []instr, frame *ifFrame, end int) {
	if frame.pendingBranch >= 0 {
		prog[frame.pendingBranch].Arg0 = end
	}
	for _, j := range frame.endJumps {
		prog[j].Arg0 = end
	}
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// parseFormat parses the generic "%[[:]flags][width[.precision]]{d,o,x,X,s}"
// directive starting at pos (the character right after '%'). It returns
// the resulting opFmt instruction and how many bytes (from pos) it
// consumed, including the verb.
func parseFormat(src string, pos int) (instr, int) {
	start := pos
	if pos < len(src) && src[pos] == ':' {
		pos++
	}
	flagStart := pos
	for pos < len(src) && strings.IndexByte("-+ #0", src[pos]) >= 0 {
		pos++
	}
	flags := src[flagStart:pos]

	widthStart := pos
	for pos < len(src) && src[pos] >= '0' && src[pos] <= '9' {
		pos++
	}
	width := 0
	hasWidth := pos > widthStart
	if hasWidth {
		width = atoiSimple(src[widthStart:pos])
	}

	prec := 0
	hasPrec := false
	if pos < len(src) && src[pos] == '.' {
		pos++
		precStart := pos
		for pos < len(src) && src[pos] >= '0' && src[pos] <= '9' {
			pos++
		}
		hasPrec = true
		prec = atoiSimple(src[precStart:pos])
	}

	var verb byte
	if pos < len(src) {
		verb = src[pos]
		pos++
	}

	return instr{Op: opFmt, Flags: flags, Width: width, HasW: hasWidth, Prec: prec, HasP: hasPrec, Verb: verb}, pos - start
}

func atoiSimple(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
