package terminfo

import (
	"fmt"
	"strconv"
	"strings"
)

// stack is the %-language's runtime value stack (§4.5). It mirrors the
// teacher-grounding gdamore/tcell TParm's []any stack, but with an
// explicit Value tag instead of Go's "any", and with the int/string
// coercion rules spec.md §9 specifies (a string coerced to a number is
// always 0 - unlike tcell, which tries strconv.Atoi; see DESIGN.md).
type stack []Value

func (s stack) push(v Value) stack { return append(s, v) }

func (s stack) popInt() (int, stack) {
	if len(s) == 0 {
		return 0, s
	}
	v := s[len(s)-1]
	s = s[:len(s)-1]
	if v.IsStr {
		return 0, s
	}
	return v.Int, s
}

func (s stack) popStr() (string, stack) {
	if len(s) == 0 {
		return "", s
	}
	v := s[len(s)-1]
	s = s[:len(s)-1]
	if v.IsStr {
		return v.Str, s
	}
	return strconv.Itoa(v.Int), s
}

// Execute runs a compiled capability string against params and the
// current entry's static/dynamic banks (§4.5), returning the expanded
// byte sequence. It mutates *dynamic and *static in place, per the
// persistence rules in spec.md §3/§5: static survives across calls if the
// caller reuses the same bank; dynamic is expected to be freshly zeroed
// by the caller for each top-level expansion (Terminfo.Expand does this).
func Execute(cc *CompiledCap, params []Value, static, dynamic *[26]Value) []byte {
	var p [9]Value
	copy(p[:], params)

	var out strings.Builder
	var st stack

	if cc.PreSeed {
		for i := 8; i >= 0; i-- {
			st = st.push(p[i])
		}
	}

	pc := 0
	for pc < len(cc.Prog) {
		in := cc.Prog[pc]
		switch in.Op {
		case opLit:
			out.WriteString(in.Str)
		case opPercent:
			out.WriteByte('%')
		case opChar:
			var v int
			v, st = st.popInt()
			out.WriteByte(byte(v))
		case opStr:
			var v string
			v, st = st.popStr()
			out.WriteString(v)
		case opFmt:
			execFmt(&out, in, &st)
		case opPushParam:
			if in.Arg0 >= 0 && in.Arg0 < len(p) {
				st = st.push(p[in.Arg0])
			} else {
				st = st.push(IntValue(0))
			}
		case opStoreDyn:
			var v Value
			if n := len(st); n > 0 {
				v, st = st[n-1], st[:n-1]
			}
			dynamic[in.Arg0] = v
		case opLoadDyn:
			st = st.push(dynamic[in.Arg0])
		case opStoreStatic:
			var v Value
			if n := len(st); n > 0 {
				v, st = st[n-1], st[:n-1]
			}
			static[in.Arg0] = v
		case opLoadStatic:
			st = st.push(static[in.Arg0])
		case opStrLen:
			var v string
			v, st = st.popStr()
			st = st.push(IntValue(len(v)))
		case opPushInt:
			st = st.push(IntValue(in.Arg0))
		case opBinOp:
			st = execBinOp(in.Str, st)
		case opAnd:
			var a, b int
			b, st = st.popInt()
			a, st = st.popInt()
			st = st.push(boolValue(a != 0 && b != 0))
		case opOr:
			var a, b int
			b, st = st.popInt()
			a, st = st.popInt()
			st = st.push(boolValue(a != 0 || b != 0))
		case opNot:
			var a int
			a, st = st.popInt()
			st = st.push(boolValue(a == 0))
		case opComplement:
			var a int
			a, st = st.popInt()
			st = st.push(IntValue(^a))
		case opIncFirstTwo:
			if !p[0].IsStr {
				p[0].Int++
			}
			if !p[1].IsStr {
				p[1].Int++
			}
		case opBranchIfZero:
			var a int
			a, st = st.popInt()
			if a == 0 {
				pc = in.Arg0
				continue
			}
		case opJump:
			pc = in.Arg0
			continue
		}
		pc++
	}

	return []byte(out.String())
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

func execBinOp(op string, st stack) stack {
	var a, b int
	b, st = st.popInt()
	a, st = st.popInt()
	switch op {
	case "+":
		return st.push(IntValue(a + b))
	case "-":
		return st.push(IntValue(a - b))
	case "*":
		return st.push(IntValue(a * b))
	case "/":
		if b == 0 {
			return st.push(IntValue(0))
		}
		return st.push(IntValue(a / b))
	case "%":
		if b == 0 {
			return st.push(IntValue(0))
		}
		return st.push(IntValue(a % b))
	case "&":
		return st.push(IntValue(a & b))
	case "|":
		return st.push(IntValue(a | b))
	case "^":
		return st.push(IntValue(a ^ b))
	case "=":
		return st.push(boolValue(a == b))
	case ">":
		return st.push(boolValue(a > b))
	case "<":
		return st.push(boolValue(a < b))
	}
	return st
}

func execFmt(out *strings.Builder, in instr, st *stack) {
	spec := "%" + in.Flags
	if in.HasW {
		spec += strconv.Itoa(in.Width)
	}
	if in.HasP {
		spec += "." + strconv.Itoa(in.Prec)
	}
	spec += string(in.Verb)

	switch in.Verb {
	case 'd', 'o', 'x', 'X':
		var v int
		v, *st = st.popInt()
		fmt.Fprintf(out, spec, v)
	case 's':
		var v string
		v, *st = st.popStr()
		fmt.Fprintf(out, spec, v)
	}
}
