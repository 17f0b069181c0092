package ast

import "github.com/tapehead/bf"

// Parse converts raw source bytes into a Program. Bytes outside the
// recognized alphabet (+-<>,.[]) are ignored. Fails with UnmatchedBegin if
// the input ends with open loops on the stack, or UnmatchedEnd if a ']'
// appears with no matching '['.
func Parse(src []byte) (Program, error) {
	p := &parser{src: src}
	prog, err := p.parseUntilClose()
	if err != nil {
		return nil, err
	}
	if len(p.open) != 0 {
		return nil, bf.NewSyntaxError(bf.UnmatchedBegin, "%d unclosed '[' remaining", len(p.open))
	}
	return prog, nil
}

// parser walks src once, tracking open-loop positions for diagnostics.
type parser struct {
	src  []byte
	pos  int
	open []int
}

// parseUntilClose parses nodes until end of input or a matching ']', which
// it consumes. The caller distinguishes "ran out of input while a loop was
// open" by checking p.open after the top-level call returns.
func (p *parser) parseUntilClose() (Program, error) {
	prog := make(Program, 0)
	for p.pos < len(p.src) {
		b := p.src[p.pos]
		switch b {
		case '<':
			prog = append(prog, Atom(bf.Left))
			p.pos++
		case '>':
			prog = append(prog, Atom(bf.Right))
			p.pos++
		case '+':
			prog = append(prog, AddNode(1))
			p.pos++
		case '-':
			prog = append(prog, AddNode(-1))
			p.pos++
		case ',':
			prog = append(prog, Atom(bf.In))
			p.pos++
		case '.':
			prog = append(prog, Atom(bf.Out))
			p.pos++
		case '[':
			p.open = append(p.open, p.pos)
			p.pos++
			body, err := p.parseUntilClose()
			if err != nil {
				return nil, err
			}
			prog = append(prog, Loop(body))
		case ']':
			if len(p.open) == 0 {
				return nil, bf.NewSyntaxError(bf.UnmatchedEnd, "']' at byte %d has no matching '['", p.pos)
			}
			p.open = p.open[:len(p.open)-1]
			p.pos++
			return prog, nil
		default:
			p.pos++
		}
	}
	return prog, nil
}
