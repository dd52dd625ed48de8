package parser

// Comment attachment. Comments are collected into per-gap buckets during
// lexing (see newParser) and drained at element boundaries. A drained comment
// becomes trailing on the previously completed element when no newline
// separates it from the token before it and only separator punctuation sits
// between that element and the comment; otherwise it is returned to the
// caller to attach as leading (or header) on the element about to be parsed.

// element marks n as the most recently completed clause element, the
// candidate owner for trailing comments that follow it on the same line.
func (p *Parser) element(n Node) {
	p.last = n
	p.lastGap = p.cur
}

// takeComments drains every undrained comment up to the cursor. Trailing
// comments are attached to the previous element in place; the rest are
// returned for the caller to attach to the next element.
func (p *Parser) takeComments() []PositionedComment {
	var pending []PositionedComment

	for g := p.gapMark; g <= p.cur && g < len(p.gaps); g++ {
		for _, c := range p.gaps[g] {
			pc := PositionedComment{Text: c.Value, Pos: c.Pos}
			if p.isTrailing(g, pc) {
				pc.Anchor = CommentTrailing
				p.last.AddComment(pc)
				continue
			}
			pc.Anchor = CommentLeading
			pending = append(pending, pc)
		}
		p.gaps[g] = nil
	}
	p.gapMark = p.cur + 1
	return pending
}

// isTrailing applies the tie-break rule: a comment belongs to the previous
// element only when no newline intervenes between that element's last token
// and the comment, and nothing but separator punctuation sits in between.
func (p *Parser) isTrailing(gap int, pc PositionedComment) bool {
	if p.last == nil || gap == 0 || gap < p.lastGap {
		return false
	}
	if pc.Pos.Line != p.sig[gap-1].End.Line {
		return false
	}
	for i := p.lastGap; i < gap; i++ {
		if v := p.sig[i].Value; v != "," && v != ";" {
			return false
		}
	}
	return true
}

// drainInto attaches all undrained comments to n with the given anchor,
// still honoring the trailing tie-break. Used at statement and input ends.
func (p *Parser) drainInto(n Node, anchor CommentAnchor) {
	for _, pc := range p.takeComments() {
		pc.Anchor = anchor
		n.AddComment(pc)
	}
}

// leadInto drains pending comments and attaches them to n as leading.
func (p *Parser) leadInto(n Node) {
	attach(n, p.takeComments(), CommentLeading)
}

func attach(n Node, comments []PositionedComment, anchor CommentAnchor) {
	for _, pc := range comments {
		pc.Anchor = anchor
		n.AddComment(pc)
	}
}
