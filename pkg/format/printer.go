package format

import "strings"

// The line printer buffers whole lines so separator placement can be decided
// after the fact. Item boundaries are emitted as a newline plus a deferred
// separator; print resolves each one against the configured break style. The
// deferral matters because a trailing comment belonging to the previous item
// is appended before the separator is, so only at print time is it known
// whether the separator can be pulled back onto that line.

type (
	line struct {
		indent int
		frags  []string

		// sep is a separator deferred to the start of this line ("," or a
		// keyword such as AND); sepBreak is its break style.
		sep      string
		sepBreak string

		// soft lines merge into the previous line at print time unless that
		// line ends in a -- comment, which pins the break.
		soft bool
	}

	printer struct {
		style *style
		lines []*line
	}
)

func newPrinter(s *style) *printer {
	return &printer{style: s}
}

func (p *printer) current() *line {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, &line{})
	}
	return p.lines[len(p.lines)-1]
}

// appendText adds a fragment to the current line. Fragments carry their own
// spacing; the printer concatenates them verbatim.
func (p *printer) appendText(text string) {
	if text == "" {
		return
	}
	ln := p.current()
	ln.frags = append(ln.frags, text)
}

// appendNewline starts a new line at the given indent level.
func (p *printer) appendNewline(indent int) {
	p.lines = append(p.lines, &line{indent: indent})
}

// appendSoftBreak starts a line that joins the previous one with a space
// when printed. It exists so inline layout survives a trailing -- comment:
// text after the comment must move to a fresh line instead of being
// swallowed by it.
func (p *printer) appendSoftBreak(indent int) {
	p.lines = append(p.lines, &line{indent: indent, soft: true})
}

// appendSeparator defers a separator at the start of the current (just
// opened) line. With break style "before" it stays there; "after" pulls it
// back onto the previous line; "none" merges the two lines entirely.
func (p *printer) appendSeparator(sep, breakStyle string) {
	ln := p.current()
	ln.sep = sep
	ln.sepBreak = breakStyle
}

// lineComment reports whether a fragment is a -- comment, which must stay at
// the end of its line.
func lineComment(frag string) bool {
	return strings.HasPrefix(strings.TrimLeft(frag, " "), "--")
}

func endsWithLineComment(ln *line) bool {
	return len(ln.frags) > 0 && lineComment(ln.frags[len(ln.frags)-1])
}

// attachSep places a separator at the end of ln. A comma binds directly to
// the last fragment; word separators (AND, OR) take a space. When the line
// ends in a -- comment the separator is inserted before the comment so it is
// not swallowed by it.
func attachSep(ln *line, sep string) {
	joiner := " " + sep
	if sep == "," || sep == ";" {
		joiner = sep
	}

	if endsWithLineComment(ln) {
		last := len(ln.frags) - 1
		comment := ln.frags[last]
		if !strings.HasPrefix(comment, " ") {
			comment = " " + comment
		}
		ln.frags = append(ln.frags[:last], joiner, comment)
		return
	}
	ln.frags = append(ln.frags, joiner)
}

// print resolves every deferred separator and assembles the final text.
func (p *printer) print() string {
	var resolved []*line

	for _, ln := range p.lines {
		if ln.soft {
			prev := lastContentLine(resolved)
			if prev == nil || endsWithLineComment(prev) {
				resolved = append(resolved, ln)
				continue
			}
			if len(ln.frags) > 0 {
				prev.frags = append(prev.frags, " ")
				prev.frags = append(prev.frags, ln.frags...)
			}
			continue
		}

		if ln.sep == "" {
			resolved = append(resolved, ln)
			continue
		}

		prev := lastContentLine(resolved)
		if prev == nil {
			// Nothing to attach to; keep the separator leading.
			ln.sepBreak = "before"
		}

		switch ln.sepBreak {
		case "after":
			attachSep(prev, ln.sep)
			ln.sep = ""
			resolved = append(resolved, ln)

		case "none":
			attachSep(prev, ln.sep)
			if endsWithLineComment(prev) {
				// The comment pins the line break; the item moves to the
				// next line even inline.
				ln.sep = ""
				resolved = append(resolved, ln)
				continue
			}
			prev.frags = append(prev.frags, " ")
			prev.frags = append(prev.frags, ln.frags...)

		default: // before
			ln.frags = append([]string{ln.sep + " "}, ln.frags...)
			ln.sep = ""
			resolved = append(resolved, ln)
		}
	}

	var b strings.Builder
	first := true
	for _, ln := range resolved {
		if len(ln.frags) == 0 {
			continue
		}
		if !first {
			b.WriteString(p.style.newline)
		}
		first = false

		for range ln.indent {
			b.WriteString(p.style.indent)
		}
		for _, frag := range ln.frags {
			b.WriteString(frag)
		}
	}
	return b.String()
}

// lastContentLine finds the most recent line with any fragments, skipping
// empty lines produced by structural newlines.
func lastContentLine(lines []*line) *line {
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i].frags) > 0 {
			return lines[i]
		}
	}
	return nil
}
