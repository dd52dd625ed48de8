package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlkit/pkg/parser"
)

// FormatError reports an AST shape the formatter has no rule for. It always
// indicates a defect (a node kind added without a formatting rule), never bad
// user input.
type FormatError struct {
	Node any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("no formatting rule for node type %T", e.Node)
}

type (
	// Formatter renders parsed statements back to SQL under a bound style.
	// It keeps no state between calls; the same instance is safe to reuse
	// and to share across goroutines.
	Formatter struct {
		style *style
	}

	// Result is the output of one format call: the SQL text plus the values
	// of any bound parameters encountered, keyed by parameter name (or
	// ordinal for indexed style).
	Result struct {
		SQL    string
		Params map[string]any
	}

	// run is the mutable state of a single format call: the printer, the
	// collected parameters, and the nesting depth used by comment modes.
	run struct {
		style     *style
		pr        *printer
		params    map[string]any
		spellings *spellingSource
		ordinal   int
		depth     int
		indent    int
	}
)

// New builds a Formatter, resolving every logical option value. It fails with
// a ConfigurationError when an option has an unrecognized value.
func New(opts *Options) (*Formatter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	resolved, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return &Formatter{style: resolved}, nil
}

// NewDefault builds a Formatter with DefaultOptions.
func NewDefault() *Formatter {
	f, err := New(nil)
	if err != nil {
		panic(err) // defaults always resolve
	}
	return f
}

// Format renders statements to w separated by ";" lines. It is the
// convenience entrypoint mirroring FormatStatements.
func Format(w io.Writer, opts *Options, statements ...parser.Statement) error {
	f, err := New(opts)
	if err != nil {
		return err
	}

	result, err := f.FormatStatements(statements...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, result.SQL)
	return errors.Wrap(err, "failed to write formatted SQL")
}

// FormatScript renders every statement of a parsed script. The script's
// lexeme stream supplies the author's keyword spellings for preserve-case
// rendering.
func (f *Formatter) FormatScript(script *parser.Script) (*Result, error) {
	r := f.newRun()
	if f.style.keywordCase == "preserve" {
		r.spellings = newSpellingSource(script.Index.Lexemes())
	}
	return r.formatAll(script.Statements)
}

// FormatStatements renders statements separated by ";", sharing one
// parameter map.
func (f *Formatter) FormatStatements(statements ...parser.Statement) (*Result, error) {
	return f.newRun().formatAll(statements)
}

func (r *run) formatAll(statements []parser.Statement) (*Result, error) {
	for i, stmt := range statements {
		if i > 0 {
			// Deferred so the semicolon lands before any trailing comment on
			// the previous statement's last line.
			r.pr.appendNewline(0)
			r.pr.appendSeparator(";", "after")
		}
		if err := r.statement(stmt); err != nil {
			return nil, err
		}
	}
	return &Result{SQL: r.pr.print(), Params: r.params}, nil
}

// FormatStatement renders a single statement.
func (f *Formatter) FormatStatement(stmt parser.Statement) (*Result, error) {
	return f.FormatStatements(stmt)
}

func (f *Formatter) newRun() *run {
	return &run{
		style:  f.style,
		pr:     newPrinter(f.style),
		params: map[string]any{},
	}
}

// keyword renders a reserved word in the configured case. Preserve mode
// reuses the author's spelling when the source lexemes are available
// (FormatScript); synthesized keywords and statement-only calls render
// uppercase.
func (r *run) keyword(kw string) string {
	switch r.style.keywordCase {
	case "lower":
		return strings.ToLower(kw)
	case "preserve":
		return r.preserved(kw)
	default:
		return strings.ToUpper(kw)
	}
}

func (r *run) preserved(kw string) string {
	if r.spellings == nil {
		return strings.ToUpper(kw)
	}

	words := strings.Split(kw, " ")
	for i, w := range words {
		if spelled, ok := r.spellings.take(w); ok {
			words[i] = spelled
		} else {
			words[i] = strings.ToUpper(w)
		}
	}
	return strings.Join(words, " ")
}

// identifier renders an identifier in the configured escape delimiters. With
// no escape configured, identifiers the author quoted stay quoted so names
// with special characters survive the round trip.
func (r *run) identifier(id *parser.Identifier) string {
	if r.style.escStart == "" && r.style.escEnd == "" {
		if id.Quoted {
			return `"` + strings.ReplaceAll(id.Name, `"`, `""`) + `"`
		}
		return id.Name
	}

	name := id.Name
	if r.style.escEnd != "" {
		name = strings.ReplaceAll(name, r.style.escEnd, r.style.escEnd+r.style.escEnd)
	}
	return r.style.escStart + name + r.style.escEnd
}

func (r *run) qualifiedName(q *parser.QualifiedName) string {
	parts := make([]string, 0, len(q.Parts))
	for _, part := range q.Parts {
		parts = append(parts, r.identifier(part))
	}
	return strings.Join(parts, ".")
}

// parameter renders a placeholder per the configured style and records its
// bound value.
func (r *run) parameter(p *parser.Parameter) string {
	if r.style.paramStyle == "indexed" {
		r.ordinal++
		key := strconv.Itoa(r.ordinal)
		if p.Value != nil {
			r.params[key] = p.Value
		}
		return r.style.paramSymbol + key
	}

	name := p.Name
	if name == "" {
		r.ordinal++
		name = "p" + strconv.Itoa(r.ordinal)
	}
	if p.Value != nil {
		r.params[name] = p.Value
	}
	return r.style.paramSymbol + name
}

// Comment emission.

func (r *run) commentsWanted(anchor parser.CommentAnchor) bool {
	switch r.style.comments {
	case CommentsNone:
		return false
	case CommentsHeaderOnly:
		return anchor == parser.CommentHeader || anchor == parser.CommentLeading
	case CommentsTopHeaderOnly:
		return anchor == parser.CommentHeader && r.depth == 0
	default: // full, smart
		return true
	}
}

func anchoredComments(n parser.Node, anchor parser.CommentAnchor) []parser.PositionedComment {
	var out []parser.PositionedComment
	for _, pc := range n.PositionedComments() {
		if pc.Anchor == anchor {
			out = append(out, pc)
		}
	}
	return out
}

// leadingComments emits header and leading comments of n, each on its own
// line at the current indent. Smart mode merges a run of adjacent block
// comments into a single block.
func (r *run) leadingComments(n parser.Node, anchor parser.CommentAnchor) {
	if !r.commentsWanted(anchor) {
		return
	}

	comments := anchoredComments(n, anchor)
	if len(comments) == 0 {
		return
	}

	if r.style.comments == CommentsSmart {
		comments = mergeBlockRuns(comments)
	}
	for _, pc := range comments {
		r.pr.appendText(pc.Text)
		r.pr.appendNewline(r.indent)
	}
}

// trailingComments emits trailing comments of n inline at the end of the
// current line.
func (r *run) trailingComments(n parser.Node) {
	if !r.commentsWanted(parser.CommentTrailing) {
		return
	}
	for _, pc := range anchoredComments(n, parser.CommentTrailing) {
		r.pr.appendText(" " + pc.Text)
	}
}

// mergeBlockRuns collapses consecutive block comments on adjacent source
// lines into one multi-line block, undoing the per-line split a formatter
// produces when breaking a block comment across items.
func mergeBlockRuns(comments []parser.PositionedComment) []parser.PositionedComment {
	isBlock := func(pc parser.PositionedComment) bool {
		return strings.HasPrefix(pc.Text, "/*") && strings.HasSuffix(pc.Text, "*/")
	}

	var out []parser.PositionedComment
	for i := 0; i < len(comments); {
		pc := comments[i]
		if !isBlock(pc) {
			out = append(out, pc)
			i++
			continue
		}

		j := i + 1
		for j < len(comments) && isBlock(comments[j]) && comments[j].Pos.Line == comments[j-1].Pos.Line+1 {
			j++
		}
		if j == i+1 {
			out = append(out, pc)
			i++
			continue
		}

		var body []string
		for _, c := range comments[i:j] {
			text := strings.TrimSuffix(strings.TrimPrefix(c.Text, "/*"), "*/")
			body = append(body, strings.TrimSpace(text))
		}
		merged := pc
		merged.Text = "/* " + strings.Join(body, " ") + " */"
		out = append(out, merged)
		i = j
	}
	return out
}

// statement dispatches over every statement kind. The switch is exhaustive;
// an unknown kind is a FormatError defect.
func (r *run) statement(stmt parser.Statement) error {
	r.leadingComments(stmt, parser.CommentHeader)

	var err error
	switch s := stmt.(type) {
	case *parser.SimpleSelectQuery, *parser.BinarySelectQuery, *parser.ValuesQuery:
		err = r.selectQuery(s.(parser.SelectQuery))
	case *parser.InsertQuery:
		err = r.insert(s)
	case *parser.UpdateQuery:
		err = r.update(s)
	case *parser.DeleteQuery:
		err = r.delete(s)
	case *parser.CreateTableQuery:
		err = r.createTable(s)
	case *parser.AlterTableStatement:
		err = r.alterTable(s)
	case *parser.DropStatement:
		err = r.drop(s)
	case *parser.CreateIndexStatement:
		err = r.createIndex(s)
	case *parser.ExplainStatement:
		err = r.explain(s)
	case *parser.AnalyzeStatement:
		err = r.analyzeStatement(s)
	default:
		err = &FormatError{Node: stmt}
	}
	if err != nil {
		return err
	}

	r.trailingComments(stmt)
	return nil
}

// clauseBreak starts a new line for a clause keyword in multiline layout. In
// inline layout the clause joins the current line with a space, unless a
// trailing -- comment pins a break.
func (r *run) clauseBreak() {
	if r.style.multiline() {
		r.pr.appendNewline(r.indent)
	} else {
		r.pr.appendSoftBreak(r.indent)
	}
}

// itemBreak separates two list items: a deferred separator boundary in the
// configured break style.
func (r *run) itemBreak(breakStyle string) {
	r.pr.appendNewline(r.itemIndent())
	r.pr.appendSeparator(",", breakStyle)
}

// itemIndent is the indent level for list items: one deeper than the clause
// keyword in multiline layout.
func (r *run) itemIndent() int {
	if r.style.multiline() {
		return r.indent + 1
	}
	return r.indent
}
