package format

import (
	"strings"

	"github.com/pseudomuto/sqlkit/pkg/parser"
)

func (r *run) selectQuery(q parser.SelectQuery) error {
	switch q := q.(type) {
	case *parser.SimpleSelectQuery:
		return r.simpleSelect(q)

	case *parser.BinarySelectQuery:
		if err := r.selectQuery(q.Left); err != nil {
			return err
		}
		r.clauseBreak()
		r.pr.appendText(r.keyword(q.Operator))
		r.clauseBreak()
		// The parser builds left-associative chains, so a binary query in
		// the right operand can only come from explicit grouping. Reprint
		// the parentheses or re-parsing would rebalance the chain.
		if nested, ok := q.Right.(*parser.BinarySelectQuery); ok {
			oneline := r.style.subqueryOne || !r.style.multiline()
			return r.group(oneline, func() error { return r.selectQuery(nested) })
		}
		return r.selectQuery(q.Right)

	case *parser.ValuesQuery:
		return r.values(q)

	default:
		return &FormatError{Node: q}
	}
}

func (r *run) simpleSelect(q *parser.SimpleSelectQuery) error {
	if q.With != nil {
		if err := r.withClause(q.With); err != nil {
			return err
		}
		r.clauseBreak()
	}

	r.pr.appendText(r.keyword("SELECT"))
	if q.Distinct {
		r.pr.appendText(" " + r.keyword("DISTINCT"))
	}
	if err := r.selectItems(q.Items); err != nil {
		return err
	}

	if q.From != nil {
		if err := r.fromClause(q.From); err != nil {
			return err
		}
	}
	if q.Where != nil {
		if err := r.predicate("WHERE", q.Where); err != nil {
			return err
		}
	}
	if q.GroupBy != nil {
		if err := r.groupBy(q.GroupBy); err != nil {
			return err
		}
	}
	if q.Having != nil {
		if err := r.predicate("HAVING", q.Having); err != nil {
			return err
		}
	}
	if q.OrderBy != nil {
		r.clauseBreak()
		r.pr.appendText(r.keyword("ORDER BY"))
		if err := r.orderByItems(q.OrderBy.Items); err != nil {
			return err
		}
	}
	if q.Limit != nil {
		r.clauseBreak()
		r.pr.appendText(r.keyword("LIMIT") + " ")
		if err := r.expr(q.Limit); err != nil {
			return err
		}
	}
	if q.Offset != nil {
		r.clauseBreak()
		r.pr.appendText(r.keyword("OFFSET") + " ")
		if err := r.expr(q.Offset); err != nil {
			return err
		}
	}
	return nil
}

// selectItems lays out a comma-separated list after the current clause
// keyword: inline after a space, or one item per line at the item indent.
func (r *run) selectItems(items []*parser.SelectItem) error {
	for i, item := range items {
		if i == 0 {
			r.firstItem()
		} else {
			r.itemBreak(r.style.commaBreak)
		}

		r.leadingComments(item, parser.CommentLeading)
		if err := r.expr(item.Expr); err != nil {
			return err
		}
		if item.Alias != nil {
			r.pr.appendText(" " + r.keyword("AS") + " " + r.identifier(item.Alias))
		}
		r.trailingComments(item)
	}
	return nil
}

func (r *run) firstItem() {
	if r.style.multiline() {
		r.pr.appendNewline(r.itemIndent())
	} else {
		r.pr.appendText(" ")
	}
}

func (r *run) predicate(clause string, cond parser.Expression) error {
	r.clauseBreak()
	r.pr.appendText(r.keyword(clause) + " ")
	return r.expr(cond)
}

func (r *run) fromClause(f *parser.FromClause) error {
	r.clauseBreak()
	r.leadingComments(f, parser.CommentLeading)
	r.pr.appendText(r.keyword("FROM") + " ")

	if err := r.tableExpression(f.Source); err != nil {
		return err
	}

	for _, join := range f.Joins {
		if err := r.joinClause(join); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) tableExpression(t parser.TableExpression) error {
	switch t := t.(type) {
	case *parser.TableName:
		r.pr.appendText(r.qualifiedName(t.Name))
		if t.Alias != nil {
			r.pr.appendText(" " + r.identifier(t.Alias))
		}
		r.trailingComments(t)
		return nil

	case *parser.SubqueryTable:
		oneline := r.style.subqueryOne || !r.style.multiline()
		if err := r.group(oneline, func() error { return r.selectQuery(t.Query) }); err != nil {
			return err
		}
		if t.Alias != nil {
			r.pr.appendText(" " + r.keyword("AS") + " " + r.identifier(t.Alias))
		}
		return nil

	default:
		return &FormatError{Node: t}
	}
}

func (r *run) joinClause(j *parser.JoinClause) error {
	r.clauseBreak()
	r.leadingComments(j, parser.CommentLeading)
	r.pr.appendText(r.keyword(j.Type) + " ")

	if err := r.tableExpression(j.Target); err != nil {
		return err
	}

	switch {
	case j.On != nil:
		if r.style.multiline() && !r.style.joinOne {
			r.pr.appendNewline(r.indent + 1)
		} else {
			r.pr.appendText(" ")
		}
		r.pr.appendText(r.keyword("ON") + " ")
		if err := r.expr(j.On); err != nil {
			return err
		}

	case len(j.Using) > 0:
		cols := make([]string, 0, len(j.Using))
		for _, col := range j.Using {
			cols = append(cols, r.identifier(col))
		}
		r.pr.appendText(" " + r.keyword("USING") + " (" + strings.Join(cols, ", ") + ")")
	}

	r.trailingComments(j)
	return nil
}

func (r *run) groupBy(g *parser.GroupByClause) error {
	r.clauseBreak()
	r.pr.appendText(r.keyword("GROUP BY"))

	for i, elem := range g.Items {
		if i == 0 {
			r.firstItem()
		} else {
			r.itemBreak(r.style.commaBreak)
		}

		r.leadingComments(elem, parser.CommentLeading)
		if err := r.groupingElement(elem); err != nil {
			return err
		}
		r.trailingComments(elem)
	}
	return nil
}

func (r *run) groupingElement(elem *parser.GroupingElement) error {
	if elem.Kind == "" {
		return r.expr(elem.Expr)
	}

	r.pr.appendText(r.keyword(elem.Kind) + " (")
	switch elem.Kind {
	case "GROUPING SETS":
		for i, set := range elem.Sets {
			if i > 0 {
				r.pr.appendText(", ")
			}
			r.pr.appendText("(")
			if err := r.exprList(set); err != nil {
				return err
			}
			r.pr.appendText(")")
		}
	default: // ROLLUP, CUBE carry one list
		if len(elem.Sets) > 0 {
			if err := r.exprList(elem.Sets[0]); err != nil {
				return err
			}
		}
	}
	r.pr.appendText(")")
	return nil
}

func (r *run) orderByItems(items []*parser.OrderByItem) error {
	for i, item := range items {
		if i == 0 {
			r.firstItem()
		} else {
			r.itemBreak(r.style.commaBreak)
		}

		r.leadingComments(item, parser.CommentLeading)
		if err := r.expr(item.Expr); err != nil {
			return err
		}
		if item.Direction != "" {
			r.pr.appendText(" " + r.keyword(item.Direction))
		}
		if item.Nulls != "" {
			r.pr.appendText(" " + r.keyword("NULLS") + " " + r.keyword(item.Nulls))
		}
		r.trailingComments(item)
	}
	return nil
}

func (r *run) withClause(w *parser.WithClause) error {
	r.pr.appendText(r.keyword("WITH"))
	if w.Recursive {
		r.pr.appendText(" " + r.keyword("RECURSIVE"))
	}
	r.pr.appendText(" ")

	for i, cte := range w.CTEs {
		if i > 0 {
			r.pr.appendNewline(r.indent)
			r.pr.appendSeparator(",", r.style.cteBreak)
		}
		if err := r.cte(cte); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) cte(cte *parser.CTEDefinition) error {
	r.leadingComments(cte, parser.CommentLeading)

	r.pr.appendText(r.identifier(cte.Name))
	if len(cte.Columns) > 0 {
		cols := make([]string, 0, len(cte.Columns))
		for _, col := range cte.Columns {
			cols = append(cols, r.identifier(col))
		}
		r.pr.appendText(" (" + strings.Join(cols, ", ") + ")")
	}
	r.pr.appendText(" " + r.keyword("AS") + " ")

	oneline := r.style.withOneline || !r.style.multiline()
	if err := r.group(oneline, func() error { return r.selectQuery(cte.Query) }); err != nil {
		return err
	}
	r.trailingComments(cte)
	return nil
}

func (r *run) values(q *parser.ValuesQuery) error {
	if q.With != nil {
		if err := r.withClause(q.With); err != nil {
			return err
		}
		r.clauseBreak()
	}
	r.leadingComments(q, parser.CommentLeading)
	r.pr.appendText(r.keyword("VALUES"))

	multirow := r.style.multiline() && !r.style.valuesOne
	for i, row := range q.Rows {
		if i == 0 {
			if multirow {
				r.pr.appendNewline(r.itemIndent())
			} else {
				r.pr.appendText(" ")
			}
		} else {
			r.itemBreak(r.style.commaBreak)
		}

		r.pr.appendText("(")
		if err := r.exprList(row); err != nil {
			return err
		}
		r.pr.appendText(")")
	}
	return nil
}

// group renders a parenthesized body either inline or expanded across lines
// one indent level deeper. Nested bodies count as deeper statements for the
// top-header-only comment mode.
func (r *run) group(oneline bool, body func() error) error {
	r.depth++
	defer func() { r.depth-- }()

	if oneline {
		r.pr.appendText("(")
		if err := body(); err != nil {
			return err
		}
		r.pr.appendText(")")
		return nil
	}

	r.pr.appendText("(")
	r.indent++
	r.pr.appendNewline(r.indent)
	err := body()
	r.indent--
	if err != nil {
		return err
	}
	r.pr.appendNewline(r.indent)
	r.pr.appendText(")")
	return nil
}

func (r *run) exprList(exprs []parser.Expression) error {
	for i, e := range exprs {
		if i > 0 {
			r.pr.appendText(", ")
		}
		if err := r.expr(e); err != nil {
			return err
		}
	}
	return nil
}
