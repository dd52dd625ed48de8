package format

import (
	"strings"

	"github.com/pseudomuto/sqlkit/pkg/parser"
)

func (r *run) expr(e parser.Expression) error {
	r.exprLeading(e)
	if err := r.exprBody(e); err != nil {
		return err
	}
	r.trailingComments(e)
	return nil
}

// exprLeading emits an expression's leading comments. Block comments stay
// inline before the expression; line comments pin a break, pushing the
// expression to the next line.
func (r *run) exprLeading(e parser.Expression) {
	if !r.commentsWanted(parser.CommentLeading) {
		return
	}
	for _, pc := range anchoredComments(e, parser.CommentLeading) {
		if lineComment(pc.Text) {
			r.pr.appendText(pc.Text)
			r.pr.appendNewline(r.itemIndent())
			continue
		}
		r.pr.appendText(pc.Text + " ")
	}
}

func (r *run) exprBody(e parser.Expression) error {
	switch e := e.(type) {
	case *parser.Literal:
		r.literal(e)
		return nil

	case *parser.Parameter:
		r.pr.appendText(r.parameter(e))
		return nil

	case *parser.ColumnReference:
		r.pr.appendText(r.qualifiedName(e.Name))
		return nil

	case *parser.Star:
		if e.Qualifier != nil {
			r.pr.appendText(r.qualifiedName(e.Qualifier) + ".*")
		} else {
			r.pr.appendText("*")
		}
		return nil

	case *parser.BinaryExpression:
		return r.binary(e)

	case *parser.NaryExpression:
		return r.nary(e)

	case *parser.UnaryExpression:
		if e.Operator == "NOT" {
			r.pr.appendText(r.keyword("NOT") + " ")
		} else {
			r.pr.appendText(e.Operator)
		}
		return r.expr(e.Operand)

	case *parser.BetweenExpression:
		return r.between(e)

	case *parser.InExpression:
		return r.in(e)

	case *parser.IsExpression:
		if err := r.expr(e.Expr); err != nil {
			return err
		}
		r.pr.appendText(" " + r.keyword("IS"))
		if e.Not {
			r.pr.appendText(" " + r.keyword("NOT"))
		}
		r.pr.appendText(" " + r.keyword(e.Predicate))
		return nil

	case *parser.CaseExpression:
		return r.caseExpr(e)

	case *parser.FunctionCall:
		return r.functionCall(e)

	case *parser.WindowFunctionCall:
		return r.window(e)

	case *parser.CastExpression:
		return r.cast(e)

	case *parser.ParenExpression:
		oneline := !r.style.multiline() || r.style.parenOneline
		if !oneline && r.style.indentNested && !hasNestedGroup(e.Expr) {
			oneline = true
		}
		return r.group(oneline, func() error { return r.expr(e.Expr) })

	case *parser.TupleExpression:
		r.pr.appendText("(")
		if err := r.exprList(e.Exprs); err != nil {
			return err
		}
		r.pr.appendText(")")
		return nil

	case *parser.Subquery:
		return r.subquery(e)

	case *parser.ExistsExpression:
		r.pr.appendText(r.keyword("EXISTS") + " ")
		return r.subquery(e.Subquery)

	default:
		return &FormatError{Node: e}
	}
}

func (r *run) literal(l *parser.Literal) {
	switch l.Kind {
	case parser.LiteralBool, parser.LiteralNull, parser.LiteralDefault:
		r.pr.appendText(r.keyword(l.Text))
	case parser.LiteralInterval:
		r.pr.appendText(r.keyword("INTERVAL") + " " + l.Text)
	default:
		r.pr.appendText(l.Text)
	}
}

func (r *run) binary(e *parser.BinaryExpression) error {
	if err := r.expr(e.Left); err != nil {
		return err
	}

	op := e.Operator
	if strings.ContainsAny(op, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		op = r.keyword(op) // LIKE, NOT LIKE
	}
	r.pr.appendText(" " + op + " ")
	return r.expr(e.Right)
}

// nary lays out a flattened AND/OR chain under the matching break style.
func (r *run) nary(e *parser.NaryExpression) error {
	sep := r.keyword(e.Operator)
	breakStyle := r.style.andBreak
	if e.Operator == "OR" {
		breakStyle = r.style.orBreak
	}

	for i, operand := range e.Operands {
		if i > 0 {
			r.pr.appendNewline(r.itemIndent())
			r.pr.appendSeparator(sep, breakStyle)
		}
		if err := r.expr(operand); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) between(e *parser.BetweenExpression) error {
	if err := r.expr(e.Expr); err != nil {
		return err
	}

	if e.Not {
		r.pr.appendText(" " + r.keyword("NOT"))
	}
	r.pr.appendText(" " + r.keyword("BETWEEN") + " ")
	if err := r.expr(e.Lower); err != nil {
		return err
	}

	if r.style.multiline() && !r.style.betweenOne {
		r.pr.appendNewline(r.itemIndent())
		r.pr.appendText(r.keyword("AND") + " ")
	} else {
		r.pr.appendText(" " + r.keyword("AND") + " ")
	}
	return r.expr(e.Upper)
}

func (r *run) in(e *parser.InExpression) error {
	if err := r.expr(e.Expr); err != nil {
		return err
	}

	if e.Not {
		r.pr.appendText(" " + r.keyword("NOT"))
	}
	r.pr.appendText(" " + r.keyword("IN") + " ")

	if e.Subquery != nil {
		return r.subquery(e.Subquery)
	}
	r.pr.appendText("(")
	if err := r.exprList(e.List); err != nil {
		return err
	}
	r.pr.appendText(")")
	return nil
}

func (r *run) caseExpr(e *parser.CaseExpression) error {
	expanded := r.style.multiline() && !r.style.caseOne

	r.pr.appendText(r.keyword("CASE"))
	if e.Operand != nil {
		r.pr.appendText(" ")
		if err := r.expr(e.Operand); err != nil {
			return err
		}
	}

	branch := func() {
		if expanded {
			r.pr.appendNewline(r.indent + 1)
		} else {
			r.pr.appendText(" ")
		}
	}

	for _, b := range e.Branches {
		branch()
		r.leadingComments(b, parser.CommentLeading)
		r.pr.appendText(r.keyword("WHEN") + " ")
		if err := r.expr(b.When); err != nil {
			return err
		}
		r.pr.appendText(" " + r.keyword("THEN") + " ")
		if err := r.expr(b.Then); err != nil {
			return err
		}
		r.trailingComments(b)
	}

	if e.Else != nil {
		branch()
		r.pr.appendText(r.keyword("ELSE") + " ")
		if err := r.expr(e.Else); err != nil {
			return err
		}
	}

	if expanded {
		r.pr.appendNewline(r.indent)
	} else {
		r.pr.appendText(" ")
	}
	r.pr.appendText(r.keyword("END"))
	return nil
}

// functionName renders a function name without applying identifier escaping;
// count(*) must not become "count"(*). Author-quoted parts keep their quotes.
func (r *run) functionName(q *parser.QualifiedName) string {
	parts := make([]string, 0, len(q.Parts))
	for _, part := range q.Parts {
		if part.Quoted {
			parts = append(parts, `"`+strings.ReplaceAll(part.Name, `"`, `""`)+`"`)
		} else {
			parts = append(parts, part.Name)
		}
	}
	return strings.Join(parts, ".")
}

func (r *run) functionCall(e *parser.FunctionCall) error {
	r.pr.appendText(r.functionName(e.Name) + "(")

	switch {
	case e.Star:
		r.pr.appendText("*")
	default:
		if e.Distinct {
			r.pr.appendText(r.keyword("DISTINCT") + " ")
		}
		if err := r.exprList(e.Args); err != nil {
			return err
		}
	}

	r.pr.appendText(")")
	return nil
}

// window renders OVER clauses inline regardless of layout; window bodies are
// short and read best on one line.
func (r *run) window(e *parser.WindowFunctionCall) error {
	if err := r.functionCall(e.Function); err != nil {
		return err
	}
	r.pr.appendText(" " + r.keyword("OVER") + " (")

	wrote := false
	if len(e.PartitionBy) > 0 {
		r.pr.appendText(r.keyword("PARTITION BY") + " ")
		if err := r.exprList(e.PartitionBy); err != nil {
			return err
		}
		wrote = true
	}

	if e.OrderBy != nil {
		if wrote {
			r.pr.appendText(" ")
		}
		r.pr.appendText(r.keyword("ORDER BY") + " ")
		for i, item := range e.OrderBy.Items {
			if i > 0 {
				r.pr.appendText(", ")
			}
			if err := r.expr(item.Expr); err != nil {
				return err
			}
			if item.Direction != "" {
				r.pr.appendText(" " + r.keyword(item.Direction))
			}
			if item.Nulls != "" {
				r.pr.appendText(" " + r.keyword("NULLS") + " " + r.keyword(item.Nulls))
			}
		}
	}

	r.pr.appendText(")")
	return nil
}

func (r *run) cast(e *parser.CastExpression) error {
	if e.Standard {
		r.pr.appendText(r.keyword("CAST") + "(")
		if err := r.expr(e.Expr); err != nil {
			return err
		}
		r.pr.appendText(" " + r.keyword("AS") + " ")
		if err := r.typeName(e.Type); err != nil {
			return err
		}
		r.pr.appendText(")")
		return nil
	}

	if err := r.expr(e.Expr); err != nil {
		return err
	}
	r.pr.appendText("::")
	return r.typeName(e.Type)
}

func (r *run) typeName(t *parser.TypeName) error {
	r.pr.appendText(t.Name)
	if len(t.Args) == 0 {
		return nil
	}
	r.pr.appendText("(")
	if err := r.exprList(t.Args); err != nil {
		return err
	}
	r.pr.appendText(")")
	return nil
}

func (r *run) subquery(s *parser.Subquery) error {
	oneline := r.style.subqueryOne || !r.style.multiline()
	return r.group(oneline, func() error { return r.selectQuery(s.Query) })
}

// hasNestedGroup reports whether an expression contains a parenthesized
// sub-group, the trigger for indentNestedParentheses expansion.
func hasNestedGroup(e parser.Expression) bool {
	found := false
	parser.Walk(e, func(n parser.Node) bool {
		switch n.(type) {
		case *parser.ParenExpression, *parser.Subquery:
			found = true
			return false
		}
		return !found
	})
	return found
}
