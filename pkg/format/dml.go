package format

import (
	"strings"

	"github.com/pseudomuto/sqlkit/pkg/parser"
)

func (r *run) insert(q *parser.InsertQuery) error {
	if q.With != nil {
		if err := r.withClause(q.With); err != nil {
			return err
		}
		r.clauseBreak()
	}

	r.pr.appendText(r.keyword("INSERT INTO") + " " + r.qualifiedName(q.Table))
	if len(q.Columns) > 0 {
		cols := make([]string, 0, len(q.Columns))
		for _, col := range q.Columns {
			cols = append(cols, r.identifier(col))
		}
		r.pr.appendText(" (" + strings.Join(cols, ", ") + ")")
	}

	r.clauseBreak()
	if err := r.selectQuery(q.Source); err != nil {
		return err
	}
	return r.returning(q.Returning)
}

func (r *run) update(q *parser.UpdateQuery) error {
	if q.With != nil {
		if err := r.withClause(q.With); err != nil {
			return err
		}
		r.clauseBreak()
	}

	r.pr.appendText(r.keyword("UPDATE") + " " + r.qualifiedName(q.Table.Name))
	if q.Table.Alias != nil {
		r.pr.appendText(" " + r.identifier(q.Table.Alias))
	}

	r.clauseBreak()
	r.pr.appendText(r.keyword("SET"))
	for i, set := range q.Set {
		if i == 0 {
			r.firstItem()
		} else {
			r.itemBreak(r.style.commaBreak)
		}

		r.leadingComments(set, parser.CommentLeading)
		r.pr.appendText(r.qualifiedName(set.Column) + " = ")
		if err := r.expr(set.Value); err != nil {
			return err
		}
		r.trailingComments(set)
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
	return r.returning(q.Returning)
}

func (r *run) delete(q *parser.DeleteQuery) error {
	if q.With != nil {
		if err := r.withClause(q.With); err != nil {
			return err
		}
		r.clauseBreak()
	}

	r.pr.appendText(r.keyword("DELETE FROM") + " " + r.qualifiedName(q.Table.Name))
	if q.Table.Alias != nil {
		r.pr.appendText(" " + r.identifier(q.Table.Alias))
	}

	if len(q.Using) > 0 {
		r.clauseBreak()
		r.pr.appendText(r.keyword("USING") + " ")
		for i, table := range q.Using {
			if i > 0 {
				r.pr.appendText(", ")
			}
			if err := r.tableExpression(table); err != nil {
				return err
			}
		}
	}

	if q.Where != nil {
		if err := r.predicate("WHERE", q.Where); err != nil {
			return err
		}
	}
	return r.returning(q.Returning)
}

func (r *run) returning(items []*parser.SelectItem) error {
	if len(items) == 0 {
		return nil
	}
	r.clauseBreak()
	r.pr.appendText(r.keyword("RETURNING"))
	return r.selectItems(items)
}
