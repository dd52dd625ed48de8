package format

import (
	"github.com/pseudomuto/sqlkit/pkg/parser"
)

func (r *run) createTable(q *parser.CreateTableQuery) error {
	r.pr.appendText(r.keyword("CREATE") + " ")
	if q.Temporary {
		r.pr.appendText(r.keyword("TEMPORARY") + " ")
	}
	r.pr.appendText(r.keyword("TABLE") + " ")
	if q.IfNotExists {
		r.pr.appendText(r.keyword("IF NOT EXISTS") + " ")
	}
	r.pr.appendText(r.qualifiedName(q.Name))

	if q.AsQuery != nil {
		r.pr.appendText(" " + r.keyword("AS") + " ")
		oneline := r.style.subqueryOne || !r.style.multiline()
		return r.group(oneline, func() error { return r.selectQuery(q.AsQuery) })
	}

	multiline := r.style.multiline()
	r.pr.appendText(" (")
	for i, col := range q.Columns {
		if i == 0 {
			if multiline {
				r.pr.appendNewline(r.indent + 1)
			}
		} else {
			r.pr.appendNewline(r.indent + 1)
			r.pr.appendSeparator(",", r.style.commaBreak)
		}

		r.leadingComments(col, parser.CommentLeading)
		if err := r.columnDefinition(col); err != nil {
			return err
		}
		r.trailingComments(col)
	}
	if multiline {
		r.pr.appendNewline(r.indent)
	}
	r.pr.appendText(")")
	return nil
}

func (r *run) columnDefinition(col *parser.ColumnDefinition) error {
	r.pr.appendText(r.identifier(col.Name) + " ")
	if err := r.typeName(col.Type); err != nil {
		return err
	}

	if col.NotNull {
		r.pr.appendText(" " + r.keyword("NOT NULL"))
	}
	if col.PrimaryKey {
		r.pr.appendText(" " + r.keyword("PRIMARY KEY"))
	}
	if col.Default != nil {
		r.pr.appendText(" " + r.keyword("DEFAULT") + " ")
		if err := r.expr(col.Default); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) alterTable(s *parser.AlterTableStatement) error {
	r.pr.appendText(r.keyword("ALTER TABLE") + " " + r.qualifiedName(s.Table) + " ")

	switch {
	case s.AddColumn != nil:
		r.pr.appendText(r.keyword("ADD COLUMN") + " ")
		return r.columnDefinition(s.AddColumn)

	case s.DropColumn != nil:
		r.pr.appendText(r.keyword("DROP COLUMN") + " ")
		if s.DropIfExists {
			r.pr.appendText(r.keyword("IF EXISTS") + " ")
		}
		r.pr.appendText(r.identifier(s.DropColumn))
		return nil

	case s.RenameTable != nil:
		r.pr.appendText(r.keyword("RENAME TO") + " " + r.qualifiedName(s.RenameTable))
		return nil

	case s.RenameFrom != nil:
		r.pr.appendText(r.keyword("RENAME COLUMN") + " " + r.identifier(s.RenameFrom) +
			" " + r.keyword("TO") + " " + r.identifier(s.RenameTo))
		return nil

	default:
		return &FormatError{Node: s}
	}
}

func (r *run) drop(s *parser.DropStatement) error {
	r.pr.appendText(r.keyword("DROP") + " " + r.keyword(s.Kind) + " ")
	if s.IfExists {
		r.pr.appendText(r.keyword("IF EXISTS") + " ")
	}
	r.pr.appendText(r.qualifiedName(s.Name))
	return nil
}

func (r *run) createIndex(s *parser.CreateIndexStatement) error {
	r.pr.appendText(r.keyword("CREATE") + " ")
	if s.Unique {
		r.pr.appendText(r.keyword("UNIQUE") + " ")
	}
	r.pr.appendText(r.keyword("INDEX") + " ")
	if s.IfNotExists {
		r.pr.appendText(r.keyword("IF NOT EXISTS") + " ")
	}
	r.pr.appendText(r.qualifiedName(s.Name) + " " + r.keyword("ON") + " " + r.qualifiedName(s.Table) + " (")

	for i, item := range s.Columns {
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
	r.pr.appendText(")")
	return nil
}

func (r *run) explain(s *parser.ExplainStatement) error {
	r.pr.appendText(r.keyword("EXPLAIN") + " ")
	if s.Analyze {
		r.pr.appendText(r.keyword("ANALYZE") + " ")
	}
	return r.statement(s.Target)
}

func (r *run) analyzeStatement(s *parser.AnalyzeStatement) error {
	r.pr.appendText(r.keyword("ANALYZE") + " " + r.qualifiedName(s.Target))
	return nil
}
