package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigurationError reports an unrecognized logical value for a style option.
type ConfigurationError struct {
	Option string
	Value  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid value %q for option %s", e.Value, e.Option)
}

// Comment export modes accepted by Options.CommentStyle.
const (
	CommentsFull          = "full"
	CommentsNone          = "none"
	CommentsHeaderOnly    = "header-only"
	CommentsTopHeaderOnly = "top-header-only"
	CommentsSmart         = "smart"
)

type (
	// Options is the style configuration for the formatter. The zero value is
	// not usable directly; start from DefaultOptions (or Defaults) and
	// override fields. Options marshal to and from YAML for config files.
	Options struct {
		// IndentChar is a literal character or the logical name "space"/"tab".
		IndentChar string `yaml:"indentChar,omitempty"`
		// IndentSize is the number of indent characters per nesting level.
		IndentSize int `yaml:"indentSize,omitempty"`
		// Newline is a literal sequence or the logical name "lf"/"crlf"/"cr".
		Newline string `yaml:"newline,omitempty"`
		// KeywordCase is "upper", "lower", or "preserve" (keep the author's
		// spelling).
		KeywordCase string `yaml:"keywordCase,omitempty"`

		// CommaBreak places list separators "before", "after", or "none"
		// (inline). "none" keeps whole statements on a single line.
		CommaBreak string `yaml:"commaBreak,omitempty"`
		// CTECommaBreak overrides CommaBreak between CTE definitions. Empty
		// falls back to CommaBreak.
		CTECommaBreak string `yaml:"cteCommaBreak,omitempty"`
		// AndBreak and OrBreak place boolean separators independently of
		// comma placement.
		AndBreak string `yaml:"andBreak,omitempty"`
		OrBreak  string `yaml:"orBreak,omitempty"`

		// IdentifierEscape selects the delimiter pair wrapped around every
		// identifier: "quote", "backtick", "bracket", "none", or an explicit
		// {start, end} pair.
		IdentifierEscape *IdentifierEscape `yaml:"identifierEscape,omitempty"`

		// CommentStyle is one of the Comments* modes. ExportComment is the
		// legacy boolean spelling: true means full, false means none; it is
		// consulted only when CommentStyle is empty.
		CommentStyle  string `yaml:"commentStyle,omitempty"`
		ExportComment *bool  `yaml:"exportComment,omitempty"`

		// WithClauseStyle is "standard" or "full-oneline".
		WithClauseStyle string `yaml:"withClauseStyle,omitempty"`

		// One-line toggles for individual constructs. They matter only when
		// CommaBreak selects a multiline layout.
		ParenthesesOneLine bool `yaml:"parenthesesOneLine,omitempty"`
		BetweenOneLine     bool `yaml:"betweenOneLine,omitempty"`
		ValuesOneLine      bool `yaml:"valuesOneLine,omitempty"`
		JoinOneLine        bool `yaml:"joinOneLine,omitempty"`
		CaseOneLine        bool `yaml:"caseOneLine,omitempty"`
		SubqueryOneLine    bool `yaml:"subqueryOneLine,omitempty"`

		// IndentNestedParentheses expands only parenthesized groups that
		// contain nested groups, leaving flat groups compact.
		IndentNestedParentheses bool `yaml:"indentNestedParentheses,omitempty"`

		// ParameterSymbol and ParameterStyle control placeholder rendering:
		// style "named" emits symbol+name, "indexed" emits symbol+ordinal.
		ParameterSymbol string `yaml:"parameterSymbol,omitempty"`
		ParameterStyle  string `yaml:"parameterStyle,omitempty"`
	}

	// IdentifierEscape is either a logical delimiter name or an explicit
	// start/end pair. In YAML it decodes from a plain string ("quote") or a
	// mapping ({start: '<', end: '>'}).
	IdentifierEscape struct {
		Name  string `yaml:"-"`
		Start string `yaml:"start,omitempty"`
		End   string `yaml:"end,omitempty"`
	}

	// style holds fully resolved option values. A Formatter binds one style
	// for its lifetime.
	style struct {
		indent       string
		newline      string
		keywordCase  string
		commaBreak   string
		cteBreak     string
		andBreak     string
		orBreak      string
		escStart     string
		escEnd       string
		comments     string
		withOneline  bool
		parenOneline bool
		betweenOne   bool
		valuesOne    bool
		joinOne      bool
		caseOne      bool
		subqueryOne  bool
		indentNested bool
		paramSymbol  string
		paramStyle   string
	}
)

// EscapeQuote and friends name the built-in identifier delimiter pairs.
const (
	EscapeQuote    = "quote"
	EscapeBacktick = "backtick"
	EscapeBracket  = "bracket"
	EscapeNone     = "none"
)

// Escape returns the identifier escape selection for a logical name.
func Escape(name string) *IdentifierEscape { return &IdentifierEscape{Name: name} }

// UnmarshalYAML accepts either a scalar logical name or a start/end mapping.
func (e *IdentifierEscape) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Name = value.Value
		return nil
	}

	type pair struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	}
	var p pair
	if err := value.Decode(&p); err != nil {
		return errors.Wrap(err, "identifierEscape must be a name or a {start, end} pair")
	}
	e.Start, e.End = p.Start, p.End
	return nil
}

// MarshalYAML emits the logical name when one is set, the pair otherwise.
func (e *IdentifierEscape) MarshalYAML() (any, error) {
	if e.Name != "" {
		return e.Name, nil
	}
	return map[string]string{"start": e.Start, "end": e.End}, nil
}

// DefaultOptions returns the baseline style: uppercase keywords, four-space
// indent, LF newlines, inline separator placement, no identifier escaping,
// full comment export, and named colon parameters.
func DefaultOptions() *Options {
	return &Options{
		IndentChar:      "space",
		IndentSize:      4,
		Newline:         "lf",
		KeywordCase:     "upper",
		CommaBreak:      "none",
		AndBreak:        "none",
		OrBreak:         "none",
		CommentStyle:    CommentsFull,
		WithClauseStyle: "standard",
		ParameterSymbol: ":",
		ParameterStyle:  "named",
	}
}

// Defaults is a shared default configuration for callers that do not need
// overrides. Treat it as read-only.
var Defaults = DefaultOptions()

// LoadOptions reads a YAML style configuration, applying defaults for any
// field left unset.
func LoadOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.NewDecoder(r).Decode(opts); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse style configuration")
	}
	return opts, nil
}

// resolve validates every logical alias and produces the concrete style. It
// is called once when a Formatter is built.
func (o *Options) resolve() (*style, error) {
	s := &style{}

	indentChar := o.IndentChar
	switch indentChar {
	case "", "space":
		indentChar = " "
	case "tab":
		indentChar = "\t"
	default:
		if len([]rune(indentChar)) != 1 {
			return nil, &ConfigurationError{Option: "indentChar", Value: o.IndentChar}
		}
	}
	size := o.IndentSize
	if size <= 0 {
		size = 4
	}
	s.indent = strings.Repeat(indentChar, size)

	switch o.Newline {
	case "", "lf", "\n":
		s.newline = "\n"
	case "crlf", "\r\n":
		s.newline = "\r\n"
	case "cr", "\r":
		s.newline = "\r"
	default:
		return nil, &ConfigurationError{Option: "newline", Value: o.Newline}
	}

	switch o.KeywordCase {
	case "", "upper":
		s.keywordCase = "upper"
	case "lower", "preserve":
		s.keywordCase = o.KeywordCase
	default:
		return nil, &ConfigurationError{Option: "keywordCase", Value: o.KeywordCase}
	}

	var err error
	if s.commaBreak, err = breakStyle("commaBreak", o.CommaBreak, "none"); err != nil {
		return nil, err
	}
	if s.cteBreak, err = breakStyle("cteCommaBreak", o.CTECommaBreak, s.commaBreak); err != nil {
		return nil, err
	}
	if s.andBreak, err = breakStyle("andBreak", o.AndBreak, "none"); err != nil {
		return nil, err
	}
	if s.orBreak, err = breakStyle("orBreak", o.OrBreak, "none"); err != nil {
		return nil, err
	}

	if s.escStart, s.escEnd, err = o.escapePair(); err != nil {
		return nil, err
	}

	mode := o.CommentStyle
	if mode == "" && o.ExportComment != nil {
		if *o.ExportComment {
			mode = CommentsFull
		} else {
			mode = CommentsNone
		}
	}
	switch mode {
	case "", CommentsFull:
		s.comments = CommentsFull
	case CommentsNone, CommentsHeaderOnly, CommentsTopHeaderOnly, CommentsSmart:
		s.comments = mode
	default:
		return nil, &ConfigurationError{Option: "commentStyle", Value: mode}
	}

	switch o.WithClauseStyle {
	case "", "standard":
	case "full-oneline":
		s.withOneline = true
	default:
		return nil, &ConfigurationError{Option: "withClauseStyle", Value: o.WithClauseStyle}
	}

	s.parenOneline = o.ParenthesesOneLine
	s.betweenOne = o.BetweenOneLine
	s.valuesOne = o.ValuesOneLine
	s.joinOne = o.JoinOneLine
	s.caseOne = o.CaseOneLine
	s.subqueryOne = o.SubqueryOneLine
	s.indentNested = o.IndentNestedParentheses

	s.paramSymbol = o.ParameterSymbol
	if s.paramSymbol == "" {
		s.paramSymbol = ":"
	}
	switch o.ParameterStyle {
	case "", "named":
		s.paramStyle = "named"
	case "indexed":
		s.paramStyle = "indexed"
	default:
		return nil, &ConfigurationError{Option: "parameterStyle", Value: o.ParameterStyle}
	}

	return s, nil
}

func (o *Options) escapePair() (string, string, error) {
	esc := o.IdentifierEscape
	if esc == nil {
		return "", "", nil
	}
	if esc.Name == "" {
		return esc.Start, esc.End, nil
	}

	switch esc.Name {
	case EscapeNone:
		return "", "", nil
	case EscapeQuote:
		return `"`, `"`, nil
	case EscapeBacktick:
		return "`", "`", nil
	case EscapeBracket:
		return "[", "]", nil
	default:
		return "", "", &ConfigurationError{Option: "identifierEscape", Value: esc.Name}
	}
}

func breakStyle(option, value, fallback string) (string, error) {
	switch value {
	case "":
		return fallback, nil
	case "before", "after", "none":
		return value, nil
	default:
		return "", &ConfigurationError{Option: option, Value: value}
	}
}

// multiline reports whether statements lay out across lines at all. With
// inline comma placement the whole statement renders on one line.
func (s *style) multiline() bool { return s.commaBreak != "none" }
