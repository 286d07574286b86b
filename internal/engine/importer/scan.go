package importer

import (
	"strings"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/zerr"
)

// rawParse is the path-independent parse of one source file: import targets
// as written and version pragma expressions, both in declaration order.
type rawParse struct {
	imports []string
	pragmas []string
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

// scanner walks source bytes, skipping comments and string literals so
// directive keywords inside them never fire. import and pragma are reserved
// words in the language, so any keyword hit outside a comment or literal is
// a real directive.
type scanner struct {
	path string
	data []byte
	pos  int
}

// parseRaw extracts every import target and version pragma in content.
func parseRaw(path string, content []byte) (rawParse, error) {
	s := &scanner{path: path, data: content}
	var out rawParse
	for {
		word, ok, err := s.nextDirective()
		if err != nil {
			return rawParse{}, err
		}
		if !ok {
			return out, nil
		}
		switch word {
		case "import":
			target, err := s.importTarget()
			if err != nil {
				return rawParse{}, err
			}
			out.imports = append(out.imports, target)
		case "pragma":
			expr, err := s.pragma()
			if err != nil {
				return rawParse{}, err
			}
			if expr != "" {
				out.pragmas = append(out.pragmas, expr)
			}
		}
	}
}

// nextDirective advances to the next import or pragma keyword.
func (s *scanner) nextDirective() (string, bool, error) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
		case c == '/' && s.peek(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return "", false, err
			}
		case c == '"' || c == '\'':
			if _, err := s.stringLit(c); err != nil {
				return "", false, err
			}
		case isIdentStart(c):
			word := s.ident()
			if word == "import" || word == "pragma" {
				return word, true, nil
			}
		default:
			s.pos++
		}
	}
	return "", false, nil
}

// importTarget parses the directive following an import keyword and returns
// the quoted path. All three source forms are accepted: a bare path with an
// optional alias, a star alias, and a symbol list.
func (s *scanner) importTarget() (string, error) {
	tok, err := s.token()
	if err != nil {
		return "", err
	}
	switch {
	case tok.kind == tokString:
		return tok.text, s.finishStatement()
	case tok.kind == tokPunct && tok.text == "*":
		if err := s.starAlias(); err != nil {
			return "", err
		}
		return s.fromClause()
	case tok.kind == tokPunct && tok.text == "{":
		if err := s.skipSymbolList(); err != nil {
			return "", err
		}
		return s.fromClause()
	}
	return "", s.errHere("malformed import directive")
}

// starAlias consumes the `as Name` pair that follows a star import.
func (s *scanner) starAlias() error {
	tok, err := s.token()
	if err != nil {
		return err
	}
	if tok.kind != tokIdent || tok.text != "as" {
		return s.errHere("expected alias in star import")
	}
	tok, err = s.token()
	if err != nil {
		return err
	}
	if tok.kind != tokIdent {
		return s.errHere("expected alias name in star import")
	}
	return nil
}

// fromClause parses `from "path"` and the statement terminator.
func (s *scanner) fromClause() (string, error) {
	tok, err := s.token()
	if err != nil {
		return "", err
	}
	if tok.kind != tokIdent || tok.text != "from" {
		return "", s.errHere("expected from clause in import directive")
	}
	tok, err = s.token()
	if err != nil {
		return "", err
	}
	if tok.kind != tokString {
		return "", s.errHere("expected import path string")
	}
	return tok.text, s.finishStatement()
}

// finishStatement consumes the optional alias tokens up to the terminating
// semicolon.
func (s *scanner) finishStatement() error {
	for {
		tok, err := s.token()
		if err != nil {
			return err
		}
		if tok.kind == tokPunct && tok.text == ";" {
			return nil
		}
		if tok.kind == tokString {
			return s.errHere("malformed import directive")
		}
	}
}

// skipSymbolList consumes a `{A, B as C}` list including the closing brace.
func (s *scanner) skipSymbolList() error {
	depth := 1
	for depth > 0 {
		tok, err := s.token()
		if err != nil {
			return err
		}
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case "{":
			depth++
		case "}":
			depth--
		}
	}
	return nil
}

// pragma parses a pragma directive. Only solidity pragmas yield an
// expression; others are consumed and ignored.
func (s *scanner) pragma() (string, error) {
	tok, err := s.token()
	if err != nil {
		return "", err
	}
	if tok.kind != tokIdent {
		return "", s.errHere("malformed pragma directive")
	}
	name := tok.text
	start := s.pos
	for s.pos < len(s.data) {
		if s.data[s.pos] != ';' {
			s.pos++
			continue
		}
		expr := strings.TrimSpace(string(s.data[start:s.pos]))
		s.pos++
		if name != "solidity" {
			return "", nil
		}
		if expr == "" {
			return "", s.errAt("empty version pragma", start)
		}
		return expr, nil
	}
	return "", s.errAt("unterminated pragma directive", start)
}

// token returns the next token, skipping whitespace and comments. Directives
// must not hit end of input before their terminator.
func (s *scanner) token() (token, error) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
		case c == '/' && s.peek(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return token{}, err
			}
		case c == '"' || c == '\'':
			text, err := s.stringLit(c)
			if err != nil {
				return token{}, err
			}
			return token{kind: tokString, text: text}, nil
		case isIdentStart(c):
			return token{kind: tokIdent, text: s.ident()}, nil
		default:
			s.pos++
			return token{kind: tokPunct, text: string(c)}, nil
		}
	}
	return token{}, s.errHere("unexpected end of file in directive")
}

func (s *scanner) stringLit(quote byte) (string, error) {
	start := s.pos
	s.pos++
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case quote:
			text := string(s.data[start+1 : s.pos])
			s.pos++
			return text, nil
		case '\\':
			s.pos += 2
		case '\n':
			return "", s.errAt("unterminated string literal", start)
		default:
			s.pos++
		}
	}
	return "", s.errAt("unterminated string literal", start)
}

func (s *scanner) skipLine() {
	for s.pos < len(s.data) && s.data[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() error {
	start := s.pos
	s.pos += 2
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == '*' && s.data[s.pos+1] == '/' {
			s.pos += 2
			return nil
		}
		s.pos++
	}
	s.pos = len(s.data)
	return s.errAt("unterminated block comment", start)
}

func (s *scanner) ident() string {
	start := s.pos
	for s.pos < len(s.data) && isIdentPart(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.data) {
		return 0
	}
	return s.data[s.pos+n]
}

func (s *scanner) errHere(msg string) error { return s.errAt(msg, s.pos) }

func (s *scanner) errAt(msg string, off int) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrParse, msg), "path", s.path), "offset", off)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
