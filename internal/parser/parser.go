package parser

import "kanso/internal/ast"

// Parser turns a token stream from the Scanner into an *ast.Contract via
// recursive descent, with a Pratt parser (parser_pratt.go) for expressions.
type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError
}

// ParseError reports a recoverable parse failure at a source position.
// The parser synchronizes and keeps going, so a single source file can
// accumulate more than one of these.
type ParseError struct {
	Message  string
	Position Position
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{filename: filename, tokens: tokens}
}

// parseAttribute parses a #[name] annotation, e.g. #[storage], #[create].
func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.consume(POUND, "expected '#'")
	p.consume(LEFT_BRACKET, "expected '[' after '#'")
	nameTok := p.consume(IDENTIFIER, "expected attribute name")
	end := p.consume(RIGHT_BRACKET, "expected ']' to close attribute")
	return &ast.Attribute{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   nameTok.Lexeme,
	}
}

// parseInheritanceList parses the comma-separated base list after 'is':
// Base1(arg1, arg2), Base2.
func (p *Parser) parseInheritanceList() []*ast.InheritanceSpecifier {
	var specs []*ast.InheritanceSpecifier
	for {
		name, ok := p.consumeIdent("expected base contract name")
		if !ok {
			break
		}
		var args []ast.Expr
		endPos := name.EndPos
		if p.match(LEFT_PAREN) {
			args = p.parseExprList()
			end := p.consume(RIGHT_PAREN, "expected ')' after base constructor arguments")
			endPos = p.makeEndPos(end)
		}
		specs = append(specs, &ast.InheritanceSpecifier{
			Pos:    name.Pos,
			EndPos: endPos,
			Name:   name,
			Args:   args,
		})
		if !p.match(COMMA) {
			break
		}
	}
	return specs
}

// parseModifierDecl parses a 'modifier' declaration: modifier Name(params) { body }.
func (p *Parser) parseModifierDecl() *ast.Modifier {
	start := p.consume(MODIFIER, "expected 'modifier' keyword")
	name, ok := p.consumeIdent("expected modifier name")
	if !ok {
		p.synchronize()
		return nil
	}
	params := p.parseFunctionParameters()
	body := p.parseFunctionBlock()
	return &ast.Modifier{
		Pos:    p.makePos(start),
		EndPos: body.EndPos,
		Name:   name,
		Params: params,
		Body:   &body,
	}
}

// parseNestedModule parses the legacy 'module Name { ... }' grouping
// construct, nested inside a contract body.
func (p *Parser) parseNestedModule() *ast.Module {
	start := p.consume(MODULE, "expected 'module' keyword")
	name, ok := p.consumeIdent("expected module name")
	if !ok {
		p.synchronize()
		return nil
	}
	p.consume(LEFT_BRACE, "expected '{' to start module body")

	var items []ast.ModuleItem
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if p.check(DOC_COMMENT) {
			tok := p.advance()
			items = append(items, &ast.DocComment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme})
			continue
		}
		if p.check(COMMENT) {
			tok := p.advance()
			items = append(items, &ast.Comment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme})
			continue
		}

		var attr *ast.Attribute
		if p.check(POUND) {
			attr = p.parseAttribute()
		}

		switch {
		case p.check(STRUCT):
			if s := p.parseStruct(attr); s != nil {
				items = append(items, s)
			}
		case p.check(USE):
			items = append(items, p.parseUse())
		case p.check(EXT):
			p.advance()
			if fn := p.parseFunction(attr, true); fn != nil {
				items = append(items, fn)
			}
		case p.check(FUN):
			if fn := p.parseFunction(attr, false); fn != nil {
				items = append(items, fn)
			}
		default:
			p.errorAtCurrent("expected module item")
			p.synchronize()
		}
	}

	end := p.consume(RIGHT_BRACE, "expected '}' to close module body")
	return &ast.Module{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   name,
		Items:  items,
	}
}

// ParseContract parses a whole source file into a single *ast.Contract.
// It accepts both the bare form ("contract Name [is Base(...), ...] { ... }")
// and the legacy attributed-module form ("#[contract] module Name { ... }").
func (p *Parser) ParseContract() *ast.Contract {
	var leading []ast.ContractItem
	for p.check(COMMENT) || p.check(DOC_COMMENT) {
		tok := p.advance()
		if tok.Type == DOC_COMMENT {
			leading = append(leading, &ast.DocComment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme})
		} else {
			leading = append(leading, &ast.Comment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme})
		}
	}

	// A leading #[contract] attribute only disambiguates the legacy
	// 'module' form below; ast.Contract has no Attribute field to store
	// it in, since the bare 'contract' keyword makes it redundant there.
	if p.check(POUND) {
		p.parseAttribute()
	}

	var startToken Token
	if p.check(MODULE) {
		startToken = p.advance()
	} else {
		startToken = p.consume(CONTRACT, "expected 'contract' or 'module' keyword")
	}

	name, ok := p.consumeIdent("expected contract name")
	if !ok {
		p.synchronize()
		return nil
	}

	var bases []*ast.InheritanceSpecifier
	if p.match(IS) {
		bases = p.parseInheritanceList()
	}

	p.consume(LEFT_BRACE, "expected '{' to start contract body")

	var items []ast.ContractItem
	var pendingDoc *ast.DocComment

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if p.check(DOC_COMMENT) {
			tok := p.advance()
			pendingDoc = &ast.DocComment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme}
			continue
		}
		if p.check(COMMENT) {
			tok := p.advance()
			items = append(items, &ast.Comment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme})
			continue
		}

		var attr *ast.Attribute
		if p.check(POUND) {
			attr = p.parseAttribute()
			if p.check(DOC_COMMENT) {
				tok := p.advance()
				pendingDoc = &ast.DocComment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme}
			}
		}

		switch {
		case p.check(STRUCT):
			s := p.parseStruct(attr)
			if s != nil {
				s.DocComment = pendingDoc
				pendingDoc = nil
				items = append(items, s)
			}
		case p.check(EXT):
			p.advance()
			fn := p.parseFunction(attr, true)
			if fn != nil {
				fn.DocComment = pendingDoc
				pendingDoc = nil
				items = append(items, fn)
			}
		case p.check(FUN):
			fn := p.parseFunction(attr, false)
			if fn != nil {
				fn.DocComment = pendingDoc
				pendingDoc = nil
				items = append(items, fn)
			}
		case p.check(USE):
			items = append(items, p.parseUse())
		case p.check(MODIFIER):
			m := p.parseModifierDecl()
			if m != nil {
				m.DocComment = pendingDoc
				pendingDoc = nil
				items = append(items, m)
			}
		case p.check(MODULE):
			if m := p.parseNestedModule(); m != nil {
				items = append(items, m)
			}
		default:
			p.errorAtCurrent("expected contract item")
			p.synchronize()
		}
	}

	end := p.consume(RIGHT_BRACE, "expected '}' to close contract body")

	return &ast.Contract{
		Pos:             p.makePos(startToken),
		EndPos:          p.makeEndPos(end),
		LeadingComments: leading,
		Name:            name,
		Bases:           bases,
		Items:           items,
	}
}
