package parser

import "kanso/internal/ast"

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, message string) Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	illegal := Token{Type: ILLEGAL, Position: p.peek().Position}
	p.advance()
	return illegal
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

// peekIsPlaceholder reports whether the token after the current one is a
// ';', used to recognize the modifier placeholder marker "_;" without
// mistaking a variable literally named "_" used in an expression for it.
func (p *Parser) peekIsPlaceholder() bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == SEMICOLON
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) errorAtCurrent(message string) {
	pos := p.peek().Position
	p.errors = append(p.errors, ParseError{
		Message:  message,
		Position: pos,
	})
}

func (p *Parser) makePos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename, // assuming Parser has a `filename` field
		Offset:   tok.Position.Offset,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
	}
}

func (p *Parser) makeEndPos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset + len(tok.Lexeme),
		Line:     tok.Position.Line,
		Column:   tok.Position.Column + len(tok.Lexeme),
	}
}

func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}

		switch p.peek().Type {
		case FUN, LET, IF, WHILE, FOR, RETURN, MODULE, CONTRACT, STRUCT, USE:
			return
		}

		p.advance()
	}
}

// Helper functions to reduce repetitive AST node creation

// makeIdent creates an ast.Ident from a token
func (p *Parser) makeIdent(tok Token) ast.Ident {
	return ast.Ident{
		Pos:    p.makePos(tok),
		EndPos: p.makeEndPos(tok),
		Value:  tok.Lexeme,
	}
}

// consumeIdent consumes an identifier token and returns an ast.Ident
func (p *Parser) consumeIdent(message string) (ast.Ident, bool) {
	tok := p.consume(IDENTIFIER, message)
	if tok.Type == ILLEGAL {
		return ast.Ident{Value: "error"}, false
	}
	return p.makeIdent(tok), true
}

// parseIdentifierList parses a comma-separated list of identifiers
func (p *Parser) parseIdentifierList() []ast.Ident {
	var idents []ast.Ident

	for !p.isAtEnd() {
		ident, ok := p.consumeIdent("expected identifier")
		if !ok {
			break
		}
		idents = append(idents, ident)

		if !p.match(COMMA) {
			break
		}
	}

	return idents
}

// parseVariableType parses a type annotation: a plain or generic type name
// (Slots<Address, U256>), a reference (&State, &mut State), or a tuple type
// ((Address, U256)).
func (p *Parser) parseVariableType() *ast.VariableType {
	if p.match(LEFT_PAREN) {
		start := p.previous()
		var elems []*ast.VariableType
		if !p.check(RIGHT_PAREN) {
			elems = append(elems, p.parseVariableType())
			for p.match(COMMA) {
				if p.check(RIGHT_PAREN) {
					break
				}
				elems = append(elems, p.parseVariableType())
			}
		}
		end := p.consume(RIGHT_PAREN, "expected ')' to close tuple type")
		return &ast.VariableType{
			Pos:           p.makePos(start),
			EndPos:        p.makeEndPos(end),
			TupleElements: elems,
		}
	}

	var refTok Token
	isRef := false
	mut := false
	if p.match(AMPERSAND) {
		isRef = true
		refTok = p.previous()
		if p.match(MUT) {
			mut = true
		}
	}

	if !p.check(IDENTIFIER) {
		tok := p.peek()
		p.errorAtCurrent("expected type identifier")
		p.advance()
		return &ast.VariableType{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Name:   ast.Ident{Value: "error"},
		}
	}

	idTok := p.advance()
	name := p.makeIdent(idTok)
	endPos := name.EndPos

	var generics []*ast.VariableType
	if p.match(LESS) {
		if !p.check(GREATER) {
			generics = append(generics, p.parseVariableType())
			for p.match(COMMA) {
				generics = append(generics, p.parseVariableType())
			}
		}
		closing := p.consume(GREATER, "expected '>' after generic parameters")
		endPos = p.makeEndPos(closing)
	}

	vt := &ast.VariableType{
		Pos:      name.Pos,
		EndPos:   endPos,
		Name:     name,
		Generics: generics,
	}

	if isRef {
		vt.Ref = &ast.RefVariableType{
			Pos:    p.makePos(refTok),
			EndPos: endPos,
			Target: &ast.VariableType{Pos: name.Pos, EndPos: endPos, Name: name, Generics: generics},
			Mut:    mut,
		}
	}

	return vt
}

// parseComment consumes a single comment token (// or /* */, doc or plain)
// and wraps it as an ast.Comment, the only comment node StructItem allows.
func (p *Parser) parseComment() *ast.Comment {
	tok := p.advance()
	return &ast.Comment{
		Pos:    p.makePos(tok),
		EndPos: p.makeEndPos(tok),
		Text:   tok.Lexeme,
	}
}

// consumeSemicolonWithBetterRecovery consumes a trailing ';', reporting an
// error naming the statement kind (via context) and falling back to
// fallbackEnd instead of aborting the parse when it's missing.
func (p *Parser) consumeSemicolonWithBetterRecovery(fallbackEnd ast.Position, context string) ast.Position {
	if p.check(SEMICOLON) {
		return p.makeEndPos(p.advance())
	}
	p.errorAtCurrent("expected ';' after " + context + " statement")
	return fallbackEnd
}

// parseOptionalParenIdentifierList parses optional parenthesized identifier list
// e.g., reads(State) or writes(State, Account)
func (p *Parser) parseOptionalParenIdentifierList() []ast.Ident {
	var idents []ast.Ident

	if p.match(LEFT_PAREN) {
		idents = p.parseIdentifierList()
		p.consume(RIGHT_PAREN, "expected ')' to close identifier list")
	} else {
		// Single identifier without parentheses
		ident, ok := p.consumeIdent("expected identifier")
		if ok {
			idents = append(idents, ident)
		}
	}

	return idents
}
