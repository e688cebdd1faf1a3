package parser

import "kanso/internal/ast"

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.consume(IF, "expected 'if'")
	cond := p.parseExpr()
	thenBlock := p.parseFunctionBlock()

	var elseBlock *ast.FunctionBlock
	endPos := thenBlock.EndPos
	if p.match(ELSE) {
		if p.check(IF) {
			nested := p.parseIfStmt()
			elseBlock = &ast.FunctionBlock{
				Pos:    nested.Pos,
				EndPos: nested.EndPos,
				Items:  []ast.FunctionBlockItem{nested},
			}
		} else {
			eb := p.parseFunctionBlock()
			elseBlock = &eb
		}
		endPos = elseBlock.EndPos
	}

	return &ast.IfStmt{
		Pos:       p.makePos(start),
		EndPos:    endPos,
		Condition: cond,
		ThenBlock: &thenBlock,
		ElseBlock: elseBlock,
	}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.consume(WHILE, "expected 'while'")
	p.consume(LEFT_PAREN, "expected '(' after 'while'")
	cond := p.parseExpr()
	p.consume(RIGHT_PAREN, "expected ')' after while condition")
	body := p.parseFunctionBlock()

	return &ast.WhileStmt{
		Pos:       p.makePos(start),
		EndPos:    body.EndPos,
		Condition: cond,
		Body:      &body,
	}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.consume(FOR, "expected 'for'")
	p.consume(LEFT_PAREN, "expected '(' after 'for'")

	var init ast.FunctionBlockItem
	if p.check(SEMICOLON) {
		p.advance()
	} else {
		init = p.parseSimpleStmt()
	}

	var cond ast.Expr
	if !p.check(SEMICOLON) {
		cond = p.parseExpr()
	}
	p.consume(SEMICOLON, "expected ';' after for-loop condition")

	var post ast.FunctionBlockItem
	if !p.check(RIGHT_PAREN) {
		post = p.parseSimpleStmtNoSemi()
	}
	p.consume(RIGHT_PAREN, "expected ')' after for-loop clauses")

	body := p.parseFunctionBlock()

	return &ast.ForStmt{
		Pos:       p.makePos(start),
		EndPos:    body.EndPos,
		Init:      init,
		Condition: cond,
		Post:      post,
		Body:      &body,
	}
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.consume(BREAK, "expected 'break'")
	end := p.consume(SEMICOLON, "expected ';' after 'break'")
	return &ast.BreakStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end)}
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.consume(CONTINUE, "expected 'continue'")
	end := p.consume(SEMICOLON, "expected ';' after 'continue'")
	return &ast.ContinueStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end)}
}

func (p *Parser) parsePlaceholderStmt() *ast.PlaceholderStmt {
	start := p.advance() // the '_' identifier token
	end := p.consume(SEMICOLON, "expected ';' after '_'")
	return &ast.PlaceholderStmt{Pos: p.makePos(start), EndPos: p.makeEndPos(end)}
}

// parseSimpleStmt parses a let, assignment, or bare expression statement,
// consuming its trailing ';'. Used for the for-loop init clause and
// anywhere a single ordinary statement is needed outside the main block
// dispatch loop.
func (p *Parser) parseSimpleStmt() ast.FunctionBlockItem {
	if p.check(LET) {
		return p.parseLetStmt()
	}

	expr := p.parseExpr()
	if isAssignable(expr) && isAssignOperator(p.peek()) {
		opTok := p.advance()
		value := p.parseExpr()
		semi := p.consume(SEMICOLON, "expected ';' after assignment")
		return &ast.AssignStmt{
			Pos:      expr.NodePos(),
			EndPos:   p.makeEndPos(semi),
			Target:   expr,
			Operator: assignOpFromToken(opTok),
			Value:    value,
		}
	}

	semi := p.consume(SEMICOLON, "expected ';' after statement")
	return &ast.ExprStmt{Pos: expr.NodePos(), EndPos: p.makeEndPos(semi), Expr: expr, Semicolon: true}
}

// parseSimpleStmtNoSemi is parseSimpleStmt's counterpart for the for-loop
// post clause, which is followed by ')' rather than ';'.
func (p *Parser) parseSimpleStmtNoSemi() ast.FunctionBlockItem {
	expr := p.parseExpr()
	if isAssignable(expr) && isAssignOperator(p.peek()) {
		opTok := p.advance()
		value := p.parseExpr()
		return &ast.AssignStmt{
			Pos:      expr.NodePos(),
			EndPos:   value.NodeEndPos(),
			Target:   expr,
			Operator: assignOpFromToken(opTok),
			Value:    value,
		}
	}
	return &ast.ExprStmt{Pos: expr.NodePos(), EndPos: expr.NodeEndPos(), Expr: expr, Semicolon: false}
}
