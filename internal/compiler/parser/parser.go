// Package parser builds a NID abstract syntax tree from a token queue by
// recursive descent, per spec.md §4.2. The grammar and its tie-breaks
// follow the informal grammar in spec.md and the shape of the original
// Rust parser (parser.rs), adapted to Go's closed-union AST (package ast)
// instead of trait-object downcasting.
package parser

import (
	"fmt"
	"strconv"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/token"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// Parser performs recursive-descent parsing of a NID token queue.
type Parser struct {
	tokens   []token.Token
	pos      int
	filename string
}

// New creates a parser over tokens.
func New(tokens []token.Token, filename string) *Parser {
	return &Parser{tokens: tokens, filename: filename}
}

func (p *Parser) errPos() diag.Position {
	return diag.Position{Filename: p.filename}
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return diag.New(diag.Parse, p.errPos(), fmt.Sprintf(format, args...))
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.Eof}
	}
	return p.tokens[p.pos]
}

func (p *Parser) pop() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind token.Kind, what string) (token.Token, error) {
	t := p.pop()
	if t.Kind != kind {
		return t, p.errf("expected %s, got %s", what, t.Kind)
	}
	return t, nil
}

// Parse parses the full token stream into a Program, then locates the
// entry point: a Function named "main" immediately followed by its Block
// (spec.md §3 invariant 4).
func (p *Parser) Parse() (*ast.Program, error) {
	body, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}

	mainIndex := -1
	for i := 0; i < len(body)-1; i++ {
		fn, ok := body[i].(*ast.Function)
		if ok && fn.Identifier == "main" {
			if _, ok := body[i+1].(*ast.Block); ok {
				mainIndex = i
				break
			}
		}
	}
	if mainIndex == -1 {
		return nil, p.errf("no main() function found")
	}

	return &ast.Program{Body: body, MainIndex: mainIndex}, nil
}

// parseStatements parses statements until a matching CloseScope (when
// inScope is true) or Eof (top level).
func (p *Parser) parseStatements(inScope bool) ([]ast.Node, error) {
	var body []ast.Node

	for {
		next := p.peek()
		if next.Kind == token.Eof {
			if inScope {
				return nil, p.errf("missing closing '}'")
			}
			return body, nil
		}

		tok := p.pop()

		var node ast.Node
		var err error

		switch tok.Kind {
		case token.CloseScope:
			if !inScope {
				return nil, p.errf("unexpected '}'")
			}
			return body, nil

		case token.Eol:
			continue

		case token.OpenScope:
			inner, ierr := p.parseStatements(true)
			if ierr != nil {
				return nil, ierr
			}
			node = &ast.Block{Body: inner}

		case token.Asm:
			node, err = p.parseAsmBlock()

		case token.Assignment:
			node, err = p.parseAssignment(&body)

		case token.Branch:
			if tok.Value != "if" {
				return nil, p.errf("unexpected %q", tok.Value)
			}
			node, err = p.parseBranch()

		case token.Loop:
			node, err = p.parseLoop()

		case token.Return:
			node, err = p.parseReturn()

		case token.TypeIndicator:
			node, err = typeFromKeyword(tok.Value)

		case token.Macro:
			node, err = p.parseMacro(tok)

		case token.Identifier:
			if p.peek().Kind == token.OpenParen {
				// A return-type keyword before a function name is not
				// kept: ast.Function has no return type.
				if n := len(body); n > 0 {
					if _, ok := body[n-1].(*ast.Type); ok {
						body = body[:n-1]
					}
				}
				node, err = p.parseFunction(tok.Value)
			} else {
				node = &ast.Variable{Identifier: tok.Value}
			}

		case token.BuiltIn:
			node, err = p.parseBuiltinCall(tok.Value)

		default:
			return nil, p.errf("unexpected token %s", tok.Kind)
		}

		if err != nil {
			return nil, err
		}
		if node != nil {
			body = append(body, node)
		}
	}
}

// parseAssignment handles the tie-break described in spec.md §4.2: on
// seeing '=', pop the previously parsed Variable (and, if present, the
// Type before it) off the accumulated body to build the Assignment node.
func (p *Parser) parseAssignment(body *[]ast.Node) (ast.Node, error) {
	if len(*body) == 0 {
		return nil, p.errf("assignment target missing")
	}

	target, ok := (*body)[len(*body)-1].(*ast.Variable)
	if !ok {
		return nil, p.errf("assignment target is not a variable")
	}
	*body = (*body)[:len(*body)-1]

	var typeDecl *ast.Type
	if len(*body) > 0 {
		if t, ok := (*body)[len(*body)-1].(*ast.Type); ok {
			typeDecl = t
			*body = (*body)[:len(*body)-1]
		}
	}

	lhs, err := p.literalOrVariable(p.pop())
	if err != nil {
		return nil, err
	}

	var expr ast.Node = lhs
	if p.peek().Kind == token.BinaryOperator {
		opTok := p.pop()
		op, err := binaryOpFromString(opTok.Value)
		if err != nil {
			return nil, err
		}
		rhs, err := p.literalOrVariable(p.pop())
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpression{Left: lhs, Op: op, Right: rhs}
	}

	return &ast.Assignment{TypeDecl: typeDecl, Target: target, Expression: expr}, nil
}

func (p *Parser) parseBranch() (ast.Node, error) {
	if _, err := p.expect(token.OpenParen, "'('"); err != nil {
		return nil, err
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.OpenScope, "'{'"); err != nil {
		return nil, err
	}
	trueBody, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}

	var falseBlock *ast.Block
	if p.peek().Kind == token.Branch && p.peek().Value == "else" {
		p.pop()
		if _, err := p.expect(token.OpenScope, "'{'"); err != nil {
			return nil, err
		}
		falseBody, err := p.parseStatements(true)
		if err != nil {
			return nil, err
		}
		falseBlock = &ast.Block{Body: falseBody}
	}

	return &ast.Branch{
		Condition: cond,
		TrueBody:  &ast.Block{Body: trueBody},
		FalseBody: falseBlock,
	}, nil
}

func (p *Parser) parseLoop() (ast.Node, error) {
	if _, err := p.expect(token.OpenParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpenScope, "'{'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(true)
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Condition: cond, Body: &ast.Block{Body: body}}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	tok := p.pop()
	if tok.Kind == token.Eol {
		return &ast.Return{Value: nil}, nil
	}
	val, err := p.literalOrVariable(tok)
	if err != nil {
		return nil, err
	}
	if end := p.pop(); end.Kind != token.Eol {
		return nil, p.errf("missing ';' after return value")
	}
	return &ast.Return{Value: val}, nil
}

// parseMacro parses `#PREALLOCSTART = n;` / `#PREALLOCEND = n;`.
func (p *Parser) parseMacro(nameTok token.Token) (ast.Node, error) {
	var kind ast.MacroKind
	switch nameTok.Value {
	case "PREALLOCSTART":
		kind = ast.PreAllocStart
	case "PREALLOCEND":
		kind = ast.PreAllocEnd
	default:
		return nil, p.errf("unknown macro #%s", nameTok.Value)
	}

	if _, err := p.expect(token.Assignment, "'='"); err != nil {
		return nil, err
	}
	valTok, err := p.expect(token.Integer, "integer literal")
	if err != nil {
		return nil, err
	}
	val, convErr := strconv.ParseUint(valTok.Value, 10, 16)
	if convErr != nil {
		return nil, p.errf("invalid macro value %q: %v", valTok.Value, convErr)
	}
	if _, err := p.expect(token.Eol, "';'"); err != nil {
		return nil, err
	}

	return &ast.Macro{MacroKind: kind, Value: uint16(val)}, nil
}

// parseFunction parses a function declaration: identifier "(" params ")"
// (spec.md §4.2 grammar; also used for "main").
func (p *Parser) parseFunction(name string) (ast.Node, error) {
	if _, err := p.expect(token.OpenParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Identifier: name, Params: params}, nil
}

// parseBuiltinCall parses name "(" args ")" for sleep/move_to/is_pressed.
func (p *Parser) parseBuiltinCall(name string) (ast.Node, error) {
	builtin, err := builtinFromString(name)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpenParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	return &ast.Builtin{Name: builtin, Params: params}, nil
}

// parseParamList parses a comma-separated parameter list up to and
// including the closing ')'. OpenParen must already be consumed.
func (p *Parser) parseParamList() ([]ast.Node, error) {
	var params []ast.Node
	for p.peek().Kind != token.CloseParen {
		tok := p.pop()
		if tok.Kind == token.Eof {
			return nil, p.errf("unterminated parameter list")
		}
		if tok.Kind == token.Separator {
			tok = p.pop()
		}
		if tok.Kind == token.TypeIndicator {
			t, err := typeFromKeyword(tok.Value)
			if err != nil {
				return nil, err
			}
			params = append(params, t)
			continue
		}
		n, err := p.literalOrVariable(tok)
		if err != nil {
			return nil, err
		}
		params = append(params, n)
	}
	p.pop() // CloseParen
	return params, nil
}

// parseCondition parses the "(" Condition ")" grammar used by Branch and
// Loop. OpenParen must already be consumed by the caller.
func (p *Parser) parseCondition() (*ast.Condition, error) {
	if p.peek().Kind == token.LogicOperator && p.peek().Value == "!" {
		p.pop()
		right, err := p.conditionOperand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen, "')'"); err != nil {
			return nil, err
		}
		return &ast.Condition{Left: nil, Operator: ast.Not, Right: right}, nil
	}

	operand, err := p.conditionOperand()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == token.CloseParen {
		p.pop()
		// Single-operand shape. is_pressed(n) keeps Left absent and
		// Right as the Builtin node; anything else rewrites to `== 1`
		// per spec.md §4.2 ("while (x)" / "while (true)").
		if b, ok := operand.(*ast.Builtin); ok && b.Name == ast.IsPressed {
			return &ast.Condition{Left: nil, Operator: ast.Eq, Right: operand}, nil
		}
		return &ast.Condition{
			Left:     operand,
			Operator: ast.Eq,
			Right:    &ast.Value{ValueKind: ast.VInt, Int: 1},
		}, nil
	}

	opTok := p.pop()
	op, err := comparisonOpFromString(opTok.Value)
	if err != nil {
		return nil, err
	}
	right, err := p.conditionOperand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen, "')'"); err != nil {
		return nil, err
	}

	return &ast.Condition{Left: operand, Operator: op, Right: right}, nil
}

func (p *Parser) conditionOperand() (ast.Node, error) {
	tok := p.pop()
	if tok.Kind == token.BuiltIn {
		return p.parseBuiltinCall(tok.Value)
	}
	return p.literalOrVariable(tok)
}

// parseAsmBlock consumes raw tokens verbatim until the matching '}' and
// groups them into assembly lines at reserved-mnemonic boundaries
// (spec.md §4.2).
func (p *Parser) parseAsmBlock() (ast.Node, error) {
	if _, err := p.expect(token.OpenScope, "'{'"); err != nil {
		return nil, err
	}

	var raw []token.Token
	for p.peek().Kind != token.CloseScope {
		if p.peek().Kind == token.Eof {
			return nil, p.errf("unterminated asm block")
		}
		raw = append(raw, p.pop())
	}
	p.pop() // CloseScope

	return &ast.Asm{Lines: buildAsmLines(raw)}, nil
}

// buildAsmLines concatenates raw tokens into lines, starting a new line
// whenever a reserved mnemonic token is seen.
func buildAsmLines(raw []token.Token) []string {
	var lines []string
	var mnemonic string
	var operands []string

	flush := func() {
		if mnemonic == "" {
			return
		}
		if len(operands) == 0 {
			lines = append(lines, mnemonic)
		} else {
			line := mnemonic
			for _, op := range operands {
				line += ", " + op
			}
			lines = append(lines, line)
		}
	}

	for _, t := range raw {
		if t.Kind == token.Separator || t.Kind == token.Eol {
			continue
		}
		if token.ReservedMnemonics[t.Value] {
			flush()
			mnemonic = t.Value
			operands = nil
			continue
		}
		operands = append(operands, t.Value)
	}
	flush()

	return lines
}

// literalOrVariable builds a Variable or Value node from a single already
// -popped token, matching the Primary grammar in spec.md §4.2.
func (p *Parser) literalOrVariable(tok token.Token) (ast.Node, error) {
	switch tok.Kind {
	case token.Identifier:
		return &ast.Variable{Identifier: tok.Value}, nil
	case token.Integer:
		n, err := strconv.ParseInt(tok.Value, 10, 16)
		if err != nil {
			return nil, p.errf("invalid integer literal %q: %v", tok.Value, err)
		}
		return &ast.Value{ValueKind: ast.VInt, Int: int16(n)}, nil
	case token.Floating:
		f, err := strconv.ParseFloat(tok.Value, 32)
		if err != nil {
			return nil, p.errf("invalid float literal %q: %v", tok.Value, err)
		}
		return &ast.Value{ValueKind: ast.VFloat, Float: float32(f)}, nil
	case token.String:
		return &ast.Value{ValueKind: ast.VString, Str: tok.Value}, nil
	case token.Char:
		if len(tok.Value) == 0 {
			return nil, p.errf("empty char literal")
		}
		return &ast.Value{ValueKind: ast.VChar, Char: []rune(tok.Value)[0]}, nil
	case token.Bool:
		return &ast.Value{ValueKind: ast.VBool, Bool: tok.Value == "true"}, nil
	default:
		return nil, p.errf("expected a value or identifier, got %s", tok.Kind)
	}
}

func typeFromKeyword(word string) (*ast.Type, error) {
	switch word {
	case "void":
		return &ast.Type{ValueKind: ast.VVoid}, nil
	case "int":
		return &ast.Type{ValueKind: ast.VInt}, nil
	case "float":
		return &ast.Type{ValueKind: ast.VFloat}, nil
	case "string":
		return &ast.Type{ValueKind: ast.VString}, nil
	case "char":
		return &ast.Type{ValueKind: ast.VChar}, nil
	case "bool":
		return &ast.Type{ValueKind: ast.VBool}, nil
	default:
		return nil, diag.New(diag.Parse, diag.Position{}, "unknown type keyword "+word)
	}
}

func builtinFromString(name string) (ast.BuiltinName, error) {
	switch name {
	case "sleep":
		return ast.Sleep, nil
	case "move_to":
		return ast.MoveTo, nil
	case "is_pressed":
		return ast.IsPressed, nil
	default:
		return 0, diag.New(diag.Parse, diag.Position{}, "unknown builtin "+name)
	}
}

func binaryOpFromString(val string) (ast.BinaryOperator, error) {
	switch val {
	case "+":
		return ast.Add, nil
	case "-":
		return ast.Sub, nil
	case "*":
		return ast.Mul, nil
	case "/":
		return ast.Div, nil
	default:
		return 0, diag.New(diag.Parse, diag.Position{}, "invalid binary operator "+val)
	}
}

func comparisonOpFromString(val string) (ast.ComparisonOperator, error) {
	switch val {
	case "!":
		return ast.Not, nil
	case "!=":
		return ast.NotEq, nil
	case "==":
		return ast.Eq, nil
	case ">":
		return ast.GreatThan, nil
	case "<":
		return ast.LessThan, nil
	case ">=":
		return ast.GreatEq, nil
	case "<=":
		return ast.LessEq, nil
	default:
		return 0, diag.New(diag.Parse, diag.Position{}, "invalid comparison operator "+val)
	}
}
