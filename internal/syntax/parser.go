package syntax

// DefaultMaxErrors is the number of syntax errors after which a parser
// gives up on the rest of the unit.
const DefaultMaxErrors = 50

// tooManyErrors is the message of the error that ends parsing once
// MaxErrors is reached.
const tooManyErrors = "too many errors"

// SyntaxError represents a grammar violation.
type SyntaxError struct {
	Pos Pos
	End Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorHandler receives every lexical (*LexError) and syntax (*SyntaxError)
// error in the order they are found.
type ErrorHandler func(err error)

// Parser performs syntax analysis on C♭ source code.
//
// Statements and declarations are parsed by recursive descent, expressions
// by precedence climbing over the binding powers in token.go. Parse
// functions never abort: on an unexpected token they report a SyntaxError,
// skip to the next statement boundary and hand back an *ErrorNode in place
// of the construct they could not build.
type Parser struct {
	ts *TokenStream

	// Current token info
	tok  Token
	lit  string
	kind LitKind
	pos  Pos
	end  Pos

	prevEnd Pos // end of the most recently consumed token

	// Error handling
	errh    ErrorHandler
	errcnt  int
	first   error  // first error encountered
	lastPos Pos    // position of the last reported syntax error
	lastMsg string // message of the last reported syntax error
	abort   bool   // set when the error limit is reached

	fnest int // function nesting depth (0 = top-level)

	// MaxErrors is the error limit; zero or negative means no limit.
	MaxErrors int
}

// NewParser creates a new Parser for the given source buffer.
// Lexical and syntax errors are both delivered to errh.
func NewParser(filename string, src []byte, errh ErrorHandler) *Parser {
	lexErrh := func(err *LexError) {
		if errh != nil {
			errh(err)
		}
	}
	return newParser(NewTokenStream(filename, src, lexErrh), errh)
}

func newParser(ts *TokenStream, errh ErrorHandler) *Parser {
	p := &Parser{ts: ts, errh: errh, MaxErrors: DefaultMaxErrors}
	p.next() // prime the parser with first token
	return p
}

// ParseProgram parses every token of ts and returns the tree together with
// the syntax errors found. The tree is always well-formed; regions that
// could not be parsed are represented by *ErrorNode.
func ParseProgram(ts *TokenStream) (*File, []*SyntaxError) {
	var errs []*SyntaxError
	p := newParser(ts, func(err error) {
		if se, ok := err.(*SyntaxError); ok {
			errs = append(errs, se)
		}
	})
	f := p.Parse()
	return f, errs
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.prevEnd = p.end
	l := p.ts.Next()
	p.tok = l.Tok
	p.lit = l.Lit
	p.kind = l.Kind
	p.pos = l.Pos
	p.end = l.End
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise it reports an error and leaves the token in place.
func (p *Parser) want(tok Token) bool {
	if p.got(tok) {
		return true
	}
	p.errorExpected(tok.String())
	return false
}

// ----------------------------------------------------------------------------
// Error handling

// describe returns a short description of the current token for messages.
func (p *Parser) describe() string {
	switch p.tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "name " + p.lit
	case _Literal:
		if p.kind == StringLit {
			return "literal " + quote(p.lit)
		}
		return "literal " + p.lit
	}
	if p.tok.IsKeyword() {
		return "keyword " + p.tok.String()
	}
	return p.tok.String()
}

func (p *Parser) errorExpected(what string) {
	p.syntaxError("expected " + what + ", found " + p.describe())
}

// syntaxError reports a syntax error at the current token.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, p.end, msg)
}

// syntaxErrorAt reports a syntax error covering [pos, end).
func (p *Parser) syntaxErrorAt(pos, end Pos, msg string) {
	if p.abort {
		return
	}
	// One error per position; recovery of nested constructs can run into
	// the same offending token more than once.
	if p.errcnt > 0 && pos == p.lastPos {
		return
	}
	err := &SyntaxError{Pos: pos, End: end, Msg: msg}
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++
	p.lastPos = pos
	p.lastMsg = msg

	if p.errh != nil {
		p.errh(err)
	}

	if p.MaxErrors > 0 && p.errcnt >= p.MaxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(&SyntaxError{Pos: pos, End: end, Msg: tooManyErrors})
		}
	}
}

// skipToBoundary skips tokens up to the next statement boundary: a ';' at
// the current nesting level (consumed) or the '}' closing a brace opened
// while skipping (consumed). A '}' that closes an enclosing block is left
// in place for its owner.
func (p *Parser) skipToBoundary() {
	depth := 0
	for p.tok != _EOF {
		switch p.tok {
		case _Semi:
			if depth == 0 {
				p.next()
				return
			}
		case _Lbrace:
			depth++
		case _Rbrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}

// recover skips to the next statement boundary and returns an ErrorNode
// covering everything from start to the last token skipped.
func (p *Parser) recover(start Pos) *ErrorNode {
	p.skipToBoundary()
	return p.errorNode(start)
}

// errorNode returns an ErrorNode from start to the last consumed token
// without skipping anything.
func (p *Parser) errorNode(start Pos) *ErrorNode {
	n := &ErrorNode{Msg: p.lastMsg}
	n.pos = start
	n.end = p.prevEnd
	if !n.end.IsValid() || n.end.Before(start) {
		n.end = start
	}
	return n
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete compilation unit and returns the AST.
func (p *Parser) Parse() *File {
	f := &File{Name: p.pos.Filename()}
	f.pos = p.pos

	for p.tok != _EOF && !p.abort {
		start := p.pos
		switch p.tok {
		case _Func:
			f.Stmts = append(f.Stmts, p.funcDecl())
		case _Rbrace:
			p.syntaxError("unexpected }")
			p.next()
			f.Stmts = append(f.Stmts, p.errorNode(start))
		default:
			f.Stmts = append(f.Stmts, p.stmt())
		}
		p.ensureProgress(start)
	}

	if p.abort {
		// Everything after the error limit is one opaque region.
		start := p.pos
		for p.tok != _EOF {
			p.next()
		}
		f.Stmts = append(f.Stmts, p.errorNode(start))
	}

	f.end = p.pos
	return f
}

// ensureProgress consumes the current token if nothing was consumed since
// start, so that a parse loop cannot spin on a token no production accepts.
func (p *Parser) ensureProgress(start Pos) {
	if p.pos == start && p.tok != _EOF && p.tok != _Rbrace {
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Helpers

// name parses an identifier and returns a Name node, or nil after reporting
// an error.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.errorExpected("identifier")
		return nil
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	n.end = p.end
	p.next()
	return n
}

// typeName parses a type name.
func (p *Parser) typeName() *Name {
	if p.tok != _Name {
		p.errorExpected("type name")
		return nil
	}
	return p.name()
}

// ----------------------------------------------------------------------------
// Function declarations

// funcDecl parses: func Name(params) [: Result] { Body }
// It returns an *ErrorNode if the declaration could not be parsed.
func (p *Parser) funcDecl() Stmt {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Func)

	if d.Name = p.name(); d.Name == nil {
		return p.recover(d.pos)
	}

	params, ok := p.paramList()
	if !ok {
		return p.recover(d.pos)
	}
	d.Params = params

	if p.got(_Colon) {
		if d.Result = p.typeName(); d.Result == nil {
			return p.recover(d.pos)
		}
	}

	p.fnest++
	body, ok := p.blockStmt()
	p.fnest--
	if !ok {
		return p.recover(d.pos)
	}
	d.Body = body
	d.end = p.prevEnd
	return d
}

// paramList parses (p1: T1, p2: T2, ...)
func (p *Parser) paramList() ([]*Field, bool) {
	if !p.want(_Lparen) {
		return nil, false
	}

	var params []*Field
	if p.got(_Rparen) {
		return params, true
	}

	for {
		f := &Field{}
		f.pos = p.pos
		if f.Name = p.name(); f.Name == nil {
			return nil, false
		}
		if !p.want(_Colon) {
			return nil, false
		}
		if f.Type = p.typeName(); f.Type == nil {
			return nil, false
		}
		f.end = p.prevEnd
		params = append(params, f)

		if !p.got(_Comma) {
			break
		}
	}

	if !p.want(_Rparen) {
		return nil, false
	}
	return params, true
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement. It always returns a node; regions that fail to
// parse come back as *ErrorNode.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Var:
		return p.varDecl()

	case _Func:
		// Only top-level functions are supported. Parse the whole
		// declaration so recovery resumes after its body.
		start, end := p.pos, p.end
		p.syntaxErrorAt(start, end, "function declarations are only allowed at top level")
		p.funcDecl()
		return p.errorNode(start)

	case _Lbrace:
		start := p.pos
		b, ok := p.blockStmt()
		if !ok {
			return p.recover(start)
		}
		return b

	case _If:
		return p.ifStmt()

	case _While:
		return p.whileStmt()

	case _Return:
		return p.returnStmt()

	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		s.end = p.end
		p.next()
		return s

	case _Name:
		// name ':' is a declaration that lost its 'var'.
		if p.ts.Peek(1).Tok == _Colon {
			p.syntaxError("missing var keyword in variable declaration")
			return p.varDeclBody(p.pos)
		}
	}

	return p.exprStmt()
}

// exprStmt parses: Expr ;
func (p *Parser) exprStmt() Stmt {
	start := p.pos
	x, ok := p.expr()
	if !ok {
		return p.recover(start)
	}
	s := &ExprStmt{X: x}
	s.pos = start
	if !p.want(_Semi) {
		return p.recover(start)
	}
	s.end = p.prevEnd
	return s
}

// varDecl parses: var Name [: Type] [= Value] ;
func (p *Parser) varDecl() Stmt {
	start := p.pos
	p.want(_Var)
	return p.varDeclBody(start)
}

// varDeclBody parses a variable declaration after the var keyword.
func (p *Parser) varDeclBody(start Pos) Stmt {
	d := &VarDecl{}
	d.pos = start

	if d.Name = p.name(); d.Name == nil {
		return p.recover(start)
	}

	if p.got(_Colon) {
		if d.Type = p.typeName(); d.Type == nil {
			return p.recover(start)
		}
	}

	if p.got(_Assign) {
		v, ok := p.expr()
		if !ok {
			return p.recover(start)
		}
		d.Value = v
	}

	if d.Type == nil && d.Value == nil {
		p.syntaxError("missing type or initializer in declaration of " + d.Name.Value)
		return p.recover(start)
	}

	if !p.want(_Semi) {
		return p.recover(start)
	}
	d.end = p.prevEnd
	return d
}

// blockStmt parses { stmts... }
//
// A block that runs into EOF before its closing brace is reported once and
// still returned, with a trailing ErrorNode marking the missing end.
func (p *Parser) blockStmt() (*BlockStmt, bool) {
	b := &BlockStmt{}
	b.pos = p.pos

	if !p.want(_Lbrace) {
		return nil, false
	}

	for p.tok != _Rbrace && p.tok != _EOF && !p.abort {
		start := p.pos
		b.Stmts = append(b.Stmts, p.stmt())
		p.ensureProgress(start)
	}

	if p.tok == _Rbrace {
		b.Rbrace = p.pos
		p.next()
		b.end = p.prevEnd
		return b, true
	}

	if !p.abort {
		p.errorExpected("}")
	}
	missing := &ErrorNode{Msg: p.lastMsg}
	missing.pos = p.pos
	missing.end = p.pos
	b.Stmts = append(b.Stmts, missing)
	b.end = p.pos
	return b, true
}

// ifStmt parses: if cond { then } [else (if ... | { else })]
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)

	cond, ok := p.expr()
	if !ok {
		return p.recover(s.pos)
	}
	s.Cond = cond

	then, ok := p.blockStmt()
	if !ok {
		return p.recover(s.pos)
	}
	s.Then = then

	if p.got(_Else) {
		switch p.tok {
		case _If:
			s.Else = p.ifStmt()
		case _Lbrace:
			els, ok := p.blockStmt()
			if !ok {
				return p.recover(s.pos)
			}
			s.Else = els
		default:
			p.errorExpected("if or {")
			return p.recover(s.pos)
		}
	}

	s.end = p.prevEnd
	return s
}

// whileStmt parses: while cond { body }
func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.pos

	p.want(_While)

	cond, ok := p.expr()
	if !ok {
		return p.recover(s.pos)
	}
	s.Cond = cond

	body, ok := p.blockStmt()
	if !ok {
		return p.recover(s.pos)
	}
	s.Body = body
	s.end = p.prevEnd
	return s
}

// returnStmt parses: return [expr] ;
func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos

	p.want(_Return)

	if p.tok != _Semi {
		x, ok := p.expr()
		if !ok {
			return p.recover(s.pos)
		}
		s.Result = x
	}

	if !p.want(_Semi) {
		return p.recover(s.pos)
	}
	s.end = p.prevEnd
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() (Expr, bool) {
	return p.binaryExpr(0)
}

// binaryExpr parses an expression whose infix operators all bind tighter
// than prec (precedence climbing). Left-associative operators parse their
// right operand at their own binding power, right-associative ones one
// level lower so that a chain groups to the right.
func (p *Parser) binaryExpr(prec int) (Expr, bool) {
	x, ok := p.unaryExpr()
	if !ok {
		return x, false
	}

	for {
		op := p.tok
		oprec := op.Precedence()
		if oprec <= prec {
			return x, true
		}
		p.next() // consume operator

		rprec := oprec
		if op.RightAssoc() {
			rprec = oprec - 1
		}
		y, ok := p.binaryExpr(rprec)
		if !ok {
			return y, false
		}

		if op == _Assign {
			x = p.assignExpr(x, y)
			continue
		}

		bin := &BinaryExpr{Op: op, X: x, Y: y}
		bin.pos = x.Pos()
		bin.end = y.End()
		x = bin
	}
}

// assignExpr builds lhs = rhs. Only identifiers can be assigned to; any
// other target is reported and the whole assignment becomes an ErrorNode.
func (p *Parser) assignExpr(lhs, rhs Expr) Expr {
	name, ok := lhs.(*Name)
	if !ok {
		p.syntaxErrorAt(lhs.Pos(), lhs.End(), "cannot assign to a non-identifier expression")
		n := &ErrorNode{Msg: p.lastMsg}
		n.pos = lhs.Pos()
		n.end = rhs.End()
		return n
	}
	a := &AssignExpr{Lhs: name, Rhs: rhs}
	a.pos = lhs.Pos()
	a.end = rhs.End()
	return a
}

// unaryExpr parses a prefix expression. Prefix operators bind tighter than
// every infix operator, looser than calls.
func (p *Parser) unaryExpr() (Expr, bool) {
	switch p.tok {
	case _Sub, _Not:
		u := &UnaryExpr{Op: p.tok}
		u.pos = p.pos
		p.next()
		x, ok := p.unaryExpr()
		if !ok {
			return x, false
		}
		u.X = x
		u.end = x.End()
		return u, true
	}
	return p.primaryExpr()
}

// primaryExpr parses an operand followed by any number of calls.
func (p *Parser) primaryExpr() (Expr, bool) {
	x, ok := p.operand()
	if !ok {
		return x, false
	}
	for p.tok == _Lparen {
		if x, ok = p.callExpr(x); !ok {
			return x, false
		}
	}
	return x, true
}

// operand parses a name, a literal, or a parenthesized expression.
func (p *Parser) operand() (Expr, bool) {
	switch p.tok {
	case _Name:
		n := &Name{Value: p.lit}
		n.pos = p.pos
		n.end = p.end
		p.next()
		return n, true

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.kind}
		lit.pos = p.pos
		lit.end = p.end
		p.next()
		return lit, true

	case _Lparen:
		p.next()
		x, ok := p.expr()
		if !ok {
			return x, false
		}
		if !p.want(_Rparen) {
			return x, false
		}
		return x, true
	}

	p.errorExpected("expression")
	n := &ErrorNode{Msg: p.lastMsg}
	n.pos = p.pos
	n.end = p.end
	return n, false
}

// callExpr parses Fun(args...)
func (p *Parser) callExpr(fun Expr) (Expr, bool) {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	p.want(_Lparen)
	if p.tok != _Rparen {
		for {
			arg, ok := p.expr()
			if !ok {
				return arg, false
			}
			call.Args = append(call.Args, arg)
			if !p.got(_Comma) {
				break
			}
		}
	}
	if !p.want(_Rparen) {
		return call, false
	}
	call.end = p.prevEnd
	return call, true
}
