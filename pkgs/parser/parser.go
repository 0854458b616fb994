package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
	"github.com/aledsdavies/chsmc/pkgs/lexer"
	"github.com/aledsdavies/chsmc/pkgs/paramscan"
	"github.com/aledsdavies/chsmc/pkgs/sink"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// rootSymbolName keys the implicit root cluster's symbol-table entry. It
// starts with '$', which the lexer never produces as the first character
// of an IDENT, so it can never collide with a user-declared state name.
const rootSymbolName = "$root"

// --- token-stream helpers -------------------------------------------------

func (p *Parser) advance() { p.cur = p.lex.NextToken() }

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.Type == tt }

// accept consumes the current token and advances if it matches tt,
// reporting whether it did.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

// expect is accept plus a diagnostic on mismatch.
func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, bool) {
	if !p.at(tt) {
		p.errorf(diag.CategorySyntax, "expected %s, found %s", what, describeToken(p.cur))
		return lexer.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

func describeToken(tok lexer.Token) string {
	if tok.Type == lexer.IDENT || tok.Type == lexer.INT {
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	}
	return tok.Type.String()
}

// synchronize discards tokens until one that can plausibly start the next
// top-level declaration, body member, or closes the enclosing block — the
// batched-errors policy in 4.4: report and keep going rather than abort.
func (p *Parser) synchronize() {
	for {
		switch p.cur.Type {
		case lexer.EOF, lexer.RBRACE,
			lexer.CHSM, lexer.STATE, lexer.CLUSTER, lexer.SET, lexer.EVENT,
			lexer.IDENT, lexer.LBRACE_PCT:
			return
		default:
			p.advance()
		}
	}
}

// --- host-region capture --------------------------------------------------

// captureHostRegion assumes the caller has already confirmed p.cur is the
// opening delimiter of a host-language region without having advanced
// past it. It pushes mode, which makes the next advance() fetch the
// lexer's CODE_CHUNK for the region's content (possibly empty), pops the
// mode, and advances once more so p.cur lands on the closing delimiter —
// still owned by the caller, which must consume it itself (normally via
// expect). This ordering is the only thing that makes context-sensitive
// lexing work: the mode must flip between two adjacent advance() calls,
// never inside one or around a buffered lookahead token.
func (p *Parser) captureHostRegion(mode lexer.Mode) lexer.Token {
	p.lex.PushMode(mode)
	p.advance()
	p.lex.PopMode()
	chunk := p.cur
	p.advance()
	return chunk
}

// parseHostClassName assumes p.cur is COLON.
func (p *Parser) parseHostClassName() string {
	chunk := p.captureHostRegion(lexer.MaybeHostClass)
	return strings.TrimSpace(chunk.Value)
}

// parseParamList assumes p.cur is LPAREN. It returns nil (with diagnostics
// already recorded) on a malformed parameter list.
func (p *Parser) parseParamList() []ir.Param {
	openPos := p.pos()
	chunk := p.captureHostRegion(lexer.MaybeHostParams)
	if _, ok := p.expect(lexer.RPAREN, "')' to close parameter list"); !ok {
		return nil
	}
	if strings.TrimSpace(chunk.Value) == "" {
		return nil
	}
	scanned, err := paramscan.ScanParams(chunk.Value, chunk.Line, p.dialect)
	if err != nil {
		p.bag.Err(openPos, diag.CategorySyntax, "parameter list: %v", err)
		return nil
	}
	out := make([]ir.Param, len(scanned))
	for i, sp := range scanned {
		out[i] = ir.Param{Name: sp.Name, DeclTemplate: sp.Decl, Line: sp.Line}
	}
	return out
}

// parseBracketedChunk assumes p.cur is LBRACKET: a `[ expr ]` region.
func (p *Parser) parseBracketedChunk() (lexer.Token, bool) {
	chunk := p.captureHostRegion(lexer.MaybeHostExpr)
	_, ok := p.expect(lexer.RBRACKET, "']' to close bracketed expression")
	return chunk, ok
}

// parseBraceChunk assumes p.cur is LBRACE: a `{ action }` block.
func (p *Parser) parseBraceChunk() (lexer.Token, bool) {
	chunk := p.captureHostRegion(lexer.MaybeHostBrace)
	_, ok := p.expect(lexer.RBRACE, "'}' to close action block")
	return chunk, ok
}

// parsePercentBraceChunk assumes p.cur is LBRACE_PCT: a `%{ ... %}` block.
func (p *Parser) parsePercentBraceChunk() (lexer.Token, bool) {
	chunk := p.captureHostRegion(lexer.MaybeHostExpr)
	_, ok := p.expect(lexer.RBRACE_PCT, "'%}' to close function body")
	return chunk, ok
}

// writeAux diverts a captured chunk into the user-code sink, tagged by
// kind and the auxiliary ID (0 for the file-scope preamble) the generator
// will use to find it again once validation passes.
func (p *Parser) writeAux(kind string, id int, chunk lexer.Token) {
	p.auxSeq++
	if err := p.sink.WriteChunk(sink.Chunk{Kind: kind, ID: id, Line: chunk.Line, Text: chunk.Value}); err != nil {
		p.bag.Add(diag.Diagnostic{Kind: diag.Fatal, Category: diag.CategoryIO, Message: err.Error()})
	}
}

// --- symbol realization ---------------------------------------------------

// realize mutates the symbol named name into its final info, upgrading
// whatever placeholder (Child or Global) stood in for it — or creating a
// fresh symbol if name hasn't appeared before. A Child placeholder being
// realized has its Defined flag set first, since Upgrade discards the old
// info and the validator's child-definedness pass needs that flag to have
// already been recorded (see ir.CHSM.PendingChildren).
func (p *Parser) realize(name string, info symtab.Info) *symtab.Symbol {
	if existing := p.tbl.Lookup(name); existing != nil {
		if child, ok := existing.(*ir.Child); ok {
			child.Defined = true
		}
	}
	return p.tbl.Upgrade(name, info, symtab.ScopeGlobal)
}

// refState returns the symbol for a state name referenced outside a child
// list (a transition's from/to state). If the name hasn't been seen yet,
// it creates a Global forward-reference placeholder, tracked in
// ir.CHSM.PendingGlobals so the validator can report it if it's never
// upgraded to a real state.
func (p *Parser) refState(name string, pos diag.Position) *symtab.Symbol {
	if sym := p.tbl.LookupSymbol(name); sym != nil {
		stateTypes := symtab.KindState | symtab.KindCluster | symtab.KindSet |
			symtab.KindGlobal | symtab.KindChild
		if ok, actual := symtab.TypeCheck(sym, stateTypes, symtab.MayExist); !ok {
			p.bag.Err(pos, diag.CategoryType, "%s %q: state expected",
				symtab.KindString(actual), name)
		}
		return sym
	}
	g := &ir.Global{RefPos: pos}
	sym := p.tbl.Insert(name, g, symtab.ScopeGlobal)
	p.chsm.PendingGlobals = append(p.chsm.PendingGlobals, sym)
	return sym
}

// declareChild registers name as a Child placeholder of parent at the
// table's current (enclosing) scope — invariant 9 — and records it in
// ir.CHSM.PendingChildren for the validator's definedness pass.
func (p *Parser) declareChild(name string, parent *symtab.Symbol, pos diag.Position) *symtab.Symbol {
	c := &ir.Child{Parent: parent, RefPos: pos}
	scope := p.tbl.CurrentScope()
	var sym *symtab.Symbol
	if p.tbl.LookupSymbol(name) != nil {
		sym = p.tbl.Upgrade(name, c, scope)
	} else {
		sym = p.tbl.Insert(name, c, scope)
	}
	p.chsm.PendingChildren = append(p.chsm.PendingChildren, c)
	return sym
}

// addChild appends child to parent's Children list if it isn't there
// already. Explicit cluster/set child lists populate Children up front via
// declareChild (the same *symtab.Symbol survives realize's Upgrade, so
// that entry is already correct); the implicit root cluster and any
// directly-nested declaration populate it here instead. Checking first
// keeps the two paths from double-adding the same child.
func (p *Parser) addChild(parent *symtab.Symbol, child *symtab.Symbol) {
	if parent == nil {
		return
	}
	switch info := parent.Current().(type) {
	case *ir.Cluster:
		if !containsSymbol(info.Children, child) {
			info.Children = append(info.Children, child)
		}
	case *ir.Set:
		if !containsSymbol(info.Children, child) {
			info.Children = append(info.Children, child)
		}
	}
}

func containsSymbol(list []*symtab.Symbol, s *symtab.Symbol) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// parseStateName reads a (possibly `::`-qualified) state-name reference.
// CHSM state names are unique in one flat namespace regardless of tree
// depth, so a qualifier chain narrows nothing the plain name doesn't
// already resolve — it is accepted and its right-most segment used, to
// admit source that qualifies a child through its ancestor for clarity.
func (p *Parser) parseStateName() (string, diag.Position, bool) {
	tok, ok := p.expect(lexer.IDENT, "state name")
	if !ok {
		return "", diag.Position{}, false
	}
	pos := p.posOf(tok)
	name := tok.Value
	for p.cur.Type == lexer.COLONCOLON {
		p.advance()
		seg, ok := p.expect(lexer.IDENT, "qualified state-name segment")
		if !ok {
			break
		}
		name = seg.Value
	}
	return name, pos, true
}

// --- top level -------------------------------------------------------------

// Parse drives the whole grammar and returns the populated IR, symbol
// table, and diagnostics bag. Code generation should proceed only if
// bag.HasErrors() is false.
func (p *Parser) Parse() (*ir.CHSM, *symtab.Table, *diag.Bag) {
	for p.cur.Type != lexer.EOF {
		switch p.cur.Type {
		case lexer.LBRACE_PCT:
			p.parsePreamble()
		case lexer.CHSM:
			p.parseChsmDecl()
		default:
			p.errorf(diag.CategorySyntax, "expected a '%%{' preamble block or a 'chsm' declaration, found %s", describeToken(p.cur))
			p.advance()
			p.synchronize()
		}
	}
	if !p.sawChsm {
		p.bag.Add(diag.Diagnostic{Kind: diag.Error, Category: diag.CategorySyntax, Message: "source file contains no chsm declaration"})
	}
	return p.chsm, p.tbl, p.bag
}

// parsePreamble captures a file-scope %{ ... %} block (includes, global
// declarations) verbatim, copied ahead of everything else the generator
// emits.
func (p *Parser) parsePreamble() {
	chunk, ok := p.parsePercentBraceChunk()
	if !ok {
		return
	}
	p.writeAux("preamble", 0, chunk)
}

// parseChsmDecl implements `chsm [public] NAME [: TYPE] ( PARAMS )
// [history] is { BODY }` (4.4), creating the CHSM singleton and its
// implicit root cluster.
func (p *Parser) parseChsmDecl() {
	pos := p.pos()
	p.advance() // 'chsm'

	if p.sawChsm {
		p.errorf(diag.CategoryInternal, "a compilation may contain only one chsm declaration")
	}
	p.sawChsm = true

	public := p.accept(lexer.PUBLIC)

	nameTok, ok := p.expect(lexer.IDENT, "chsm name")
	if !ok {
		p.synchronize()
		return
	}

	var derivedFrom string
	if p.at(lexer.COLON) {
		derivedFrom = p.parseHostClassName()
	}

	var ctorParams []ir.Param
	if p.at(lexer.LPAREN) {
		ctorParams = p.parseParamList()
	} else {
		p.errorf(diag.CategorySyntax, "expected '(' to open the chsm constructor parameter list, found %s", describeToken(p.cur))
	}

	history := p.accept(lexer.HISTORY)

	p.chsm.Name = nameTok.Value
	p.chsm.DerivedFrom = derivedFrom
	p.chsm.Public = public
	p.chsm.CtorParams = ctorParams

	root := &ir.Cluster{
		State:   ir.State{Name: nameTok.Value, Pos: pos},
		History: history,
	}
	rootSym := p.tbl.Insert(rootSymbolName, root, symtab.ScopeGlobal)
	p.chsm.AddState(rootSym, &root.State)
	p.chsm.Root = rootSym

	if _, ok := p.expect(lexer.IS, "'is'"); !ok {
		p.synchronize()
		return
	}
	if _, ok := p.expect(lexer.LBRACE, "'{' to open the chsm body"); !ok {
		p.synchronize()
		return
	}

	p.tbl.OpenScope()
	p.parseBody(rootSym)
	p.tbl.CloseScope()

	p.expect(lexer.RBRACE, "'}' to close the chsm body")
}

// parseBody parses a sequence of state/cluster/set/event declarations and
// transitions belonging to parent, until the enclosing `}` or EOF.
func (p *Parser) parseBody(parent *symtab.Symbol) {
	for {
		switch p.cur.Type {
		case lexer.RBRACE, lexer.EOF:
			return
		case lexer.STATE:
			p.parseStateDecl(parent)
		case lexer.CLUSTER:
			p.parseClusterOrSet(false, parent)
		case lexer.SET:
			p.parseClusterOrSet(true, parent)
		case lexer.EVENT:
			p.parseEventDecl()
		case lexer.IDENT:
			p.parseTransition()
		default:
			p.errorf(diag.CategorySyntax, "expected a state/cluster/set/event declaration or a transition, found %s", describeToken(p.cur))
			p.advance()
			p.synchronize()
		}
	}
}

// parseTransitionsOnly parses zero or more transitions — the body a plain
// `state`'s optional `is { ... }` clause may carry (4.4: a leaf state has
// no children, so nothing else can appear there).
func (p *Parser) parseTransitionsOnly() {
	for p.at(lexer.IDENT) {
		p.parseTransition()
	}
}

// parseStateDecl implements `state NAME [: TYPE] [final] [upon enter
// ACTION] [upon exit ACTION] [is { TRANSITIONS }]`.
func (p *Parser) parseStateDecl(parent *symtab.Symbol) {
	pos := p.pos()
	p.advance() // 'state'

	nameTok, ok := p.expect(lexer.IDENT, "state name")
	if !ok {
		p.synchronize()
		return
	}
	name := nameTok.Value

	var derivedFrom string
	if p.at(lexer.COLON) {
		derivedFrom = p.parseHostClassName()
	}

	final := p.accept(lexer.FINAL)

	st := &ir.State{Name: name, Parent: parent, DerivedFrom: derivedFrom, Final: final, Pos: pos}
	sym := p.realize(name, st)
	p.chsm.AddState(sym, st)
	p.addChild(parent, sym)

	p.parseUponClauses(sym, st)

	if p.accept(lexer.IS) {
		if _, ok := p.expect(lexer.LBRACE, "'{' to open the state body"); ok {
			p.parseTransitionsOnly()
			p.expect(lexer.RBRACE, "'}' to close the state body")
		}
	}
	p.accept(lexer.SEMI)
}

// parseClusterOrSet implements `cluster NAME [: TYPE] (CHILDREN)
// [history|deep] [upon …] is { BODY }` and the `set` variant (sets never
// carry history/deep, per 3's data model: Set has no history field).
func (p *Parser) parseClusterOrSet(isSet bool, parent *symtab.Symbol) {
	pos := p.pos()
	p.advance() // 'cluster' or 'set'

	nameTok, ok := p.expect(lexer.IDENT, "cluster/set name")
	if !ok {
		p.synchronize()
		return
	}
	name := nameTok.Value

	var derivedFrom string
	if p.at(lexer.COLON) {
		derivedFrom = p.parseHostClassName()
	}

	childNames, childPositions := p.parseChildNameList()

	var history, deep bool
	if !isSet {
		switch {
		case p.accept(lexer.DEEP):
			deep, history = true, true
		case p.accept(lexer.HISTORY):
			history = true
		}
		// A deep ancestor cluster gives every descendant cluster history.
		for anc := parent; anc != nil && !history; {
			if c, ok := anc.Current().(*ir.Cluster); ok && c.Deep {
				history = true
			}
			st := ir.StateOf(anc.Current())
			if st == nil {
				break
			}
			anc = st.Parent
		}
	}

	var sym *symtab.Symbol
	var st *ir.State
	if isSet {
		s := &ir.Set{State: ir.State{Name: name, Parent: parent, DerivedFrom: derivedFrom, Pos: pos}}
		sym = p.realize(name, s)
		st = &s.State
		p.chsm.AddState(sym, st)
		p.addChild(parent, sym)
		for i, cn := range childNames {
			csym := p.declareChild(cn, sym, childPositions[i])
			s.Children = append(s.Children, csym)
		}
	} else {
		c := &ir.Cluster{State: ir.State{Name: name, Parent: parent, DerivedFrom: derivedFrom, Pos: pos}, History: history, Deep: deep}
		sym = p.realize(name, c)
		st = &c.State
		p.chsm.AddState(sym, st)
		p.addChild(parent, sym)
		for i, cn := range childNames {
			csym := p.declareChild(cn, sym, childPositions[i])
			c.Children = append(c.Children, csym)
		}
	}

	p.parseUponClauses(sym, st)

	if _, ok := p.expect(lexer.IS, "'is'"); !ok {
		p.synchronize()
		return
	}
	if _, ok := p.expect(lexer.LBRACE, "'{' to open the cluster/set body"); !ok {
		p.synchronize()
		return
	}

	p.tbl.OpenScope()
	p.parseBody(sym)
	p.tbl.CloseScope()

	p.expect(lexer.RBRACE, "'}' to close the cluster/set body")
}

// parseChildNameList reads the mandatory `(NAME, NAME, ...)` child list a
// cluster or set declaration carries.
func (p *Parser) parseChildNameList() ([]string, []diag.Position) {
	var names []string
	var positions []diag.Position

	if _, ok := p.expect(lexer.LPAREN, "'(' to open the child list"); !ok {
		return names, positions
	}
	if !p.at(lexer.RPAREN) {
		for {
			tok, ok := p.expect(lexer.IDENT, "child name")
			if !ok {
				break
			}
			names = append(names, tok.Value)
			positions = append(positions, p.posOf(tok))
			if !p.accept(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "')' to close the child list")
	return names, positions
}

// parseUponClauses consumes up to one `upon enter` and one `upon exit`
// clause, in either order, each an `upon (enter|exit) { ACTION }` form.
// Each diverts its body to the sink under a fresh aux ID and records
// HasEnterAction/HasExitAction on st.
func (p *Parser) parseUponClauses(sym *symtab.Symbol, st *ir.State) {
	for p.at(lexer.UPON) {
		p.advance()
		var kind string
		switch {
		case p.accept(lexer.ENTER):
			kind = "enter"
		case p.accept(lexer.EXIT):
			kind = "exit"
		default:
			p.errorf(diag.CategorySyntax, "expected 'enter' or 'exit' after 'upon', found %s", describeToken(p.cur))
			return
		}

		if !p.at(lexer.LBRACE) {
			p.errorf(diag.CategorySyntax, "expected '{' to open the upon-%s action, found %s", kind, describeToken(p.cur))
			continue
		}
		chunk, ok := p.parseBraceChunk()
		if !ok {
			continue
		}

		id := p.chsm.NextActionID()
		p.writeAux(kind, id, chunk)
		if kind == "enter" {
			st.HasEnterAction = true
			st.EnterActionID = id
		} else {
			st.HasExitAction = true
			st.ExitActionID = id
		}
	}
}

// parseEventDecl implements `event NAME ['<' BASE '>'] ['(' PARAMS ')']
// [PRECONDITION] ';'`: the base event, if any, follows the name in angle
// brackets (not the `[BASE<] NAME` order of the prose production).
func (p *Parser) parseEventDecl() {
	pos := p.pos()
	p.advance() // 'event'

	nameTok, ok := p.expect(lexer.IDENT, "event name")
	if !ok {
		p.synchronize()
		return
	}
	name := nameTok.Value

	var baseSym *symtab.Symbol
	if p.accept(lexer.LANGLE) {
		baseTok, ok := p.expect(lexer.IDENT, "base event name")
		if ok {
			baseSym = p.refEvent(baseTok.Value, p.posOf(baseTok))
		}
		p.expect(lexer.RANGLE, "'>' to close the base-event clause")
	}

	var params []ir.Param
	if p.at(lexer.LPAREN) {
		params = p.parseParamList()
	}

	ue := &ir.UserEvent{
		Name:   name,
		Base:   baseSym,
		Params: params,
		Pos:    pos,
	}

	switch {
	case p.at(lexer.LBRACKET):
		chunk, ok := p.parseBracketedChunk()
		if ok {
			ue.Precondition = ir.PreconditionExpression
			ue.PreconditionAuxID = p.chsm.NextConditionID()
			p.writeAux("precond-expr", ue.PreconditionAuxID, chunk)
		}
	case p.at(lexer.LBRACE_PCT):
		chunk, ok := p.parsePercentBraceChunk()
		if ok {
			ue.Precondition = ir.PreconditionFunction
			ue.PreconditionAuxID = p.chsm.NextConditionID()
			p.writeAux("precond-func", ue.PreconditionAuxID, chunk)
		}
	}

	sym := p.realize(name, ue)
	ue.DeclIndex = len(p.chsm.Events)
	p.chsm.AddEvent(sym)

	p.accept(lexer.SEMI)
}

// refEvent resolves a base-event reference. Unlike states, an undeclared
// base event is always an error at the point of use (event declarations,
// unlike states, can't be forward-declared via a transition), so this
// just looks the name up and reports if it's missing.
func (p *Parser) refEvent(name string, pos diag.Position) *symtab.Symbol {
	sym := p.tbl.LookupSymbol(name)
	if sym == nil {
		p.bag.Err(pos, diag.CategoryUndefined, "base event %q is not declared", name)
		return nil
	}
	if ok, actual := symtab.TypeCheck(sym, symtab.KindUserEvent, symtab.MustExist); !ok {
		p.bag.Err(pos, diag.CategoryType, "%s %q: event expected",
			symtab.KindString(actual), name)
	}
	return sym
}

// parseTransition implements `[EVENT ':'] FROM -> TO [ [CONDITION] ]
// [ {ACTION} ] ;` where TO is a literal state name, `...` (internal), or
// `$ { expr }` (computed target). The optional `EVENT ':'` prefix — a
// single COLON right after the first identifier, never confused with the
// two-colon qualifier token — names the UserEvent the transition
// responds to; see DESIGN.md for why this was added even though 4.4's
// prose production doesn't show it: without it, nothing a transition does
// can ever satisfy the event-usedness validator pass.
func (p *Parser) parseTransition() {
	firstTok, ok := p.expect(lexer.IDENT, "event name or state name")
	if !ok {
		p.synchronize()
		return
	}
	firstPos := p.posOf(firstTok)

	var triggerEvent *symtab.Symbol
	var fromName string
	var fromPos diag.Position

	if p.accept(lexer.COLON) {
		triggerEvent = p.refEvent(firstTok.Value, firstPos)
		name, pos, ok := p.parseStateName()
		if !ok {
			p.synchronize()
			return
		}
		fromName, fromPos = name, pos
	} else {
		fromName, fromPos = firstTok.Value, firstPos
		for p.cur.Type == lexer.COLONCOLON {
			p.advance()
			seg, ok := p.expect(lexer.IDENT, "qualified state-name segment")
			if !ok {
				break
			}
			fromName = seg.Value
		}
	}
	fromSym := p.refState(fromName, fromPos)

	if _, ok := p.expect(lexer.ARROW, "'->'"); !ok {
		p.synchronize()
		return
	}

	t := &ir.Transition{From: fromSym, Pos: fromPos}

	switch {
	case p.accept(lexer.ELLIPSIS):
		t.Internal = true
	case p.accept(lexer.DOLLAR):
		if p.at(lexer.LBRACE) {
			chunk, ok := p.parseTargetChunk()
			if ok {
				t.Computed = true
				t.TargetID = p.chsm.NextTargetID()
				p.writeAux("target", t.TargetID, chunk)
			}
		} else {
			p.errorf(diag.CategorySyntax, "expected '{' to open the computed-target expression, found %s", describeToken(p.cur))
		}
	default:
		toName, toPos, ok := p.parseStateName()
		if ok {
			t.To = p.refState(toName, toPos)
		}
	}

	if p.at(lexer.LBRACKET) {
		chunk, ok := p.parseBracketedChunk()
		if ok {
			t.ConditionID = p.chsm.NextConditionID()
			p.writeAux("cond", t.ConditionID, chunk)
		}
	}

	if p.at(lexer.LBRACE) {
		chunk, ok := p.parseBraceChunk()
		if ok {
			t.ActionID = p.chsm.NextActionID()
			p.writeAux("action", t.ActionID, chunk)
		}
	}

	p.chsm.AddTransition(t)
	p.registerTransitionOnEvents(t, triggerEvent)

	p.accept(lexer.SEMI)
}

// parseTargetChunk captures the `{ expr }` body of a `$ { expr }` computed
// target, reusing the brace-balancing rule since it is ordinary
// expression text, not a parameter list.
func (p *Parser) parseTargetChunk() (lexer.Token, bool) {
	chunk := p.captureHostRegion(lexer.MaybeHostBrace)
	_, ok := p.expect(lexer.RBRACE, "'}' to close the computed-target expression")
	return chunk, ok
}

// registerTransitionOnEvents files t's index under the synthetic exit
// event its from-state broadcasts, so the validator's back-patching pass
// and the generator's per-event transition tables can find it, and — if
// an explicit trigger event was named — under that UserEvent too,
// marking it used.
func (p *Parser) registerTransitionOnEvents(t *ir.Transition, triggerEvent *symtab.Symbol) {
	idx := t.DeclIndex

	if triggerEvent != nil {
		if ue, ok := triggerEvent.Current().(*ir.UserEvent); ok {
			ue.TransitionIDs = append(ue.TransitionIDs, idx)
			ue.Used = true
		}
	}

	// A from-state not declared yet is still a Global or Child placeholder;
	// realize keeps the same symbol, so its exit event is registered now.
	switch t.From.Current().(type) {
	case *ir.State, *ir.Cluster, *ir.Set, *ir.Global, *ir.Child:
	default:
		return
	}
	ev := p.exitEventFor(t.From)
	ev.TransitionIDs = append(ev.TransitionIDs, idx)
}

// exitEventFor returns (creating if necessary) the synthetic Exit event
// for state sym, since an ordinary `from -> to` transition fires on its
// from-state's exit.
func (p *Parser) exitEventFor(sym *symtab.Symbol) *ir.Event {
	key := "$exit:" + sym.Name
	if existing := p.tbl.Lookup(key); existing != nil {
		return existing.(*ir.Event)
	}
	ev := &ir.Event{Kind: ir.EventExit, State: sym}
	evSym := p.tbl.Insert(key, ev, symtab.ScopeGlobal)
	p.chsm.AddEvent(evSym)
	return ev
}
