package ast

import "strings"

// InheritanceSpecifier names one base contract in a derived contract's
// "is" clause, with an optional constructor-argument list.
// Example: "Ownable(msg_sender)" in "contract Token is Ownable(msg_sender) { ... }"
type InheritanceSpecifier struct {
	Pos      Position
	EndPos   Position
	Name     Ident
	Args     []Expr
	metadata *Metadata
}

// Modifier represents a reusable function-body wrapper declared with the
// "modifier" keyword. Its body is spliced around the wrapped function body
// (or the next modifier in the chain) at the PlaceholderStmt ("_;") marker.
// Example: "modifier onlyOwner() { require!(sender() == State.owner, errors::NotOwner); _; }"
type Modifier struct {
	Pos        Position
	EndPos     Position
	DocComment *DocComment
	Name       Ident
	Params     []*FunctionParam
	Body       *FunctionBlock
	metadata   *Metadata
}

// ModifierInvocation names a modifier (or, on a constructor, a base contract)
// applied to a function, together with the argument expressions evaluated in
// the caller's scope.
// Example: "onlyOwner" in "ext fn setFee(...) onlyOwner { ... }"
type ModifierInvocation struct {
	Pos      Position
	EndPos   Position
	Name     Ident
	Args     []Expr
	metadata *Metadata
}

func (i *InheritanceSpecifier) NodePos() Position    { return i.Pos }
func (i *InheritanceSpecifier) NodeEndPos() Position { return i.EndPos }
func (*InheritanceSpecifier) NodeType() NodeType     { return INHERITANCE_SPECIFIER }
func (i *InheritanceSpecifier) GetMetadata() *Metadata  { return i.metadata }
func (i *InheritanceSpecifier) SetMetadata(m *Metadata) { i.metadata = m }
func (i *InheritanceSpecifier) String() string {
	if len(i.Args) == 0 {
		return i.Name.Value
	}
	parts := make([]string, len(i.Args))
	for idx, a := range i.Args {
		parts[idx] = a.String()
	}
	return i.Name.Value + "(" + strings.Join(parts, ", ") + ")"
}

func (m *Modifier) NodePos() Position    { return m.Pos }
func (m *Modifier) NodeEndPos() Position { return m.EndPos }
func (*Modifier) NodeType() NodeType     { return MODIFIER }
func (m *Modifier) GetMetadata() *Metadata  { return m.metadata }
func (m *Modifier) SetMetadata(meta *Metadata) { m.metadata = meta }
func (m *Modifier) String() string {
	params := make([]string, len(m.Params))
	for idx, p := range m.Params {
		params[idx] = p.Name.Value + ": " + p.Type.Name.Value
	}
	return "modifier " + m.Name.Value + "(" + strings.Join(params, ", ") + ") {\n" +
		m.Body.StringIndented("  ") + "}"
}

func (mi *ModifierInvocation) NodePos() Position    { return mi.Pos }
func (mi *ModifierInvocation) NodeEndPos() Position { return mi.EndPos }
func (*ModifierInvocation) NodeType() NodeType      { return MODIFIER_INVOCATION }
func (mi *ModifierInvocation) GetMetadata() *Metadata  { return mi.metadata }
func (mi *ModifierInvocation) SetMetadata(m *Metadata) { mi.metadata = m }
func (mi *ModifierInvocation) String() string {
	if len(mi.Args) == 0 {
		return mi.Name.Value
	}
	parts := make([]string, len(mi.Args))
	for idx, a := range mi.Args {
		parts[idx] = a.String()
	}
	return mi.Name.Value + "(" + strings.Join(parts, ", ") + ")"
}

