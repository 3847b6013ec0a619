package types

// NodeType identifies the type of an AST node.
type NodeType string

// Null represents the JavaScript null literal, distinct from the absence
// value (nil).
type Null struct{}

// MarshalJSON implements json.Marshaler for Null.
// This ensures that Null serializes to JSON null instead of {}.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String returns "null".
func (Null) String() string {
	return "null"
}

// NullValue is the singleton value used for null.
var NullValue = Null{}

// AST node types produced by the body parser.
const (
	// Literals
	NodeString    NodeType = "string"
	NodeNumber    NodeType = "number"
	NodeBoolean   NodeType = "boolean"
	NodeNull      NodeType = "null"
	NodeUndefined NodeType = "undefined"

	// References
	NodeIdentifier NodeType = "identifier" // scope, this, Math, ...
	NodeMember     NodeType = "member"     // a.b or a[b]

	// Operators
	NodeUnary     NodeType = "unary"     // ! - + typeof void
	NodeBinary    NodeType = "binary"    // + - * / % == === < in ...
	NodeLogical   NodeType = "logical"   // && ||
	NodeCondition NodeType = "condition" // c ? a : b
	NodeAssign    NodeType = "assign"    // = += -= *= /=

	// Calls and constructors
	NodeCall   NodeType = "call"   // f(a, b)
	NodeArray  NodeType = "array"  // [a, b]
	NodeObject NodeType = "object" // {k: v}
	NodePair   NodeType = "pair"   // k: v inside an object literal
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	Value    interface{}
	StrValue string  // operator, identifier or property name, string literal
	NumValue float64 // set for NodeNumber
	Position int

	// Relations
	LHS         *ASTNode   // object of a member, callee, left operand, condition, assignment target
	RHS         *ASTNode   // computed property, right operand, then branch, assigned value
	Arguments   []*ASTNode // call arguments
	Expressions []*ASTNode // array elements, object pairs, else branch

	// Computed is true for a[b] and false for a.b.
	Computed bool
}

// NewASTNode creates a new AST node of the given type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// IsReference reports whether the node denotes an assignable location:
// an identifier or a member access.
func (n *ASTNode) IsReference() bool {
	return n != nil && (n.Type == NodeIdentifier || n.Type == NodeMember)
}

// Root returns the identifier at the base of a member chain, or nil when the
// chain is rooted in something else (a call, a literal, ...).
func (n *ASTNode) Root() *ASTNode {
	for cur := n; cur != nil; cur = cur.LHS {
		switch cur.Type {
		case NodeIdentifier:
			return cur
		case NodeMember:
			continue
		default:
			return nil
		}
	}
	return nil
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena chunk.
// Template expressions are short; most fit in a single chunk.
const arenaChunkSize = 32

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks and returns pointers into them.
//
// # Lifetime
//
// The arena MUST stay alive as long as any pointer returned by Alloc is
// reachable. Pointers into a chunk keep the chunk alive, so the nodes of a
// compiled expression are released together when the expression is evicted
// from the cache.
//
// # Thread safety
//
// NodeArena is NOT thread-safe. Each parser owns its own arena.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena,
// with Type and Position set.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
