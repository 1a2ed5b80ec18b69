package ir

// Assignment stores RHS into the location named by LHS. Only the
// components whose bit is set in WriteMask are written; a zero mask means
// all components. When Condition is non-nil the store only happens if it
// evaluates to true.
type Assignment struct {
	LHS       Value
	RHS       Value
	WriteMask uint32
	Condition Value
}

func (*Assignment) irNode() {}

// Assign returns an unconditional full-mask assignment.
func Assign(lhs, rhs Value) *Assignment {
	return &Assignment{LHS: lhs, RHS: rhs}
}

// FullMask returns the write mask covering every component of t.
func FullMask(t *Type) uint32 {
	n := t.Components()
	if n == 0 || n > 32 {
		return 0
	}
	return 1<<n - 1
}

// Call invokes a user function. Result, if non-nil, receives the return value.
type Call struct {
	Callee string
	Args   []Value
	Result Value
}

func (*Call) irNode() {}

// Return leaves the current function.
type Return struct {
	Value Value
}

func (*Return) irNode() {}

// If executes Then when Condition holds and Else otherwise.
type If struct {
	Condition Value
	Then      []Node
	Else      []Node
}

func (*If) irNode() {}

// Loop repeats Body until a break.
type Loop struct {
	Body []Node
}

func (*Loop) irNode() {}

// JumpKind distinguishes break from continue.
type JumpKind uint8

const (
	JumpBreak JumpKind = iota
	JumpContinue
)

func (k JumpKind) String() string {
	if k == JumpContinue {
		return "continue"
	}
	return "break"
}

// LoopJump exits or restarts the innermost enclosing loop.
type LoopJump struct {
	Kind JumpKind
}

func (*LoopJump) irNode() {}

// Discard terminates the fragment invocation, conditionally when
// Condition is non-nil.
type Discard struct {
	Condition Value
}

func (*Discard) irNode() {}

// EmitVertex emits a geometry shader vertex.
type EmitVertex struct {
	Stream Value
}

func (*EmitVertex) irNode() {}

// EndPrimitive finishes a geometry shader primitive.
type EndPrimitive struct {
	Stream Value
}

func (*EndPrimitive) irNode() {}

// Barrier is a control barrier.
type Barrier struct{}

func (*Barrier) irNode() {}
