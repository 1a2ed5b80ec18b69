package spirv

import (
	"math/bits"

	"github.com/gogpu/spvgen/ir"
)

// assignment stores a value, honoring the write mask and an optional
// condition. The left-hand side takes over the id that was stored.
func (t *translator) assignment(a *ir.Assignment) error {
	condition, err := t.optionalValue(a.Condition)
	if err != nil {
		return err
	}
	rhs, err := t.value(a.RHS)
	if err != nil {
		return err
	}
	lhs, err := t.location(a.LHS)
	if err != nil {
		return err
	}
	lhsType, rhsType := a.LHS.Type(), a.RHS.Type()
	if lhsType == nil || rhsType == nil {
		return newError(ErrMalformedIR, "assignment operand has no type")
	}

	var merge uint32
	if condition != 0 {
		then := t.b.AllocID()
		merge = t.b.AllocID()
		t.b.emit(OpSelectionMerge, merge, uint32(SelectionControlNone))
		t.b.emit(OpBranchConditional, condition, then, merge)
		t.b.emitLabel(then)
	}

	components := lhsType.Components()
	mask := a.WriteMask
	switch {
	case mask == 0 || components <= 1 || mask == ir.FullMask(lhsType):
		t.b.emit(OpStore, lhs, rhs)
		t.b.setValue(a.LHS, rhs)

	case bits.OnesCount32(mask) == 1 && rhsType.Components() == 1:
		typeID := t.b.ResolveType(rhsType)
		if typeID == 0 {
			break
		}
		if d, ok := a.LHS.(*ir.DerefVariable); ok {
			if class, declared := t.classes[d.Var]; declared {
				typeID = t.b.PointerType(class, typeID)
			}
		}
		index := t.b.ConstInt(bits.TrailingZeros32(mask))
		access := t.b.AllocID()
		t.b.emit(OpAccessChain, typeID, access, lhs, index)
		t.b.emit(OpStore, access, rhs)
		t.b.setValue(a.LHS, rhs)

	default:
		typeID := t.b.ResolveType(lhsType)
		if typeID == 0 {
			break
		}
		// Written slots take the next rhs component; the others keep the
		// current lhs component from the second shuffle operand.
		shuffle := t.b.AllocID()
		words := []uint32{typeID, shuffle, rhs, lhs}
		next := uint32(0)
		for i := uint32(0); i < components; i++ {
			if mask&(1<<i) != 0 {
				words = append(words, next)
				next++
			} else {
				words = append(words, rhsType.Components()+i)
			}
		}
		t.b.emit(OpVectorShuffle, words...)
		t.b.emit(OpStore, lhs, shuffle)
		t.b.setValue(a.LHS, shuffle)
	}

	if merge != 0 {
		t.b.emit(OpBranch, merge)
		t.b.emitLabel(merge)
	}
	return nil
}

// ifStatement lowers a two-way selection. Without an else branch the
// else label doubles as the merge block.
func (t *translator) ifStatement(s *ir.If) error {
	condition, err := t.value(s.Condition)
	if err != nil {
		return err
	}

	// Allocate labels
	thenLabel := t.b.AllocID()
	elseLabel := t.b.AllocID()
	mergeLabel := elseLabel
	if len(s.Else) > 0 {
		mergeLabel = t.b.AllocID()
	}

	t.b.emit(OpSelectionMerge, mergeLabel, uint32(SelectionControlNone))
	t.b.emit(OpBranchConditional, condition, thenLabel, elseLabel)

	t.b.emitLabel(thenLabel)
	if err := t.block(s.Then); err != nil {
		return err
	}

	if len(s.Else) > 0 {
		t.b.emit(OpBranch, mergeLabel)
		t.b.emitLabel(elseLabel)
		if err := t.block(s.Else); err != nil {
			return err
		}
	}

	t.b.emit(OpBranch, mergeLabel)
	t.b.emitLabel(mergeLabel)
	return nil
}

// loop lowers an infinite loop left through break.
func (t *translator) loop(l *ir.Loop) error {
	header := t.b.AllocID()
	t.b.emit(OpBranch, header)
	t.b.emitLabel(header)

	body := t.b.AllocID()
	merge := t.b.AllocID()
	t.b.emit(OpLoopMerge, merge, body, uint32(LoopControlNone))
	t.b.emit(OpBranch, body)
	t.b.emitLabel(body)

	t.loops = append(t.loops, loopScope{header: header, merge: merge})
	err := t.block(l.Body)
	t.loops = t.loops[:len(t.loops)-1]
	if err != nil {
		return err
	}

	// Back edge
	t.b.emit(OpBranch, header)
	t.b.emitLabel(merge)
	return nil
}

// jump branches out of (break) or back to the top of (continue) the
// innermost loop. The code that follows lands in a fresh block.
func (t *translator) jump(j *ir.LoopJump) error {
	if len(t.loops) == 0 {
		return newError(ErrJumpOutsideLoop, "%s outside of a loop", j.Kind)
	}
	scope := t.loops[len(t.loops)-1]
	target := scope.merge
	if j.Kind == ir.JumpContinue {
		target = scope.header
	}
	t.b.emit(OpBranch, target)
	t.b.emitLabel(t.b.AllocID())
	return nil
}

// discard terminates the invocation, optionally under a condition.
func (t *translator) discard(d *ir.Discard) error {
	if d.Condition == nil {
		t.b.emit(OpKill)
		t.b.emitLabel(t.b.AllocID())
		return nil
	}

	condition, err := t.value(d.Condition)
	if err != nil {
		return err
	}
	kill := t.b.AllocID()
	next := t.b.AllocID()
	t.b.emit(OpSelectionMerge, next, uint32(SelectionControlNone))
	t.b.emit(OpBranchConditional, condition, kill, next)
	t.b.emitLabel(kill)
	t.b.emit(OpKill)
	t.b.emitLabel(next)
	return nil
}

// ret leaves a void function early.
func (t *translator) ret(r *ir.Return) error {
	if r.Value != nil {
		t.b.Diagnose("Return", "returning a value is not supported")
		return nil
	}
	t.b.emit(OpReturn)
	t.b.emitLabel(t.b.AllocID())
	return nil
}
