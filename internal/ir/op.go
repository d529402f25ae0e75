package ir

import (
	"fmt"

	"lattice/internal/attr"
	"lattice/internal/types"
)

// OpKind enumerates operation kinds.
type OpKind uint8

const (
	// OpInvalid is the zero kind and never verifies.
	OpInvalid OpKind = iota
	// OpConst materializes the constant stored in the "value" attribute.
	OpConst
	// OpAdd adds its two operands.
	OpAdd
	// OpJump branches unconditionally to its single successor.
	OpJump
	// OpCondJump branches to the first successor when its operand is
	// true and to the second otherwise.
	OpCondJump
	// OpReturn leaves the function, yielding its operands.
	OpReturn
)

func (k OpKind) String() string {
	switch k {
	case OpConst:
		return "const"
	case OpAdd:
		return "add"
	case OpJump:
		return "jump"
	case OpCondJump:
		return "condjump"
	case OpReturn:
		return "return"
	}
	return "invalid"
}

// IsTerminator reports whether operations of this kind end a block.
func (k OpKind) IsTerminator() bool {
	switch k {
	case OpJump, OpCondJump, OpReturn:
		return true
	}
	return false
}

// Operation is a graph node: operand slots consuming values, result
// definitions with their own use-lists, successor slots registered in
// the target blocks' predecessor lists, and intrusive links into the
// containing block's op-list.
type Operation struct {
	self     OpID
	kind     OpKind
	operands []Operand
	results  []DefList
	succs    []Successor

	parentBlock    BlockID
	prevOp, nextOp OpID

	attrs map[string]attr.Value
}

// NewOp allocates an operation, registers a use for every operand and a
// predecessor entry for every successor. The result count and types are
// fixed for the operation's lifetime. The new op is unlinked; insert it
// into a block separately.
func NewOp(ctx *Context, kind OpKind, operands []Value, resultTypes []types.TypeID, succs []BlockID) OpID {
	id := OpID(ctx.ops.Alloc(func(self uint32) *Operation {
		return &Operation{
			self:  OpID(self),
			kind:  kind,
			attrs: make(map[string]attr.Value),
		}
	}))
	op := ctx.Op(id)
	op.results = make([]DefList, len(resultTypes))
	for i, ty := range resultTypes {
		op.results[i].ty = ty
	}
	op.setOperands(ctx, operands)
	op.setSuccessors(ctx, succs)
	return id
}

// Self returns the operation's own handle.
func (op *Operation) Self() OpID { return op.self }

// Kind returns the operation kind.
func (op *Operation) Kind() OpKind { return op.kind }

// ParentBlock returns the containing block, NoBlockID while unlinked.
func (op *Operation) ParentBlock() BlockID { return op.parentBlock }

// NumOperands returns the number of operand slots.
func (op *Operation) NumOperands() int { return len(op.operands) }

// Operand returns the value consumed by the i'th operand slot.
func (op *Operation) Operand(i int) (Value, bool) {
	if i < 0 || i >= len(op.operands) {
		return Value{}, false
	}
	return op.operands[i].Def(), true
}

// NumResults returns the number of results.
func (op *Operation) NumResults() int { return len(op.results) }

// Result returns the value identity of the i'th result.
func (op *Operation) Result(i int) (Value, bool) {
	if i < 0 || i >= len(op.results) {
		return Value{}, false
	}
	return OpResult(op.self, uint32(i)), true
}

// ResultType returns the type of the i'th result.
func (op *Operation) ResultType(i int) (types.TypeID, bool) {
	if i < 0 || i >= len(op.results) {
		return types.NoTypeID, false
	}
	return op.results[i].ty, true
}

// NumSuccessors returns the number of successor slots.
func (op *Operation) NumSuccessors() int { return len(op.succs) }

// Successor returns the target of the i'th successor slot.
func (op *Operation) Successor(i int) (BlockID, bool) {
	if i < 0 || i >= len(op.succs) {
		return NoBlockID, false
	}
	return op.succs[i].Target(), true
}

// SetAttr stores an attribute under key, replacing any previous value.
func (op *Operation) SetAttr(key string, v attr.Value) { op.attrs[key] = v }

// Attr retrieves the attribute stored under key.
func (op *Operation) Attr(key string) (attr.Value, bool) {
	v, ok := op.attrs[key]
	return v, ok
}

// Attrs exposes the attribute map. READONLY.
func (op *Operation) Attrs() map[string]attr.Value { return op.attrs }

// SetOperands replaces the operand list, unregistering the old uses and
// registering the new ones.
func (op *Operation) SetOperands(ctx *Context, operands []Value) {
	op.dropOperands(ctx)
	op.setOperands(ctx, operands)
}

func (op *Operation) setOperands(ctx *Context, operands []Value) {
	op.operands = make([]Operand, len(operands))
	for i, v := range operands {
		use := v.AddUse(ctx, UseRef{Op: op.self, OperandIdx: uint32(i)})
		op.operands[i].use = use
	}
}

// dropOperands unregisters every operand's use, leaving the slots
// dangling.
func (op *Operation) dropOperands(ctx *Context) {
	for i := range op.operands {
		use := op.operands[i].use
		if use.Def.IsValid() {
			use.Def.RemoveUse(ctx, use)
			op.operands[i].clear()
		}
	}
}

// SetSuccessors replaces the successor list, moving the predecessor
// registrations from the old targets to the new ones.
func (op *Operation) SetSuccessors(ctx *Context, succs []BlockID) {
	op.dropSuccessors(ctx)
	op.setSuccessors(ctx, succs)
}

func (op *Operation) setSuccessors(ctx *Context, succs []BlockID) {
	op.succs = make([]Successor, len(succs))
	for i, target := range succs {
		use := addBlockUse(ctx, target, BlockUseRef{Op: op.self, SuccIdx: uint32(i)})
		op.succs[i].use = use
	}
}

func (op *Operation) dropSuccessors(ctx *Context) {
	for i := range op.succs {
		use := op.succs[i].use
		if use.Block.IsValid() {
			removeBlockUse(ctx, use)
			op.succs[i].use = BlockUse{}
		}
	}
}

// deallocSubObjects: operations own no arena sub-objects.
func (op *Operation) deallocSubObjects(_ *Context) {}

// removeReferences severs everything pointing into this op: its own
// operand and successor registrations, plus every operand elsewhere
// consuming one of its results (those slots are left dangling and are
// reported by verify).
func (op *Operation) removeReferences(ctx *Context) {
	op.dropOperands(ctx)
	op.dropSuccessors(ctx)
	for i := range op.results {
		for _, ref := range op.results[i].uses {
			ctx.Op(ref.Op).operands[ref.OperandIdx].clear()
		}
		op.results[i].uses = nil
	}
}

// DeallocOp runs the dealloc hooks for op, unlinks it from its block if
// still linked and frees its arena slot.
func DeallocOp(ctx *Context, id OpID) {
	op := ctx.Op(id)
	op.deallocSubObjects(ctx)
	op.removeReferences(ctx)
	if op.parentBlock.IsValid() {
		RemoveOp(ctx, id)
	}
	ctx.ops.Free(uint32(id))
}

// Intrusive-list element role of an operation within its block.

func (id OpID) Next(ctx *Context) OpID { return ctx.Op(id).nextOp }
func (id OpID) Prev(ctx *Context) OpID { return ctx.Op(id).prevOp }

func (id OpID) SetNext(ctx *Context, next OpID) { ctx.Op(id).nextOp = next }
func (id OpID) SetPrev(ctx *Context, prev OpID) { ctx.Op(id).prevOp = prev }

func (id OpID) Parent(ctx *Context) BlockID { return ctx.Op(id).parentBlock }

func (id OpID) SetParent(ctx *Context, parent BlockID) { ctx.Op(id).parentBlock = parent }

func (id OpID) String() string { return fmt.Sprintf("op%d", uint32(id)) }

// InsertOpAtFront links op as the first operation of block.
func InsertOpAtFront(ctx *Context, block BlockID, op OpID) { InsertAtFront(ctx, block, op) }

// InsertOpAtBack links op as the last operation of block.
func InsertOpAtBack(ctx *Context, block BlockID, op OpID) { InsertAtBack(ctx, block, op) }

// InsertOpAfter links op immediately after at.
func InsertOpAfter(ctx *Context, op, at OpID) { InsertAfter[OpID, BlockID](ctx, op, at) }

// InsertOpBefore links op immediately before at.
func InsertOpBefore(ctx *Context, op, at OpID) { InsertBefore[OpID, BlockID](ctx, op, at) }

// RemoveOp unlinks op from its block without deallocating it.
func RemoveOp(ctx *Context, op OpID) { Remove[OpID, BlockID](ctx, op) }
