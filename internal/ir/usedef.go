package ir

import (
	"fmt"

	"lattice/internal/types"
)

// ValueKind tags the two kinds of definitions an operand can consume.
type ValueKind uint8

const (
	// ValueInvalid is the zero value; an operand holding it is dangling.
	ValueInvalid ValueKind = iota
	// ValueOpResult identifies the Index'th result of operation Op.
	ValueOpResult
	// ValueBlockArg identifies the Index'th argument of block Block.
	ValueBlockArg
)

// Value is the identity of a definition: an operation result or a block
// argument. It is a plain comparable key, valid only relative to the
// Context the underlying node lives in.
type Value struct {
	Kind  ValueKind
	Op    OpID
	Block BlockID
	Index uint32
}

// OpResult returns the value identity of the i'th result of op.
func OpResult(op OpID, i uint32) Value {
	return Value{Kind: ValueOpResult, Op: op, Index: i}
}

// BlockArg returns the value identity of the i'th argument of block.
func BlockArg(block BlockID, i uint32) Value {
	return Value{Kind: ValueBlockArg, Block: block, Index: i}
}

// IsValid reports whether v identifies a definition at all. It does not
// dereference anything.
func (v Value) IsValid() bool { return v.Kind != ValueInvalid }

// DefiningOp returns the operation defining v, for result values only.
func (v Value) DefiningOp() (OpID, bool) {
	if v.Kind != ValueOpResult {
		return NoOpID, false
	}
	return v.Op, true
}

// ParentBlock returns the block containing v's definition: the owning
// block for an argument, the defining op's parent block for a result
// (which is NoBlockID while the op is unlinked).
func (v Value) ParentBlock(ctx *Context) BlockID {
	switch v.Kind {
	case ValueOpResult:
		return ctx.Op(v.Op).parentBlock
	case ValueBlockArg:
		return v.Block
	}
	return NoBlockID
}

// DefIndex returns v's position among its op's results or its block's
// arguments.
func (v Value) DefIndex() uint32 { return v.Index }

// Type returns the value's type.
func (v Value) Type(ctx *Context) types.TypeID {
	return v.defList(ctx).ty
}

// defList resolves v to the DefList embedded in its defining node.
// Panics if v is invalid or stale.
func (v Value) defList(ctx *Context) *DefList {
	switch v.Kind {
	case ValueOpResult:
		op := ctx.Op(v.Op)
		if int(v.Index) >= len(op.results) {
			panic(fmt.Sprintf("ir: result index %d out of range for op %d", v.Index, v.Op))
		}
		return &op.results[v.Index]
	case ValueBlockArg:
		b := ctx.Block(v.Block)
		if int(v.Index) >= len(b.args) {
			panic(fmt.Sprintf("ir: argument index %d out of range for block %d", v.Index, v.Block))
		}
		return &b.args[v.Index].DefList
	}
	panic("ir: use of invalid value")
}

// UseRef is a use-list entry: a back-reference from a value's use-list
// to the consuming operand slot.
type UseRef struct {
	Op         OpID
	OperandIdx uint32
}

// Use is the token an operand stores for its registration in the
// defining value's use-list.
type Use struct {
	Def    Value
	UseIdx uint32
}

// DefList is the use-list a definition owns. Entries keep registration
// order; the order carries no meaning but is stable between mutations.
type DefList struct {
	uses []UseRef
	ty   types.TypeID
}

// NumUses returns the number of registered uses.
func (d *DefList) NumUses() int { return len(d.uses) }

// Uses exposes the use-list. READONLY.
func (d *DefList) Uses() []UseRef { return d.uses }

// Uses returns v's use-list entries in registration order. READONLY.
func (v Value) Uses(ctx *Context) []UseRef {
	return v.defList(ctx).Uses()
}

// NumUses returns the number of operands consuming v.
func (v Value) NumUses(ctx *Context) int {
	return v.defList(ctx).NumUses()
}

// AddUse registers ref as a use of v and returns the token the
// consuming operand must store.
func (v Value) AddUse(ctx *Context, ref UseRef) Use {
	d := v.defList(ctx)
	d.uses = append(d.uses, ref)
	return Use{Def: v, UseIdx: uint32(len(d.uses) - 1)}
}

// RemoveUse unregisters a use by its token. Swap-removes the entry and
// patches the moved entry's operand token so every standing Use stays
// accurate.
func (v Value) RemoveUse(ctx *Context, u Use) {
	d := v.defList(ctx)
	if int(u.UseIdx) >= len(d.uses) {
		panic(fmt.Sprintf("ir: stale use token %d (use-list has %d entries)", u.UseIdx, len(d.uses)))
	}
	last := uint32(len(d.uses) - 1)
	if u.UseIdx != last {
		moved := d.uses[last]
		d.uses[u.UseIdx] = moved
		ctx.Op(moved.Op).operands[moved.OperandIdx].use.UseIdx = u.UseIdx
	}
	d.uses = d.uses[:last]
}

// ReplaceAllUsesWith rewires every use of v to newVal, one operand at a
// time in registration order. When it returns, v has no uses and
// newVal's use-list has grown by exactly the moved count. Each operand
// transitions directly from v to newVal with no intermediate dangling
// state.
func (v Value) ReplaceAllUsesWith(ctx *Context, newVal Value) {
	d := v.defList(ctx)
	uses := d.uses
	d.uses = nil
	for _, ref := range uses {
		newUse := newVal.AddUse(ctx, ref)
		ctx.Op(ref.Op).operands[ref.OperandIdx].replaceDef(newUse)
	}
}

// Operand is one operand slot of an operation. It stores the defining
// value's identity plus the Use token handed out at registration.
type Operand struct {
	use Use
}

// Def returns the value this operand consumes, which is invalid while
// the slot is dangling.
func (o *Operand) Def() Value { return o.use.Def }

// replaceDef points the slot at the definition behind u.
func (o *Operand) replaceDef(u Use) { o.use = u }

// clear makes the slot dangling without touching any use-list.
func (o *Operand) clear() { o.use = Use{} }

// BlockUseRef is a predecessor-list entry: the successor slot of a
// terminator that branches to the block.
type BlockUseRef struct {
	Op      OpID
	SuccIdx uint32
}

// BlockUse is the token a successor slot stores for its registration in
// the target block's predecessor list.
type BlockUse struct {
	Block  BlockID
	UseIdx uint32
}

// Successor is one successor slot of a terminator operation.
type Successor struct {
	use BlockUse
}

// Target returns the block this slot branches to, NoBlockID if the
// target was deallocated out from under the terminator.
func (s *Successor) Target() BlockID { return s.use.Block }

func addBlockUse(ctx *Context, target BlockID, ref BlockUseRef) BlockUse {
	b := ctx.Block(target)
	b.preds = append(b.preds, ref)
	return BlockUse{Block: target, UseIdx: uint32(len(b.preds) - 1)}
}

func removeBlockUse(ctx *Context, u BlockUse) {
	b := ctx.Block(u.Block)
	if int(u.UseIdx) >= len(b.preds) {
		panic(fmt.Sprintf("ir: stale block use token %d (pred list has %d entries)", u.UseIdx, len(b.preds)))
	}
	last := uint32(len(b.preds) - 1)
	if u.UseIdx != last {
		moved := b.preds[last]
		b.preds[u.UseIdx] = moved
		ctx.Op(moved.Op).succs[moved.SuccIdx].use.UseIdx = u.UseIdx
	}
	b.preds = b.preds[:last]
}
