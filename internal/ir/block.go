package ir

import (
	"fmt"

	"lattice/internal/attr"
	"lattice/internal/types"
)

// BlockArgument is one formal parameter of a block. It is embedded in
// the block's argument vector, never allocated on its own, and takes
// part in the def-use graph through the identity {block, index}.
type BlockArgument struct {
	DefList
	block BlockID
	index uint32
}

// OwnerBlock returns the block this argument belongs to.
func (a *BlockArgument) OwnerBlock() BlockID { return a.block }

// Index returns the argument's position, stable for the block's lifetime.
func (a *BlockArgument) Index() uint32 { return a.index }

// Type returns the argument's value type.
func (a *BlockArgument) Type() types.TypeID { return a.ty }

// Value returns the argument's value identity.
func (a *BlockArgument) Value() Value { return BlockArg(a.block, a.index) }

// BasicBlock is a list of operations. It plays the container role for
// its op-list and the element role within its region's block-list, and
// may have typed arguments fixed at construction.
type BasicBlock struct {
	self  BlockID
	label string
	args  []BlockArgument

	firstOp, lastOp OpID

	parentRegion         RegionID
	prevBlock, nextBlock BlockID

	// preds lists the successor slots of terminators branching here.
	preds []BlockUseRef

	attrs map[string]attr.Value
}

// NewBlock allocates a block with the given argument types. The
// argument identities embed the block's own handle, so they are built
// after allocation, once that handle exists. The new block is unlinked;
// insert it into a region separately.
func NewBlock(ctx *Context, label string, argTypes []types.TypeID) BlockID {
	id := BlockID(ctx.blocks.Alloc(func(self uint32) *BasicBlock {
		return &BasicBlock{
			self:  BlockID(self),
			label: label,
			attrs: make(map[string]attr.Value),
		}
	}))
	b := ctx.Block(id)
	args := make([]BlockArgument, len(argTypes))
	for i, ty := range argTypes {
		args[i] = BlockArgument{
			DefList: DefList{ty: ty},
			block:   id,
			index:   uint32(i),
		}
	}
	b.args = args
	return id
}

// Self returns the block's own handle.
func (b *BasicBlock) Self() BlockID { return b.self }

// Label returns the explicit label, empty if none was set.
func (b *BasicBlock) Label() string { return b.label }

// Name returns the block's display name: the label when set, otherwise
// a handle-derived synthetic name.
func (b *BasicBlock) Name() string {
	if b.label != "" {
		return b.label
	}
	return fmt.Sprintf("block%d", uint32(b.self))
}

// NumArgs returns the number of block arguments.
func (b *BasicBlock) NumArgs() int { return len(b.args) }

// Arg returns the value identity of the i'th argument. Out-of-range
// lookups return ok=false, never panic.
func (b *BasicBlock) Arg(i int) (Value, bool) {
	if i < 0 || i >= len(b.args) {
		return Value{}, false
	}
	return b.args[i].Value(), true
}

// ArgRef returns the i'th argument itself.
func (b *BasicBlock) ArgRef(i int) (*BlockArgument, bool) {
	if i < 0 || i >= len(b.args) {
		return nil, false
	}
	return &b.args[i], true
}

// ParentRegion returns the containing region, NoRegionID while unlinked.
func (b *BasicBlock) ParentRegion() RegionID { return b.parentRegion }

// NumPreds returns the number of terminator slots branching to b.
func (b *BasicBlock) NumPreds() int { return len(b.preds) }

// Preds exposes the predecessor list. READONLY.
func (b *BasicBlock) Preds() []BlockUseRef { return b.preds }

// SetAttr stores an attribute under key, replacing any previous value.
func (b *BasicBlock) SetAttr(key string, v attr.Value) { b.attrs[key] = v }

// Attr retrieves the attribute stored under key.
func (b *BasicBlock) Attr(key string) (attr.Value, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

// Attrs exposes the attribute map. READONLY.
func (b *BasicBlock) Attrs() map[string]attr.Value { return b.attrs }

// Ops returns a restartable double-ended iterator over the block's
// operations. It dereferences the Context on every step, so it observes
// the graph as it is at that step, not a snapshot.
func (b *BasicBlock) Ops(ctx *Context) Iter[OpID, BlockID] {
	return NewIter[OpID, BlockID](ctx, b.self)
}

// FirstOp returns the head of the op-list, NoOpID when empty.
func (b *BasicBlock) FirstOp() OpID { return b.firstOp }

// LastOp returns the tail of the op-list, NoOpID when empty.
func (b *BasicBlock) LastOp() OpID { return b.lastOp }

// deallocSubObjects deallocates every operation still linked in the
// block, in list order.
func (b *BasicBlock) deallocSubObjects(ctx *Context) {
	var ops []OpID
	it := b.Ops(ctx)
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		ops = append(ops, op)
	}
	for _, op := range ops {
		DeallocOp(ctx, op)
	}
}

// removeReferences severs everything still pointing into the block:
// terminator slots elsewhere branching here are rewritten to no target,
// and operands still consuming the block's arguments are left dangling.
// Both show up in verify rather than dangling silently.
func (b *BasicBlock) removeReferences(ctx *Context) {
	for _, ref := range b.preds {
		ctx.Op(ref.Op).succs[ref.SuccIdx].use = BlockUse{}
	}
	b.preds = nil
	for i := range b.args {
		for _, ref := range b.args[i].uses {
			ctx.Op(ref.Op).operands[ref.OperandIdx].clear()
		}
		b.args[i].uses = nil
	}
}

// DeallocBlock deallocates every operation still contained in block,
// runs the reference-removal hook, unlinks the block from its region if
// still linked and frees its arena slot.
func DeallocBlock(ctx *Context, id BlockID) {
	b := ctx.Block(id)
	b.deallocSubObjects(ctx)
	b.removeReferences(ctx)
	if b.parentRegion.IsValid() {
		RemoveBlock(ctx, id)
	}
	ctx.blocks.Free(uint32(id))
}

// Intrusive-list container role: the block's op-list.

func (id BlockID) Head(ctx *Context) OpID { return ctx.Block(id).firstOp }
func (id BlockID) Tail(ctx *Context) OpID { return ctx.Block(id).lastOp }

func (id BlockID) SetHead(ctx *Context, head OpID) { ctx.Block(id).firstOp = head }
func (id BlockID) SetTail(ctx *Context, tail OpID) { ctx.Block(id).lastOp = tail }

// Intrusive-list element role: the block within its region.

func (id BlockID) Next(ctx *Context) BlockID { return ctx.Block(id).nextBlock }
func (id BlockID) Prev(ctx *Context) BlockID { return ctx.Block(id).prevBlock }

func (id BlockID) SetNext(ctx *Context, next BlockID) { ctx.Block(id).nextBlock = next }
func (id BlockID) SetPrev(ctx *Context, prev BlockID) { ctx.Block(id).prevBlock = prev }

func (id BlockID) Parent(ctx *Context) RegionID { return ctx.Block(id).parentRegion }

func (id BlockID) SetParent(ctx *Context, parent RegionID) { ctx.Block(id).parentRegion = parent }

func (id BlockID) String() string { return fmt.Sprintf("block%d", uint32(id)) }

// InsertBlockAtFront links block as the first block of region.
func InsertBlockAtFront(ctx *Context, region RegionID, block BlockID) {
	InsertAtFront(ctx, region, block)
}

// InsertBlockAtBack links block as the last block of region.
func InsertBlockAtBack(ctx *Context, region RegionID, block BlockID) {
	InsertAtBack(ctx, region, block)
}

// InsertBlockAfter links block immediately after at.
func InsertBlockAfter(ctx *Context, block, at BlockID) {
	InsertAfter[BlockID, RegionID](ctx, block, at)
}

// InsertBlockBefore links block immediately before at.
func InsertBlockBefore(ctx *Context, block, at BlockID) {
	InsertBefore[BlockID, RegionID](ctx, block, at)
}

// RemoveBlock unlinks block from its region without deallocating it.
func RemoveBlock(ctx *Context, block BlockID) { Remove[BlockID, RegionID](ctx, block) }
