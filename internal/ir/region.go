package ir

import "fmt"

// Region is a container of basic blocks.
type Region struct {
	self RegionID

	firstBlock, lastBlock BlockID
}

// NewRegion allocates an empty region.
func NewRegion(ctx *Context) RegionID {
	return RegionID(ctx.regions.Alloc(func(self uint32) *Region {
		return &Region{self: RegionID(self)}
	}))
}

// Self returns the region's own handle.
func (r *Region) Self() RegionID { return r.self }

// Blocks returns a restartable double-ended iterator over the region's
// blocks.
func (r *Region) Blocks(ctx *Context) Iter[BlockID, RegionID] {
	return NewIter[BlockID, RegionID](ctx, r.self)
}

// FirstBlock returns the head of the block-list, NoBlockID when empty.
func (r *Region) FirstBlock() BlockID { return r.firstBlock }

// LastBlock returns the tail of the block-list, NoBlockID when empty.
func (r *Region) LastBlock() BlockID { return r.lastBlock }

// deallocSubObjects deallocates every block still linked in the region,
// which in turn cascades into the blocks' operations.
func (r *Region) deallocSubObjects(ctx *Context) {
	var blocks []BlockID
	it := r.Blocks(ctx)
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		blocks = append(blocks, b)
	}
	for _, b := range blocks {
		DeallocBlock(ctx, b)
	}
}

// DeallocRegion cascades deallocation through every contained block and
// operation, then frees the region's own slot.
func DeallocRegion(ctx *Context, id RegionID) {
	r := ctx.Region(id)
	r.deallocSubObjects(ctx)
	ctx.regions.Free(uint32(id))
}

// Container role: the region's block-list.

func (id RegionID) Head(ctx *Context) BlockID { return ctx.Region(id).firstBlock }
func (id RegionID) Tail(ctx *Context) BlockID { return ctx.Region(id).lastBlock }

func (id RegionID) SetHead(ctx *Context, head BlockID) { ctx.Region(id).firstBlock = head }
func (id RegionID) SetTail(ctx *Context, tail BlockID) { ctx.Region(id).lastBlock = tail }

func (id RegionID) String() string { return fmt.Sprintf("region%d", uint32(id)) }
