package ir

import "lattice/internal/types"

// Context owns one arena per node kind plus the type interner. Every
// handle in the graph is only meaningful relative to the Context that
// allocated it; mixing handles across contexts is a caller bug.
type Context struct {
	ops     *Arena[Operation]
	blocks  *Arena[BasicBlock]
	regions *Arena[Region]

	// Types interns the value types referenced by block arguments and
	// operation results.
	Types *types.Interner
}

// NewContext creates an empty Context with seeded builtin types.
func NewContext() *Context {
	return &Context{
		ops:     NewArena[Operation](64),
		blocks:  NewArena[BasicBlock](16),
		regions: NewArena[Region](4),
		Types:   types.NewInterner(),
	}
}

// Op dereferences an operation handle. Panics on invalid or freed ids.
func (c *Context) Op(id OpID) *Operation { return c.ops.Get(uint32(id)) }

// Block dereferences a block handle. Panics on invalid or freed ids.
func (c *Context) Block(id BlockID) *BasicBlock { return c.blocks.Get(uint32(id)) }

// Region dereferences a region handle. Panics on invalid or freed ids.
func (c *Context) Region(id RegionID) *Region { return c.regions.Get(uint32(id)) }

// TryOp is the checked variant of Op.
func (c *Context) TryOp(id OpID) (*Operation, bool) { return c.ops.TryGet(uint32(id)) }

// TryBlock is the checked variant of Block.
func (c *Context) TryBlock(id BlockID) (*BasicBlock, bool) { return c.blocks.TryGet(uint32(id)) }

// TryRegion is the checked variant of Region.
func (c *Context) TryRegion(id RegionID) (*Region, bool) { return c.regions.TryGet(uint32(id)) }

// LiveOps returns the number of live operation nodes.
func (c *Context) LiveOps() int { return c.ops.Live() }

// LiveBlocks returns the number of live block nodes.
func (c *Context) LiveBlocks() int { return c.blocks.Live() }

// LiveRegions returns the number of live region nodes.
func (c *Context) LiveRegions() int { return c.regions.Live() }
