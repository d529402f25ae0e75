package ir

import "lattice/internal/types"

// Func is a named single-region function.
type Func struct {
	Name   string
	Region RegionID
	Result types.TypeID
}

// Entry returns the function's entry block: the first block of its
// region.
func (f *Func) Entry(ctx *Context) BlockID {
	return ctx.Region(f.Region).firstBlock
}

// Module groups functions built within one Context.
type Module struct {
	Funcs []*Func
}

// NewModule returns an empty module.
func NewModule() *Module { return &Module{} }

// AddFunc creates a function with a fresh empty region and appends it
// to the module.
func (m *Module) AddFunc(ctx *Context, name string, result types.TypeID) *Func {
	f := &Func{
		Name:   name,
		Region: NewRegion(ctx),
		Result: result,
	}
	m.Funcs = append(m.Funcs, f)
	return f
}

// FuncByName returns the first function with the given name.
func (m *Module) FuncByName(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
