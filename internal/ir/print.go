package ir

import (
	"fmt"
	"io"
	"strings"

	"lattice/internal/debuginfo"
)

// DumpOptions configures module dumping.
type DumpOptions struct {
	// Names resolves debug names for values; synthesized names are used
	// when nil or when a value was never named.
	Names *debuginfo.Registry
}

// DumpModule writes a human-readable representation of a module.
func DumpModule(w io.Writer, ctx *Context, m *Module, opts DumpOptions) error {
	if w == nil || m == nil {
		return nil
	}
	fmt.Fprintf(w, "funcs=%d\n", len(m.Funcs))
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := DumpFunc(w, ctx, f, opts); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunc writes one function.
func DumpFunc(w io.Writer, ctx *Context, f *Func, opts DumpOptions) error {
	fmt.Fprintf(w, "\nfn %s -> %s:\n", f.Name, ctx.Types.String(f.Result))
	r := ctx.Region(f.Region)
	it := r.Blocks(ctx)
	for blockID, ok := it.Next(); ok; blockID, ok = it.Next() {
		if err := dumpBlock(w, ctx, blockID, opts); err != nil {
			return err
		}
	}
	return nil
}

func dumpBlock(w io.Writer, ctx *Context, id BlockID, opts DumpOptions) error {
	b := ctx.Block(id)
	var args []string
	for i := range b.args {
		a := &b.args[i]
		args = append(args, fmt.Sprintf("%s: %s", argName(ctx, opts, id, a.index), ctx.Types.String(a.Type())))
	}
	fmt.Fprintf(w, "  %s(%s):", b.Name(), strings.Join(args, ", "))
	if len(b.preds) > 0 {
		fmt.Fprintf(w, "  // preds=%d", len(b.preds))
	}
	fmt.Fprintln(w)

	it := b.Ops(ctx)
	for opID, ok := it.Next(); ok; opID, ok = it.Next() {
		dumpOp(w, ctx, opID, opts)
	}
	return nil
}

func dumpOp(w io.Writer, ctx *Context, id OpID, opts DumpOptions) {
	op := ctx.Op(id)

	var sb strings.Builder
	if len(op.results) > 0 {
		var results []string
		for i := range op.results {
			results = append(results, resultName(opts, id, uint32(i)))
		}
		sb.WriteString(strings.Join(results, ", "))
		sb.WriteString(" = ")
	}
	sb.WriteString(op.kind.String())
	if len(op.operands) > 0 {
		var operands []string
		for i := range op.operands {
			operands = append(operands, valueName(ctx, opts, op.operands[i].Def()))
		}
		sb.WriteString(" ")
		sb.WriteString(strings.Join(operands, ", "))
	}
	if len(op.attrs) > 0 {
		if v, ok := op.attrs["value"]; ok {
			sb.WriteString(fmt.Sprintf(" [%s]", v))
		}
	}
	if len(op.succs) > 0 {
		var succs []string
		for i := range op.succs {
			target := op.succs[i].Target()
			if !target.IsValid() {
				succs = append(succs, "<missing>")
				continue
			}
			succs = append(succs, ctx.Block(target).Name())
		}
		sb.WriteString(" -> ")
		sb.WriteString(strings.Join(succs, ", "))
	}
	if len(op.results) > 0 {
		var tys []string
		for i := range op.results {
			tys = append(tys, ctx.Types.String(op.results[i].ty))
		}
		sb.WriteString(" : ")
		sb.WriteString(strings.Join(tys, ", "))
	}
	fmt.Fprintf(w, "    %s\n", sb.String())
}

// valueName renders a value reference using its display name.
func valueName(ctx *Context, opts DumpOptions, v Value) string {
	switch v.Kind {
	case ValueOpResult:
		return resultName(opts, v.Op, v.Index)
	case ValueBlockArg:
		return argName(ctx, opts, v.Block, v.Index)
	}
	return "<dangling>"
}

// argName is the registered debug name when present, otherwise
// "<block-name>[idx]".
func argName(ctx *Context, opts DumpOptions, block BlockID, index uint32) string {
	if opts.Names != nil {
		if name, ok := opts.Names.ArgName(uint32(block), index); ok {
			return name
		}
	}
	return fmt.Sprintf("%s[%d]", ctx.Block(block).Name(), index)
}

// resultName is the registered debug name when present, otherwise a
// handle-derived synthetic name.
func resultName(opts DumpOptions, op OpID, index uint32) string {
	if opts.Names != nil {
		if name, ok := opts.Names.ResultName(uint32(op), index); ok {
			return name
		}
	}
	return fmt.Sprintf("v%d_%d", uint32(op), index)
}
