package ir

import (
	"strings"
	"testing"

	"lattice/internal/debuginfo"
	"lattice/internal/types"
)

func TestDumpFuncSyntheticNames(t *testing.T) {
	ctx := NewContext()
	m := NewModule()
	f := m.AddFunc(ctx, "main", ctx.Types.Builtins().Int)
	fillStraightLine(t, ctx, f.Region)

	var sb strings.Builder
	if err := DumpFunc(&sb, ctx, f, DumpOptions{}); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"fn main -> int", "entry():", "= add ", "return "} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpUsesDebugNames(t *testing.T) {
	ctx := NewContext()
	m := NewModule()
	f := m.AddFunc(ctx, "main", ctx.Types.Builtins().Int)
	entry := fillStraightLine(t, ctx, f.Region)

	// Name the add's result.
	var addOp OpID
	it := ctx.Block(entry).Ops(ctx)
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		if ctx.Op(op).Kind() == OpAdd {
			addOp = op
		}
	}
	reg := debuginfo.NewRegistry()
	reg.SetResultName(uint32(addOp), 0, "sum")

	var sb strings.Builder
	if err := DumpFunc(&sb, ctx, f, DumpOptions{Names: reg}); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "sum = add ") {
		t.Fatalf("named result not used:\n%s", out)
	}
	if !strings.Contains(out, "return sum") {
		t.Fatalf("operand reference not renamed:\n%s", out)
	}
}

func TestDumpBlockArgsAndPreds(t *testing.T) {
	ctx := NewContext()
	intTy := ctx.Types.Builtins().Int
	m := NewModule()
	f := m.AddFunc(ctx, "loop", intTy)

	entry := NewBlock(ctx, "entry", nil)
	body := NewBlock(ctx, "body", []types.TypeID{intTy})
	InsertBlockAtBack(ctx, f.Region, entry)
	InsertBlockAtBack(ctx, f.Region, body)
	InsertOpAtBack(ctx, entry, NewOp(ctx, OpJump, nil, nil, []BlockID{body}))
	arg, _ := ctx.Block(body).Arg(0)
	InsertOpAtBack(ctx, body, NewOp(ctx, OpReturn, []Value{arg}, nil, nil))

	var sb strings.Builder
	if err := DumpFunc(&sb, ctx, f, DumpOptions{}); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "body(body[0]: int):  // preds=1") {
		t.Fatalf("block header not rendered:\n%s", out)
	}
	if !strings.Contains(out, "jump -> body") {
		t.Fatalf("successor not rendered:\n%s", out)
	}
	if !strings.Contains(out, "return body[0]") {
		t.Fatalf("argument operand not rendered:\n%s", out)
	}
}
