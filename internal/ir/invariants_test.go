package ir_test

import (
	"testing"

	"lattice/internal/attr"
	"lattice/internal/ir"
	"lattice/internal/testkit"
	"lattice/internal/types"
)

// buildDiamond assembles entry -> {left, right} -> (return), the
// smallest region with branching, arguments and cross-block uses.
func buildDiamond(t *testing.T, ctx *ir.Context) ir.RegionID {
	t.Helper()
	intTy := ctx.Types.Builtins().Int
	boolTy := ctx.Types.Builtins().Bool

	region := ir.NewRegion(ctx)
	entry := ir.NewBlock(ctx, "entry", nil)
	left := ir.NewBlock(ctx, "left", []types.TypeID{intTy})
	right := ir.NewBlock(ctx, "right", nil)
	for _, b := range []ir.BlockID{entry, left, right} {
		ir.InsertBlockAtBack(ctx, region, b)
	}

	c := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{boolTy}, nil)
	ctx.Op(c).SetAttr("value", attr.Bool(true))
	cv, _ := ctx.Op(c).Result(0)
	br := ir.NewOp(ctx, ir.OpCondJump, []ir.Value{cv}, nil, []ir.BlockID{left, right})
	ir.InsertOpAtBack(ctx, entry, c)
	ir.InsertOpAtBack(ctx, entry, br)

	arg, _ := ctx.Block(left).Arg(0)
	ir.InsertOpAtBack(ctx, left, ir.NewOp(ctx, ir.OpReturn, []ir.Value{arg}, nil, nil))
	ir.InsertOpAtBack(ctx, right, ir.NewOp(ctx, ir.OpReturn, nil, nil, nil))
	return region
}

func TestRegionInvariantsAfterBuild(t *testing.T) {
	ctx := ir.NewContext()
	region := buildDiamond(t, ctx)
	if err := testkit.CheckRegionInvariants(ctx, region); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestRegionInvariantsSurviveMutation(t *testing.T) {
	ctx := ir.NewContext()
	region := buildDiamond(t, ctx)

	// Move the middle block to the front, then back.
	r := ctx.Region(region)
	first := r.FirstBlock()
	it := r.Blocks(ctx)
	it.Next()
	mid, _ := it.Next()

	ir.RemoveBlock(ctx, mid)
	ir.InsertBlockAtFront(ctx, region, mid)
	if err := testkit.CheckRegionInvariants(ctx, region); err != nil {
		t.Fatalf("after move to front: %v", err)
	}
	ir.RemoveBlock(ctx, mid)
	ir.InsertBlockAfter(ctx, mid, first)
	if err := testkit.CheckRegionInvariants(ctx, region); err != nil {
		t.Fatalf("after move back: %v", err)
	}
}

func TestRegionInvariantsAfterRAUW(t *testing.T) {
	ctx := ir.NewContext()
	intTy := ctx.Types.Builtins().Int

	region := ir.NewRegion(ctx)
	entry := ir.NewBlock(ctx, "entry", nil)
	ir.InsertBlockAtBack(ctx, region, entry)

	old := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{intTy}, nil)
	ctx.Op(old).SetAttr("value", attr.Int(1))
	repl := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{intTy}, nil)
	ctx.Op(repl).SetAttr("value", attr.Int(2))
	ov, _ := ctx.Op(old).Result(0)
	rv, _ := ctx.Op(repl).Result(0)

	sum := ir.NewOp(ctx, ir.OpAdd, []ir.Value{ov, ov}, []types.TypeID{intTy}, nil)
	sv, _ := ctx.Op(sum).Result(0)
	ret := ir.NewOp(ctx, ir.OpReturn, []ir.Value{sv}, nil, nil)
	for _, op := range []ir.OpID{old, repl, sum, ret} {
		ir.InsertOpAtBack(ctx, entry, op)
	}

	ov.ReplaceAllUsesWith(ctx, rv)
	ir.DeallocOp(ctx, old)

	if err := testkit.CheckRegionInvariants(ctx, region); err != nil {
		t.Fatalf("invariants violated after replacement: %v", err)
	}
	if err := ir.VerifyRegion(ctx, region); err != nil {
		t.Fatalf("verify failed after replacement: %v", err)
	}
}
