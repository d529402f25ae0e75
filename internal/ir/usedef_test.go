package ir

import (
	"strings"
	"testing"

	"lattice/internal/types"
)

// newConst allocates an op defining one int result and no operands.
func newConst(ctx *Context) OpID {
	return NewOp(ctx, OpConst, nil, []types.TypeID{ctx.Types.Builtins().Int}, nil)
}

func TestAddUseCountsOperands(t *testing.T) {
	ctx := NewContext()
	def := newConst(ctx)
	v, _ := ctx.Op(def).Result(0)

	if v.NumUses(ctx) != 0 {
		t.Fatalf("fresh result has %d uses", v.NumUses(ctx))
	}

	u1 := NewOp(ctx, OpAdd, []Value{v, v}, []types.TypeID{ctx.Types.Builtins().Int}, nil)
	u2 := NewOp(ctx, OpReturn, []Value{v}, nil, nil)

	if got := v.NumUses(ctx); got != 3 {
		t.Fatalf("expected 3 uses, got %d", got)
	}
	uses := v.Uses(ctx)
	want := []UseRef{
		{Op: u1, OperandIdx: 0},
		{Op: u1, OperandIdx: 1},
		{Op: u2, OperandIdx: 0},
	}
	for i, ref := range want {
		if uses[i] != ref {
			t.Fatalf("use %d: got %+v, want %+v", i, uses[i], ref)
		}
	}
}

func TestRemoveUseSwapPatchesMovedToken(t *testing.T) {
	ctx := NewContext()
	def := newConst(ctx)
	v, _ := ctx.Op(def).Result(0)

	intTy := ctx.Types.Builtins().Int
	u1 := NewOp(ctx, OpAdd, []Value{v, v}, []types.TypeID{intTy}, nil)
	u2 := NewOp(ctx, OpReturn, []Value{v}, nil, nil)

	// Dropping u1's operands removes entries 0 and 1, each time moving
	// the list tail into the hole. u2's token must follow its entry.
	ctx.Op(u1).SetOperands(ctx, nil)

	if got := v.NumUses(ctx); got != 1 {
		t.Fatalf("expected 1 remaining use, got %d", got)
	}
	if ref := v.Uses(ctx)[0]; ref.Op != u2 || ref.OperandIdx != 0 {
		t.Fatalf("surviving use is %+v", ref)
	}
	// The patched token must still unregister cleanly.
	ctx.Op(u2).SetOperands(ctx, nil)
	if got := v.NumUses(ctx); got != 0 {
		t.Fatalf("expected 0 uses after dropping all operands, got %d", got)
	}
}

func TestRemoveUseStaleTokenPanics(t *testing.T) {
	ctx := NewContext()
	def := newConst(ctx)
	v, _ := ctx.Op(def).Result(0)
	token := v.AddUse(ctx, UseRef{Op: NoOpID, OperandIdx: 0})
	v.RemoveUse(ctx, token)

	// The list is empty now; the token must be rejected as stale, not
	// underflow the index math.
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("removing from an empty use-list must panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "stale use token") {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	v.RemoveUse(ctx, token)
}

func TestReplaceAllUsesWithDrainsSource(t *testing.T) {
	ctx := NewContext()
	defV := newConst(ctx)
	defW := newConst(ctx)
	v, _ := ctx.Op(defV).Result(0)
	w, _ := ctx.Op(defW).Result(0)

	u1 := NewOp(ctx, OpReturn, []Value{v}, nil, nil)
	u2 := NewOp(ctx, OpReturn, []Value{v}, nil, nil)
	if v.NumUses(ctx) != 2 {
		t.Fatalf("setup: v has %d uses", v.NumUses(ctx))
	}

	v.ReplaceAllUsesWith(ctx, w)

	if got := v.NumUses(ctx); got != 0 {
		t.Fatalf("v must be drained, still has %d uses", got)
	}
	if got := w.NumUses(ctx); got != 2 {
		t.Fatalf("w must have gained 2 uses, has %d", got)
	}
	for _, op := range []OpID{u1, u2} {
		got, _ := ctx.Op(op).Operand(0)
		if got != w {
			t.Fatalf("operand of %v resolves to %+v, want w", op, got)
		}
	}
	// Moved uses keep registration order.
	uses := w.Uses(ctx)
	if uses[0].Op != u1 || uses[1].Op != u2 {
		t.Fatalf("moved uses out of order: %+v", uses)
	}
}

func TestReplaceAllUsesWithBlockArg(t *testing.T) {
	ctx := NewContext()
	intTy := ctx.Types.Builtins().Int
	block := NewBlock(ctx, "entry", []types.TypeID{intTy})
	arg, _ := ctx.Block(block).Arg(0)

	user := NewOp(ctx, OpReturn, []Value{arg}, nil, nil)

	repl := newConst(ctx)
	w, _ := ctx.Op(repl).Result(0)
	arg.ReplaceAllUsesWith(ctx, w)

	if arg.NumUses(ctx) != 0 || w.NumUses(ctx) != 1 {
		t.Fatalf("arg uses %d, w uses %d", arg.NumUses(ctx), w.NumUses(ctx))
	}
	got, _ := ctx.Op(user).Operand(0)
	if got != w {
		t.Fatalf("operand still reads %+v", got)
	}
}

func TestBlockArgumentIdentityStable(t *testing.T) {
	ctx := NewContext()
	intTy := ctx.Types.Builtins().Int
	boolTy := ctx.Types.Builtins().Bool
	block := NewBlock(ctx, "", []types.TypeID{intTy, boolTy})

	b := ctx.Block(block)
	if b.NumArgs() != 2 {
		t.Fatalf("expected 2 arguments, got %d", b.NumArgs())
	}
	for i := 0; i < 2; i++ {
		v, ok := b.Arg(i)
		if !ok {
			t.Fatalf("argument %d missing", i)
		}
		if v.Kind != ValueBlockArg || v.Block != block || v.Index != uint32(i) {
			t.Fatalf("argument %d identity is %+v", i, v)
		}
	}
	if v0, _ := b.Arg(0); v0.Type(ctx) != intTy {
		t.Fatalf("argument 0 type mismatch")
	}
	if v1, _ := b.Arg(1); v1.Type(ctx) != boolTy {
		t.Fatalf("argument 1 type mismatch")
	}
	if _, ok := b.Arg(2); ok {
		t.Fatalf("out-of-range argument lookup must fail")
	}
	if _, ok := b.Arg(-1); ok {
		t.Fatalf("negative argument lookup must fail")
	}
}

func TestSuccessorPredecessorRoundTrip(t *testing.T) {
	ctx := NewContext()
	target := NewBlock(ctx, "exit", nil)
	other := NewBlock(ctx, "alt", nil)

	cond := NewOp(ctx, OpConst, nil, []types.TypeID{ctx.Types.Builtins().Bool}, nil)
	cv, _ := ctx.Op(cond).Result(0)
	br := NewOp(ctx, OpCondJump, []Value{cv}, nil, []BlockID{target, other})

	if ctx.Block(target).NumPreds() != 1 || ctx.Block(other).NumPreds() != 1 {
		t.Fatalf("predecessor counts: %d, %d", ctx.Block(target).NumPreds(), ctx.Block(other).NumPreds())
	}
	ref := ctx.Block(target).Preds()[0]
	if ref.Op != br || ref.SuccIdx != 0 {
		t.Fatalf("predecessor entry is %+v", ref)
	}

	// Retargeting moves the registrations.
	ctx.Op(br).SetSuccessors(ctx, []BlockID{other, other})
	if ctx.Block(target).NumPreds() != 0 {
		t.Fatalf("old target keeps %d preds", ctx.Block(target).NumPreds())
	}
	if ctx.Block(other).NumPreds() != 2 {
		t.Fatalf("new target has %d preds", ctx.Block(other).NumPreds())
	}
}
