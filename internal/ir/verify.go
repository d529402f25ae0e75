package ir

import (
	"errors"
	"fmt"

	"lattice/internal/diag"
)

// VerifyError is the recoverable verification failure: a structured
// diagnostic identifying the first node that failed a check.
type VerifyError struct {
	Diag diag.Diagnostic
}

func (e *VerifyError) Error() string { return e.Diag.String() }

func verifyErr(code diag.Code, locus diag.Locus, format string, args ...any) error {
	return &VerifyError{Diag: diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  locus,
	}}
}

// resolve checks that v still names a live definition in ctx.
func (v Value) resolve(ctx *Context) error {
	switch v.Kind {
	case ValueOpResult:
		op, ok := ctx.TryOp(v.Op)
		if !ok {
			return fmt.Errorf("result of freed op %d", v.Op)
		}
		if int(v.Index) >= len(op.results) {
			return fmt.Errorf("result index %d out of range for %v", v.Index, v.Op)
		}
	case ValueBlockArg:
		b, ok := ctx.TryBlock(v.Block)
		if !ok {
			return fmt.Errorf("argument of freed block %d", v.Block)
		}
		if int(v.Index) >= len(b.args) {
			return fmt.Errorf("argument index %d out of range for %v", v.Index, v.Block)
		}
	default:
		return errors.New("dangling operand")
	}
	return nil
}

// VerifyOp checks one operation: kind arity rules, operand liveness and
// successor validity.
func VerifyOp(ctx *Context, id OpID) error {
	op := ctx.Op(id)
	locus := diag.Locus{Block: uint32(op.parentBlock), Op: uint32(id)}

	for i := range op.operands {
		def := op.operands[i].Def()
		if !def.IsValid() {
			return verifyErr(diag.VerifyDanglingOperand, locus, "operand %d does not reference a definition", i)
		}
		if err := def.resolve(ctx); err != nil {
			return verifyErr(diag.VerifyStaleOperand, locus, "operand %d: %v", i, err)
		}
	}
	for i := range op.succs {
		target := op.succs[i].Target()
		if !target.IsValid() {
			return verifyErr(diag.VerifyMissingSuccessor, locus, "successor %d has no target", i)
		}
		if _, ok := ctx.TryBlock(target); !ok {
			return verifyErr(diag.VerifyMissingSuccessor, locus, "successor %d targets freed block %d", i, target)
		}
	}

	switch op.kind {
	case OpConst:
		if len(op.operands) != 0 || len(op.results) != 1 {
			return verifyErr(diag.VerifyOperandCount, locus, "const wants 0 operands and 1 result, has %d and %d",
				len(op.operands), len(op.results))
		}
		if _, ok := op.attrs["value"]; !ok {
			return verifyErr(diag.VerifyMissingAttr, locus, "const has no value attribute")
		}
	case OpAdd:
		if len(op.operands) != 2 {
			return verifyErr(diag.VerifyOperandCount, locus, "add wants 2 operands, has %d", len(op.operands))
		}
		if len(op.results) != 1 {
			return verifyErr(diag.VerifyResultCount, locus, "add wants 1 result, has %d", len(op.results))
		}
		want := op.results[0].ty
		for i := range op.operands {
			if got := op.operands[i].Def().Type(ctx); got != want {
				return verifyErr(diag.VerifyBadType, locus, "add operand %d is %s, result is %s",
					i, ctx.Types.String(got), ctx.Types.String(want))
			}
		}
	case OpJump:
		if len(op.succs) != 1 {
			return verifyErr(diag.VerifySuccessorCount, locus, "jump wants 1 successor, has %d", len(op.succs))
		}
	case OpCondJump:
		if len(op.operands) != 1 {
			return verifyErr(diag.VerifyOperandCount, locus, "condjump wants 1 operand, has %d", len(op.operands))
		}
		if len(op.succs) != 2 {
			return verifyErr(diag.VerifySuccessorCount, locus, "condjump wants 2 successors, has %d", len(op.succs))
		}
	case OpReturn:
		if len(op.succs) != 0 {
			return verifyErr(diag.VerifySuccessorCount, locus, "return wants no successors, has %d", len(op.succs))
		}
	default:
		return verifyErr(diag.VerifyBadKind, locus, "unknown operation kind %d", op.kind)
	}
	return nil
}

// VerifyBlock walks the block's op-list in order and verifies every
// operation. The first failure aborts the walk. A non-empty block must
// end with a terminator and must not contain one anywhere else.
func VerifyBlock(ctx *Context, id BlockID) error {
	b := ctx.Block(id)
	locus := diag.Locus{Block: uint32(id)}

	it := b.Ops(ctx)
	for opID, ok := it.Next(); ok; opID, ok = it.Next() {
		if err := VerifyOp(ctx, opID); err != nil {
			return err
		}
		op := ctx.Op(opID)
		if op.kind.IsTerminator() && opID != b.lastOp {
			return verifyErr(diag.VerifyTerminatorNotLast, diag.Locus{Block: uint32(id), Op: uint32(opID)},
				"terminator %s is not the last operation", op.kind)
		}
	}
	if b.lastOp.IsValid() && !ctx.Op(b.lastOp).kind.IsTerminator() {
		return verifyErr(diag.VerifyMissingTerminator, locus, "block %s does not end with a terminator", b.Name())
	}
	return nil
}

// VerifyRegion verifies the region's blocks in order, stopping at the
// first failing block.
func VerifyRegion(ctx *Context, id RegionID) error {
	r := ctx.Region(id)
	it := r.Blocks(ctx)
	for blockID, ok := it.Next(); ok; blockID, ok = it.Next() {
		if err := VerifyBlock(ctx, blockID); err != nil {
			return err
		}
	}
	return nil
}

// VerifyModule verifies every function and joins the failures, so one
// broken function does not hide the others.
func VerifyModule(ctx *Context, m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := VerifyRegion(ctx, f.Region); err != nil {
			var ve *VerifyError
			if errors.As(err, &ve) {
				ve.Diag.Primary.Func = f.Name
			}
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}
