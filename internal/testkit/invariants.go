// Package testkit holds structural invariant checks shared by tests.
package testkit

import (
	"fmt"

	"lattice/internal/ir"
)

// CheckRegionInvariants audits a region's structure:
// 1) forward block order equals the reverse of backward order
// 2) every linked block's parent handle is the region it sits in
// 3) the same two checks for every block's op-list
// 4) every operand's use token round-trips through its def's use-list
// 5) every successor slot round-trips through its target's pred list
func CheckRegionInvariants(ctx *ir.Context, region ir.RegionID) error {
	if _, ok := ctx.TryRegion(region); !ok {
		return fmt.Errorf("region %d is not live", region)
	}

	forward := collectBlocks(ctx, region, false)
	backward := collectBlocks(ctx, region, true)
	if len(forward) != len(backward) {
		return fmt.Errorf("block traversals disagree: %d forward, %d backward", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			return fmt.Errorf("block order mismatch at %d: %v vs %v", i, forward[i], backward[len(backward)-1-i])
		}
	}

	for _, blockID := range forward {
		b := ctx.Block(blockID)
		if b.ParentRegion() != region {
			return fmt.Errorf("%v parent is %v, linked into %v", blockID, b.ParentRegion(), region)
		}
		if err := checkBlock(ctx, blockID); err != nil {
			return err
		}
	}
	return nil
}

func checkBlock(ctx *ir.Context, blockID ir.BlockID) error {
	forward := collectOps(ctx, blockID, false)
	backward := collectOps(ctx, blockID, true)
	if len(forward) != len(backward) {
		return fmt.Errorf("%v op traversals disagree: %d forward, %d backward", blockID, len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			return fmt.Errorf("%v op order mismatch at %d", blockID, i)
		}
	}

	for _, opID := range forward {
		op := ctx.Op(opID)
		if op.ParentBlock() != blockID {
			return fmt.Errorf("%v parent is %v, linked into %v", opID, op.ParentBlock(), blockID)
		}
		if err := checkUses(ctx, opID); err != nil {
			return err
		}
	}
	return nil
}

// checkUses verifies that every def-use edge is mirrored: the operand's
// token indexes an entry in the def's use-list that points back at the
// operand, and likewise for successor slots and pred lists.
func checkUses(ctx *ir.Context, opID ir.OpID) error {
	op := ctx.Op(opID)
	for i := 0; i < op.NumOperands(); i++ {
		def, _ := op.Operand(i)
		if !def.IsValid() {
			continue
		}
		found := false
		for _, ref := range def.Uses(ctx) {
			if ref.Op == opID && int(ref.OperandIdx) == i {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%v operand %d is not registered in its def's use-list", opID, i)
		}
	}
	for i := 0; i < op.NumSuccessors(); i++ {
		target, _ := op.Successor(i)
		if !target.IsValid() {
			continue
		}
		found := false
		for _, ref := range ctx.Block(target).Preds() {
			if ref.Op == opID && int(ref.SuccIdx) == i {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%v successor %d is not registered in %v's pred list", opID, i, target)
		}
	}
	return nil
}

func collectBlocks(ctx *ir.Context, region ir.RegionID, backward bool) []ir.BlockID {
	var out []ir.BlockID
	it := ctx.Region(region).Blocks(ctx)
	if backward {
		for b, ok := it.NextBack(); ok; b, ok = it.NextBack() {
			out = append(out, b)
		}
		return out
	}
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		out = append(out, b)
	}
	return out
}

func collectOps(ctx *ir.Context, block ir.BlockID, backward bool) []ir.OpID {
	var out []ir.OpID
	it := ctx.Block(block).Ops(ctx)
	if backward {
		for op, ok := it.NextBack(); ok; op, ok = it.NextBack() {
			out = append(out, op)
		}
		return out
	}
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		out = append(out, op)
	}
	return out
}
