package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lattice/internal/attr"
	"lattice/internal/ir"
	"lattice/internal/snapshot"
	"lattice/internal/types"
)

var demoOut string

func init() {
	demoCmd.Flags().StringVarP(&demoOut, "out", "o", "", "write a snapshot instead of dumping")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a sample IR module",
	Long:  `Demo builds a small module programmatically and dumps it, or saves it as a snapshot with -o`,
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx, mod := buildDemoModule()

	if err := ir.VerifyModule(ctx, mod); err != nil {
		return fmt.Errorf("demo module does not verify: %w", err)
	}

	if demoOut != "" {
		if err := snapshot.Save(demoOut, ctx, mod); err != nil {
			return err
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", demoOut)
		}
		return nil
	}
	return ir.DumpModule(os.Stdout, ctx, mod, ir.DumpOptions{})
}

// buildDemoModule constructs:
//
//	fn main -> int:
//	  entry():
//	    a = const [2]; b = const [40]; s = add a, b
//	    c = const [true]; condjump c -> left, right
//	  left():  return s
//	  right(): return s
func buildDemoModule() (*ir.Context, *ir.Module) {
	ctx := ir.NewContext()
	intTy := ctx.Types.Builtins().Int
	boolTy := ctx.Types.Builtins().Bool

	mod := ir.NewModule()
	f := mod.AddFunc(ctx, "main", intTy)

	entry := ir.NewBlock(ctx, "entry", nil)
	left := ir.NewBlock(ctx, "left", nil)
	right := ir.NewBlock(ctx, "right", nil)
	ir.InsertBlockAtBack(ctx, f.Region, entry)
	ir.InsertBlockAtBack(ctx, f.Region, left)
	ir.InsertBlockAtBack(ctx, f.Region, right)

	a := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{intTy}, nil)
	ctx.Op(a).SetAttr("value", attr.Int(2))
	b := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{intTy}, nil)
	ctx.Op(b).SetAttr("value", attr.Int(40))
	aVal, _ := ctx.Op(a).Result(0)
	bVal, _ := ctx.Op(b).Result(0)
	sum := ir.NewOp(ctx, ir.OpAdd, []ir.Value{aVal, bVal}, []types.TypeID{intTy}, nil)
	sumVal, _ := ctx.Op(sum).Result(0)
	cond := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{boolTy}, nil)
	ctx.Op(cond).SetAttr("value", attr.Bool(true))
	condVal, _ := ctx.Op(cond).Result(0)
	branch := ir.NewOp(ctx, ir.OpCondJump, []ir.Value{condVal}, nil, []ir.BlockID{left, right})

	for _, op := range []ir.OpID{a, b, sum, cond, branch} {
		ir.InsertOpAtBack(ctx, entry, op)
	}

	retL := ir.NewOp(ctx, ir.OpReturn, []ir.Value{sumVal}, nil, nil)
	ir.InsertOpAtBack(ctx, left, retL)
	retR := ir.NewOp(ctx, ir.OpReturn, []ir.Value{sumVal}, nil, nil)
	ir.InsertOpAtBack(ctx, right, retR)

	return ctx, mod
}
