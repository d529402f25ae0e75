// Package snapshot serializes IR modules to disk. Handles are never
// written out; references are rewritten to traversal ordinals so a
// snapshot is stable across contexts.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"lattice/internal/attr"
	"lattice/internal/diag"
	"lattice/internal/ir"
	"lattice/internal/types"
)

// DecodeError is a structured snapshot failure: a schema mismatch or a
// reference that does not resolve within the payload.
type DecodeError struct {
	Diag diag.Diagnostic
}

func (e *DecodeError) Error() string { return e.Diag.Message }

func snapErr(code diag.Code, format string, args ...any) error {
	return &DecodeError{Diag: diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}}
}

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest identifies snapshot content.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Payload is the on-disk shape of a module.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Funcs []FuncPayload
}

type FuncPayload struct {
	Name   string
	Result TypePayload
	Blocks []BlockPayload
}

type BlockPayload struct {
	Label    string
	ArgTypes []TypePayload
	Ops      []OpPayload
	Attrs    map[string]AttrPayload
}

type OpPayload struct {
	Kind        uint8
	Operands    []ValuePayload
	ResultTypes []TypePayload
	// Succs are block ordinals within the function.
	Succs []uint32
	Attrs map[string]AttrPayload
}

// ValuePayload references a definition by traversal ordinals: Op is the
// function-wide flat op ordinal for results, Block the block ordinal
// for arguments.
type ValuePayload struct {
	Kind  uint8
	Block uint32
	Op    uint32
	Index uint32
}

type TypePayload struct {
	Kind  uint8
	Width uint8
}

type AttrPayload struct {
	Kind uint8
	Int  int64
	Bool bool
	Str  string
	Type TypePayload
}

// Encode flattens a module into a Payload.
func Encode(ctx *ir.Context, m *ir.Module) (*Payload, error) {
	p := &Payload{Schema: schemaVersion}
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		fp, err := encodeFunc(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Name, err)
		}
		p.Funcs = append(p.Funcs, fp)
	}
	return p, nil
}

func encodeFunc(ctx *ir.Context, f *ir.Func) (FuncPayload, error) {
	fp := FuncPayload{
		Name:   f.Name,
		Result: encodeType(ctx, f.Result),
	}

	// Ordinal maps for reference rewriting.
	blockOrd := make(map[ir.BlockID]uint32)
	opOrd := make(map[ir.OpID]uint32)
	var blocks []ir.BlockID
	it := ctx.Region(f.Region).Blocks(ctx)
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		blockOrd[b] = uint32(len(blocks))
		blocks = append(blocks, b)
		opIt := ctx.Block(b).Ops(ctx)
		for op, ok := opIt.Next(); ok; op, ok = opIt.Next() {
			opOrd[op] = uint32(len(opOrd))
		}
	}

	for _, b := range blocks {
		bp := BlockPayload{Label: ctx.Block(b).Label()}
		for i := 0; i < ctx.Block(b).NumArgs(); i++ {
			a, _ := ctx.Block(b).ArgRef(i)
			bp.ArgTypes = append(bp.ArgTypes, encodeType(ctx, a.Type()))
		}
		for key, v := range ctx.Block(b).Attrs() {
			if bp.Attrs == nil {
				bp.Attrs = make(map[string]AttrPayload)
			}
			bp.Attrs[key] = encodeAttr(ctx, v)
		}
		opIt := ctx.Block(b).Ops(ctx)
		for opID, ok := opIt.Next(); ok; opID, ok = opIt.Next() {
			op, err := encodeOp(ctx, opID, blockOrd, opOrd)
			if err != nil {
				return fp, err
			}
			bp.Ops = append(bp.Ops, op)
		}
		fp.Blocks = append(fp.Blocks, bp)
	}
	return fp, nil
}

func encodeOp(ctx *ir.Context, id ir.OpID, blockOrd map[ir.BlockID]uint32, opOrd map[ir.OpID]uint32) (OpPayload, error) {
	op := ctx.Op(id)
	p := OpPayload{Kind: uint8(op.Kind())}
	for i := 0; i < op.NumOperands(); i++ {
		def, _ := op.Operand(i)
		vp, err := encodeValue(def, blockOrd, opOrd)
		if err != nil {
			return p, fmt.Errorf("op %v operand %d: %w", id, i, err)
		}
		p.Operands = append(p.Operands, vp)
	}
	for i := 0; i < op.NumResults(); i++ {
		ty, _ := op.ResultType(i)
		p.ResultTypes = append(p.ResultTypes, encodeType(ctx, ty))
	}
	for i := 0; i < op.NumSuccessors(); i++ {
		target, _ := op.Successor(i)
		ord, ok := blockOrd[target]
		if !ok {
			return p, fmt.Errorf("op %v successor %d targets a block outside the function", id, i)
		}
		p.Succs = append(p.Succs, ord)
	}
	for key, v := range op.Attrs() {
		if p.Attrs == nil {
			p.Attrs = make(map[string]AttrPayload)
		}
		p.Attrs[key] = encodeAttr(ctx, v)
	}
	return p, nil
}

func encodeValue(v ir.Value, blockOrd map[ir.BlockID]uint32, opOrd map[ir.OpID]uint32) (ValuePayload, error) {
	switch v.Kind {
	case ir.ValueOpResult:
		ord, ok := opOrd[v.Op]
		if !ok {
			return ValuePayload{}, fmt.Errorf("reference to op outside the function")
		}
		return ValuePayload{Kind: uint8(v.Kind), Op: ord, Index: v.Index}, nil
	case ir.ValueBlockArg:
		ord, ok := blockOrd[v.Block]
		if !ok {
			return ValuePayload{}, fmt.Errorf("reference to block outside the function")
		}
		return ValuePayload{Kind: uint8(v.Kind), Block: ord, Index: v.Index}, nil
	}
	return ValuePayload{}, fmt.Errorf("dangling operand")
}

func encodeType(ctx *ir.Context, id types.TypeID) TypePayload {
	t, ok := ctx.Types.Lookup(id)
	if !ok {
		return TypePayload{}
	}
	return TypePayload{Kind: uint8(t.Kind), Width: uint8(t.Width)}
}

func encodeAttr(ctx *ir.Context, v attr.Value) AttrPayload {
	p := AttrPayload{Kind: uint8(v.Kind)}
	switch v.Kind {
	case attr.KindInt:
		p.Int, _ = v.AsInt()
	case attr.KindBool:
		p.Bool, _ = v.AsBool()
	case attr.KindString:
		p.Str, _ = v.AsString()
	case attr.KindType:
		// Type attrs are stored by descriptor, not by id.
		id, _ := v.AsType()
		p.Type = encodeType(ctx, id)
	}
	return p
}

// Build reconstructs a module from a payload inside a fresh Context.
// Operands may reference ops created later in the traversal, so ops are
// created first and wired in a second pass.
func Build(p *Payload) (*ir.Context, *ir.Module, error) {
	if p.Schema != schemaVersion {
		return nil, nil, snapErr(diag.SnapBadSchema, "snapshot schema %d, want %d", p.Schema, schemaVersion)
	}
	ctx := ir.NewContext()
	m := ir.NewModule()
	for fi := range p.Funcs {
		if err := buildFunc(ctx, m, &p.Funcs[fi]); err != nil {
			return nil, nil, fmt.Errorf("function %s: %w", p.Funcs[fi].Name, err)
		}
	}
	return ctx, m, nil
}

func buildFunc(ctx *ir.Context, m *ir.Module, fp *FuncPayload) error {
	f := m.AddFunc(ctx, fp.Name, decodeType(ctx, fp.Result))

	blocks := make([]ir.BlockID, len(fp.Blocks))
	for i := range fp.Blocks {
		var argTypes []types.TypeID
		for _, tp := range fp.Blocks[i].ArgTypes {
			argTypes = append(argTypes, decodeType(ctx, tp))
		}
		blocks[i] = ir.NewBlock(ctx, fp.Blocks[i].Label, argTypes)
		for key, ap := range fp.Blocks[i].Attrs {
			ctx.Block(blocks[i]).SetAttr(key, decodeAttr(ctx, ap))
		}
		ir.InsertBlockAtBack(ctx, f.Region, blocks[i])
	}

	// Pass 1: create and link the ops.
	var ops []ir.OpID
	for bi := range fp.Blocks {
		for oi := range fp.Blocks[bi].Ops {
			op := &fp.Blocks[bi].Ops[oi]
			var resultTypes []types.TypeID
			for _, tp := range op.ResultTypes {
				resultTypes = append(resultTypes, decodeType(ctx, tp))
			}
			id := ir.NewOp(ctx, ir.OpKind(op.Kind), nil, resultTypes, nil)
			for key, ap := range op.Attrs {
				ctx.Op(id).SetAttr(key, decodeAttr(ctx, ap))
			}
			ir.InsertOpAtBack(ctx, blocks[bi], id)
			ops = append(ops, id)
		}
	}

	// Pass 2: wire operands and successors through the ordinal maps.
	flat := 0
	for bi := range fp.Blocks {
		for oi := range fp.Blocks[bi].Ops {
			op := &fp.Blocks[bi].Ops[oi]
			id := ops[flat]
			flat++
			var operands []ir.Value
			for i, vp := range op.Operands {
				v, err := decodeValue(vp, blocks, ops)
				if err != nil {
					return fmt.Errorf("op %d operand %d: %w", flat-1, i, err)
				}
				operands = append(operands, v)
			}
			if len(operands) > 0 {
				ctx.Op(id).SetOperands(ctx, operands)
			}
			var succs []ir.BlockID
			for i, ord := range op.Succs {
				if int(ord) >= len(blocks) {
					return fmt.Errorf("op %d successor %d: %w", flat-1, i,
						snapErr(diag.SnapBadRef, "block ordinal %d out of range", ord))
				}
				succs = append(succs, blocks[ord])
			}
			if len(succs) > 0 {
				ctx.Op(id).SetSuccessors(ctx, succs)
			}
		}
	}
	return nil
}

func decodeValue(vp ValuePayload, blocks []ir.BlockID, ops []ir.OpID) (ir.Value, error) {
	switch ir.ValueKind(vp.Kind) {
	case ir.ValueOpResult:
		if int(vp.Op) >= len(ops) {
			return ir.Value{}, snapErr(diag.SnapBadRef, "op ordinal %d out of range", vp.Op)
		}
		return ir.OpResult(ops[vp.Op], vp.Index), nil
	case ir.ValueBlockArg:
		if int(vp.Block) >= len(blocks) {
			return ir.Value{}, snapErr(diag.SnapBadRef, "block ordinal %d out of range", vp.Block)
		}
		return ir.BlockArg(blocks[vp.Block], vp.Index), nil
	}
	return ir.Value{}, snapErr(diag.SnapBadRef, "invalid value kind %d", vp.Kind)
}

func decodeType(ctx *ir.Context, tp TypePayload) types.TypeID {
	return ctx.Types.Intern(types.Type{Kind: types.Kind(tp.Kind), Width: types.Width(tp.Width)})
}

func decodeAttr(ctx *ir.Context, ap AttrPayload) attr.Value {
	switch attr.Kind(ap.Kind) {
	case attr.KindInt:
		return attr.Int(ap.Int)
	case attr.KindBool:
		return attr.Bool(ap.Bool)
	case attr.KindString:
		return attr.String(ap.Str)
	case attr.KindType:
		return attr.Type(ctx.Types.Intern(types.Type{Kind: types.Kind(ap.Type.Kind), Width: types.Width(ap.Type.Width)}))
	}
	return attr.Value{}
}

// Marshal encodes a payload and returns the bytes with their digest.
func Marshal(p *Payload) ([]byte, Digest, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, sha256.Sum256(data), nil
}

// Unmarshal decodes payload bytes, checking the schema version.
func Unmarshal(data []byte) (*Payload, error) {
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, snapErr(diag.SnapBadSchema, "snapshot schema %d, want %d", p.Schema, schemaVersion)
	}
	return &p, nil
}

// Save writes a module snapshot to path.
func Save(path string, ctx *ir.Context, m *ir.Module) error {
	p, err := Encode(ctx, m)
	if err != nil {
		return err
	}
	data, _, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadFile reads and decodes a snapshot file, returning the payload and
// the content digest.
func LoadFile(path string) (*Payload, Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("read snapshot: %w", err)
	}
	p, err := Unmarshal(data)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, sha256.Sum256(data), nil
}
