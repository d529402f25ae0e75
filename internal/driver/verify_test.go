package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lattice/internal/attr"
	"lattice/internal/ir"
	"lattice/internal/snapshot"
	"lattice/internal/types"
)

// writeSnapshot saves a minimal module to dir, well-formed unless
// broken is set, and returns the file path.
func writeSnapshot(t *testing.T, dir, name string, broken bool) string {
	t.Helper()
	ctx := ir.NewContext()
	intTy := ctx.Types.Builtins().Int

	m := ir.NewModule()
	f := m.AddFunc(ctx, "main", intTy)
	entry := ir.NewBlock(ctx, "entry", nil)
	ir.InsertBlockAtBack(ctx, f.Region, entry)
	c := ir.NewOp(ctx, ir.OpConst, nil, []types.TypeID{intTy}, nil)
	if !broken {
		ctx.Op(c).SetAttr("value", attr.Int(7))
	}
	v, _ := ctx.Op(c).Result(0)
	ir.InsertOpAtBack(ctx, entry, c)
	ir.InsertOpAtBack(ctx, entry, ir.NewOp(ctx, ir.OpReturn, []ir.Value{v}, nil, nil))

	path := filepath.Join(dir, name)
	if err := snapshot.Save(path, ctx, m); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func TestVerifyFileOK(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "ok.lsnap", false)

	var stages []Stage
	res := VerifyFile(path, nil, SinkFunc(func(ev Event) {
		if ev.Status == StatusWorking {
			stages = append(stages, ev.Stage)
		}
	}))
	if res.Err != nil {
		t.Fatalf("verify failed: %v", res.Err)
	}
	if res.Cached {
		t.Fatalf("no cache was configured")
	}
	if res.Timing == nil || len(res.Timing.Phases) == 0 {
		t.Fatalf("timing report missing")
	}
	want := []Stage{StageLoad, StageBuild, StageVerify}
	if len(stages) != len(want) {
		t.Fatalf("stages %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stages %v", stages)
		}
	}
}

func TestVerifyFileReportsBrokenModule(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "broken.lsnap", true)

	res := VerifyFile(path, nil, nil)
	if res.Err == nil {
		t.Fatalf("broken module must fail verification")
	}
}

func TestVerifyFileMissingPath(t *testing.T) {
	res := VerifyFile(filepath.Join(t.TempDir(), "missing.lsnap"), nil, nil)
	if res.Err == nil {
		t.Fatalf("missing file must fail")
	}
}

func TestVerifyFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "ok.lsnap", false)
	cache, err := snapshot.NewDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	first := VerifyFile(path, cache, nil)
	if first.Err != nil || first.Cached {
		t.Fatalf("first run: err=%v cached=%v", first.Err, first.Cached)
	}
	second := VerifyFile(path, cache, nil)
	if second.Err != nil {
		t.Fatalf("second run: %v", second.Err)
	}
	if !second.Cached {
		t.Fatalf("second run must hit the cache")
	}
}

func TestVerifyFileCachesFailures(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "broken.lsnap", true)
	cache, err := snapshot.NewDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	first := VerifyFile(path, cache, nil)
	second := VerifyFile(path, cache, nil)
	if first.Err == nil || second.Err == nil {
		t.Fatalf("both runs must fail")
	}
	if !second.Cached {
		t.Fatalf("failure outcome must be cached too")
	}
}

func TestListSnapshotFiles(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "b.lsnap", false)
	writeSnapshot(t, dir, "a.lsnap", false)
	nested := filepath.Join(dir, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeSnapshot(t, nested, "c.lsnap", false)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	files, err := ListSnapshotFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files %v", files)
	}
	if filepath.Base(files[0]) != "a.lsnap" || filepath.Base(files[1]) != "b.lsnap" {
		t.Fatalf("not sorted: %v", files)
	}
}

func TestVerifyAll(t *testing.T) {
	dir := t.TempDir()
	ok := writeSnapshot(t, dir, "ok.lsnap", false)
	bad := writeSnapshot(t, dir, "broken.lsnap", true)

	results, err := VerifyAll(context.Background(), []string{ok, bad}, nil, 4, nil)
	if err != nil {
		t.Fatalf("verify all: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results %v", results)
	}
	// Result slots follow input order regardless of scheduling.
	if results[0].Path != ok || results[0].Err != nil {
		t.Fatalf("ok slot: %+v", results[0])
	}
	if results[1].Path != bad || results[1].Err == nil {
		t.Fatalf("broken slot: %+v", results[1])
	}
}

func TestVerifyAllEmptyInput(t *testing.T) {
	results, err := VerifyAll(context.Background(), nil, nil, 2, nil)
	if err != nil || results != nil {
		t.Fatalf("empty input: %v, %v", results, err)
	}
}

func TestVerifyAllCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "ok.lsnap", false)
	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := VerifyAll(cctx, []string{path}, nil, 1, nil); err == nil {
		t.Fatalf("cancelled context must surface an error")
	}
}
