package diag

import "testing"

func mkDiag(fn string, block, op uint32, sev Severity, code Code) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  "m",
		Primary:  Locus{Func: fn, Block: block, Op: op},
	}
}

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(mkDiag("f", 1, 1, SevError, VerifyBadKind)) {
		t.Fatalf("first add rejected")
	}
	if !b.Add(mkDiag("f", 1, 2, SevError, VerifyBadKind)) {
		t.Fatalf("second add rejected")
	}
	if b.Add(mkDiag("f", 1, 3, SevError, VerifyBadKind)) {
		t.Fatalf("add over cap accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("len %d", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(mkDiag("f", 1, 1, SevInfo, VerifyBadKind))
	b.Add(mkDiag("f", 1, 2, SevWarning, VerifyBadKind))
	if b.HasErrors() {
		t.Fatalf("warnings must not count as errors")
	}
	b.Add(mkDiag("f", 1, 3, SevError, VerifyBadKind))
	if !b.HasErrors() {
		t.Fatalf("error not detected")
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(mkDiag("f", 1, 1, SevError, VerifyBadKind))
	other := NewBag(2)
	other.Add(mkDiag("f", 1, 2, SevError, VerifyBadKind))
	other.Add(mkDiag("f", 1, 3, SevError, VerifyBadKind))

	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("merged len %d", a.Len())
	}
	if a.Cap() < 3 {
		t.Fatalf("cap %d did not grow", a.Cap())
	}
}

func TestBagSortOrder(t *testing.T) {
	b := NewBag(8)
	b.Add(mkDiag("g", 1, 1, SevError, VerifyBadKind))
	b.Add(mkDiag("f", 2, 1, SevError, VerifyBadKind))
	b.Add(mkDiag("f", 1, 2, SevWarning, VerifyBadKind))
	b.Add(mkDiag("f", 1, 2, SevError, VerifyOperandCount))
	b.Add(mkDiag("f", 1, 1, SevError, VerifyBadKind))

	b.Sort()
	items := b.Items()

	if items[0].Primary != (Locus{Func: "f", Block: 1, Op: 1}) {
		t.Fatalf("first item at %+v", items[0].Primary)
	}
	// Same locus: higher severity first.
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("severity order: %v then %v", items[1].Severity, items[2].Severity)
	}
	if items[3].Primary.Block != 2 {
		t.Fatalf("block order: %+v", items[3].Primary)
	}
	if items[4].Primary.Func != "g" {
		t.Fatalf("func order: %+v", items[4].Primary)
	}
}
