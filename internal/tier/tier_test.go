package tier

import "testing"

func TestLookupKnown(t *testing.T) {
	tr, ok := Lookup("bronze")
	if !ok {
		t.Fatal("expected bronze tier to exist")
	}
	if tr.DepositCents != 100 || tr.BaseCents != 100 {
		t.Fatalf("unexpected bronze tier: %+v", tr)
	}
}

func TestLookupAbsent(t *testing.T) {
	if _, ok := Lookup("platinum"); ok {
		t.Fatal("expected lookup miss for unknown tier")
	}
}

func TestCapturePercents(t *testing.T) {
	cases := []struct {
		kind PieceKind
		want int64
	}{
		{King, 100},
		{Queen, 90},
		{Rook, 80},
		{Bishop, 70},
		{Knight, 70},
		{Pawn, 20},
		{PieceKind("duck"), 0},
	}
	for _, c := range cases {
		if got := CapturePercent(c.kind); got != c.want {
			t.Fatalf("CapturePercent(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestArmyPercentSum(t *testing.T) {
	// 8*20 + 2*80 + 2*70 + 2*70 + 90 + 100
	if got := ArmyPercentSum(); got != 790 {
		t.Fatalf("ArmyPercentSum() = %d, want 790", got)
	}
}
