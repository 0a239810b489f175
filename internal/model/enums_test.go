package model

import "testing"

func TestMotionTypes_Count(t *testing.T) {
	if len(MotionTypes) != 24 {
		t.Fatalf("期望 24 个辩题类别，实际=%d", len(MotionTypes))
	}
	seen := make(map[MotionType]bool)
	for _, m := range MotionTypes {
		if seen[m] {
			t.Errorf("辩题类别重复: %s", m)
		}
		seen[m] = true
	}
}

func TestFormatQuota(t *testing.T) {
	want := map[Format]int{"NA": 4, "BP": 8, "BP opening": 4, "AP": 6}
	for f, q := range want {
		got, ok := f.Quota()
		if !ok || got != q {
			t.Errorf("%s 期望每房 %d 人，实际=%d ok=%v", f, q, got, ok)
		}
	}
	if Format("WSDC").IsValid() {
		t.Error("未知赛制不应合法")
	}
}

func TestSlotOrder(t *testing.T) {
	if SlotWed1.Order() != 0 || SlotSun2.Order() != 4 {
		t.Error("场次顺序不符合周内顺序")
	}
	if Slot("Mon 1").IsValid() || Slot("Mon 1").Order() != -1 {
		t.Error("未知场次不应合法")
	}
}
