package idgen

import (
	"strings"
	"testing"
)

func TestNextIDUnique(t *testing.T) {
	Init(1)

	seen := make(map[int64]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := NextID()
		if seen[id] {
			t.Fatalf("ID 重复: %d", id)
		}
		seen[id] = true
	}
}

func TestNextIDMonotonic(t *testing.T) {
	Init(1)

	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		if id <= prev {
			t.Fatalf("ID 应趋势递增: prev=%d, cur=%d", prev, id)
		}
		prev = id
	}
}

func TestGenerateTransactionNo(t *testing.T) {
	Init(1)

	no := GenerateTransactionNo()
	if !strings.HasPrefix(no, "TXN") {
		t.Fatalf("流水号应以 TXN 开头: %s", no)
	}
	// TXN + 14位时间 + 8位序号
	if len(no) != 25 {
		t.Fatalf("流水号长度应为 25: %s (len=%d)", no, len(no))
	}

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		n := GenerateTransactionNo()
		if seen[n] {
			t.Fatalf("流水号重复: %s", n)
		}
		seen[n] = true
	}
}
