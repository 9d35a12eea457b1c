package ids

import "testing"

func TestRangeContains(t *testing.T) {
	r := NewRange(10, 4, 12, 2)

	cases := []struct {
		line uint32
		col  uint16
		want bool
	}{
		{9, 0, false},
		{13, 0, false},
		{10, 3, false},
		{10, 4, true},
		{11, 0, true},
		{12, 2, true},
		{12, 3, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.line, c.col); got != c.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", c.line, c.col, got, c.want)
		}
	}
}

func TestSymbolKindRoundTrip(t *testing.T) {
	for k := KindFunction; k <= KindExternalType; k++ {
		name := k.String()
		if got := ParseSymbolKind(name); got != k {
			t.Errorf("ParseSymbolKind(%q) = %v, want %v", name, got, k)
		}
	}
}

func TestParseSymbolKindUnknownFallsBackToFunction(t *testing.T) {
	if got := ParseSymbolKind("NotARealKind"); got != KindFunction {
		t.Errorf("got %v, want KindFunction", got)
	}
}

func TestSymbolKindTextMarshaling(t *testing.T) {
	b, err := KindInterface.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Interface" {
		t.Errorf("got %q", b)
	}

	var k SymbolKind
	if err := k.UnmarshalText([]byte(" Class ")); err != nil {
		t.Fatal(err)
	}
	if k != KindClass {
		t.Errorf("got %v, want KindClass", k)
	}
}

func TestSymbolCounterSequence(t *testing.T) {
	c := NewSymbolCounter()
	if got := c.Next(); got != SymbolId(1) {
		t.Errorf("first id = %v, want 1", got)
	}
	if got := c.Next(); got != SymbolId(2) {
		t.Errorf("second id = %v, want 2", got)
	}

	c.Reset()
	if got := c.Next(); got != SymbolId(1) {
		t.Errorf("after Reset id = %v, want 1", got)
	}
}

func TestSymbolCounterReserveIsDisjoint(t *testing.T) {
	c := NewSymbolCounter()

	first := c.Reserve(100)
	second := c.Reserve(100)

	if first != SymbolId(1) {
		t.Errorf("first block start = %v, want 1", first)
	}
	if second != SymbolId(101) {
		t.Errorf("second block start = %v, want 101", second)
	}
	if c.Value() != 201 {
		t.Errorf("counter value = %v, want 201", c.Value())
	}
}

func TestFromValueZeroResumesAtOne(t *testing.T) {
	c := FromValue(0)
	if got := c.Next(); got != SymbolId(1) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestIsZero(t *testing.T) {
	if !SymbolId(0).IsZero() {
		t.Error("SymbolId(0) should be zero")
	}
	if SymbolId(1).IsZero() {
		t.Error("SymbolId(1) should not be zero")
	}
	if !FileId(0).IsZero() {
		t.Error("FileId(0) should be zero")
	}
}
