package buffer

import "testing"

func TestNewAndResize(t *testing.T) {
	b := New(4)
	if b.Len() != 4 {
		t.Fatalf("Len mismatch: got=%d want=4", b.Len())
	}

	b.Samples()[2] = 1.5
	b.Resize(8)
	if b.Len() != 8 {
		t.Fatalf("Resize length mismatch: got=%d", b.Len())
	}
	if b.Samples()[2] != 1.5 {
		t.Fatal("Resize must preserve existing data")
	}
	for i := 4; i < 8; i++ {
		if b.Samples()[i] != 0 {
			t.Fatalf("grown region must be zero at %d", i)
		}
	}

	b.Resize(-1)
	if b.Len() != 0 {
		t.Fatal("negative resize must clamp to zero")
	}
}

func TestFromSliceShares(t *testing.T) {
	s := []float64{1, 2, 3}
	b := FromSlice(s)
	b.Samples()[0] = 9
	if s[0] != 9 {
		t.Fatal("FromSlice must share backing storage")
	}

	c := b.Copy()
	c.Samples()[1] = 7
	if s[1] != 2 {
		t.Fatal("Copy must not share backing storage")
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewPool()

	b := p.Get(16)
	if b.Len() != 16 {
		t.Fatalf("pool buffer length mismatch: %d", b.Len())
	}
	b.Samples()[0] = 3
	p.Put(b)

	c := p.Get(16)
	if c.Samples()[0] != 0 {
		t.Fatal("pooled buffer must be zeroed on Get")
	}
	p.Put(c)
	p.Put(nil)
}
