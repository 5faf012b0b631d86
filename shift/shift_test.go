package shift

import "testing"

// fakePin records its level; the fake register below watches the clock
// for rising edges and samples the data line, like a real SIPO part.
type fakePin struct {
	high   bool
	onHigh func()
}

func (p *fakePin) SetHigh() {
	was := p.high
	p.high = true
	if !was && p.onHigh != nil {
		p.onHigh()
	}
}

func (p *fakePin) SetLow() { p.high = false }

func TestShiftOutLSBFirst(t *testing.T) {
	data := &fakePin{}
	latch := &fakePin{}
	clock := &fakePin{}

	var bits []byte
	clock.onHigh = func() {
		var b byte
		if data.high {
			b = 1
		}
		bits = append(bits, b)
	}

	r := New(data, latch, clock)
	r.ShiftOut(0xB1, LSBFirst) // 1011_0001

	want := []byte{1, 0, 0, 0, 1, 1, 0, 1} // bit 0 first
	if len(bits) != len(want) {
		t.Fatalf("clocked %d bits, want %d", len(bits), len(want))
	}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d: got %d want %d (stream %v)", i, bits[i], want[i], bits)
		}
	}
}

func TestShiftOutMSBFirst(t *testing.T) {
	data := &fakePin{}
	latch := &fakePin{}
	clock := &fakePin{}

	var bits []byte
	clock.onHigh = func() {
		var b byte
		if data.high {
			b = 1
		}
		bits = append(bits, b)
	}

	r := New(data, latch, clock)
	r.ShiftOut(0xB1, MSBFirst)

	want := []byte{1, 0, 1, 1, 0, 0, 0, 1}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d: got %d want %d (stream %v)", i, bits[i], want[i], bits)
		}
	}
}

func TestLatchLines(t *testing.T) {
	data := &fakePin{}
	latch := &fakePin{high: true}
	clock := &fakePin{}

	r := New(data, latch, clock)
	r.LatchLow()
	if latch.high {
		t.Fatal("latch still high after LatchLow")
	}
	r.LatchHigh()
	if !latch.high {
		t.Fatal("latch still low after LatchHigh")
	}
}
