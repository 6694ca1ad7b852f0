package timer

import "testing"

type stubBus struct{ requested []uint8 }

func (s *stubBus) RequestInterrupt(bit uint8) { s.requested = append(s.requested, bit) }

func TestAnyWriteToDIVResetsItToZero(t *testing.T) {
	tm := New()
	tm.Write8(1, 0x10) // TIMA, unrelated
	tm.Write8(0, 0xFF) // any value written to DIV resets it
	if got := tm.Read8(0); got != 0 {
		t.Errorf("DIV = %#02x, want 0", got)
	}
}

func TestTACReadsWithUnusedBitsSet(t *testing.T) {
	tm := New()
	tm.Write8(3, 0x05)
	if got := tm.Read8(3); got != 0xFD {
		t.Errorf("TAC = %#02x, want 0xFD (0x05 with unused bits forced high)", got)
	}
}

func TestTACWriteMasksToThreeBits(t *testing.T) {
	tm := New()
	tm.Write8(3, 0xFF)
	if got := tm.Read8(3); got != 0xFF {
		t.Errorf("TAC = %#02x, want 0xFF", got)
	}
	if tm.tac != 0x07 {
		t.Errorf("stored TAC = %#02x, want 0x07 (masked to three bits)", tm.tac)
	}
}

func TestTIMAAndTMARoundTrip(t *testing.T) {
	tm := New()
	tm.Write8(1, 0x11)
	tm.Write8(2, 0x22)
	if got := tm.Read8(1); got != 0x11 {
		t.Errorf("TIMA = %#02x, want 0x11", got)
	}
	if got := tm.Read8(2); got != 0x22 {
		t.Errorf("TMA = %#02x, want 0x22", got)
	}
}

func TestRaiseOverflowRequestsTimerInterrupt(t *testing.T) {
	tm := New()
	bus := &stubBus{}
	tm.SetBus(bus)
	tm.RaiseOverflow()
	if len(bus.requested) != 1 || bus.requested[0] != 2 {
		t.Fatalf("requested = %v, want [2] (Timer interrupt)", bus.requested)
	}
}
