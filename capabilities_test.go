package telnet

import "testing"

func TestCapabilityStoreMonotoneBits(t *testing.T) {
	s := newCapabilityStore()

	s.Apply(CapabilityDelta{NAWS: Bool(true)})
	s.Apply(CapabilityDelta{NAWS: Bool(false)})

	if !s.Snapshot().NAWS {
		t.Fatalf("NAWS should remain true once set, monotone bits never clear")
	}
}

func TestCapabilityStoreMCCP2EnabledToggles(t *testing.T) {
	s := newCapabilityStore()

	s.Apply(CapabilityDelta{MCCP2Enabled: Bool(true)})
	if !s.Snapshot().MCCP2Enabled {
		t.Fatalf("expected MCCP2Enabled true")
	}

	s.Apply(CapabilityDelta{MCCP2Enabled: Bool(false)})
	if s.Snapshot().MCCP2Enabled {
		t.Fatalf("MCCP2Enabled must be free to toggle back to false")
	}
}

func TestCapabilityStoreRaiseColorOnlyIncreases(t *testing.T) {
	s := newCapabilityStore()

	s.RaiseColor(ColorEightBit)
	if s.Color() != ColorEightBit {
		t.Fatalf("color = %v, want EIGHT_BIT", s.Color())
	}

	s.RaiseColor(ColorStandard)
	if s.Color() != ColorEightBit {
		t.Fatalf("color should not drop back to STANDARD, got %v", s.Color())
	}

	s.RaiseColor(ColorTrueColor)
	if s.Color() != ColorTrueColor {
		t.Fatalf("color = %v, want TRUECOLOR", s.Color())
	}
}

func TestCapabilityStoreFieldAssignment(t *testing.T) {
	s := newCapabilityStore()

	s.Apply(CapabilityDelta{
		Width:      U16(80),
		Height:     U16(24),
		ClientName: Str("Mudlet"),
	})

	got := s.Snapshot()
	if got.Width != 80 || got.Height != 24 || got.ClientName != "Mudlet" {
		t.Fatalf("got %+v", got)
	}
}
