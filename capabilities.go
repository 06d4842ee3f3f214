package telnet

import "sync"

// Bool, Str, U16, and ColorP are small pointer-constructing helpers for
// building a CapabilityDelta inline, the way option handlers do.
func Bool(v bool) *bool       { return &v }
func Str(v string) *string    { return &v }
func U16(v uint16) *uint16    { return &v }
func ColorP(v Color) *Color   { return &v }

// Color is the color depth ceiling a session has negotiated, per spec
// §3/§4.D's MTTS color-raising rules.
type Color byte

const (
	ColorNone Color = iota
	ColorStandard
	ColorEightBit
	ColorTrueColor
)

func (c Color) String() string {
	switch c {
	case ColorStandard:
		return "STANDARD"
	case ColorEightBit:
		return "EIGHT_BIT"
	case ColorTrueColor:
		return "TRUECOLOR"
	default:
		return "NONE"
	}
}

// Capabilities is the live, read-only view of a connection's negotiated
// properties (spec §3). Option handlers never hand out pointers into a
// live Capabilities value — they submit a CapabilityDelta through
// Connection.ChangeCapabilities, or raise the color ceiling through
// Connection.RaiseColor; these are the only mutators.
type Capabilities struct {
	Encryption       bool
	EncryptionClient bool
	SessionName      string
	HostAddress      string
	HostPort         int
	HostNames        []string

	Color Color

	NAWS  bool
	MTTS  bool
	MSSP  bool
	MCCP2 bool
	MCCP3 bool
	GMCP  bool
	MNES  bool
	MSLP  bool

	MCCP2Enabled bool
	MCCP3Enabled bool

	Width    uint16
	Height   uint16
	Encoding string

	ClientName    string
	ClientVersion string

	VT100          bool
	Proxy          bool
	ScreenReader   bool
	MouseTracking  bool
	OSCColorPalette bool
}

// CapabilityDelta carries an update to a subset of Capabilities fields.
// Every field is a pointer; nil means "leave unchanged". Feature bits
// (NAWS, MTTS, MSSP, MCCP2, MCCP3, GMCP, MNES, MSLP, VT100, Proxy,
// ScreenReader, MouseTracking, OSCColorPalette) are monotone — once true,
// ChangeCapabilities never allows a caller to set them back to false.
// MCCP2Enabled/MCCP3Enabled are exempt: they track live compression
// stream state and toggle freely.
type CapabilityDelta struct {
	Encryption       *bool
	EncryptionClient *bool
	SessionName      *string
	HostAddress      *string
	HostPort         *int
	HostNames        []string

	Color *Color

	NAWS  *bool
	MTTS  *bool
	MSSP  *bool
	MCCP2 *bool
	MCCP3 *bool
	GMCP  *bool
	MNES  *bool
	MSLP  *bool

	MCCP2Enabled *bool
	MCCP3Enabled *bool

	Width    *uint16
	Height   *uint16
	Encoding *string

	ClientName    *string
	ClientVersion *string

	VT100           *bool
	Proxy           *bool
	ScreenReader    *bool
	MouseTracking   *bool
	OSCColorPalette *bool
}

// capabilityStore owns the live Capabilities record under a mutex and, when
// its onChange callback is set, invokes it after every applied delta.
// Connection fires the CapabilityChange hooks itself and leaves onChange
// unset.
type capabilityStore struct {
	mu     sync.RWMutex
	caps   Capabilities
	onChange func(Capabilities, CapabilityDelta)
}

func newCapabilityStore() *capabilityStore {
	return &capabilityStore{}
}

// Snapshot returns a copy of the current capability record.
func (s *capabilityStore) Snapshot() Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps
}

// Apply merges delta into the live record, enforcing the monotone-bit
// invariant, and invokes the change callback (if any) with the resulting
// snapshot and the delta actually requested.
func (s *capabilityStore) Apply(delta CapabilityDelta) Capabilities {
	s.mu.Lock()
	applyBoolMonotone(&s.caps.NAWS, delta.NAWS)
	applyBoolMonotone(&s.caps.MTTS, delta.MTTS)
	applyBoolMonotone(&s.caps.MSSP, delta.MSSP)
	applyBoolMonotone(&s.caps.MCCP2, delta.MCCP2)
	applyBoolMonotone(&s.caps.MCCP3, delta.MCCP3)
	applyBoolMonotone(&s.caps.GMCP, delta.GMCP)
	applyBoolMonotone(&s.caps.MNES, delta.MNES)
	applyBoolMonotone(&s.caps.MSLP, delta.MSLP)
	applyBoolMonotone(&s.caps.VT100, delta.VT100)
	applyBoolMonotone(&s.caps.Proxy, delta.Proxy)
	applyBoolMonotone(&s.caps.ScreenReader, delta.ScreenReader)
	applyBoolMonotone(&s.caps.MouseTracking, delta.MouseTracking)
	applyBoolMonotone(&s.caps.OSCColorPalette, delta.OSCColorPalette)

	if delta.MCCP2Enabled != nil {
		s.caps.MCCP2Enabled = *delta.MCCP2Enabled
	}
	if delta.MCCP3Enabled != nil {
		s.caps.MCCP3Enabled = *delta.MCCP3Enabled
	}
	if delta.Encryption != nil {
		s.caps.Encryption = *delta.Encryption
	}
	if delta.EncryptionClient != nil {
		s.caps.EncryptionClient = *delta.EncryptionClient
	}
	if delta.SessionName != nil {
		s.caps.SessionName = *delta.SessionName
	}
	if delta.HostAddress != nil {
		s.caps.HostAddress = *delta.HostAddress
	}
	if delta.HostPort != nil {
		s.caps.HostPort = *delta.HostPort
	}
	if delta.HostNames != nil {
		s.caps.HostNames = delta.HostNames
	}
	if delta.Color != nil {
		s.caps.Color = *delta.Color
	}
	if delta.Width != nil {
		s.caps.Width = *delta.Width
	}
	if delta.Height != nil {
		s.caps.Height = *delta.Height
	}
	if delta.Encoding != nil {
		s.caps.Encoding = *delta.Encoding
	}
	if delta.ClientName != nil {
		s.caps.ClientName = *delta.ClientName
	}
	if delta.ClientVersion != nil {
		s.caps.ClientVersion = *delta.ClientVersion
	}

	snapshot := s.caps
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(snapshot, delta)
	}
	return snapshot
}

func applyBoolMonotone(field *bool, v *bool) {
	if v != nil && *v {
		*field = true
	}
}

// RaiseColor sets the color capability only if newColor outranks the
// current value, per spec §4.D's "only update if computed value differs"
// rule for MTTS.
func (s *capabilityStore) RaiseColor(newColor Color) {
	s.mu.Lock()
	if newColor > s.caps.Color {
		s.caps.Color = newColor
	}
	s.mu.Unlock()
}

func (s *capabilityStore) Color() Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps.Color
}
