package domain

// PairingInfo is the connection-info contract a registered payload must
// satisfy. The registry itself stores the raw blob opaquely; this struct is
// only used for validation at the HTTP boundary.
type PairingInfo struct {
	DeviceID  string  `json:"device_id"`
	PublicKey string  `json:"public_key"`
	RelayURL  string  `json:"relay_url"`
	Expires   float64 `json:"expires"` // numeric expiry hint, passed through
}

// MissingField returns the name of the first required field that is absent,
// or "" if the payload satisfies the contract.
func (p *PairingInfo) MissingField() string {
	switch {
	case p.DeviceID == "":
		return "device_id"
	case p.PublicKey == "":
		return "public_key"
	case p.RelayURL == "":
		return "relay_url"
	case p.Expires <= 0:
		return "expires"
	}
	return ""
}
