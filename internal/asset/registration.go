package asset

import (
	"fmt"
	"strconv"
)

// appendToken writes one `</app.name/instanceID>` registration token,
// comma-separated from what precedes it.
func appendToken(dst []byte, n int, a *Asset, instanceID int, first bool) (int, error) {
	tok := ""
	if !first {
		tok = ","
	}
	tok += "</" + a.app + "." + a.name + "/" + strconv.Itoa(instanceID) + ">"
	if n+len(tok) > len(dst) {
		return n, fmt.Errorf("registration list needs %d bytes: %w", n+len(tok), ErrOverflow)
	}
	copy(dst[n:], tok)
	return n + len(tok), nil
}

// InstanceList writes the registration payload listing every instance of
// every asset as comma-separated `</app.name/instanceID>` tokens. Returns
// the number of bytes written, or ErrOverflow if dst is too small.
func (r *Registry) InstanceList(dst []byte) (int, error) {
	n := 0
	first := true
	for _, a := range r.Assets() {
		for _, inst := range a.instances {
			var err error
			n, err = appendToken(dst, n, a, inst.id, first)
			if err != nil {
				return 0, err
			}
			first = false
		}
	}
	return n, nil
}

// SoftwareInstanceList writes the registration tokens for the
// software-management object only. The software list must never be
// empty: zero instances (or an absent asset) is ErrNotFound.
func (r *Registry) SoftwareInstanceList(dst []byte) (int, error) {
	a, ok := r.LookupByID(BuiltinApp, SoftwareObjectID)
	if !ok || len(a.instances) == 0 {
		return 0, fmt.Errorf("software-management object has no instances: %w", ErrNotFound)
	}
	n := 0
	for k, inst := range a.instances {
		var err error
		n, err = appendToken(dst, n, a, inst.id, k == 0)
		if err != nil {
			return 0, err
		}
	}
	return n, nil
}
