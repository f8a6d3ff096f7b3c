package domain

import "strings"

// Payload holds the raw key/value data of a submission, keyed by field
// handle. Multi-value fields keep every submitted value.
type Payload map[string][]string

// Control keys carried by the posting markup itself. They steer the
// pipeline and must never reach storage or templates.
var controlKeys = map[string]struct{}{
	"action":               {},
	"formredirect":         {},
	"formhandle":           {},
	"g-recaptcha-response": {},
}

// Get returns the first submitted value for handle, or "".
func (p Payload) Get(handle string) string {
	values := p[handle]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// StripControlKeys returns a copy of the payload without the pipeline's
// control keys. The comparison is case-insensitive.
func (p Payload) StripControlKeys() Payload {
	filtered := make(Payload, len(p))
	for key, values := range p {
		if _, ok := controlKeys[strings.ToLower(key)]; ok {
			continue
		}
		filtered[key] = append([]string(nil), values...)
	}
	return filtered
}

// IsControlKey reports whether key is one of the pipeline's control keys.
func IsControlKey(key string) bool {
	_, ok := controlKeys[strings.ToLower(key)]
	return ok
}
