package pricing

import "strings"

// KVIType is the price-sensitivity band of a product, from most to least sensitive.
type KVIType string

const (
	KVITypeSKVI       KVIType = "SKVI"
	KVITypeKVI        KVIType = "KVI"
	KVITypeForeground KVIType = "Foreground"
	KVITypeBackground KVIType = "Background"
)

// KVITypes lists the bands from most to least price sensitive.
func KVITypes() []KVIType {
	return []KVIType{KVITypeSKVI, KVITypeKVI, KVITypeForeground, KVITypeBackground}
}

// KVIBand maps a numeric KVI label (0-100) to its band.
func KVIBand(label float64) KVIType {
	switch {
	case label >= 95:
		return KVITypeSKVI
	case label >= 90:
		return KVITypeKVI
	case label >= 50:
		return KVITypeForeground
	default:
		return KVITypeBackground
	}
}

// ParseKVIType resolves a band name case-insensitively.
func ParseKVIType(s string) (KVIType, error) {
	for _, t := range KVITypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", ErrInvalidInput{Field: "kviType", Reason: "unknown KVI type " + s}
}
