package service

import "strings"

// DecodeSourceURL percent-decodes an escaped source URL. It never fails:
// malformed escapes are kept verbatim and invalid UTF-8 becomes U+FFFD.
func DecodeSourceURL(encoded string) string {
	if !strings.Contains(encoded, "%") {
		return strings.ToValidUTF8(encoded, "�")
	}

	var b strings.Builder
	b.Grow(len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c == '%' && i+2 < len(encoded) && isHex(encoded[i+1]) && isHex(encoded[i+2]) {
			b.WriteByte(unhex(encoded[i+1])<<4 | unhex(encoded[i+2]))
			i += 2
			continue
		}
		b.WriteByte(c)
	}
	return strings.ToValidUTF8(b.String(), "�")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
