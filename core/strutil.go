package core

// parseUint parses a decimal field no larger than max.
// This is a lightweight alternative to strconv for the config record.
func parseUint(s string, max uint32) (uint32, bool) {
	if len(s) == 0 {
		return 0, false
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint32(c - '0')
		if n > (max-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// trimRecord strips trailing NULs and whitespace left over from a fixed-size read
func trimRecord(s string) string {
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c != 0 && c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			break
		}
		end--
	}
	start := 0
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	return s[start:end]
}
