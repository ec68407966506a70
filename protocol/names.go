package protocol

// FileName returns the log file name for sequence number n, e.g. LOG00042.BFL.
// ok is false when n does not fit in LogDigits digits.
func FileName(n uint32) (name string, ok bool) {
	if n > MaxFileNumber {
		return "", false
	}
	var buf [len(LogPrefix) + LogDigits + len(LogSuffix)]byte
	copy(buf[:], LogPrefix)
	for i := len(LogPrefix) + LogDigits - 1; i >= len(LogPrefix); i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	copy(buf[len(LogPrefix)+LogDigits:], LogSuffix)
	return string(buf[:]), true
}

// HasLogPrefix reports whether name starts with LogPrefix, ignoring ASCII case
func HasLogPrefix(name string) bool {
	if len(name) < len(LogPrefix) {
		return false
	}
	return EqualFold(name[:len(LogPrefix)], LogPrefix)
}

// FirstNumber extracts the first maximal run of decimal digits in name.
// ok is false if there is no digit or the run overflows uint32.
func FirstNumber(name string) (n uint32, ok bool) {
	i := 0
	for i < len(name) && !isDigit(name[i]) {
		i++
	}
	if i == len(name) {
		return 0, false
	}
	for ; i < len(name) && isDigit(name[i]); i++ {
		d := uint32(name[i] - '0')
		if n > (^uint32(0)-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// EqualFold compares two strings ignoring ASCII case. FAT short names come
// back upper-cased, so name matching on the card must not depend on case.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if toUpper(a[i]) != toUpper(b[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
