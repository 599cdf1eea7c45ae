package logger

import "strings"

// stripAnsiCodes removes CSI colour sequences (\x1b[...m) and OSC 8
// hyperlinks (\x1b]8;;uri\x07) from s. Hyperlink text is kept, the uri is not.
func stripAnsiCodes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\x1b' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}

		switch s[i+1] {
		case '[':
			// CSI runs until the first letter
			j := i + 2
			for j < len(s) && !isAnsiFinal(s[j]) {
				j++
			}
			i = j
		case ']':
			// OSC runs until BEL or ST (\x1b\\)
			j := i + 2
			for j < len(s) {
				if s[j] == '\x07' {
					break
				}
				if s[j] == '\x1b' && j+1 < len(s) && s[j+1] == '\\' {
					j++
					break
				}
				j++
			}
			i = j
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

func isAnsiFinal(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
