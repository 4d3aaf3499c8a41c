package utils

import (
	"strings"
	"unicode"
)

// Slugify 由标题派生 URL slug：小写、去非字母数字、空白折叠为单个连字符、去首尾连字符
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // 抑制开头连字符
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			// 其余符号直接剔除
		}
	}
	return strings.TrimRight(b.String(), "-")
}
