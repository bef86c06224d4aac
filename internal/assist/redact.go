package assist

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
)

// StripContactInfo 在提示词离开本机前抹掉邮箱与电话号码。
// 由 redaction.strip_contact_info 设置触发。
func StripContactInfo(text string) string {
	text = emailPattern.ReplaceAllString(text, "[email]")
	text = phonePattern.ReplaceAllString(text, "[phone]")
	return text
}
