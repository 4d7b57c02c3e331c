package formatting

import "html"

// Escape экранирует пользовательский текст для ParseModeHTML
func Escape(s string) string {
	return html.EscapeString(s)
}
