package prompt

import "fmt"

// Render fuses a style into the user's prompt; providers take no structured style parameter.
func Render(style, prompt string) string {
	return fmt.Sprintf("Create a %s style image of: %s", style, prompt)
}
