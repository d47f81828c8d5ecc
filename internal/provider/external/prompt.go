package external

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/tonal/internal/provider"
)

// SystemPrompt frames every request sent to a palette service.
const SystemPrompt = "You are a colour consultant for design systems. " +
	"Answer with a single JSON object and nothing else. " +
	"All colours are sRGB hex strings such as #1e40af."

// BuildPrompt serialises the request and design context into the user prompt.
func BuildPrompt(in provider.Input) string {
	var sb strings.Builder
	ctx := in.Request.Context

	sb.WriteString("Design the supporting colours of a palette around a fixed primary colour.\n\n")
	fmt.Fprintf(&sb, "Primary: %s (OKLCH L=%.3f C=%.3f H=%.1f)\n", in.Base.Hex(), in.Base.L(), in.Base.C(), in.Base.H())
	fmt.Fprintf(&sb, "Style: %s\n", in.Request.Style)
	fmt.Fprintf(&sb, "Industry: %s\n", ctx.Industry)
	fmt.Fprintf(&sb, "Audience: %s\n", ctx.Audience)
	fmt.Fprintf(&sb, "Medium: %s\n", ctx.Medium)
	fmt.Fprintf(&sb, "Accessibility target: %s\n", strings.ToUpper(string(ctx.Accessibility)))
	fmt.Fprintf(&sb, "Culture: %s\n", ctx.Culture)
	fmt.Fprintf(&sb, "Tone: %s\n", ctx.Tone)

	if len(in.Adjustments) > 0 {
		sb.WriteString("\nAdjustments already applied to the primary:\n")
		for _, adj := range in.Adjustments {
			fmt.Fprintf(&sb, "- %s\n", adj)
		}
	}

	sb.WriteString("\nReturn JSON with keys: secondary (hex), neutral (hex, low saturation), ")
	sb.WriteString("semantic (object with success, warning, error, info hex values) and reasoning ")
	sb.WriteString("(one or two sentences). Do not change the primary colour.\n")

	return sb.String()
}
