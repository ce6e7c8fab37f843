package content

import (
	"fmt"
	"strings"
)

func generatePrompt(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate content for %s with the following specifications:\n", p.Platform)
	fmt.Fprintf(&b, "Topic: %s\n", p.Topic)
	fmt.Fprintf(&b, "Tone: %s\n", p.Tone)
	fmt.Fprintf(&b, "Length: %s\n", p.Length)
	if len(p.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords to include: %s\n", strings.Join(p.Keywords, ", "))
	}
	if p.BrandGuidelines != "" {
		fmt.Fprintf(&b, "Brand Guidelines: %s\n", p.BrandGuidelines)
	}
	b.WriteString("\nPlease ensure the content is engaging, well-structured, and optimized for the specified platform.")
	return b.String()
}

func optimizePrompt(text, platform string) string {
	return fmt.Sprintf("Optimize the following content for %s, ensuring it follows platform best practices "+
		"and maximizes engagement potential while maintaining the original message:\n\n%s", platform, text)
}

func sentimentPrompt(text string) string {
	return "Analyze the sentiment of the following content and provide a score between -1 (negative) " +
		"and 1 (positive), with 0 being neutral.\n\nContent to analyze:\n" + text +
		"\n\nRespond with a valid JSON object in this exact format:\n{\"score\": <number between -1 and 1>}"
}
