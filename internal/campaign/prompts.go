package campaign

import (
	"fmt"
	"strings"
)

// Prompt builders for the external agents. The agents are prompted in natural
// language; the expected response shapes are a convention, not a schema.

// ResearchPrompt builds the topic research instruction.
func ResearchPrompt(industry, audience string) string {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		audience = "general audience"
	}
	return fmt.Sprintf(
		"Research trending topics for the %s industry targeting %s. Find 6 trending topics with keywords and content angles.",
		strings.TrimSpace(industry), audience)
}

// GeneratePrompt builds the ad copy generation instruction.
func GeneratePrompt(platform, tone, audience, cta, topic string) string {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		audience = "general audience"
	}
	cta = strings.TrimSpace(cta)
	if cta == "" {
		cta = "Learn more"
	}
	return fmt.Sprintf(
		"Generate 3 SEO-optimized ad copy variations for %s. Tone: %s. Target audience: %s. CTA: %s. Topic: %s. Each variation should use a different approach.",
		platform, tone, audience, cta, strings.TrimSpace(topic))
}

// PublishPrompt builds the publish instruction for a platform agent.
func PublishPrompt(platform, copyText string) string {
	return fmt.Sprintf("Post this content to %s: %q", platform, copyText)
}

// TopicSeed formats a researched topic as a generation topic input.
func TopicSeed(t TopicItem) string {
	if t.ContentAngle != "" {
		return t.Title + " - " + t.ContentAngle
	}
	return t.Title
}
