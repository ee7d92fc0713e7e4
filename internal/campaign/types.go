// Package campaign implements the marketing-content campaign lifecycle:
// topic research, ad copy generation, approval, scheduling, and publication.
//
// A copy moves through approved -> scheduled -> published. Scheduling is
// optional; an approved copy may publish directly. There is no transition out
// of published, and deletion is a hard removal at any state.
package campaign

import (
	"time"

	"adcopy/internal/llmjson"
	"adcopy/internal/logging"
)

// CopyStatus represents the lifecycle state of an approved copy.
type CopyStatus string

const (
	StatusApproved  CopyStatus = "approved"
	StatusScheduled CopyStatus = "scheduled"
	StatusPublished CopyStatus = "published"
)

// ActivityType classifies audit log entries.
type ActivityType string

const (
	ActivityGenerated ActivityType = "generated"
	ActivityApproved  ActivityType = "approved"
	ActivityScheduled ActivityType = "scheduled"
	ActivityPublished ActivityType = "published"
)

// TopicItem is ephemeral research output. It has no identity beyond its
// position in a result batch and is never persisted standalone.
type TopicItem struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RelevanceScore float64  `json:"relevance_score"`
	Keywords       []string `json:"keywords"`
	ContentAngle   string   `json:"content_angle"`
}

// AdVariation is one generated candidate. Its id is unique within a batch
// only; variations live inside the active generation session and are
// discarded on regeneration.
type AdVariation struct {
	ID                int      `json:"id"`
	CopyText          string   `json:"copy_text"`
	Approach          string   `json:"approach"`
	SEOKeywords       []string `json:"seo_keywords"`
	CharacterCount    int      `json:"character_count"`
	PlatformOptimized string   `json:"platform_optimized"`
}

// ApprovedCopy is the persistent unit of work. ScheduledFor is set once when
// the copy is first scheduled and never cleared; PublishedAt, PostURL, and
// PublishedPlatform are set exactly once on publication and never modified
// afterward.
type ApprovedCopy struct {
	ID                string     `json:"id"`
	CopyText          string     `json:"copy_text"`
	Platform          string     `json:"platform"`
	Approach          string     `json:"approach"`
	SEOKeywords       []string   `json:"seo_keywords"`
	CharacterCount    int        `json:"character_count"`
	ApprovedAt        time.Time  `json:"approved_at"`
	Status            CopyStatus `json:"status"`
	ScheduledFor      *time.Time `json:"scheduled_for,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	PostURL           string     `json:"post_url,omitempty"`
	PublishedPlatform string     `json:"published_platform,omitempty"`
}

// ActivityItem is an append-only audit record, ordered newest-first.
type ActivityItem struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}

// topicFromValue builds a TopicItem from an untrusted parsed value, applying
// explicit fallbacks for missing or wrong-typed fields.
func topicFromValue(v llmjson.Value) TopicItem {
	return TopicItem{
		Title:          v.Field("title").Str("Untitled Topic"),
		Description:    v.Field("description").Str(""),
		RelevanceScore: v.Field("relevance_score").Float(0),
		Keywords:       v.Field("keywords").StrSlice(),
		ContentAngle:   v.Field("content_angle").Str(""),
	}
}

// variationFromValue builds an AdVariation from an untrusted parsed value.
// The agent-claimed character count is kept as a display value; a mismatch
// against the actual text length is logged, never silently corrected.
func variationFromValue(v llmjson.Value, batchIndex int) AdVariation {
	text := v.Field("copy_text").Str("")
	count := v.Field("character_count").Int(0)
	if count == 0 {
		count = len([]rune(text))
	} else if count != len([]rune(text)) {
		logging.Get(logging.CategoryParser).Warn(
			"Variation character_count %d does not match text length %d", count, len([]rune(text)))
	}
	return AdVariation{
		ID:                v.Field("id").Int(batchIndex + 1),
		CopyText:          text,
		Approach:          v.Field("approach").Str(""),
		SEOKeywords:       v.Field("seo_keywords").StrSlice(),
		CharacterCount:    count,
		PlatformOptimized: v.Field("platform_optimized").Str(""),
	}
}

// truncateCopy shortens copy text for activity descriptions.
func truncateCopy(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
