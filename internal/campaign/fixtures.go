package campaign

import "time"

// Static fixture data presented by the demo mode switch. Fixture records are
// never written back to durable storage.

// SampleIndustrySummary is the research summary shown in demo mode.
const SampleIndustrySummary = "The digital marketing landscape is rapidly evolving with AI integration, privacy-first approaches, and short-form video dominating engagement metrics across platforms."

// SampleCampaignSummary is the generation summary shown in demo mode.
const SampleCampaignSummary = "This campaign targets marketing professionals with three distinct approaches: benefit-driven, pain-point, and social-proof messaging. Each variation is optimized for Twitter character limits."

// SampleTopics returns the demo research results.
func SampleTopics() []TopicItem {
	return []TopicItem{
		{Title: "AI-Powered Customer Service Trends", Description: "How AI chatbots are revolutionizing support with 24/7 availability and personalized responses.", RelevanceScore: 95, Keywords: []string{"AI chatbots", "customer service", "automation", "NLP"}, ContentAngle: "Case study approach showing ROI improvements"},
		{Title: "Sustainable Marketing Practices", Description: "Eco-conscious branding strategies that resonate with Gen Z and millennial audiences.", RelevanceScore: 88, Keywords: []string{"sustainability", "green marketing", "eco-brand", "Gen Z"}, ContentAngle: "Values-driven storytelling with data backing"},
		{Title: "Short-Form Video Dominance", Description: "TikTok and Reels continue to dominate engagement metrics across all demographics.", RelevanceScore: 92, Keywords: []string{"short-form video", "TikTok", "Reels", "engagement"}, ContentAngle: "Platform comparison with actionable tips"},
		{Title: "Privacy-First Advertising", Description: "Cookie deprecation drives new approaches to contextual and first-party data strategies.", RelevanceScore: 85, Keywords: []string{"privacy", "cookies", "first-party data", "GDPR"}, ContentAngle: "Technical guide with compliance checklist"},
		{Title: "Influencer Marketing Evolution", Description: "Micro and nano-influencers deliver higher engagement rates than celebrity endorsements.", RelevanceScore: 90, Keywords: []string{"influencer", "micro-influencer", "UGC", "ROI"}, ContentAngle: "Data comparison micro vs macro influencers"},
		{Title: "Voice Search Optimization", Description: "Smart speaker adoption drives need for conversational SEO strategies.", RelevanceScore: 82, Keywords: []string{"voice search", "smart speakers", "conversational SEO"}, ContentAngle: "Step-by-step optimization playbook"},
	}
}

// SampleVariations returns the demo generation batch.
func SampleVariations() []AdVariation {
	return []AdVariation{
		{ID: 1, CopyText: "Transform your customer experience with AI-powered support. 24/7 availability, instant responses, and personalized solutions that scale. Start your free trial today.", Approach: "benefit-driven", SEOKeywords: []string{"AI customer service", "chatbot solution", "automated support"}, CharacterCount: 168, PlatformOptimized: "Twitter"},
		{ID: 2, CopyText: "Still losing customers to slow response times? Our AI handles 10,000+ conversations simultaneously with 98% satisfaction rates. See the difference in 14 days.", Approach: "pain-point", SEOKeywords: []string{"fast customer support", "AI automation", "customer satisfaction"}, CharacterCount: 172, PlatformOptimized: "Twitter"},
		{ID: 3, CopyText: "Join 5,000+ brands using AI to deliver exceptional customer service. Reduce costs by 60% while boosting satisfaction scores. Book a demo.", Approach: "social-proof", SEOKeywords: []string{"AI brands", "cost reduction", "customer service AI"}, CharacterCount: 145, PlatformOptimized: "Twitter"},
	}
}

// SampleApproved returns the demo copy collection, with timestamps relative
// to now so the records always read as recent.
func SampleApproved(now time.Time) []ApprovedCopy {
	published := now.Add(-100000 * time.Second)
	return []ApprovedCopy{
		{
			ID:             "sample-1",
			CopyText:       "Transform your customer experience with AI-powered support. 24/7 availability, instant responses, and personalized solutions that scale. Start your free trial today.",
			Platform:       "Twitter",
			Approach:       "benefit-driven",
			SEOKeywords:    []string{"AI customer service", "chatbot solution"},
			CharacterCount: 168,
			ApprovedAt:     now.Add(-24 * time.Hour),
			Status:         StatusApproved,
		},
		{
			ID:                "sample-2",
			CopyText:          "Join 5,000+ brands using AI to deliver exceptional customer service. Reduce costs by 60% while boosting satisfaction scores. Book a demo.",
			Platform:          "Facebook",
			Approach:          "social-proof",
			SEOKeywords:       []string{"AI brands", "cost reduction"},
			CharacterCount:    145,
			ApprovedAt:        now.Add(-48 * time.Hour),
			Status:            StatusPublished,
			PublishedAt:       &published,
			PostURL:           "https://facebook.com/example/posts/123",
			PublishedPlatform: "Facebook",
		},
	}
}

// SampleActivities returns the demo activity log, newest first.
func SampleActivities(now time.Time) []ActivityItem {
	return []ActivityItem{
		{ID: "act-1", Type: ActivityGenerated, Description: "Generated 3 ad copy variations for Twitter", Timestamp: now.Add(-1 * time.Hour)},
		{ID: "act-2", Type: ActivityApproved, Description: `Approved "Transform your customer experience..." for Twitter`, Timestamp: now.Add(-2 * time.Hour)},
		{ID: "act-3", Type: ActivityPublished, Description: "Published social-proof copy to Twitter", Timestamp: now.Add(-100000 * time.Second)},
		{ID: "act-4", Type: ActivityGenerated, Description: "Researched 6 trending topics in Digital Marketing", Timestamp: now.Add(-200000 * time.Second)},
	}
}
