package campaign

// Session holds the in-flight generation state for one campaign run: the
// research results, the most recent variation batch, and the mapping from
// batch-local variation IDs to the durable copy IDs they were approved as.
// A new generation run replaces the session wholesale.
type Session struct {
	Industry        string         `json:"industry"`
	TargetAudience  string         `json:"target_audience"`
	Platform        string         `json:"platform"`
	Tone            string         `json:"tone"`
	CTA             string         `json:"cta"`
	Topic           string         `json:"topic"`
	IndustrySummary string         `json:"industry_summary,omitempty"`
	CampaignSummary string         `json:"campaign_summary,omitempty"`
	Topics          []TopicItem    `json:"topics,omitempty"`
	Variations      []AdVariation  `json:"variations,omitempty"`
	Approvals       map[int]string `json:"approvals,omitempty"`
}

// NewSession returns an empty session with the approval map initialized.
func NewSession() *Session {
	return &Session{Approvals: map[int]string{}}
}

// Variation returns the batch variation with the given ID, or nil.
func (s *Session) Variation(id int) *AdVariation {
	for i := range s.Variations {
		if s.Variations[i].ID == id {
			return &s.Variations[i]
		}
	}
	return nil
}

// IsApproved reports whether the variation has a live approved copy.
func (s *Session) IsApproved(id int) bool {
	if s.Approvals == nil {
		return false
	}
	_, ok := s.Approvals[id]
	return ok
}
