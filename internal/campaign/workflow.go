package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adcopy/internal/agent"
	"adcopy/internal/llmjson"
	"adcopy/internal/logging"
)

// Workflow drives the campaign lifecycle: research, generation, approval,
// scheduling, and publication. Every remote call goes through the injected
// Invoker, and every durable mutation goes through the Store.
type Workflow struct {
	invoker  agent.Invoker
	store    *Store
	registry *agent.Registry
	busy     *agent.BusyTracker
	session  *Session

	researchAgentID string
	adCopyAgentID   string
	now             func() time.Time
}

// NewWorkflow restores the persisted generation session and wires the
// workflow against the given invoker, store, and platform registry.
func NewWorkflow(invoker agent.Invoker, st *Store, registry *agent.Registry, researchAgentID, adCopyAgentID string) *Workflow {
	return &Workflow{
		invoker:         invoker,
		store:           st,
		registry:        registry,
		busy:            agent.NewBusyTracker(),
		session:         st.LoadSession(),
		researchAgentID: researchAgentID,
		adCopyAgentID:   adCopyAgentID,
		now:             time.Now,
	}
}

// Session returns the active generation session.
func (w *Workflow) Session() *Session { return w.session }

// Store returns the backing campaign store.
func (w *Workflow) Store() *Store { return w.store }

// Busy reports which agents have an invocation in flight.
func (w *Workflow) Busy() *agent.BusyTracker { return w.busy }

// ResearchResult is the outcome of a topic research run.
type ResearchResult struct {
	Topics          []TopicItem
	IndustrySummary string
}

// ResearchTopics asks the research agent for trending topics in an industry.
// In demo mode the fixture topics are returned without any network call.
func (w *Workflow) ResearchTopics(ctx context.Context, industry, audience string) (ResearchResult, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return ResearchResult{}, fmt.Errorf("industry is required")
	}
	w.session.Industry = industry
	w.session.TargetAudience = strings.TrimSpace(audience)

	if w.store.DemoActive() {
		res := ResearchResult{Topics: SampleTopics(), IndustrySummary: SampleIndustrySummary}
		w.session.Topics = res.Topics
		w.session.IndustrySummary = res.IndustrySummary
		return res, nil
	}

	logging.Workflow("Researching topics for %q", industry)
	timer := logging.StartTimer(logging.CategoryAgent, "research_topics")
	release := w.busy.Mark(w.researchAgentID)
	result, err := w.invoker.Invoke(ctx, ResearchPrompt(industry, audience), w.researchAgentID)
	release()
	timer.Stop()
	if err != nil {
		return ResearchResult{}, &TransportError{Err: err}
	}
	if !result.Success {
		return ResearchResult{}, &AgentError{Message: result.Error}
	}

	v, err := resolveResult(result)
	if err != nil {
		return ResearchResult{}, &FormatError{Reason: "no JSON in research response"}
	}
	topicsVal := v.Field("topics")
	if !topicsVal.IsArray() {
		return ResearchResult{}, &FormatError{Reason: "missing topics array"}
	}
	res := ResearchResult{IndustrySummary: v.Field("industry_summary").Str("")}
	for _, item := range topicsVal.Items() {
		res.Topics = append(res.Topics, topicFromValue(item))
	}
	logging.Workflow("Research returned %d topics", len(res.Topics))

	w.session.Topics = res.Topics
	w.session.IndustrySummary = res.IndustrySummary
	w.store.SaveSession(w.session)
	return res, nil
}

// GenerateParams describes one generation run.
type GenerateParams struct {
	Platform       string
	Tone           string
	TargetAudience string
	CTA            string
	Topic          string
}

// GenerateResult is the outcome of a generation run.
type GenerateResult struct {
	Variations      []AdVariation
	CampaignSummary string
}

// GenerateVariations asks the ad copy agent for a fresh variation batch. The
// batch replaces any previous one, and approval state from the old batch is
// dropped so stale variation IDs cannot resolve against new copy.
func (w *Workflow) GenerateVariations(ctx context.Context, p GenerateParams) (GenerateResult, error) {
	p.Platform = strings.TrimSpace(p.Platform)
	p.Topic = strings.TrimSpace(p.Topic)
	if p.Platform == "" {
		return GenerateResult{}, fmt.Errorf("platform is required")
	}
	if p.Topic == "" {
		return GenerateResult{}, fmt.Errorf("topic is required")
	}
	if p.Tone == "" {
		p.Tone = "professional"
	}

	var res GenerateResult
	if w.store.DemoActive() {
		res = GenerateResult{Variations: SampleVariations(), CampaignSummary: SampleCampaignSummary}
	} else {
		logging.Workflow("Generating variations for %s, topic %q", p.Platform, p.Topic)
		timer := logging.StartTimer(logging.CategoryAgent, "generate_variations")
		release := w.busy.Mark(w.adCopyAgentID)
		result, err := w.invoker.Invoke(ctx, GeneratePrompt(p.Platform, p.Tone, p.TargetAudience, p.CTA, p.Topic), w.adCopyAgentID)
		release()
		timer.Stop()
		if err != nil {
			return GenerateResult{}, &TransportError{Err: err}
		}
		if !result.Success {
			return GenerateResult{}, &AgentError{Message: result.Error}
		}
		v, err := resolveResult(result)
		if err != nil {
			return GenerateResult{}, &FormatError{Reason: "no JSON in generation response"}
		}
		variationsVal := v.Field("variations")
		if !variationsVal.IsArray() {
			return GenerateResult{}, &FormatError{Reason: "missing variations array"}
		}
		res.CampaignSummary = v.Field("campaign_summary").Str("")
		for i, item := range variationsVal.Items() {
			res.Variations = append(res.Variations, variationFromValue(item, i))
		}
	}

	w.session.Platform = p.Platform
	w.session.Tone = p.Tone
	w.session.TargetAudience = strings.TrimSpace(p.TargetAudience)
	w.session.CTA = strings.TrimSpace(p.CTA)
	w.session.Topic = p.Topic
	w.session.Variations = res.Variations
	w.session.CampaignSummary = res.CampaignSummary
	w.session.Approvals = map[int]string{}
	w.store.SaveSession(w.session)

	w.recordActivity(ActivityGenerated, fmt.Sprintf("Generated %d ad copy variations for %s", len(res.Variations), p.Platform))
	return res, nil
}

// ToggleApproval approves a variation from the current batch, or withdraws an
// existing approval. Approval mints a new copy with a fresh ID each time;
// withdrawal removes exactly the copy minted for this variation and records
// no activity.
func (w *Workflow) ToggleApproval(variationID int) (*ApprovedCopy, error) {
	variation := w.session.Variation(variationID)
	if variation == nil {
		return nil, fmt.Errorf("no variation %d in the current batch", variationID)
	}

	if copyID, ok := w.session.Approvals[variationID]; ok {
		w.store.RemoveCopy(copyID)
		delete(w.session.Approvals, variationID)
		w.store.SaveSession(w.session)
		logging.WorkflowDebug("Withdrew approval for variation %d (copy %s)", variationID, copyID)
		return nil, nil
	}

	now := w.now()
	platform := variation.PlatformOptimized
	if platform == "" {
		platform = w.session.Platform
	}
	c := ApprovedCopy{
		ID:             fmt.Sprintf("var-%d-%d", variationID, now.UnixMilli()),
		CopyText:       variation.CopyText,
		Platform:       platform,
		Approach:       variation.Approach,
		SEOKeywords:    variation.SEOKeywords,
		CharacterCount: variation.CharacterCount,
		ApprovedAt:     now,
		Status:         StatusApproved,
	}
	w.store.AddApproved(c)
	w.session.Approvals[variationID] = c.ID
	w.store.SaveSession(w.session)
	w.recordActivity(ActivityApproved, fmt.Sprintf("Approved \"%s...\" for %s", truncateCopy(variation.CopyText, 40), w.session.Platform))
	return &c, nil
}

// EditVariation rewrites the text of a batch variation. The character count
// is recomputed from the new text; this is the one place the count is derived
// rather than taken from the agent.
func (w *Workflow) EditVariation(variationID int, text string) error {
	variation := w.session.Variation(variationID)
	if variation == nil {
		return fmt.Errorf("no variation %d in the current batch", variationID)
	}
	variation.CopyText = text
	variation.CharacterCount = len([]rune(text))
	w.store.SaveSession(w.session)
	return nil
}

// Schedule moves an approved copy to the scheduled stage at the given time.
func (w *Workflow) Schedule(copyID string, at time.Time) (ApprovedCopy, error) {
	if at.IsZero() {
		return ApprovedCopy{}, fmt.Errorf("a schedule time is required")
	}
	c, err := w.store.Schedule(copyID, at)
	if err != nil {
		return ApprovedCopy{}, err
	}
	w.recordActivity(ActivityScheduled, fmt.Sprintf("Scheduled \"%s...\" for %s", truncateCopy(c.CopyText, 40), at.Format("1/2/2006")))
	return c, nil
}

// PublishResult is the outcome of a publish run.
type PublishResult struct {
	Copy    ApprovedCopy
	Message string
	PostID  string
}

// Publish sends a copy to a platform publisher agent and marks it published.
// Platforms without a publisher agent are rejected before any network call.
// A publish response that fails to parse still publishes the copy; the post
// URL and ID simply stay empty.
func (w *Workflow) Publish(ctx context.Context, copyID, platformName string) (PublishResult, error) {
	c, ok := w.store.Copy(copyID)
	if !ok {
		return PublishResult{}, fmt.Errorf("copy %s not found", copyID)
	}
	if c.Status == StatusPublished {
		return PublishResult{Copy: c, Message: "Copy is already published."}, nil
	}
	platform, ok := w.registry.Lookup(platformName)
	if !ok || platform.AgentID == "" {
		return PublishResult{}, &UnsupportedPlatformError{Platform: platformName}
	}

	logging.Workflow("Publishing copy %s to %s", copyID, platformName)
	timer := logging.StartTimer(logging.CategoryAgent, "publish_copy")
	release := w.busy.Mark(platform.AgentID)
	result, err := w.invoker.Invoke(ctx, PublishPrompt(platformName, c.CopyText), platform.AgentID)
	release()
	timer.Stop()
	if err != nil {
		return PublishResult{}, &TransportError{Err: err}
	}
	if !result.Success {
		return PublishResult{}, &AgentError{Message: result.Error}
	}

	v, err := resolveResult(result)
	if err != nil {
		logging.Parser("Publish response had no JSON, using defaults")
		v = llmjson.Of(nil)
	}
	postURL := v.FirstOf("post_url", "tweet_url").Str("")
	message := v.Field("message").Str(fmt.Sprintf("Successfully published to %s!", platformName))
	publishedText := v.Field("published_text").Str(c.CopyText)
	postID := v.FirstOf("post_id", "tweet_id").Str("")

	updated, err := w.store.MarkPublished(copyID, postURL, platformName, w.now())
	if err != nil {
		return PublishResult{}, err
	}

	desc := fmt.Sprintf("Published \"%s...\" to %s", truncateCopy(publishedText, 40), platformName)
	if postID != "" {
		desc += fmt.Sprintf(" (ID: %s)", postID)
	}
	w.recordActivity(ActivityPublished, desc)
	return PublishResult{Copy: updated, Message: message, PostID: postID}, nil
}

// Delete removes a copy outright. Deletion is allowed from any lifecycle
// stage and leaves no activity record.
func (w *Workflow) Delete(copyID string) bool {
	removed := w.store.RemoveCopy(copyID)
	if removed {
		for varID, id := range w.session.Approvals {
			if id == copyID {
				delete(w.session.Approvals, varID)
			}
		}
		w.store.SaveSession(w.session)
	}
	return removed
}

// ProbeResult reports the reachability of one configured agent.
type ProbeResult struct {
	agent.RosterEntry
	OK    bool
	Error string
}

// ProbeAgents pings every configured agent concurrently and reports which
// ones respond. A failing probe never aborts the others.
func (w *Workflow) ProbeAgents(ctx context.Context) []ProbeResult {
	roster := agent.Roster(w.researchAgentID, w.adCopyAgentID, w.registry)
	results := make([]ProbeResult, len(roster))
	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range roster {
		i, entry := i, entry
		g.Go(func() error {
			release := w.busy.Mark(entry.ID)
			defer release()
			res, err := w.invoker.Invoke(ctx, "Reply with OK.", entry.ID)
			pr := ProbeResult{RosterEntry: entry}
			switch {
			case err != nil:
				pr.Error = err.Error()
			case !res.Success:
				pr.Error = res.Error
			default:
				pr.OK = true
			}
			results[i] = pr
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (w *Workflow) recordActivity(t ActivityType, description string) {
	w.store.AppendActivity(ActivityItem{
		ID:          uuid.NewString(),
		Type:        t,
		Description: description,
		Timestamp:   w.now(),
	})
}

// resolveResult extracts a tolerant JSON view from an agent envelope. String
// results are run through the fenced/embedded JSON recovery; structured
// results are wrapped as-is.
func resolveResult(res agent.Result) (llmjson.Value, error) {
	var raw interface{}
	if res.Response != nil {
		raw = res.Response.Result
	}
	if s, ok := raw.(string); ok {
		return llmjson.Parse(s)
	}
	return llmjson.Of(raw), nil
}
