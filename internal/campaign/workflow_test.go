package campaign

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adcopy/internal/agent"
	"adcopy/internal/store"
)

// fakeInvoker returns scripted envelopes keyed by agent ID and records every
// instruction it receives. Safe for the concurrent probe path.
type fakeInvoker struct {
	mu      sync.Mutex
	results map[string]agent.Result
	err     error
	calls   []string
	agents  []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, instruction, agentID string) (agent.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, instruction)
	f.agents = append(f.agents, agentID)
	f.mu.Unlock()
	if f.err != nil {
		return agent.Result{}, f.err
	}
	return f.results[agentID], nil
}

func stringResult(s string) agent.Result {
	return agent.Result{Success: true, Response: &agent.Response{Result: s}}
}

func testRegistry() *agent.Registry {
	return agent.NewRegistry(map[string]agent.Platform{
		"Twitter":  {AgentID: "tw-1", Label: "Twitter / X"},
		"Facebook": {AgentID: "fb-1", Label: "Facebook"},
		"LinkedIn": {AgentID: "", Label: "LinkedIn"},
	})
}

func testWorkflow(inv agent.Invoker) *Workflow {
	st := NewStore(store.NewMemoryKV())
	wf := NewWorkflow(inv, st, testRegistry(), "research-1", "copy-1")
	return wf
}

func TestResearchTopics(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"research-1": stringResult(`Here you go! {"topics": [{"title": "T1", "relevance_score": 90, "keywords": ["k"]}, {"title": "T2"}], "industry_summary": "S"}`),
	}}
	wf := testWorkflow(inv)

	res, err := wf.ResearchTopics(context.Background(), "  Fintech  ", "founders")
	require.NoError(t, err)
	assert.Equal(t, "S", res.IndustrySummary)
	require.Len(t, res.Topics, 2)
	assert.Equal(t, "T1", res.Topics[0].Title)
	assert.Equal(t, 90.0, res.Topics[0].RelevanceScore)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, "Research trending topics for the Fintech industry targeting founders. Find 6 trending topics with keywords and content angles.", inv.calls[0])
	assert.Equal(t, "research-1", inv.agents[0])

	// Research results persist into the session.
	assert.Equal(t, "Fintech", wf.Session().Industry)
	assert.Len(t, wf.Session().Topics, 2)
}

func TestResearchDefaultAudience(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"research-1": stringResult(`{"topics": []}`),
	}}
	wf := testWorkflow(inv)

	_, err := wf.ResearchTopics(context.Background(), "Fintech", "")
	require.NoError(t, err)
	assert.Contains(t, inv.calls[0], "targeting general audience")
}

func TestResearchErrors(t *testing.T) {
	t.Run("EmptyIndustry", func(t *testing.T) {
		wf := testWorkflow(&fakeInvoker{})
		_, err := wf.ResearchTopics(context.Background(), "   ", "")
		assert.Error(t, err)
	})

	t.Run("Transport", func(t *testing.T) {
		inv := &fakeInvoker{err: errors.New("connection refused")}
		wf := testWorkflow(inv)
		_, err := wf.ResearchTopics(context.Background(), "Fintech", "")
		var transport *TransportError
		require.ErrorAs(t, err, &transport)
		assert.Equal(t, "Network error. Please check your connection and try again.", UserMessage(err))
	})

	t.Run("AgentFailure", func(t *testing.T) {
		inv := &fakeInvoker{results: map[string]agent.Result{
			"research-1": {Success: false, Error: "quota exceeded"},
		}}
		wf := testWorkflow(inv)
		_, err := wf.ResearchTopics(context.Background(), "Fintech", "")
		var agentErr *AgentError
		require.ErrorAs(t, err, &agentErr)
		assert.Equal(t, "quota exceeded", UserMessage(err))
	})

	t.Run("MissingTopicsArray", func(t *testing.T) {
		inv := &fakeInvoker{results: map[string]agent.Result{
			"research-1": stringResult(`{"industry_summary": "S"}`),
		}}
		wf := testWorkflow(inv)
		_, err := wf.ResearchTopics(context.Background(), "Fintech", "")
		var format *FormatError
		require.ErrorAs(t, err, &format)
		assert.Equal(t, "Unexpected response format. Please try again.", UserMessage(err))
	})

	t.Run("PureProse", func(t *testing.T) {
		inv := &fakeInvoker{results: map[string]agent.Result{
			"research-1": stringResult("I'm sorry, I could not find anything."),
		}}
		wf := testWorkflow(inv)
		_, err := wf.ResearchTopics(context.Background(), "Fintech", "")
		var format *FormatError
		require.ErrorAs(t, err, &format)
	})
}

const fencedVariations = "```json\n" + `{
  "variations": [
    {"id": 1, "copy_text": "First variation text", "approach": "benefit-driven", "seo_keywords": ["a"], "character_count": 20, "platform_optimized": "Twitter"},
    {"copy_text": "Second", "approach": "pain-point"},
    {"id": 3, "copy_text": "Third", "approach": "social-proof"}
  ],
  "campaign_summary": "Three angles."
}` + "\n```"

func TestGenerateVariations(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"copy-1": stringResult(fencedVariations),
	}}
	wf := testWorkflow(inv)

	res, err := wf.GenerateVariations(context.Background(), GenerateParams{
		Platform: "Twitter",
		Topic:    "AI support",
	})
	require.NoError(t, err)
	assert.Equal(t, "Three angles.", res.CampaignSummary)
	require.Len(t, res.Variations, 3)

	// The second variation omitted its id; it gets its batch position.
	assert.Equal(t, 2, res.Variations[1].ID)
	// Its character count falls back to the text length.
	assert.Equal(t, 6, res.Variations[1].CharacterCount)

	assert.Contains(t, inv.calls[0], "Tone: professional")
	assert.Contains(t, inv.calls[0], "CTA: Learn more")

	acts := wf.Store().Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, ActivityGenerated, acts[0].Type)
	assert.Equal(t, "Generated 3 ad copy variations for Twitter", acts[0].Description)
}

func TestGenerateReplacesBatch(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"copy-1": stringResult(fencedVariations),
	}}
	wf := testWorkflow(inv)

	_, err := wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "first run"})
	require.NoError(t, err)
	approved, err := wf.ToggleApproval(1)
	require.NoError(t, err)
	require.NotNil(t, approved)

	// Regeneration drops the old approval mapping but keeps the copy.
	_, err = wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "second run"})
	require.NoError(t, err)
	assert.False(t, wf.Session().IsApproved(1))
	assert.Len(t, wf.Store().Copies(), 1)
}

func TestToggleApproval(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"copy-1": stringResult(fencedVariations),
	}}
	wf := testWorkflow(inv)
	wf.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	_, err := wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "t"})
	require.NoError(t, err)

	approved, err := wf.ToggleApproval(1)
	require.NoError(t, err)
	require.NotNil(t, approved)
	assert.True(t, strings.HasPrefix(approved.ID, "var-1-"), "ID = %s", approved.ID)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "Twitter", approved.Platform)

	acts := wf.Store().Activities()
	require.Len(t, acts, 2)
	assert.Equal(t, `Approved "First variation text..." for Twitter`, acts[0].Description)

	// Toggling again withdraws the approval, removes the copy, and is silent.
	withdrawn, err := wf.ToggleApproval(1)
	require.NoError(t, err)
	assert.Nil(t, withdrawn)
	assert.Empty(t, wf.Store().Copies())
	assert.Len(t, wf.Store().Activities(), 2, "withdrawal records no activity")

	// Re-approval mints a distinct copy.
	wf.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 1, 0, time.UTC) }
	again, err := wf.ToggleApproval(1)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.NotEqual(t, approved.ID, again.ID)

	_, err = wf.ToggleApproval(99)
	assert.Error(t, err, "unknown variation id")
}

func TestEditVariation(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"copy-1": stringResult(fencedVariations),
	}}
	wf := testWorkflow(inv)

	_, err := wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "t"})
	require.NoError(t, err)

	require.NoError(t, wf.EditVariation(1, "Rewritten copy"))
	v := wf.Session().Variation(1)
	require.NotNil(t, v)
	assert.Equal(t, "Rewritten copy", v.CopyText)
	assert.Equal(t, 14, v.CharacterCount, "count recomputed from the new text")

	assert.Error(t, wf.EditVariation(42, "x"))
}

func TestScheduleRequiresTime(t *testing.T) {
	wf := testWorkflow(&fakeInvoker{})
	wf.store.AddApproved(testCopy("c-1"))

	_, err := wf.Schedule("c-1", time.Time{})
	assert.Error(t, err)

	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	c, err := wf.Schedule("c-1", at)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, c.Status)

	acts := wf.Store().Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, `Scheduled "Try our thing today...." for 9/1/2026`, acts[0].Description)
}

func TestPublish(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"tw-1": stringResult(`Done! {"post_url": "https://x.com/p/9", "post_id": "9", "message": "Posted!", "published_text": "Short text"}`),
	}}
	wf := testWorkflow(inv)
	wf.store.AddApproved(testCopy("c-1"))

	res, err := wf.Publish(context.Background(), "c-1", "Twitter")
	require.NoError(t, err)
	assert.Equal(t, "Posted!", res.Message)
	assert.Equal(t, "9", res.PostID)
	assert.Equal(t, StatusPublished, res.Copy.Status)
	assert.Equal(t, "https://x.com/p/9", res.Copy.PostURL)
	assert.Equal(t, "Twitter", res.Copy.PublishedPlatform)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, `Post this content to Twitter: "Try our thing today."`, inv.calls[0])
	assert.Equal(t, "tw-1", inv.agents[0])

	acts := wf.Store().Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, `Published "Short text..." to Twitter (ID: 9)`, acts[0].Description)

	// Publishing again is a no-op, not an error and not a second invocation.
	res2, err := wf.Publish(context.Background(), "c-1", "Facebook")
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/p/9", res2.Copy.PostURL)
	assert.Len(t, inv.calls, 1)
}

func TestPublishTweetFields(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"tw-1": stringResult(`{"tweet_url": "https://x.com/t/5", "tweet_id": "5"}`),
	}}
	wf := testWorkflow(inv)
	wf.store.AddApproved(testCopy("c-1"))

	res, err := wf.Publish(context.Background(), "c-1", "Twitter")
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/t/5", res.Copy.PostURL)
	assert.Equal(t, "5", res.PostID)
	assert.Equal(t, "Successfully published to Twitter!", res.Message)
}

func TestPublishUnparseableResponseStillPublishes(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"tw-1": stringResult("Your post is live, congratulations!"),
	}}
	wf := testWorkflow(inv)
	wf.store.AddApproved(testCopy("c-1"))

	res, err := wf.Publish(context.Background(), "c-1", "Twitter")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, res.Copy.Status)
	assert.Empty(t, res.Copy.PostURL)
	assert.Empty(t, res.PostID)

	acts := wf.Store().Activities()
	require.Len(t, acts, 1)
	// With no published_text the copy's own text is used, and no ID suffix.
	assert.Equal(t, `Published "Try our thing today...." to Twitter`, acts[0].Description)
}

func TestPublishUnsupportedPlatform(t *testing.T) {
	inv := &fakeInvoker{}
	wf := testWorkflow(inv)
	wf.store.AddApproved(testCopy("c-1"))

	_, err := wf.Publish(context.Background(), "c-1", "LinkedIn")
	var unsupported *UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Publishing to LinkedIn is not supported yet.", UserMessage(err))
	assert.Empty(t, inv.calls, "rejected before any network call")

	c, ok := wf.Store().Copy("c-1")
	require.True(t, ok)
	assert.Equal(t, StatusApproved, c.Status, "copy state untouched")
}

func TestDeleteIsSilent(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"copy-1": stringResult(fencedVariations),
	}}
	wf := testWorkflow(inv)

	_, err := wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "t"})
	require.NoError(t, err)
	approved, err := wf.ToggleApproval(1)
	require.NoError(t, err)

	actsBefore := len(wf.Store().Activities())
	assert.True(t, wf.Delete(approved.ID))
	assert.Len(t, wf.Store().Activities(), actsBefore, "deletion records no activity")
	assert.False(t, wf.Session().IsApproved(1), "approval mapping cleaned up")
	assert.False(t, wf.Delete(approved.ID))
}

func TestDemoModeSkipsInvocation(t *testing.T) {
	inv := &fakeInvoker{}
	st := NewStore(store.NewMemoryKV())
	st.EnableDemo(time.Now())
	wf := NewWorkflow(inv, st, testRegistry(), "research-1", "copy-1")

	res, err := wf.ResearchTopics(context.Background(), "Digital Marketing", "")
	require.NoError(t, err)
	assert.Len(t, res.Topics, 6)
	assert.NotEmpty(t, res.IndustrySummary)

	gen, err := wf.GenerateVariations(context.Background(), GenerateParams{Platform: "Twitter", Topic: "t"})
	require.NoError(t, err)
	assert.Len(t, gen.Variations, 3)
	assert.Empty(t, inv.calls, "demo mode never invokes agents")
}

func TestProbeAgents(t *testing.T) {
	inv := &fakeInvoker{results: map[string]agent.Result{
		"research-1": {Success: true},
		"copy-1":     {Success: true},
		"tw-1":       {Success: false, Error: "down"},
		"fb-1":       {Success: true},
	}}
	wf := testWorkflow(inv)

	results := wf.ProbeAgents(context.Background())
	require.Len(t, results, 4)

	byID := map[string]ProbeResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	assert.True(t, byID["research-1"].OK)
	assert.True(t, byID["fb-1"].OK)
	assert.False(t, byID["tw-1"].OK)
	assert.Equal(t, "down", byID["tw-1"].Error)
}
