package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"adcopy/internal/agent"
	"adcopy/internal/campaign"
	"adcopy/internal/config"
	"adcopy/internal/logging"
	"adcopy/internal/store"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	workspace  string
	timeout    time.Duration
	sampleMode bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adcopy",
	Short: "adcopy - AI-assisted ad copy campaign manager",
	Long: `adcopy manages a marketing content campaign end to end.

It researches trending topics, generates ad copy variations through external
AI agents, and moves approved copy through an approved -> scheduled ->
published lifecycle with a full activity trail.

Run with --sample to explore the workflow on fixture data without invoking
any agents or touching stored campaign state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// engine bundles the wired application for one command invocation.
type engine struct {
	cfg      *config.Config
	workflow *campaign.Workflow
	close    func()
}

// newEngine wires config, storage, the agent client, and the workflow.
func newEngine() (*engine, error) {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	if err := logging.Initialize(ws); err != nil {
		logger.Warn("File logging unavailable", zap.Error(err))
	}

	cfg, err := config.LoadFromWorkspace(ws)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiKey != "" {
		cfg.Service.APIKey = apiKey
	}

	dbPath := cfg.Storage.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ws, dbPath)
	}
	kv, err := store.NewSQLiteKV(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open campaign store: %w", err)
	}

	st := campaign.NewStore(kv)
	if sampleMode {
		st.EnableDemo(time.Now())
	}

	client := agent.NewClientWithConfig(agent.Config{
		APIKey:  cfg.Service.APIKey,
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.GetServiceTimeout(),
	})

	platforms := make(map[string]agent.Platform, len(cfg.Platforms))
	for name, p := range cfg.Platforms {
		platforms[name] = agent.Platform{AgentID: p.AgentID, Label: p.Label}
	}
	registry := agent.NewRegistry(platforms)

	wf := campaign.NewWorkflow(client, st, registry, cfg.Agents.TopicResearch, cfg.Agents.AdCopy)
	closeFn := func() {
		_ = kv.Close()
		logging.CloseAll()
	}
	return &engine{cfg: cfg, workflow: wf, close: closeFn}, nil
}

// commandContext returns a timeout-bounded context cancelled on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// workflowErr converts a workflow error into the user-facing message.
func workflowErr(err error) error {
	return fmt.Errorf("%s", campaign.UserMessage(err))
}

var (
	researchAudience string
)

var researchCmd = &cobra.Command{
	Use:   "research [industry]",
	Short: "Research trending topics for an industry",
	Long: `Asks the topic research agent for trending topics, keywords, and content
angles in the given industry. Results are kept in the campaign session so a
topic can seed the next generation run.

Example:
  adcopy research "Digital Marketing" --audience "small business owners"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		ctx, cancel := commandContext()
		defer cancel()

		industry := strings.Join(args, " ")
		logger.Info("Researching topics", zap.String("industry", industry))
		res, err := eng.workflow.ResearchTopics(ctx, industry, researchAudience)
		if err != nil {
			return workflowErr(err)
		}

		if res.IndustrySummary != "" {
			fmt.Printf("%s\n\n", res.IndustrySummary)
		}
		for i, t := range res.Topics {
			fmt.Printf("%d. %s (relevance %.0f)\n", i+1, t.Title, t.RelevanceScore)
			if t.Description != "" {
				fmt.Printf("   %s\n", t.Description)
			}
			if len(t.Keywords) > 0 {
				fmt.Printf("   keywords: %s\n", strings.Join(t.Keywords, ", "))
			}
			if t.ContentAngle != "" {
				fmt.Printf("   angle: %s\n", t.ContentAngle)
			}
		}
		fmt.Printf("\n%d topics found. Use 'adcopy generate --from-topic N --platform <platform>' to continue.\n", len(res.Topics))
		return nil
	},
}

var (
	genPlatform  string
	genTone      string
	genAudience  string
	genCTA       string
	genFromTopic int
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate ad copy variations for a platform",
	Long: `Asks the ad copy agent for three variations, each taking a different
approach. The topic can be given directly or seeded from a researched topic
with --from-topic.

Examples:
  adcopy generate "AI customer service trends" --platform Twitter --tone witty
  adcopy generate --from-topic 2 --platform Facebook`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		ctx, cancel := commandContext()
		defer cancel()

		topic := strings.Join(args, " ")
		if genFromTopic > 0 {
			topics := eng.workflow.Session().Topics
			if genFromTopic > len(topics) {
				return fmt.Errorf("no researched topic %d, run 'adcopy research' first", genFromTopic)
			}
			topic = campaign.TopicSeed(topics[genFromTopic-1])
		}

		logger.Info("Generating variations",
			zap.String("platform", genPlatform),
			zap.String("topic", topic))
		res, err := eng.workflow.GenerateVariations(ctx, campaign.GenerateParams{
			Platform:       genPlatform,
			Tone:           genTone,
			TargetAudience: genAudience,
			CTA:            genCTA,
			Topic:          topic,
		})
		if err != nil {
			return workflowErr(err)
		}

		if res.CampaignSummary != "" {
			fmt.Printf("%s\n\n", res.CampaignSummary)
		}
		printVariations(res.Variations, eng.workflow.Session())
		fmt.Printf("\nUse 'adcopy approve <id>' to add a variation to the publish queue.\n")
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve [variation-id]",
	Short: "Approve a variation, or withdraw an existing approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("variation id must be a number: %q", args[0])
		}
		approved, err := eng.workflow.ToggleApproval(id)
		if err != nil {
			return err
		}
		if approved == nil {
			fmt.Printf("Approval withdrawn for variation %d.\n", id)
			return nil
		}
		fmt.Printf("Copy approved and added to publish queue (%s).\n", approved.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [variation-id] [text...]",
	Short: "Rewrite the text of a variation in the current batch",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("variation id must be a number: %q", args[0])
		}
		text := strings.Join(args[1:], " ")
		if err := eng.workflow.EditVariation(id, text); err != nil {
			return err
		}
		fmt.Printf("Variation %d updated (%d characters).\n", id, len([]rune(text)))
		return nil
	},
}

var scheduleAt string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [copy-id]",
	Short: "Schedule an approved copy for later publication",
	Long: `Moves an approved copy to the scheduled stage. The time is recorded once
and the copy stays publishable at any moment regardless of it.

Example:
  adcopy schedule var-1-1756400000000 --at "2026-09-01 09:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		at, err := parseScheduleTime(scheduleAt)
		if err != nil {
			return err
		}
		c, err := eng.workflow.Schedule(args[0], at)
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled %s for %s.\n", c.ID, at.Format(time.RFC1123))
		return nil
	},
}

var publishPlatform string

var publishCmd = &cobra.Command{
	Use:   "publish [copy-id]",
	Short: "Publish a copy to a platform",
	Long: `Sends the copy to the platform's publisher agent and marks it published.
Platforms without a publisher agent are rejected without any network call.

Example:
  adcopy publish var-1-1756400000000 --platform Twitter`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		ctx, cancel := commandContext()
		defer cancel()

		logger.Info("Publishing copy",
			zap.String("copy", args[0]),
			zap.String("platform", publishPlatform))
		res, err := eng.workflow.Publish(ctx, args[0], publishPlatform)
		if err != nil {
			return workflowErr(err)
		}
		fmt.Println(res.Message)
		if res.Copy.PostURL != "" {
			fmt.Printf("Post URL: %s\n", res.Copy.PostURL)
		}
		if res.PostID != "" {
			fmt.Printf("Post ID: %s\n", res.PostID)
		}
		return nil
	},
}

var (
	copiesStatus  string
	copiesSummary bool
)

var copiesCmd = &cobra.Command{
	Use:   "copies",
	Short: "List the approved copy collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		st := eng.workflow.Store()
		if copiesSummary {
			s := st.Summary()
			fmt.Printf("Total:     %d\n", s["total"])
			fmt.Printf("Approved:  %d\n", s[string(campaign.StatusApproved)])
			fmt.Printf("Scheduled: %d\n", s[string(campaign.StatusScheduled)])
			fmt.Printf("Published: %d\n", s[string(campaign.StatusPublished)])
			return nil
		}

		var copies []campaign.ApprovedCopy
		if copiesStatus == "" || copiesStatus == "all" {
			copies = st.Copies()
		} else {
			copies = st.CopiesByStatus(campaign.CopyStatus(copiesStatus))
		}
		if len(copies) == 0 {
			fmt.Println("No copies yet. Approve ad copy variations to see them here.")
			return nil
		}
		for _, c := range copies {
			fmt.Printf("%s [%s] %s\n", c.ID, c.Status, c.Platform)
			fmt.Printf("  %s\n", c.CopyText)
			if c.ScheduledFor != nil {
				fmt.Printf("  scheduled for %s\n", c.ScheduledFor.Format(time.RFC1123))
			}
			if c.Status == campaign.StatusPublished && c.PostURL != "" {
				fmt.Printf("  %s\n", c.PostURL)
			}
		}
		return nil
	},
}

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the campaign activity feed, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		items := eng.workflow.Store().Activities()
		if len(items) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}
		if activityLimit > 0 && len(items) > activityLimit {
			items = items[:activityLimit]
		}
		for _, a := range items {
			fmt.Printf("%s  [%s] %s\n", a.Timestamp.Format("2006-01-02 15:04"), a.Type, a.Description)
		}
		return nil
	},
}

var agentsProbe bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the configured agents, optionally probing each one",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		if !agentsProbe {
			platforms := make(map[string]agent.Platform, len(eng.cfg.Platforms))
			for name, p := range eng.cfg.Platforms {
				platforms[name] = agent.Platform{AgentID: p.AgentID, Label: p.Label}
			}
			registry := agent.NewRegistry(platforms)
			for _, entry := range agent.Roster(eng.cfg.Agents.TopicResearch, eng.cfg.Agents.AdCopy, registry) {
				fmt.Printf("%-24s %s  %s\n", entry.Name, entry.ID, entry.Purpose)
			}
			return nil
		}

		ctx, cancel := commandContext()
		defer cancel()

		logger.Info("Probing agents")
		for _, pr := range eng.workflow.ProbeAgents(ctx) {
			status := "ok"
			if !pr.OK {
				status = "unreachable"
				if pr.Error != "" {
					status = fmt.Sprintf("unreachable (%s)", pr.Error)
				}
			}
			fmt.Printf("%-24s %s  %s\n", pr.Name, pr.ID, status)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [copy-id]",
	Short: "Delete a copy from the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		if !eng.workflow.Delete(args[0]) {
			return fmt.Errorf("copy %s not found", args[0])
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		path := filepath.Join(ws, ".adcopy", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

// printVariations renders a batch with approval markers from the session.
func printVariations(variations []campaign.AdVariation, sess *campaign.Session) {
	for _, v := range variations {
		marker := " "
		if sess.IsApproved(v.ID) {
			marker = "*"
		}
		fmt.Printf("%s %d. [%s] %d chars\n", marker, v.ID, v.Approach, v.CharacterCount)
		fmt.Printf("     %s\n", v.CopyText)
		if len(v.SEOKeywords) > 0 {
			fmt.Printf("     keywords: %s\n", strings.Join(v.SEOKeywords, ", "))
		}
	}
}

// parseScheduleTime accepts RFC3339 plus two friendlier local formats.
func parseScheduleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("--at is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q, use RFC3339 or YYYY-MM-DD HH:MM", s)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Agent service API key (or set ADCOPY_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&sampleMode, "sample", false, "Use fixture data without invoking agents")

	researchCmd.Flags().StringVar(&researchAudience, "audience", "", "Target audience (default: general audience)")

	generateCmd.Flags().StringVar(&genPlatform, "platform", "", "Target platform (required)")
	generateCmd.Flags().StringVar(&genTone, "tone", "professional", "Copy tone")
	generateCmd.Flags().StringVar(&genAudience, "audience", "", "Target audience (default: general audience)")
	generateCmd.Flags().StringVar(&genCTA, "cta", "", "Call to action (default: Learn more)")
	generateCmd.Flags().IntVar(&genFromTopic, "from-topic", 0, "Seed the topic from researched topic N")
	_ = generateCmd.MarkFlagRequired("platform")

	scheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "Publication time (RFC3339 or YYYY-MM-DD HH:MM)")
	_ = scheduleCmd.MarkFlagRequired("at")

	publishCmd.Flags().StringVar(&publishPlatform, "platform", "", "Destination platform (required)")
	_ = publishCmd.MarkFlagRequired("platform")

	copiesCmd.Flags().StringVar(&copiesStatus, "status", "all", "Filter by lifecycle stage (approved|scheduled|published|all)")
	copiesCmd.Flags().BoolVar(&copiesSummary, "summary", false, "Show per-stage counts instead of the list")

	activityCmd.Flags().IntVar(&activityLimit, "limit", 0, "Show at most N entries")

	agentsCmd.Flags().BoolVar(&agentsProbe, "probe", false, "Ping each agent to verify reachability")

	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(copiesCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
