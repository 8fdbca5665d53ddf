// Package main provides the match analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-better/internal/analysis"
	"github.com/yourusername/value-better/internal/config"
	applogger "github.com/yourusername/value-better/internal/logger"
	"github.com/yourusername/value-better/internal/ml"
	"github.com/yourusername/value-better/internal/models"
	"github.com/yourusername/value-better/internal/probability"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	fixtureFile string
	bankroll    float64
	goalLine    float64
	trials      int
	useSampler  bool
	logger      *logrus.Logger
	cfg         *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	matchCmd.Flags().StringVarP(&fixtureFile, "file", "f", "", "JSON fixture file with team ratings and prices")
	matchCmd.Flags().Float64VarP(&bankroll, "bankroll", "b", 1000, "Bankroll to size stakes against")
	matchCmd.Flags().Float64Var(&goalLine, "goal-line", probability.DefaultGoalLine, "Over/under goal line")
	matchCmd.Flags().IntVar(&trials, "trials", 0, "Use the stochastic sampler with this many trials instead of the analytic grid")
	matchCmd.Flags().BoolVar(&useSampler, "sampler", false, "Force stochastic sampling even with default trials")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze match betting value",
	Long:  `Estimate outcome probabilities from team ratings and grade market prices for value.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match [lambda-home lambda-away [home-price draw-price away-price]]",
	Short: "Analyze one fixture",
	Long: `Analyze one fixture from explicit goal rates and match-result prices:

  analyze match 1.8 1.1 2.10 3.40 3.60

or from a JSON fixture file carrying team ratings and market prices:

  analyze match -f fixture.json`,
	Args: cobra.MaximumNArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatch(cmd.Context(), args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("analyze %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	rootCmd.AddCommand(matchCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fixtureInput is the JSON shape accepted by `analyze match -f`.
type fixtureInput struct {
	Home     models.TeamRating   `json:"home"`
	Away     models.TeamRating   `json:"away"`
	Prices   models.MarketPrices `json:"prices"`
	GoalLine float64             `json:"goal_line"`
}

func runMatch(ctx context.Context, args []string) error {
	var (
		lambdaHome, lambdaAway float64
		home, away             models.TeamRating
		prices                 models.MarketPrices
	)

	switch {
	case fixtureFile != "":
		if len(args) > 0 {
			return fmt.Errorf("-f replaces positional arguments")
		}
		data, err := os.ReadFile(fixtureFile)
		if err != nil {
			return fmt.Errorf("failed to read fixture file: %w", err)
		}
		var in fixtureInput
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("failed to parse fixture file: %w", err)
		}
		home, away = in.Home, in.Away
		prices = in.Prices
		if in.GoalLine > 0 {
			goalLine = in.GoalLine
		}
		lambdaHome = probability.ExpectedGoalRate(home, away, true)
		lambdaAway = probability.ExpectedGoalRate(away, home, false)

	case len(args) == 2 || len(args) == 5:
		var err error
		if lambdaHome, err = strconv.ParseFloat(args[0], 64); err != nil {
			return fmt.Errorf("invalid home goal rate %q: %w", args[0], err)
		}
		if lambdaAway, err = strconv.ParseFloat(args[1], 64); err != nil {
			return fmt.Errorf("invalid away goal rate %q: %w", args[1], err)
		}
		if len(args) == 5 {
			mr := models.MatchResultPrices{}
			for i, dst := range []*float64{&mr.Home, &mr.Draw, &mr.Away} {
				v, err := strconv.ParseFloat(args[2+i], 64)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", args[2+i], err)
				}
				*dst = v
			}
			prices.MatchResult = &mr
		}

	default:
		return fmt.Errorf("expected -f, two goal rates, or two goal rates plus three prices")
	}

	estimate := buildEstimate(lambdaHome, lambdaAway)

	if cfg.Classifier.Enabled {
		blended, err := blendClassifier(ctx, estimate, home, away)
		if err != nil {
			logger.WithError(err).Warn("Classifier unavailable, using local model only")
		} else {
			estimate = blended
		}
	}

	printEstimate(estimate)
	if prices.MatchResult == nil && prices.OverUnder == nil && prices.DoubleChance == nil {
		return nil
	}

	analyzer := analysis.NewAnalyzer(analysis.DefaultAnalyzerConfig(), logger)
	result, err := analyzer.Analyze(estimate, prices, bankroll)
	if err != nil {
		return err
	}
	printAnalysis(result)
	return nil
}

func buildEstimate(lambdaHome, lambdaAway float64) models.OutcomeEstimate {
	if useSampler || trials > 0 {
		n := trials
		if n <= 0 {
			n = 100000
		}
		sample := probability.NewSampler(nil).SampleWithLine(lambdaHome, lambdaAway, n, goalLine)
		return models.OutcomeEstimate{
			HomeWin:       sample.HomeWin,
			Draw:          sample.Draw,
			AwayWin:       sample.AwayWin,
			GoalLine:      goalLine,
			OverThreshold: sample.OverThreshold,
			Confidence:    0.7,
		}
	}
	dist := probability.AnalyticDistribution(lambdaHome, lambdaAway, probability.DefaultMaxGoals)
	return dist.ToEstimate(goalLine, 0.7)
}

func blendClassifier(ctx context.Context, local models.OutcomeEstimate, home, away models.TeamRating) (models.OutcomeEstimate, error) {
	client, err := ml.NewCachedClient(&cfg.Classifier, logger)
	if err != nil {
		return local, err
	}
	// Ad-hoc analysis has no fixture identity; key the cache on the inputs.
	matchID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("adhoc/%f/%f", local.HomeWin, local.AwayWin)))
	remote, err := client.ClassifyMatch(ctx, matchID, home, away)
	if err != nil {
		return local, err
	}
	return ml.BlendWithModel(*remote, local, cfg.Classifier.BlendWeight)
}

func printEstimate(e models.OutcomeEstimate) {
	fmt.Println("Outcome Probabilities")
	fmt.Println("---------------------")
	fmt.Printf("Home win: %.4f\n", e.HomeWin)
	fmt.Printf("Draw:     %.4f\n", e.Draw)
	fmt.Printf("Away win: %.4f\n", e.AwayWin)
	fmt.Printf("Over %.1f: %.4f\n", e.GoalLine, e.OverThreshold)
}

func printAnalysis(result *analysis.Analysis) {
	fmt.Println("\nRecommendations")
	fmt.Println("---------------")
	for _, rec := range result.Recommendations {
		fmt.Printf("%-14s %-12s price %.2f  edge %+.2f%%  value %s  risk %s  stake %.2f\n",
			rec.Market, rec.Outcome, rec.Price, rec.EdgePct, rec.ValueGrade, rec.RiskGrade, rec.SuggestedStake)
	}
	if result.Arbitrage != nil && result.Arbitrage.IsArbitrage {
		fmt.Printf("\nArbitrage: implied total %.4f, guaranteed profit %.2f%%\n",
			result.Arbitrage.ImpliedTotal, result.Arbitrage.ProfitPct)
	}
	fmt.Printf("\nMarket efficiency: %.1f/100\n", result.EfficiencyScore)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}
