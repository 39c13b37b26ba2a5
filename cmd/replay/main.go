// Command replay runs a linear Q-learning agent on a chain random walk,
// learning from a uniform or prioritised experience replay buffer
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"

	"github.com/whathelll/Reinforcement-Learning/environment/chain"
	"github.com/whathelll/Reinforcement-Learning/experiment"
	"github.com/whathelll/Reinforcement-Learning/experiment/tracker"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
	"github.com/whathelll/Reinforcement-Learning/utils/progressbar"
)

var (
	cfg     *config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Experience replay demonstration",
	Long: `Runs a linear Q-learning agent on a chain random walk.

Every transition is pushed into an experience replay buffer, which is
either uniform or prioritised, with optional n-step returns. The agent
learns from batches sampled from the buffer, and the return and length
of each episode are saved when the run finishes.`,
	Run: runReplay,
}

func init() {
	cfg = defaultConfig()
	flags := rootCmd.Flags()

	flags.StringVar(&cfgFile, "config", "", "Config file (json, yaml, or toml)")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")

	// Replay settings
	flags.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "Replay buffer capacity")
	flags.IntVar(&cfg.MultiStepN, "multi-step-n", cfg.MultiStepN, "Extra steps folded into each stored transition")
	flags.Float64Var(&cfg.Gamma, "gamma", cfg.Gamma, "Per-step discount")
	flags.BoolVar(&cfg.Prioritised, "prioritised", cfg.Prioritised, "Use prioritised replay")
	flags.Float64Var(&cfg.E, "e", cfg.E, "Priority floor")
	flags.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "Priority exponent")
	flags.Float64Var(&cfg.Beta, "beta", cfg.Beta, "Importance sampling exponent (0 to disable)")

	// Environment settings
	flags.IntVar(&cfg.States, "states", cfg.States, "Number of chain states")
	flags.Float64Var(&cfg.Slip, "slip", cfg.Slip, "Probability of moving opposite to the action")
	flags.IntVar(&cfg.EpisodeSteps, "episode-steps", cfg.EpisodeSteps, "Episode step limit")

	// Agent settings
	flags.Float64Var(&cfg.Epsilon, "epsilon", cfg.Epsilon, "Exploration probability")
	flags.Float64Var(&cfg.LearningRate, "learning-rate", cfg.LearningRate, "Learning rate")

	// Experiment settings
	flags.IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Total environment steps")
	flags.IntVar(&cfg.Warmup, "warmup", cfg.Warmup, "Steps before learning starts")
	flags.IntVar(&cfg.TrainEvery, "train-every", cfg.TrainEvery, "Steps between batch updates")
	flags.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Batch size")

	// Output
	flags.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory to save tracked data to")
	flags.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show a progress bar")

	// Bind flags to viper for environment variable support
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}
	viper.SetEnvPrefix("REPLAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runReplay(cmd *cobra.Command, args []string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
	}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	runID := uuid.New().String()
	log.Printf("Starting run %s", runID)

	env, _, err := chain.New(cfg.States, cfg.Slip, cfg.Gamma,
		cfg.EpisodeSteps, cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to create environment: %v", err)
	}
	features := env.ObservationSpec().Dim()
	actions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	replay, err := cfg.replay().Create(features, env.ActionSpec().Dim(),
		cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to create replay buffer: %v", err)
	}
	_, prioritised := replay.(expreplay.Prioritiser)
	log.Printf("Replay: capacity %d, n-step %d, prioritised %v",
		replay.Capacity(), cfg.MultiStepN, prioritised)

	q, err := cfg.agent().Create(features, actions, cfg.Seed)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	returns := tracker.NewReturn(filepath.Join(cfg.OutDir,
		fmt.Sprintf("%s-returns.bin", runID)))
	lengths := tracker.NewEpisodeLength(filepath.Join(cfg.OutDir,
		fmt.Sprintf("%s-lengths.bin", runID)))

	exp, err := experiment.NewOnline(env, q, replay, cfg.experiment(),
		returns, lengths)
	if err != nil {
		log.Fatalf("Failed to create experiment: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, stopping run...")
		cancel()
	}()

	bar := progressbar.NewManualProgressBar(os.Stdout, 40, cfg.MaxSteps)
	for ended := false; !ended; {
		if ctx.Err() != nil {
			break
		}
		if ended, err = exp.RunEpisode(); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		if cfg.Progress {
			bar.Set(exp.CurrentSteps())
			bar.Display()
		}
	}
	if cfg.Progress {
		fmt.Println()
	}

	if err := exp.Save(); err != nil {
		log.Fatalf("Failed to save data: %v", err)
	}
	summarise(runID, exp, returns.Data(), lengths.Data())
}

// summarise prints the results of a run
func summarise(runID string, exp *experiment.Online, returns,
	lengths []float64) {
	fmt.Println(aurora.Bold(aurora.Cyan(fmt.Sprintf("Run %s", runID))))
	fmt.Printf("  steps:    %v\n", exp.CurrentSteps())
	fmt.Printf("  updates:  %v\n", exp.Updates())
	fmt.Printf("  episodes: %v\n", len(returns))
	if len(returns) == 0 {
		fmt.Println(aurora.Yellow("  no episode finished"))
		return
	}

	// Report the last tenth of episodes
	tail := len(returns) / 10
	if tail < 1 {
		tail = 1
	}
	meanReturn := stat.Mean(returns[len(returns)-tail:], nil)
	meanLength := stat.Mean(lengths[len(lengths)-tail:], nil)

	fmt.Printf("  mean return (last %v): %v\n", tail,
		aurora.Green(fmt.Sprintf("%.3f", meanReturn)))
	fmt.Printf("  mean length (last %v): %v\n", tail,
		aurora.Blue(fmt.Sprintf("%.1f", meanLength)))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
