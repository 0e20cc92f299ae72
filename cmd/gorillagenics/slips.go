package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gorillagenics/gorillagenics/internal/config"
	"github.com/gorillagenics/gorillagenics/internal/pipeline"
	"github.com/gorillagenics/gorillagenics/internal/props"
	"github.com/gorillagenics/gorillagenics/internal/slips"
)

// scriptFlag is a pflag.Value restricted to the known game scripts.
type scriptFlag slips.Script

var _ pflag.Value = (*scriptFlag)(nil)

func (s *scriptFlag) String() string { return string(*s) }
func (s *scriptFlag) Type() string   { return "script" }

func (s *scriptFlag) Set(v string) error {
	switch slips.Script(v) {
	case slips.ScriptShootout, slips.ScriptControl, slips.ScriptNeutral:
		*s = scriptFlag(v)
		return nil
	}
	return fmt.Errorf("unknown script %q (shootout|control|neutral)", v)
}

func slipsCmd(ctx context.Context, configPath *string) *cobra.Command {
	var (
		week     int
		topK     int
		bankroll float64
		script   = scriptFlag(slips.ScriptNeutral)
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "slips",
		Short: "Build and grade prop slips from the current pick board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if week != 0 {
				cfg.Week = week
			}
			if bankroll != 0 {
				cfg.Bankroll.Bankroll = bankroll
			}

			p, err := buildPipeline(cfg, "")
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			res, err := p.Run(runCtx)
			if err != nil {
				return fmt.Errorf("scoring pass failed: %w", err)
			}

			evaluator := props.NewEvaluator(nil, nil)
			board := propBoard(res)
			evals := make([]props.Evaluation, 0, len(board))
			for _, pr := range board {
				evals = append(evals, evaluator.Evaluate(pr))
			}

			builder := slips.NewBuilder(nil)
			suggestions := builder.Suggest(evals, topK, slips.Script(script))
			if len(suggestions) == 0 {
				return fmt.Errorf("not enough props to build a slip (have %d, need %d)", len(evals), slips.SlipSize)
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(suggestions)
			}
			printSlips(suggestions, cfg.Bankroll)
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Week number (0 uses config)")
	cmd.Flags().IntVar(&topK, "top-k", 3, "Number of slip suggestions")
	cmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for stake sizing (0 uses config)")
	cmd.Flags().Var(&script, "script", "Game script prior (shootout|control|neutral)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit suggestions as JSON")
	return cmd
}

// propBoard derives a prop per ranked pick. Lines come from positional
// baselines; the projection moves off the line with the fused edge so
// stronger picks carry larger gaps.
func propBoard(res pipeline.PassResult) []props.Prop {
	baselines := map[string]struct {
		stat props.StatType
		line float64
		arch props.Archetype
	}{
		"QB": {props.StatPassingYards, 245.5, props.ArchQB},
		"RB": {props.StatRushingYards, 62.5, props.ArchRB1},
		"WR": {props.StatReceivingYards, 58.5, props.ArchAlphaWR},
		"TE": {props.StatReceptions, 3.5, props.ArchTE1},
	}

	board := make([]props.Prop, 0, len(res.Picks))
	for _, pk := range res.Picks {
		b, ok := baselines[pk.Candidate.Position]
		if !ok {
			continue
		}
		board = append(board, props.Prop{
			ID:         pk.Candidate.ID,
			Player:     pk.Candidate.Name,
			Team:       pk.Candidate.Team,
			Stat:       b.stat,
			Line:       b.line,
			Projection: b.line * (1 + pk.Fusion.EdgeProbability),
			Archetype:  b.arch,
		})
	}
	return board
}

func printSlips(suggestions []slips.Suggestion, bank config.BankrollConfig) {
	for i, s := range suggestions {
		q := s.Quality
		stake := slips.FractionalKellyStake(q.AvgWinProb, 2.0, bank.Bankroll, bank.KellyFraction, bank.StakeCap)
		fmt.Printf("%d. slip %s  grade %s  score %.1f  corr %.2f\n", i+1, s.ID[:8], q.Grade, q.Overall, q.CorrSum)
		for _, pk := range s.Picks {
			fmt.Printf("   %-18s %-16s %s %.1f (p=%.0f%%, ev %+.1f%%) [%s]\n",
				pk.Player, pk.Stat, pk.Direction, pk.Line, pk.WinProb*100, pk.EVPct, pk.Role)
		}
		fmt.Printf("   stake: $%.2f (kelly %.1f%%, capped=%v)\n\n", stake.Amount, stake.KellyPct*100, stake.Capped)
	}
}
