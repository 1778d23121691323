package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/behave"
	"github.com/programme-lv/prompteval/internal/environment"
	"github.com/programme-lv/prompteval/internal/eval"
	"github.com/programme-lv/prompteval/internal/pipeline"
	"github.com/programme-lv/prompteval/internal/prompt"
	"github.com/programme-lv/prompteval/internal/termgath"
)

const defaultInstruction = "List all the functions defined in the above files."

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cmd := &cli.Command{
		Name:  "prompteval",
		Usage: "grade LLM-generated test files against a prototype project",
		Commands: []*cli.Command{
			promptCmd(),
			gradeCmd(),
			behaveCmd(),
			workerCmd(),
			doctorCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func promptCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "render the context prompt for a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "directory to render", Required: true},
			&cli.StringFlag{Name: "instruction", Usage: "task instruction appended to the prompt", Value: defaultInstruction},
			&cli.StringFlag{Name: "log-file", Usage: "append the rendered prompt to this file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rendered, err := prompt.Format(cmd.String("dir"), cmd.String("instruction"))
			if err != nil {
				return err
			}
			if logFile := cmd.String("log-file"); logFile != "" {
				if err := prompt.AppendLog(logFile, rendered); err != nil {
					return err
				}
			}
			fmt.Println(rendered)
			return nil
		},
	}
}

func gradeCmd() *cli.Command {
	return &cli.Command{
		Name:  "grade",
		Usage: "grade one LLM output against a local prototype directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "prototype project directory", Required: true},
			&cli.StringFlag{Name: "output-file", Usage: "file with the LLM output, - for stdin", Value: "-"},
			&cli.BoolFlag{Name: "retain", Usage: "keep the sandbox after grading"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := readOutput(cmd.String("output-file"))
			if err != nil {
				return err
			}

			cfg := environment.ReadEnvConfig()
			evaluator := eval.NewEvaluator(nil, eval.Options{
				Stages:          pipeline.DefaultStages(cfg.MvnBin),
				StageTimeout:    cfg.StageTimeout,
				RetainOnFailure: cfg.RetainSandboxOnFailure,
			})

			dir := cmd.String("dir")
			req := api.EvalReq{
				EvalUuid:      uuid.NewString(),
				LlmOutput:     raw,
				Prototype:     api.Prototype{Dir: &dir},
				RetainSandbox: cmd.Bool("retain"),
			}

			result, err := evaluator.Evaluate(ctx, req, termgath.New())
			if err != nil {
				return err
			}

			b, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		},
	}
}

func behaveCmd() *cli.Command {
	return &cli.Command{
		Name:  "behave",
		Usage: "run behaviour scenarios from a TOML file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "behaviour TOML file", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cases, err := behave.Parse(cmd.String("file"))
			if err != nil {
				return err
			}

			cfg := environment.ReadEnvConfig()
			evaluator := eval.NewEvaluator(nil, eval.Options{
				Stages:       pipeline.DefaultStages(cfg.MvnBin),
				StageTimeout: cfg.StageTimeout,
			})

			failed := 0
			for _, c := range cases {
				fmt.Printf("=== %s ===\n", c.Name)
				result, err := evaluator.Evaluate(ctx, c.Request, termgath.New())
				if err != nil {
					color.Red("scenario errored: %v", err)
					failed++
					continue
				}
				if !scenarioSatisfied(c, result) {
					color.Red("expected pass=%v score=%v, got pass=%v score=%.3f",
						c.Expect.Pass, fmtScore(c.Expect.Score), result.Pass, result.Score)
					failed++
					continue
				}
				color.Green("scenario satisfied")
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(cases))
			}
			fmt.Printf("all %d scenarios passed\n", len(cases))
			return nil
		},
	}
}

func scenarioSatisfied(c behave.Case, result api.GradingResult) bool {
	if result.Pass != c.Expect.Pass {
		return false
	}
	if c.Expect.Score != nil && result.Score != *c.Expect.Score {
		return false
	}
	return true
}

func fmtScore(score *float64) string {
	if score == nil {
		return "any"
	}
	return fmt.Sprintf("%.3f", *score)
}

func readOutput(path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}
	return string(raw), nil
}
