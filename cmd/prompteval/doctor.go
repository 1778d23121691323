package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/prompteval/internal/environment"
)

type feedbackRow struct {
	unit    string
	ok      bool
	message string
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "check that the grading environment is usable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := environment.ReadEnvConfig()

			feedback := []feedbackRow{
				checkMaven(cfg.MvnBin),
				checkCacheDir(cfg.CacheDir),
			}

			failed := false
			for _, row := range feedback {
				if row.ok {
					color.Green("[ok]   %s: %s", row.unit, row.message)
				} else {
					color.Red("[fail] %s: %s", row.unit, row.message)
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("environment is not usable")
			}
			return nil
		},
	}
}

func checkMaven(mvnBin string) feedbackRow {
	if mvnBin == "" {
		mvnBin = "mvn"
	}
	path, err := exec.LookPath(mvnBin)
	if err != nil {
		return feedbackRow{unit: "maven", message: fmt.Sprintf("%s not found on PATH", mvnBin)}
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return feedbackRow{unit: "maven", message: fmt.Sprintf("%s --version failed: %v", path, err)}
	}
	firstLine := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	return feedbackRow{unit: "maven", ok: true, message: firstLine}
}

func checkCacheDir(dir string) feedbackRow {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return feedbackRow{unit: "cache dir", message: err.Error()}
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return feedbackRow{unit: "cache dir", message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	_ = os.Remove(probe)
	return feedbackRow{unit: "cache dir", ok: true, message: dir}
}
