package environment

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	AwsRegion   string
	ReqQueueUrl string

	// Root of the prototype archive cache.
	CacheDir string

	// Maven executable override, mainly for tests and exotic installs.
	MvnBin string

	StageTimeout           time.Duration
	RetainSandboxOnFailure bool
}

const defaultStageTimeoutSec = 600

func ReadEnvConfig() *EnvConfig {
	// .env is optional; a deployed worker gets real env vars
	_ = godotenv.Load()

	result := &EnvConfig{
		AwsRegion:   os.Getenv("PROMPTEVAL_AWS_REGION"),
		ReqQueueUrl: os.Getenv("PROMPTEVAL_REQ_SQS_URL"),
		CacheDir:    os.Getenv("PROMPTEVAL_CACHE_DIR"),
		MvnBin:      os.Getenv("PROMPTEVAL_MVN"),
	}

	if result.AwsRegion == "" {
		result.AwsRegion = "eu-central-1"
	}
	if result.CacheDir == "" {
		result.CacheDir = defaultCacheDir()
	}

	timeoutSec := defaultStageTimeoutSec
	if v := os.Getenv("PROMPTEVAL_STAGE_TIMEOUT_SEC"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			timeoutSec = parsed
		}
	}
	result.StageTimeout = time.Duration(timeoutSec) * time.Second

	result.RetainSandboxOnFailure = os.Getenv("PROMPTEVAL_RETAIN_SANDBOX") == "true"

	return result
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "prompteval")
	}
	return filepath.Join(home, ".cache", "prompteval")
}
