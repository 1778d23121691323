package grade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/prompteval/internal/grade"
	"github.com/programme-lv/prompteval/internal/pipeline"
)

func TestGrade_AllStagesPass(t *testing.T) {
	stages := []pipeline.StageResult{
		{Name: "mvn install", Ok: true},
		{Name: "mvn test-compile", Ok: true},
		{Name: "mvn test", Ok: true},
	}

	result := grade.Grade(stages, "/tmp/sb")

	assert.True(t, result.Pass)
	assert.Equal(t, 1.0, result.Score)
	assert.Contains(t, result.Reason, "/tmp/sb")

	require.Len(t, result.ComponentResults, 3)
	for _, comp := range result.ComponentResults {
		assert.True(t, comp.Pass)
		assert.Equal(t, 1.0, comp.Score)
	}
	assert.Equal(t, "mvn install", result.ComponentResults[0].Reason)
}

func TestGrade_InstallFailureZeroesEverything(t *testing.T) {
	stages := []pipeline.StageResult{
		{Name: "mvn install", Ok: false, CombinedOutput: "could not resolve dependencies"},
		{Name: "mvn test-compile", Skipped: true},
		{Name: "mvn test", Skipped: true},
	}

	result := grade.Grade(stages, "/tmp/sb")

	assert.False(t, result.Pass)
	assert.Equal(t, 0.0, result.Score)

	require.Len(t, result.ComponentResults, 3)
	assert.Equal(t, "mvn install - could not resolve dependencies", result.ComponentResults[0].Reason)
	assert.Contains(t, result.ComponentResults[1].Reason, "skipped")
	assert.Equal(t, 0.0, result.ComponentResults[1].Score)
}

func TestGrade_TestFailureScoresTwoThirds(t *testing.T) {
	stages := []pipeline.StageResult{
		{Name: "mvn install", Ok: true},
		{Name: "mvn test-compile", Ok: true},
		{Name: "mvn test", Ok: false, CombinedOutput: "1 test failed"},
	}

	result := grade.Grade(stages, "/tmp/sb")

	assert.False(t, result.Pass)
	assert.InDelta(t, 0.667, result.Score, 0.001)
	assert.Equal(t, "mvn test - 1 test failed", result.ComponentResults[2].Reason)
}

func TestGrade_NoStages(t *testing.T) {
	result := grade.Grade(nil, "/tmp/sb")

	assert.False(t, result.Pass)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.ComponentResults)
}
