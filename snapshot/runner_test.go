package snapshot_test

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"go.appointy.com/sdlkit/snapshot"
)

func TestParseTaskOutcomes(t *testing.T) {
	log := `> Task :compileKotlin UP-TO-DATE
> Task :compileJava NO-SOURCE
> Task :classes
> Task :graphqlGenerateSDL
> Task :processResources FROM-CACHE

BUILD SUCCESSFUL in 3s
`
	got := snapshot.ParseTaskOutcomes(log)
	want := map[string]snapshot.TaskOutcome{
		":compileKotlin":      snapshot.OutcomeUpToDate,
		":compileJava":        snapshot.OutcomeNoSource,
		":classes":            snapshot.OutcomeSuccess,
		":graphqlGenerateSDL": snapshot.OutcomeSuccess,
		":processResources":   snapshot.OutcomeFromCache,
	}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("unexpected outcomes:\n%s", diff)
	}
}

func TestParseTaskOutcomesFailure(t *testing.T) {
	log := "> Task :compileKotlin\r\n> Task :graphqlGenerateSDL FAILED\r\n\r\nFAILURE: Build failed with an exception.\r\n"
	got := snapshot.ParseTaskOutcomes(log)
	if got[":graphqlGenerateSDL"] != snapshot.OutcomeFailed {
		t.Errorf("expected FAILED, got %q", got[":graphqlGenerateSDL"])
	}

	// Gradle prints the task line before it fails when the console is plain.
	log = "> Task :graphqlGenerateSDL\n\n* What went wrong:\nExecution failed for task ':graphqlGenerateSDL'.\n"
	got = snapshot.ParseTaskOutcomes(log)
	if got[":graphqlGenerateSDL"] != snapshot.OutcomeFailed {
		t.Errorf("expected FAILED, got %q", got[":graphqlGenerateSDL"])
	}
}

func TestBuildResultOutcome(t *testing.T) {
	r := &snapshot.BuildResult{Tasks: map[string]snapshot.TaskOutcome{":graphqlGenerateSDL": snapshot.OutcomeSuccess}}
	for _, path := range []string{"graphqlGenerateSDL", ":graphqlGenerateSDL"} {
		if outcome, ok := r.Outcome(path); !ok || outcome != snapshot.OutcomeSuccess {
			t.Errorf("Outcome(%q) = %q, %v", path, outcome, ok)
		}
	}

	var missing *snapshot.BuildResult
	if _, ok := missing.Outcome(":graphqlGenerateSDL"); ok {
		t.Error("nil result reported an outcome")
	}
}
