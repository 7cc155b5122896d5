//go:build integration

package snapshot_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.appointy.com/sdlkit/snapshot"
)

// TestGradleScenarios runs the four scenarios against a real Gradle build. It
// needs gradle on PATH and network access to resolve the plugin, unless
// SDLKIT_GRADLE_OFFLINE is set and the dependencies are cached.
func TestGradleScenarios(t *testing.T) {
	if _, err := snapshot.LookupGradle(); err != nil {
		t.Skip("gradle not installed")
	}

	runner := &snapshot.GradleRunner{Offline: os.Getenv("SDLKIT_GRADLE_OFFLINE") != ""}
	v := snapshot.NewVerifier(runner, nil)
	v.TempDir = t.TempDir()

	for _, dialect := range snapshot.Dialects {
		for _, hooks := range []string{"", federatedDependency} {
			c := scenario(dialect, hooks)
			variant := snapshot.FixtureDefault
			if hooks != "" {
				variant = snapshot.FixtureFederated
			}
			t.Run(c.Name+"/"+variant, func(t *testing.T) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
				defer cancel()

				res, err := v.Run(ctx, c)
				require.NoError(t, err)
				require.Equal(t, snapshot.OutcomeSuccess, res.Outcome)
			})
		}
	}
}
