//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchShowsPath(t *testing.T) {
	t.Parallel()
	srv := newFakeServer(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	err := tf.StartApp(srv.URL, "--start", "New York City", "--end", "Albert Einstein")
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("wikipath"), "Should show wikipath title")

	require.NoError(t, tf.Enter())

	require.True(t, tf.SeePlain("Path Found"), "Should show the results card")
	require.True(t, tf.SeePlain("Physics"), "Should list the intermediate article")
	require.True(t, tf.SeePlain("Time: 1.25 seconds"), "Should show elapsed time")
	require.True(t, tf.WaitForStatusMessage("Found a path through 3 articles", 2*time.Second))
}

func TestAutocompleteFillsFields(t *testing.T) {
	t.Parallel()
	srv := newFakeServer(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(srv.URL))
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Type("New Y"))
	require.True(t, tf.SeePlain("New York City"), "Should suggest a matching title")
	require.NoError(t, tf.Down())
	require.NoError(t, tf.Enter())

	require.NoError(t, tf.Tab())
	require.NoError(t, tf.Type("Albe"))
	require.True(t, tf.SeePlain("Albert Einstein"), "Should suggest a matching title")
	require.NoError(t, tf.Down())
	require.NoError(t, tf.Enter())

	// both endpoints accepted, so enter now submits
	require.NoError(t, tf.Enter())
	if !tf.SeePlain("Path Found") {
		tf.DumpTailOnFail(t, "autocomplete-submit", 4096)
		t.Fatal("Should submit with the accepted suggestions")
	}
}

func TestSearchErrorModal(t *testing.T) {
	t.Parallel()
	srv := newFakeServer(t)
	srv.failWith("No path found within the given limits.")
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(srv.URL, "--start", "Linux", "--end", "Go"))
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("Search Error"), "Should open the error modal")
	require.True(t, tf.SeePlain("No path found within the given limits."), "Should show the server message")

	// dismissing the modal returns to an interactive form that can submit again
	require.NoError(t, tf.Esc())
	time.Sleep(100 * time.Millisecond)
	tf.ResetOutput()
	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("Search Error"), "Should open the modal for the second search")
	runs, _ := srv.counts()
	require.Equal(t, 2, runs)
}

func TestCancelRunningSearch(t *testing.T) {
	t.Parallel()
	srv := newFakeServer(t)
	srv.holdRuns()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(srv.URL, "--start", "Linux", "--end", "Go"))
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("Searching for a path"), "Should show the loader")

	require.NoError(t, tf.SendKeys(KeyCtrlX))
	require.True(t, tf.WaitForStatusMessage("Search cancelled", 2*time.Second), "Should report the cancel")

	deadline := time.Now().Add(2 * time.Second)
	for {
		runs, cancels := srv.counts()
		if runs == 1 && cancels == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 run and 1 cancel notice, got %d and %d", runs, cancels)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
