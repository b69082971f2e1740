package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"ising/internal/runconfig"
	"ising/internal/sink"
)

func smallRun(t *testing.T) *runconfig.Config {
	cfg := runconfig.NewConfig()
	cfg.Sim.Rows, cfg.Sim.Cols = 8, 8
	cfg.Sim.Steps = 1000
	cfg.Sim.Seed = 7
	cfg.Sim.Beta = 0.4
	cfg.Sim.TraceEvery = 1
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("stat %s: %v", path, err)
	}
	return err == nil
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := smallRun(t)
	cfg.Output.Movie = "run.avi"
	cfg.Output.MovieFrames = 7

	var report bytes.Buffer
	got, err := run(cfg, log.New(io.Discard), &report)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.result.Steps != 1000 {
		t.Fatalf("ran %d steps", got.result.Steps)
	}
	if got.frames != cfg.Output.MovieFrames+1 {
		t.Fatalf("movie has %d frames, expected %d", got.frames, cfg.Output.MovieFrames+1)
	}
	for _, name := range []string{sink.InitialName, "t_1e3.png", sink.TraceName, "run.avi"} {
		if !exists(t, filepath.Join(cfg.Output.Dir, name)) {
			t.Fatalf("%s not written", name)
		}
	}
	if !strings.Contains(report.String(), "Rejected") {
		t.Fatalf("report missing counters:\n%s", report.String())
	}
}

func TestRunWithoutTraceOrStats(t *testing.T) {
	cfg := smallRun(t)
	cfg.Sim.TrackTrace = false
	cfg.Sim.PrintStats = false

	var report bytes.Buffer
	got, err := run(cfg, log.New(io.Discard), &report)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.frames != 0 || got.result.Trace != nil {
		t.Fatalf("frames %d trace %v", got.frames, got.result.Trace)
	}
	if exists(t, filepath.Join(cfg.Output.Dir, sink.TraceName)) {
		t.Fatal("chart written without a trace")
	}
	if !exists(t, filepath.Join(cfg.Output.Dir, "t_1e3.png")) {
		t.Fatal("final snapshot not written")
	}
	if report.Len() != 0 {
		t.Fatalf("report printed with stats off:\n%s", report.String())
	}
}

func TestRunSkipsSnapshots(t *testing.T) {
	cfg := smallRun(t)
	cfg.Output.Snapshots = false
	cfg.Output.Plot = false
	if _, err := run(cfg, log.New(io.Discard), io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries, err := os.ReadDir(cfg.Output.Dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("unexpected outputs %v", entries)
	}
}

func TestFrameClock(t *testing.T) {
	cases := []struct {
		steps  uint64
		frames int
		want   []uint64
	}{
		{1000, 7, []uint64{142, 285, 428, 571, 714, 857, 1000}},
		{10, 4, []uint64{2, 5, 7, 10}},
		{3, 5, []uint64{0, 1, 1, 2, 3}},
		{0, 2, []uint64{0, 0}},
	}
	for _, c := range cases {
		clock := newFrameClock(c.steps, c.frames)
		var got []uint64
		for {
			at, ok := clock.due()
			if !ok {
				break
			}
			got = append(got, at)
			clock.next++
		}
		if len(got) != len(c.want) {
			t.Fatalf("%d steps, %d frames: due %v, expected %v", c.steps, c.frames, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%d steps, %d frames: due %v, expected %v", c.steps, c.frames, got, c.want)
			}
		}
	}
}
