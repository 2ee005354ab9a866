package replay

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/game"
)

func playSession(t *testing.T, ticks int) []game.Snapshot {
	t.Helper()
	s, err := game.NewSession(game.DefaultSessionConfig(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	snaps := []game.Snapshot{s.Snapshot()}
	for range ticks {
		s.Tick()
		snaps = append(snaps, s.Snapshot())
	}
	return snaps
}

func TestFrameSnapshotRoundTrip(t *testing.T) {
	snaps := playSession(t, 4)
	want := snaps[len(snaps)-1]

	got := FrameFromSnapshot("abc", want).Snapshot()

	if got.Tick != want.Tick || got.Score != want.Score || got.Length != want.Length {
		t.Errorf("counters differ: %+v vs %+v", got, want)
	}
	if got.Head() != want.Head() || len(got.Body) != len(want.Body) {
		t.Errorf("body differs: %v vs %v", got.Body, want.Body)
	}
	if !got.Body[len(got.Body)-1].IsHead || got.Body[0].IsHead && len(got.Body) > 1 {
		t.Error("head flag must mark only the last segment")
	}
	if got.Food != want.Food || got.Direction != want.Direction || got.Interval != want.Interval {
		t.Errorf("food/direction/interval differ: %+v vs %+v", got, want)
	}
	if got.Phase != want.Phase || got.LastOutcome != want.LastOutcome {
		t.Errorf("phase/outcome differ")
	}
}

func TestRecorderSaveAndRead(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)
	snaps := playSession(t, 6)

	rec.Begin("s1", snaps[0])
	for _, snap := range snaps[1:] {
		rec.Record(snap)
	}
	if rec.Len() != len(snaps) {
		t.Fatalf("Len() = %d, expected %d", rec.Len(), len(snaps))
	}

	path, err := rec.Take().Save()
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "snake_s1_") || filepath.Ext(path) != ".parquet" {
		t.Errorf("unexpected file name %s", path)
	}
	if rec.Len() != 0 {
		t.Error("Take must clear the buffer")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	frames, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet() failed: %v", err)
	}
	if len(frames) != len(snaps) {
		t.Fatalf("read %d frames, expected %d", len(frames), len(snaps))
	}
	for i, f := range frames {
		if f.Tick != int64(snaps[i].Tick) || f.SessionID != "s1" {
			t.Errorf("frame %d = tick %d session %q", i, f.Tick, f.SessionID)
		}
	}
	if head := frames[len(frames)-1].Snapshot().Head(); head != snaps[len(snaps)-1].Head() {
		t.Errorf("last head = %v, expected %v", head, snaps[len(snaps)-1].Head())
	}
}

func TestTakeDetachesFromNextSession(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)
	snaps := playSession(t, 4)

	rec.Begin("first", snaps[0])
	rec.Record(snaps[1])
	taken := rec.Take()
	if taken.Len() != 2 || rec.Len() != 0 {
		t.Fatalf("taken %d frames, %d left", taken.Len(), rec.Len())
	}

	rec.Begin("second", snaps[2])
	rec.Record(snaps[3])

	path, err := taken.Save()
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	frames, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet() failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("read %d frames, expected 2", len(frames))
	}
	for _, f := range frames {
		if f.SessionID != "first" {
			t.Errorf("frame from session %q leaked into the first recording", f.SessionID)
		}
	}
}

func TestSaveEmpty(t *testing.T) {
	path, err := NewRecorder(t.TempDir()).Take().Save()
	if err != nil || path != "" {
		t.Errorf("Save() on empty recorder = %q, %v", path, err)
	}
}

func TestWriteParquetRejectsEmpty(t *testing.T) {
	if err := WriteParquet(filepath.Join(t.TempDir(), "x.parquet"), nil); err == nil {
		t.Error("expected error for empty frames")
	}
}

func TestReadParquetMissing(t *testing.T) {
	if _, err := ReadParquet(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSummarize(t *testing.T) {
	frames := []Frame{
		{SessionID: "x", Tick: 0, IntervalMS: 400, Phase: "playing", Outcome: "none", BodyX: []int32{5}},
		{SessionID: "x", Tick: 1, IntervalMS: 398, Score: 1, Phase: "playing", Outcome: "ate_food", BodyX: []int32{5, 6}},
		{SessionID: "x", Tick: 2, IntervalMS: 398, Score: 1, Phase: "ended", Outcome: "hit_wall", BodyX: []int32{5, 6, 7}},
	}
	s := Summarize(frames)
	if s.Frames != 3 || s.Ticks != 2 || s.FinalScore != 1 || s.FinalLength != 3 {
		t.Errorf("summary = %+v", s)
	}
	if s.Outcome != "hit_wall" || s.Phase != "ended" || s.MinInterval.Milliseconds() != 398 {
		t.Errorf("summary = %+v", s)
	}
	if Summarize(nil) != (Summary{}) {
		t.Error("empty summary expected for no frames")
	}
}
