// Package replay records sessions tick by tick and archives them as
// zstd-compressed parquet files.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// SchemaVersion is stored in the file metadata.
const SchemaVersion = "snake_frame_v1"

// Frame is one tick of a recorded session. The body is stored tail first
// as parallel coordinate columns.
type Frame struct {
	SessionID  string  `parquet:"session_id,dict"`
	Tick       int64   `parquet:"tick"`
	Width      int32   `parquet:"width"`
	Height     int32   `parquet:"height"`
	BodyX      []int32 `parquet:"body_x"`
	BodyY      []int32 `parquet:"body_y"`
	FoodX      int32   `parquet:"food_x"`
	FoodY      int32   `parquet:"food_y"`
	HasFood    bool    `parquet:"has_food"`
	Score      int32   `parquet:"score"`
	Length     int32   `parquet:"length"`
	IntervalMS int32   `parquet:"interval_ms"`
	Direction  string  `parquet:"direction,dict"`
	Outcome    string  `parquet:"outcome,dict"`
	Phase      string  `parquet:"phase,dict"`
}

// FrameFromSnapshot converts a session snapshot into a row.
func FrameFromSnapshot(sessionID string, snap game.Snapshot) Frame {
	f := Frame{
		SessionID:  sessionID,
		Tick:       int64(snap.Tick),
		Width:      int32(snap.Width),
		Height:     int32(snap.Height),
		BodyX:      make([]int32, len(snap.Body)),
		BodyY:      make([]int32, len(snap.Body)),
		FoodX:      int32(snap.Food.X),
		FoodY:      int32(snap.Food.Y),
		HasFood:    snap.HasFood,
		Score:      int32(snap.Score),
		Length:     int32(snap.Length),
		IntervalMS: int32(snap.IntervalMS()),
		Direction:  snap.Direction.String(),
		Outcome:    snap.LastOutcome.String(),
		Phase:      snap.Phase.String(),
	}
	for i, seg := range snap.Body {
		f.BodyX[i] = int32(seg.Pos.X)
		f.BodyY[i] = int32(seg.Pos.Y)
	}
	return f
}

// Snapshot rebuilds a renderable snapshot from the row.
func (f Frame) Snapshot() game.Snapshot {
	body := make([]game.Segment, min(len(f.BodyX), len(f.BodyY)))
	for i := range body {
		body[i] = game.Segment{
			Pos:    core.Pos(int(f.BodyX[i]), int(f.BodyY[i])),
			IsHead: i == len(body)-1,
		}
	}
	dir, _ := core.ParseDirection(f.Direction)
	phase := parsePhase(f.Phase)
	return game.Snapshot{
		Tick:        uint64(f.Tick),
		Width:       int(f.Width),
		Height:      int(f.Height),
		Body:        body,
		Food:        core.Pos(int(f.FoodX), int(f.FoodY)),
		HasFood:     f.HasFood,
		Score:       int(f.Score),
		Length:      int(f.Length),
		Interval:    time.Duration(f.IntervalMS) * time.Millisecond,
		Phase:       phase,
		PhaseName:   phase.String(),
		Direction:   dir,
		LastOutcome: parseOutcome(f.Outcome),
	}
}

func parsePhase(s string) game.Phase {
	for _, p := range []game.Phase{game.PhasePlaying, game.PhaseEnded, game.PhaseWon} {
		if p.String() == s {
			return p
		}
	}
	return game.PhasePlaying
}

func parseOutcome(s string) game.Outcome {
	for _, o := range []game.Outcome{game.OutcomeNone, game.OutcomeAteFood, game.OutcomeHitWall, game.OutcomeHitSelf} {
		if o.String() == s {
			return o
		}
	}
	return game.OutcomeNone
}

// WriteParquet writes frames to outPath. The file is written next to the
// destination and renamed into place.
func WriteParquet(outPath string, frames []Frame) error {
	if len(frames) == 0 {
		return errors.New("replay: no frames to write")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("replay: create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, frames,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replay: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replay: rename parquet: %w", err)
	}
	return nil
}

// ReadParquet loads every frame of a recording.
func ReadParquet(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("replay: open parquet %s: %w", path, err)
	}
	if schema, ok := pf.Lookup("schema"); ok && schema != SchemaVersion {
		return nil, fmt.Errorf("replay: %s has schema %q, expected %q", path, schema, SchemaVersion)
	}

	reader := parquet.NewGenericReader[Frame](pf)
	defer reader.Close()

	frames := make([]Frame, reader.NumRows())
	n, err := reader.Read(frames)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("replay: read rows: %w", err)
	}
	return frames[:n], nil
}
