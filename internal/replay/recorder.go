package replay

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// Recorder collects frames for one session at a time.
type Recorder struct {
	mu        sync.Mutex
	dir       string
	sessionID string
	frames    []Frame
}

// NewRecorder writes recordings into dir.
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Begin drops any unsaved frames and starts a new recording.
func (r *Recorder) Begin(sessionID string, first game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = sessionID
	r.frames = append(r.frames[:0], FrameFromSnapshot(sessionID, first))
}

// Record appends a frame.
func (r *Recorder) Record(snap game.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, FrameFromSnapshot(r.sessionID, snap))
}

// Len returns the number of buffered frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Recording is a finished set of frames detached from its Recorder, so it
// can be written while the Recorder starts on the next session.
type Recording struct {
	dir       string
	sessionID string
	frames    []Frame
}

// Take detaches the buffered frames and clears the buffer.
func (r *Recorder) Take() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := Recording{dir: r.dir, sessionID: r.sessionID, frames: r.frames}
	r.frames = nil
	return rec
}

// Len returns the number of frames in the recording.
func (rec Recording) Len() int { return len(rec.frames) }

// Save writes the recording to a new file and returns its path, or ""
// when there is nothing to write.
func (rec Recording) Save() (string, error) {
	if len(rec.frames) == 0 {
		return "", nil
	}
	name := fmt.Sprintf("snake_%s_%d.parquet", rec.sessionID, time.Now().UnixNano())
	path := filepath.Join(rec.dir, name)
	if err := WriteParquet(path, rec.frames); err != nil {
		return "", err
	}
	return path, nil
}

// Summary describes a recording.
type Summary struct {
	SessionID   string
	Frames      int
	Ticks       int64
	FinalScore  int
	FinalLength int
	Outcome     string
	Phase       string
	MinInterval time.Duration
}

// Summarize reduces frames to their headline numbers.
func Summarize(frames []Frame) Summary {
	if len(frames) == 0 {
		return Summary{}
	}
	last := frames[len(frames)-1]
	s := Summary{
		SessionID:   last.SessionID,
		Frames:      len(frames),
		Ticks:       last.Tick,
		FinalScore:  int(last.Score),
		FinalLength: len(last.BodyX),
		Outcome:     last.Outcome,
		Phase:       last.Phase,
		MinInterval: time.Duration(frames[0].IntervalMS) * time.Millisecond,
	}
	for _, f := range frames {
		if d := time.Duration(f.IntervalMS) * time.Millisecond; d < s.MinInterval {
			s.MinInterval = d
		}
	}
	return s
}
