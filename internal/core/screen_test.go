package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(2, 3, 'O', ColorHead)

	c := s.GetCell(2, 3)
	if c.Rune != 'O' || c.Color != ColorHead {
		t.Errorf("GetCell(2, 3) = %+v, expected 'O' bright magenta", c)
	}

	// Out of bounds writes are dropped and reads return blank.
	s.SetColored(-1, 0, 'X', ColorBody)
	s.SetColored(0, 9, 'X', ColorBody)
	if s.Get(-1, 0) != ' ' || s.Get(0, 9) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawText(5, 0, "Score")

	if got := s.Row(0); got != "     Sco" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "abc")

	if got := s.Row(0); got != "    abc    " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 6, 4), ColorFrame)

	want := []string{
		"┌────┐",
		"│    │",
		"│    │",
		"└────┘",
	}
	for y, row := range want {
		if got := s.Row(y); got != row {
			t.Errorf("Row(%d) = %q, expected %q", y, got, row)
		}
	}
	if s.GetCell(0, 0).Color != ColorFrame {
		t.Error("box should carry its color")
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawText(0, 0, "Snake")

	s.Resize(4, 2)
	if got := s.Row(0); got != "Snak" {
		t.Errorf("after shrink Row(0) = %q", got)
	}

	s.Resize(12, 5)
	if !strings.HasPrefix(s.Row(0), "Snak") {
		t.Errorf("after grow Row(0) = %q", s.Row(0))
	}
	if s.Row(-1) != strings.Repeat(" ", 12) {
		t.Error("out of range row should be blank")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "o*O")
	s.DrawText(0, 1, "###")

	if got := s.String(); got != "o*O\n###" {
		t.Errorf("String() = %q", got)
	}
}
