package server

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ironsheep/strand-counter/internal/counter"
	"github.com/ironsheep/strand-counter/internal/imaging"
)

// Session is an open folder of frames and the position within it.
type Session struct {
	ID       string   `json:"session_id"`
	Folder   string   `json:"folder"`
	Images   []string `json:"-"`
	Position int      `json:"position"`
}

// SessionInfo describes the current frame of a session.
type SessionInfo struct {
	SessionID string        `json:"session_id"`
	Folder    string        `json:"folder"`
	Image     string        `json:"image"`
	Position  int           `json:"position"`
	Total     int           `json:"total"`
	Strands   int           `json:"strands"`
	State     counter.State `json:"state"`
}

func newSession(folder string) (*Session, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder: %w", err)
	}
	images, err := imaging.ListImages(abs)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:     uuid.NewString(),
		Folder: abs,
		Images: images,
	}, nil
}

// move steps the position one frame in dir, wrapping at both ends.
func (s *Session) move(dir counter.Direction) {
	n := len(s.Images)
	if dir == counter.Backward {
		s.Position = (s.Position - 1 + n) % n
		return
	}
	s.Position = (s.Position + 1) % n
}

// current returns the path of the frame at the current position.
func (s *Session) current() string {
	return s.Images[s.Position]
}

// previous returns the frame before the current one in folder order, or ""
// for the first frame. Navigation direction does not matter.
func (s *Session) previous() string {
	if s.Position == 0 {
		return ""
	}
	return s.Images[s.Position-1]
}

// stale returns the frames just outside the (previous, current) pair, which
// are no longer needed after a step.
func (s *Session) stale() []string {
	n := len(s.Images)
	if n <= 2 {
		return nil
	}
	return []string{
		s.Images[(s.Position-2+n)%n],
		s.Images[(s.Position+1)%n],
	}
}
