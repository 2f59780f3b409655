// Package session holds the in-memory state of one conversation: an ordered
// list of turns owned by a Session value. Nothing here is ever written to
// disk; the turns are gone when the Session is dropped.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"codeberg.org/snonux/vjtalk/internal/langdetect"
)

// Speaker identifies one of the two people taking turns.
type Speaker string

const (
	SpeakerA Speaker = "A"
	SpeakerB Speaker = "B"
)

// Turn is one recorded exchange in conversation mode.
type Turn struct {
	Index      int // 1-based position in the conversation
	Speaker    Speaker
	SourceText string
	SourceLang langdetect.Lang
	TargetText string
	TargetLang langdetect.Lang
	Failed     bool // translation failed; TargetText holds the error message
	At         time.Time
}

// Session owns the turn history of one user session. Appends happen from a
// single writer; the mutex only keeps readers (the GUI history view) safe.
type Session struct {
	ID        string
	StartedAt time.Time

	mu    sync.Mutex
	turns []Turn
	now   func() time.Time
}

// New starts an empty session.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		now:       time.Now,
	}
}

// speakerFor returns the speaker of the turn that follows n recorded turns.
func speakerFor(n int) Speaker {
	if n%2 == 0 {
		return SpeakerA
	}
	return SpeakerB
}

// NextSpeaker returns who speaks next, purely by parity of the turn count.
func (s *Session) NextSpeaker() Speaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return speakerFor(len(s.turns))
}

// Append records a new turn and returns it with Index, Speaker and At set.
func (s *Session) Append(sourceText string, sourceLang langdetect.Lang, targetText string, targetLang langdetect.Lang, failed bool) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{
		Index:      len(s.turns) + 1,
		Speaker:    speakerFor(len(s.turns)),
		SourceText: sourceText,
		SourceLang: sourceLang,
		TargetText: targetText,
		TargetLang: targetLang,
		Failed:     failed,
		At:         s.now(),
	}
	s.turns = append(s.turns, turn)
	return turn
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Turns returns a copy of the turns in the order they happened.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Reversed returns a copy of the turns, newest first.
func (s *Session) Reversed() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, 0, len(s.turns))
	for i := len(s.turns) - 1; i >= 0; i-- {
		out = append(out, s.turns[i])
	}
	return out
}

// Reset drops all turns. The session keeps its ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
