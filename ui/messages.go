package ui

import (
	"time"

	"printlab/storage"
)

// answerMsg carries the agent's final text for one turn.
type answerMsg struct {
	text     string
	duration time.Duration
}

type chatErrorMsg struct {
	err error
}

type markdownRenderedMsg struct {
	index    int
	rendered string
}

type statsLoadedMsg struct {
	stats *storage.Stats
	err   error
}

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryError
)

// entry is one line of the transcript as displayed. Rendered holds the
// markdown rendering once it has arrived; until then Content is shown.
type entry struct {
	kind      entryKind
	content   string
	rendered  string
	timestamp time.Time
}
