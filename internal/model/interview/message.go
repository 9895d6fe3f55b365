package interview

import "time"

// Speaker identifies which side of the chat produced a message.
type Speaker string

const (
	SpeakerBot       Speaker = "bot"
	SpeakerCandidate Speaker = "candidate"
)

// Message is one turn of the interview transcript. The log is
// append-only; entries are never edited or removed.
type Message struct {
	Speaker Speaker   `json:"from"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}
