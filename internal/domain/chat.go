package domain

import "time"

// Chat message senders.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// ChatMessage is one line of the support chat. UserID is the logged-in
// user's email or an opaque guest identifier; it is the grouping key for
// sessions.
type ChatMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	UserName  string    `json:"userName"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is a derived grouping of messages by UserID. Sessions are
// never stored; they are recomputed from the full message sequence on
// every read.
type ChatSession struct {
	UserID      string        `json:"userId"`
	UserName    string        `json:"userName"`
	Messages    []ChatMessage `json:"messages"`
	LastMessage time.Time     `json:"lastMessage"`
}
