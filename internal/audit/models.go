package audit

import (
	"time"

	"github.com/mssola/useragent"
)

// Actions recorded for content views.
const (
	ActionList   = "content.list"
	ActionDetail = "content.detail"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event records one resolution of an activity. Keep it transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	Activity   string    `json:"activity"`
	Collection string    `json:"collection"`
	ItemID     string    `json:"item_id,omitempty"`
	Count      int       `json:"count"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	Client     Client    `json:"client"`
}

// Client is the parsed User-Agent of the caller.
type Client struct {
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Mobile         bool   `json:"mobile"`
	Bot            bool   `json:"bot"`
}

// ClientFromUserAgent parses a raw User-Agent header. An empty header yields
// the zero Client.
func ClientFromUserAgent(raw string) Client {
	if raw == "" {
		return Client{}
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	return Client{
		Browser:        name,
		BrowserVersion: version,
		OS:             ua.OS(),
		Mobile:         ua.Mobile(),
		Bot:            ua.Bot(),
	}
}
