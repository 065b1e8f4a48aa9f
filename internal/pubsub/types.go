package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventMatchRecorded     EventType = "match-recorded"
	EventTeamMatchRecorded EventType = "team-match-recorded"
)

// MatchRecorded is the payload of EventMatchRecorded.
type MatchRecorded struct {
	Match kendo.Match `msgpack:"match"`
}

// TeamMatchRecorded is the payload of EventTeamMatchRecorded. Matches holds
// the individual records derived from the bouts.
type TeamMatchRecorded struct {
	TeamMatch kendo.TeamMatch `msgpack:"teamMatch"`
	Matches   []kendo.Match   `msgpack:"matches"`
}
