package http

import (
	"net/http"

	"github.com/mauv0809/kendo-tally/internal/config"
	"github.com/mauv0809/kendo-tally/internal/kendo"
	"github.com/mauv0809/kendo-tally/internal/metrics"
	"github.com/mauv0809/kendo-tally/internal/notifier"
	"github.com/mauv0809/kendo-tally/internal/processor"
	"github.com/mauv0809/kendo-tally/internal/pubsub"
)

type Server struct {
	Processor      *processor.Processor
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type targetRequest struct {
	Target kendo.Target `json:"target"`
}

type scorerRequest struct {
	Scorer kendo.Scorer `json:"scorer"`
}

type techniqueRequest struct {
	Technique kendo.Technique `json:"technique"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type importResponse struct {
	Players     int `json:"players"`
	Matches     int `json:"matches"`
	TeamMatches int `json:"teamMatches"`
}

// pushRequest is the envelope Pub/Sub push subscriptions POST.
type pushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"` // base64-encoded MessagePack payload
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}
