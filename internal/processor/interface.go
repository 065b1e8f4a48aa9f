package processor

import (
	"github.com/mauv0809/kendo-tally/internal/club"
	"github.com/mauv0809/kendo-tally/internal/notifier"
)

// Store defines the persistence operations required by the processor.
type Store interface {
	club.ClubStore
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
