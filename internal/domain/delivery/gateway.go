package delivery

import (
	"context"
	"errors"
)

var (
	// ErrSendFailed reports a transport send that did not succeed. The
	// dispatcher retries it a bounded number of times before giving up.
	ErrSendFailed = errors.New("delivery send failed")

	// ErrUnresolvedCorrelation reports a reply token that maps to no known
	// ticket.
	ErrUnresolvedCorrelation = errors.New("correlation token does not resolve to a ticket")
)

// Gateway performs the actual transport send for an intent and returns the
// opaque correlation token the transport attached to the outbound message.
// Tokens are only meaningful for intents a reply can arrive against; a
// gateway may return an empty token for the rest.
type Gateway interface {
	Send(ctx context.Context, intent Intent) (correlationToken string, err error)
}

// CorrelationStore maps tokens handed back by the gateway to ticket
// identities so an inbound admin reply can be resolved.
type CorrelationStore interface {
	Bind(ctx context.Context, token string, ticketID uint) error
	// Resolve returns ErrUnresolvedCorrelation for unknown tokens.
	Resolve(ctx context.Context, token string) (uint, error)
}
