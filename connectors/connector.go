package connectors

import (
	"github.com/fieldops/leadrouter/auth"
)

// MatrixClient fetches road-network travel estimates from an external
// routing provider.
type MatrixClient interface {
	Fetch(authClient *auth.ClientCred, opts ...Option) (MatrixResponse, error)
}

// MatrixResponse exposes the single best leg of a routing query.
type MatrixResponse interface {
	Leg() (distanceMiles float64, driveMinutes int, err error)
}

// Option configures a MatrixClient before a Fetch call.
type Option func(c MatrixClient) error

// ErrIncompatibleOption is the format used when an option is applied to
// a client of the wrong concrete type.
const ErrIncompatibleOption = "option %s is not compatible with client %s"
