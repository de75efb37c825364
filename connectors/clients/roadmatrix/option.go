package roadmatrix

import (
	"fmt"
	"net/http"

	"github.com/fieldops/leadrouter/connectors"
	"github.com/fieldops/leadrouter/core/model"
)

func WithBaseURL(baseURL string) connectors.Option {
	return func(c connectors.MatrixClient) error {
		if rm, ok := c.(*Client); ok {
			rm.baseURL = baseURL
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithBaseURL", "roadmatrix")
	}
}

func WithOrigin(origin model.Coordinate) connectors.Option {
	return func(c connectors.MatrixClient) error {
		if rm, ok := c.(*Client); ok {
			rm.origin = origin
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithOrigin", "roadmatrix")
	}
}

func WithDestination(destination model.Coordinate) connectors.Option {
	return func(c connectors.MatrixClient) error {
		if rm, ok := c.(*Client); ok {
			rm.destination = destination
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithDestination", "roadmatrix")
	}
}

func WithMode(mode string) connectors.Option {
	return func(c connectors.MatrixClient) error {
		if rm, ok := c.(*Client); ok {
			rm.mode = mode
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithMode", "roadmatrix")
	}
}

func WithHTTPClient(client *http.Client) connectors.Option {
	return func(c connectors.MatrixClient) error {
		if rm, ok := c.(*Client); ok {
			rm.httpClient = client
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithHTTPClient", "roadmatrix")
	}
}
