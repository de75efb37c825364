package factory

import (
	"fmt"

	"github.com/fieldops/leadrouter/connectors"
	"github.com/fieldops/leadrouter/connectors/clients/roadmatrix"
)

const (
	IDRoadMatrix = "roadmatrix"
)

var errUnknownClient = "unknown connector id: %s"

func NewMatrixClient(id string) (connectors.MatrixClient, error) {
	switch id {
	case IDRoadMatrix:
		return &roadmatrix.Client{}, nil
	default:
		return nil, fmt.Errorf(errUnknownClient, id)
	}
}
