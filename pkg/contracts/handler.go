package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Pinger is the slice of *mongo.Client the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}
