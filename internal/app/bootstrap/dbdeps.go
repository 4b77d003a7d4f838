// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Store is what every feature reads and writes through. The Mongo fields are
// set only for the mongo backend and Memory only for the memory backend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Memory        *docstore.Memory

	Store docstore.Database
}
