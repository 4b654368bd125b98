package petstore

import (
	"context"

	"github.com/toyz/restgen/pkg/rest"
)

// Pet is an animal in the store
type Pet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PetClient reads the pet store
//
//rest::client -RootURL=http://localhost:8080
type PetClient interface {
	//rest::get /pets/{id}
	//rest::path id
	Pet(ctx context.Context, id int64) (*Pet, error)

	//rest::get /pets
	//rest::query limit
	Pets(ctx context.Context, limit int) (rest.List[Pet], error)
}

// Store is not a client
type Store interface {
	Open() error
}
