package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomhaller/depview/pkg/task"
)

// ErrNotFound is returned when a stored graph does not exist.
var ErrNotFound = errors.New("graph not found")

// StoredGraph is a project persisted by the API, addressable by ID.
type StoredGraph struct {
	ID        string       `json:"id" bson:"_id"`
	Project   task.Project `json:"project" bson:"project"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence interface for the API.
// Implementations: MongoStore for deployments, MemoryStore for tests.
type Store interface {
	// Insert stores a new graph.
	Insert(ctx context.Context, g StoredGraph) error

	// Get retrieves a graph by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (StoredGraph, error)

	// List returns all stored graphs, newest first.
	List(ctx context.Context) ([]StoredGraph, error)

	// Update replaces a stored graph. Returns ErrNotFound if absent.
	Update(ctx context.Context, g StoredGraph) error

	// Delete removes a graph. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close(ctx context.Context) error
}

// MongoStore persists graphs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("graphs"),
	}, nil
}

// Insert stores a new graph document.
func (s *MongoStore) Insert(ctx context.Context, g StoredGraph) error {
	_, err := s.coll.InsertOne(ctx, g)
	return err
}

// Get retrieves a graph document by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (StoredGraph, error) {
	var g StoredGraph
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoredGraph{}, ErrNotFound
	}
	return g, err
}

// List returns all graph documents, newest first.
func (s *MongoStore) List(ctx context.Context) ([]StoredGraph, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []StoredGraph
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a graph document.
func (s *MongoStore) Update(ctx context.Context, g StoredGraph) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a graph document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

// MemoryStore keeps graphs in a map. For tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]StoredGraph
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]StoredGraph)}
}

// Insert stores a new graph.
func (s *MemoryStore) Insert(ctx context.Context, g StoredGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[g.ID] = g
	return nil
}

// Get retrieves a graph by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (StoredGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	if !ok {
		return StoredGraph{}, ErrNotFound
	}
	return g, nil
}

// List returns all graphs, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]StoredGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredGraph, 0, len(s.graphs))
	for _, g := range s.graphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces a stored graph.
func (s *MemoryStore) Update(ctx context.Context, g StoredGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[g.ID]; !ok {
		return ErrNotFound
	}
	s.graphs[g.ID] = g
	return nil
}

// Delete removes a graph.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[id]; !ok {
		return ErrNotFound
	}
	delete(s.graphs, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
