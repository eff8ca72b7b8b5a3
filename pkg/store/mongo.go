package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "structboard"

const mongoCollection = "diagrams"

// mongoDiagram is the stored document. Records use their bson tags, so a
// diagram reads the same in the mongo shell as in a JSON file.
type mongoDiagram struct {
	Name      string            `bson:"_id"`
	Records   []document.Record `bson:"records"`
	Elements  int               `bson:"elements"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore keeps diagrams in the "diagrams" collection, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store: no URI")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrapBackend(BackendMongo, "connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, wrapBackend(BackendMongo, "ping", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
		now:    time.Now,
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, name string, records []document.Record) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendMongo, "put", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if records == nil {
		records = []document.Record{}
	}
	doc := mongoDiagram{
		Name:      name,
		Records:   records,
		Elements:  countRecords(records),
		UpdatedAt: s.now().UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	return wrapBackend(BackendMongo, "put", err)
}

func (s *MongoStore) Get(ctx context.Context, name string) (records []document.Record, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendMongo, "get", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	var doc mongoDiagram
	err = s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, wrapBackend(BackendMongo, "get", err)
	}
	return doc.Records, nil
}

func (s *MongoStore) List(ctx context.Context) (infos []Info, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendMongo, "list", "", start, err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"records": 0})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapBackend(BackendMongo, "list", err)
	}
	if err := cur.All(ctx, &infos); err != nil {
		return nil, wrapBackend(BackendMongo, "list", err)
	}
	return infos, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendMongo, "delete", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return wrapBackend(BackendMongo, "delete", err)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
