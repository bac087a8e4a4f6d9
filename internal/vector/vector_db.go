package vector

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"hadees/internal/constants"
	"hadees/internal/embedding"
)

const payloadHadithID = "hadith_id"
const payloadText = "text"

// pointNamespace - Qdrant only takes UUIDs or integers as ids, so hadith ids are mapped onto UUIDv5s.
var pointNamespace = uuid.MustParse("5b3f1d4e-8c1a-4f7e-9d2b-6a0c7e9f1b23")

// Db - Qdrant collection reached over gRPC. The collection is created on the first write,
// so connecting never mutates Qdrant.
type Db struct {
	conn        *grpc.ClientConn
	Client      qdrant.PointsClient
	collections qdrant.CollectionsClient
	embedder    embedding.Embedder
	collection  string
	dimensions  uint64
	logger      *zap.Logger

	mu    sync.Mutex
	ready bool
}

// Connect - Dial Qdrant's gRPC port and look the collection up.
func Connect(ctx context.Context, addr string, collection string, dimensions int, embedder embedding.Embedder, logger *zap.Logger) (*Db, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("invalid vector dimensions %d", dimensions)
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}

	db := newDb(qdrant.NewPointsClient(conn), qdrant.NewCollectionsClient(conn), collection, dimensions, embedder, logger)
	db.conn = conn
	if err := db.lookupCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func newDb(points qdrant.PointsClient, collections qdrant.CollectionsClient, collection string, dimensions int, embedder embedding.Embedder, logger *zap.Logger) *Db {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Db{
		Client:      points,
		collections: collections,
		embedder:    embedder,
		collection:  collection,
		dimensions:  uint64(dimensions),
		logger:      logger,
	}
}

// lookupCollection - Read-only check; a missing collection is fine until something is written.
func (db *Db) lookupCollection(ctx context.Context) error {
	_, err := db.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: db.collection})
	switch {
	case err == nil:
		db.ready = true
		return nil
	case status.Code(err) == codes.NotFound:
		db.logger.Info("collection not found, it will be created on first write", zap.String("collection", db.collection))
		return nil
	default:
		return fmt.Errorf("get collection %s: %w", db.collection, err)
	}
}

func (db *Db) ensureCollection(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ready {
		return nil
	}
	_, err := db.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: db.collection})
	if err == nil {
		db.ready = true
		return nil
	}
	// only create collection if it's not found
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("get collection %s: %w", db.collection, err)
	}
	db.logger.Info("creating collection", zap.String("collection", db.collection))
	if err := db.createCollection(ctx); err != nil {
		return err
	}
	db.ready = true
	return nil
}

func (db *Db) createCollection(ctx context.Context) error {
	_, err := db.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     db.dimensions,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", db.collection, err)
	}
	return nil
}

func (db *Db) Count(ctx context.Context) (uint64, error) {
	resp, err := db.Client.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          proto.Bool(true),
	})
	if status.Code(err) == codes.NotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

func (db *Db) Reset(ctx context.Context) error {
	_, err := db.collections.Delete(ctx, &qdrant.DeleteCollection{CollectionName: db.collection})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("delete collection %s: %w", db.collection, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.ready = false
	if err := db.createCollection(ctx); err != nil {
		return err
	}
	db.ready = true
	return nil
}

func (db *Db) Add(ctx context.Context, docs []constants.Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := db.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}
	if err := db.ensureCollection(ctx); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		payload := map[string]*qdrant.Value{
			payloadHadithID: stringValue(doc.ID),
			payloadText:     stringValue(doc.Text),
		}
		for _, key := range constants.MetadataKeys {
			payload[key] = stringValue(doc.Metadata[key])
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(doc.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: payload,
		}
	}

	upsert, err := db.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Wait:           proto.Bool(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	getStatus := upsert.GetResult().GetStatus()
	if getStatus != qdrant.UpdateStatus_Acknowledged && getStatus != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("upsert points: unexpected status %s", getStatus)
	}
	return nil
}

func (db *Db) Query(ctx context.Context, text string, limit int, filter constants.Filter) ([]Hit, error) {
	vectors, err := db.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 query", len(vectors))
	}
	resp, err := db.Client.Search(ctx, &qdrant.SearchPoints{
		CollectionName: db.collection,
		Vector:         vectors[0],
		Limit:          uint64(limit),
		Filter:         buildFilter(filter),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	hits := make([]Hit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hit := hitFromPayload(point.GetPayload())
		hit.Distance = ScoreToDistance(point.GetScore())
		hits = append(hits, hit)
	}
	return hits, nil
}

func (db *Db) Get(ctx context.Context, id string) (*Hit, error) {
	resp, err := db.Client.Get(ctx, &qdrant.GetPoints{
		CollectionName: db.collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(PointID(id))},
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get point: %w", err)
	}
	if len(resp.GetResult()) == 0 {
		return nil, ErrNotFound
	}
	hit := hitFromPayload(resp.GetResult()[0].GetPayload())
	return &hit, nil
}

func (db *Db) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// PointID - Stable Qdrant id for a hadith id.
func PointID(hadithID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(hadithID)).String()
}

// ScoreToDistance - Qdrant reports cosine similarity for cosine collections; distance is 1 - similarity.
func ScoreToDistance(score float32) float64 {
	return 1 - float64(score)
}

func buildFilter(filter constants.Filter) *qdrant.Filter {
	if filter.IsEmpty() {
		return nil
	}
	conditions := filter.Conditions()
	must := make([]*qdrant.Condition, 0, len(conditions))
	for _, key := range constants.MetadataKeys {
		if value, ok := conditions[key]; ok {
			must = append(must, qdrant.NewMatch(key, value))
		}
	}
	return &qdrant.Filter{Must: must}
}

func hitFromPayload(payload map[string]*qdrant.Value) Hit {
	hit := Hit{
		ID:       payload[payloadHadithID].GetStringValue(),
		Text:     payload[payloadText].GetStringValue(),
		Metadata: make(map[string]string, len(constants.MetadataKeys)),
	}
	for _, key := range constants.MetadataKeys {
		hit.Metadata[key] = payload[key].GetStringValue()
	}
	return hit
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}
