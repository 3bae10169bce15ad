package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/primex/docs-cms/internal/editor"
)

// MongoRepo is the MongoDB-backed document store. Documents are keyed by the
// application-assigned "metadata.id" string; the compound (category, slug)
// index enforces slug uniqueness within a category.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "metadata.id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "metadata.category", Value: 1}, {Key: "metadata.slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "metadata.status", Value: 1}, {Key: "metadata.createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "metadata.category", Value: 1}, {Key: "metadata.order", Value: 1}}},
	})
	return &MongoRepo{col: col}
}

var listSort = bson.D{{Key: "metadata.category", Value: 1}, {Key: "metadata.order", Value: 1}, {Key: "metadata.title", Value: 1}}

func (m *MongoRepo) Insert(ctx context.Context, rec *Record) error {
	_, err := m.col.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Record, error) {
	return m.findOne(ctx, bson.M{"metadata.id": id}, nil)
}

func (m *MongoRepo) GetBySlug(ctx context.Context, category, slug string) (*Record, error) {
	return m.findOne(ctx, bson.M{"metadata.category": category, "metadata.slug": slug}, nil)
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*Record, error) {
	var rec Record
	var err error
	if opts != nil {
		err = m.col.FindOne(ctx, filter, opts).Decode(&rec)
	} else {
		err = m.col.FindOne(ctx, filter).Decode(&rec)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*Record, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepo) ListVisible(ctx context.Context, userID string) ([]*Record, error) {
	return m.find(ctx, bson.M{"$or": bson.A{
		bson.M{"metadata.status": editor.StatusDraft},
		bson.M{"metadata.createdBy": userID},
	}})
}

func (m *MongoRepo) ListByStatus(ctx context.Context, status editor.DocStatus) ([]*Record, error) {
	return m.find(ctx, bson.M{"metadata.status": status})
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*Record, error) {
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(listSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Record{}
	for cur.Next(ctx) {
		var rec Record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, cur.Err()
}

func (m *MongoRepo) GetDefault(ctx context.Context) (*Record, error) {
	rec, err := m.findOne(ctx, bson.M{
		"metadata.status":    editor.StatusPublished,
		"metadata.isDefault": true,
	}, nil)
	if err == nil {
		return rec, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	// Fall back to the first published document.
	return m.findOne(ctx,
		bson.M{"metadata.status": editor.StatusPublished},
		options.FindOne().SetSort(bson.D{{Key: "metadata.order", Value: 1}, {Key: "metadata.title", Value: 1}}),
	)
}

func (m *MongoRepo) Save(ctx context.Context, rec *Record) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"metadata.id": rec.Metadata.ID}, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDefault clears all default flags and sets the target's in a single
// ordered bulk write, so no other write can land between the two steps on the
// same connection. Existence is checked up front.
func (m *MongoRepo) SetDefault(ctx context.Context, id string) error {
	if err := m.col.FindOne(ctx, bson.M{"metadata.id": id}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	_, err := m.col.BulkWrite(ctx, []mongo.WriteModel{
		mongo.NewUpdateManyModel().
			SetFilter(bson.M{"metadata.id": bson.M{"$ne": id}}).
			SetUpdate(bson.M{"$set": bson.M{"metadata.isDefault": false}}),
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"metadata.id": id}).
			SetUpdate(bson.M{"$set": bson.M{"metadata.isDefault": true}}),
	}, options.BulkWrite().SetOrdered(true))
	return err
}

func (m *MongoRepo) MoveOrder(ctx context.Context, id string, dir Direction) error {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	filter := bson.M{"metadata.category": doc.Metadata.Category}
	sort := bson.D{}
	if dir == MoveUp {
		filter["metadata.order"] = bson.M{"$lt": doc.Metadata.Order}
		sort = bson.D{{Key: "metadata.order", Value: -1}}
	} else {
		filter["metadata.order"] = bson.M{"$gt": doc.Metadata.Order}
		sort = bson.D{{Key: "metadata.order", Value: 1}}
	}
	swap, err := m.findOne(ctx, filter, options.FindOne().SetSort(sort))
	if err == ErrNotFound {
		return ErrCannotMove
	}
	if err != nil {
		return err
	}

	_, err = m.col.BulkWrite(ctx, []mongo.WriteModel{
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"metadata.id": doc.Metadata.ID}).
			SetUpdate(bson.M{"$set": bson.M{"metadata.order": swap.Metadata.Order}}),
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"metadata.id": swap.Metadata.ID}).
			SetUpdate(bson.M{"$set": bson.M{"metadata.order": doc.Metadata.Order}}),
	}, options.BulkWrite().SetOrdered(true))
	return err
}

func (m *MongoRepo) Reorder(ctx context.Context, items []OrderUpdate) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"metadata.id": item.ID}).
			SetUpdate(bson.M{"$set": bson.M{"metadata.order": item.Order}}))
	}
	_, err := m.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"metadata.id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteByCategory(ctx context.Context, category string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"metadata.category": category})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) RenameCategory(ctx context.Context, oldSlug, newSlug string) error {
	_, err := m.col.UpdateMany(ctx,
		bson.M{"metadata.category": oldSlug},
		bson.M{"$set": bson.M{"metadata.category": newSlug}},
	)
	return err
}
