package categories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo is the MongoDB-backed category store.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "order", Value: 1}}},
	})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, cat *Category) error {
	_, err := m.col.InsertOne(ctx, cat)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Category, error) {
	return m.findOne(ctx, bson.M{"id": id}, nil)
}

func (m *MongoRepo) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return m.findOne(ctx, bson.M{"slug": slug}, nil)
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*Category, error) {
	var cat Category
	var err error
	if opts != nil {
		err = m.col.FindOne(ctx, filter, opts).Decode(&cat)
	} else {
		err = m.col.FindOne(ctx, filter).Decode(&cat)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*Category, error) {
	cur, err := m.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Category{}
	for cur.Next(ctx) {
		var cat Category
		if err := cur.Decode(&cat); err != nil {
			return nil, err
		}
		out = append(out, &cat)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, cat *Category) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"id": cat.ID}, cat)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) MoveOrder(ctx context.Context, id string, dir Direction) error {
	cat, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	filter := bson.M{}
	sort := bson.D{}
	if dir == MoveUp {
		filter["order"] = bson.M{"$lt": cat.Order}
		sort = bson.D{{Key: "order", Value: -1}}
	} else {
		filter["order"] = bson.M{"$gt": cat.Order}
		sort = bson.D{{Key: "order", Value: 1}}
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
			SetFilter(bson.M{"id": cat.ID}).
			SetUpdate(bson.M{"$set": bson.M{"order": swap.Order}}),
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": swap.ID}).
			SetUpdate(bson.M{"$set": bson.M{"order": cat.Order}}),
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
			SetFilter(bson.M{"id": item.ID}).
			SetUpdate(bson.M{"$set": bson.M{"order": item.Order}}))
	}
	_, err := m.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
