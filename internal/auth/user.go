package auth

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/primex/docs-cms/internal/editor"
)

// User is an application user mapped from OIDC claims. Role drives the flat
// editor permission model: admins hold every capability, viewers none.
type User struct {
	ID        string      `bson:"_id,omitempty" json:"id"`
	Sub       string      `bson:"sub" json:"sub"`
	Email     string      `bson:"email" json:"email"`
	Name      string      `bson:"name" json:"name"`
	Role      editor.Role `bson:"role" json:"role"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	UpsertBySub(ctx context.Context, u *User) (*User, error)
	GetBySub(ctx context.Context, sub string) (*User, error)
	SetRole(ctx context.Context, sub string, role editor.Role) error
}

// MongoUserRepository implements UserRepository using MongoDB.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "sub", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &MongoUserRepository{col: col}
}

// UpsertBySub refreshes profile fields from claims. The role is only written
// on first insert so a role granted through RoleService survives logins.
func (r *MongoUserRepository) UpsertBySub(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = editor.RoleViewer
	}

	filter := bson.M{"sub": u.Sub}
	update := bson.M{
		"$set": bson.M{
			"email":     u.Email,
			"name":      u.Name,
			"updatedAt": u.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"role":      u.Role,
			"createdAt": u.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return u, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoUserRepository) GetBySub(ctx context.Context, sub string) (*User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, sub string, role editor.Role) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"sub": sub},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}})
	return err
}

// MemoryUserRepository is the in-memory UserRepository for tests and local runs.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*User)}
}

func (r *MemoryUserRepository) UpsertBySub(_ context.Context, u *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.users[u.Sub]; ok {
		existing.Email = u.Email
		existing.Name = u.Name
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	if u.Role == "" {
		u.Role = editor.RoleViewer
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.users[u.Sub] = &cp
	out := cp
	return &out, nil
}

func (r *MemoryUserRepository) GetBySub(_ context.Context, sub string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[sub]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) SetRole(_ context.Context, sub string, role editor.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[sub]; ok {
		u.Role = role
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}
