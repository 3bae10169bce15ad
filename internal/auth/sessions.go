package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RefreshSession is a persistent refresh token record. Access tokens are
// short-lived JWTs; the refresh session is what actually expires a login.
type RefreshSession struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Sub          string    `bson:"sub" json:"sub"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// SessionRepository provides refresh-session persistence.
type SessionRepository interface {
	Create(ctx context.Context, s *RefreshSession) error
	GetByRefresh(ctx context.Context, refresh string) (*RefreshSession, error)
	DeleteByRefresh(ctx context.Context, refresh string) error
}

// MongoSessionRepository implements SessionRepository on a Mongo collection.
type MongoSessionRepository struct {
	col *mongo.Collection
}

func NewMongoSessionRepository(col *mongo.Collection) *MongoSessionRepository {
	return &MongoSessionRepository{col: col}
}

func (r *MongoSessionRepository) Create(ctx context.Context, s *RefreshSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(7 * 24 * time.Hour)
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *MongoSessionRepository) GetByRefresh(ctx context.Context, refresh string) (*RefreshSession, error) {
	var s RefreshSession
	if err := r.col.FindOne(ctx, bson.M{"refreshToken": refresh}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *MongoSessionRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"refreshToken": refresh})
	return err
}

// RedisSessionRepository stores refresh sessions as JSON under
// "session:<refreshToken>" with TTL = expiresAt - now.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository creates a Redis-based repository. Prefix may be empty.
func NewRedisSessionRepository(client *redis.Client, prefix string) *RedisSessionRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisSessionRepository{client: client, prefix: prefix}
}

func (r *RedisSessionRepository) key(refresh string) string {
	return r.prefix + refresh
}

func (r *RedisSessionRepository) Create(ctx context.Context, s *RefreshSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	exp := time.Until(s.ExpiresAt)
	if exp <= 0 {
		// minimal TTL so Redis won't store already-expired sessions
		exp = time.Second
	}
	return r.client.Set(ctx, r.key(s.RefreshToken), b, exp).Err()
}

func (r *RedisSessionRepository) GetByRefresh(ctx context.Context, refresh string) (*RefreshSession, error) {
	b, err := r.client.Get(ctx, r.key(refresh)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s RefreshSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(refresh)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisSessionRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	return r.client.Del(ctx, r.key(refresh)).Err()
}

// MemorySessionRepository keeps refresh sessions in process memory. Used for
// local runs without Redis or Mongo.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*RefreshSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*RefreshSession)}
}

func (r *MemorySessionRepository) Create(_ context.Context, s *RefreshSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.RefreshToken] = &cp
	return nil
}

func (r *MemorySessionRepository) GetByRefresh(_ context.Context, refresh string) (*RefreshSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[refresh]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *MemorySessionRepository) DeleteByRefresh(_ context.Context, refresh string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, refresh)
	return nil
}

// SessionService wraps refresh-session issuance and validation.
type SessionService struct {
	repo SessionRepository
}

func NewSessionService(r SessionRepository) *SessionService { return &SessionService{repo: r} }

// CreateSession stores a new refresh session and returns the refresh token.
func (s *SessionService) CreateSession(ctx context.Context, sub string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	sess := &RefreshSession{
		RefreshToken: token,
		Sub:          sub,
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefresh returns the session when the token is valid and unexpired;
// nil, nil otherwise. Expired sessions are cleaned up on access.
func (s *SessionService) ValidateRefresh(ctx context.Context, refresh string) (*RefreshSession, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

func (s *SessionService) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}
