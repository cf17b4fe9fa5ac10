package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session does not exist or expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side state referenced by the sessionid cookie.
type Session struct {
	ID        string    `json:"id"`
	UsuarioID string    `json:"usuario_id"`
	CreadoEn  time.Time `json:"creado_en"`
}

// Store keeps sessions in Redis with a sliding TTL. A per-user index set
// allows revoking every session of a user at once (password change, admin
// deactivation).
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "sesion:" + id
}

func userKey(usuarioID string) string {
	return "sesion:usuario:" + usuarioID
}

// Create persists a new session for the user and returns it.
func (s *Store) Create(ctx context.Context, usuarioID string) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	sess := &Session{ID: id, UsuarioID: usuarioID, CreadoEn: time.Now().UTC()}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(id), payload, s.ttl)
	pipe.SAdd(ctx, userKey(usuarioID), id)
	pipe.Expire(ctx, userKey(usuarioID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get loads a session by ID and refreshes its TTL.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	s.client.Expire(ctx, sessionKey(id), s.ttl)
	return &sess, nil
}

// Delete removes a single session.
func (s *Store) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userKey(sess.UsuarioID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUsuario revokes every session of the user except the one given in
// keep (pass "" to revoke all).
func (s *Store) DeleteByUsuario(ctx context.Context, usuarioID, keep string) error {
	ids, err := s.client.SMembers(ctx, userKey(usuarioID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	pipe := s.client.TxPipeline()
	for _, id := range ids {
		if id == keep {
			continue
		}
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, userKey(usuarioID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

func generateID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
