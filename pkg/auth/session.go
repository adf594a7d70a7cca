package auth

import (
	"context"
	"encoding/base32"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// SessionConfig configures the shared host session store.
type SessionConfig struct {
	// AuthKey is 32 or 64 bytes; EncryptionKey is 16, 24 or 32 bytes.
	AuthKey       []byte
	EncryptionKey []byte
	Secure        bool
	TTL           time.Duration
	// KeyPrefix namespaces the Redis hashes, e.g. "hostpanel:session:".
	KeyPrefix string
}

// RedisStore keeps host sessions as Redis hashes so the sign-in service and the
// panel can both read them. The cookie only carries the signed, encrypted id.
// Each successful load slides the expiry forward by TTL.
type RedisStore struct {
	client  redis.UniversalClient
	codecs  []securecookie.Codec
	options sessions.Options
	ttl     time.Duration
	prefix  string
}

// NewSessionStore returns a store writing hashes under cfg.KeyPrefix.
func NewSessionStore(client redis.UniversalClient, cfg SessionConfig) *RedisStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "hostpanel:session:"
	}
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(cfg.AuthKey, cfg.EncryptionKey),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(cfg.TTL / time.Second),
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		},
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
	}
}

// Get returns the request-scoped session for name.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the cookie. A missing, tampered or
// expired session yields a fresh one and no error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	fields, err := s.load(r.Context(), id)
	if err != nil || len(fields) == 0 {
		return session, nil
	}
	session.ID = id
	for k, v := range fields {
		session.Values[k] = v
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session hash and cookie. A negative MaxAge revokes it.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.Revoke(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	fields := make(map[string]any, len(session.Values))
	for k, v := range session.Values {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("session key %v: keys must be strings", k)
		}
		val, ok := v.(string)
		if !ok {
			return fmt.Errorf("session value %q: values must be strings", key)
		}
		fields[key] = val
	}
	if err := s.store(r.Context(), session.ID, fields); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Revoke deletes the session hash; the cookie becomes useless.
func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) store(ctx context.Context, id string, fields map[string]any) error {
	key := s.prefix + id
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(fields) > 0 {
			p.HSet(ctx, key, fields)
		}
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (map[string]string, error) {
	key := s.prefix + id
	var fields *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		fields = p.HGetAll(ctx, key)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return fields.Val(), nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

// IssueSession writes p into the named session on store. The sign-in service
// uses the same layout; the panel uses it in tooling and tests.
func IssueSession(w http.ResponseWriter, r *http.Request, store sessions.Store, p Principal) error {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session.Values[SessionUserIDKey] = p.UserID.String()
	session.Values[SessionRoleKey] = string(p.Role)
	if p.CompanyID != "" {
		session.Values[SessionCompanyIDKey] = p.CompanyID
	}
	return session.Save(r, w)
}
