package application

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	repo "github.com/oksasatya/kanban-board-api/internal/domain/repository"
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
	"github.com/oksasatya/kanban-board-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrEmailNotVerified   = fmt.Errorf("account not verified: %w", ErrForbidden)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", ErrConflict)
)

// UserService owns registration, verification, authentication, sessions,
// profile updates, and user search.
type UserService struct {
	Repo          repo.UserRepository
	JWT           *helpers.JWTManager
	Uploader      helpers.Uploader
	Redis         *redis.Client
	Queue         EmailQueue
	WebsiteDomain string
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESUsersIndex  string
}

func NewUserService(userRepo repo.UserRepository, jwt *helpers.JWTManager, uploader helpers.Uploader, rdb *redis.Client, queue EmailQueue, websiteDomain string, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{
		Repo:          userRepo,
		JWT:           jwt,
		Uploader:      uploader,
		Redis:         rdb,
		Queue:         queue,
		WebsiteDomain: websiteDomain,
		Logger:        logger,
		ES:            es,
		ESUsersIndex:  esUsersIndex,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an inactive account and queues the verification
// email. The username and initial display name come from the local part
// of the email address.
func (s *UserService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	existing, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	token := uuid.NewString()
	u := &entity.User{
		Email:       email,
		Password:    hash,
		Username:    local,
		DisplayName: local,
		VerifyToken: &token,
	}
	id, err := s.Repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		job := mailer.EmailJob{
			To:       email,
			Subject:  "Please verify your email before using our services",
			Template: "verify_email",
			Data: map[string]any{
				"display_name": created.DisplayName,
				"verify_url":   fmt.Sprintf("%s/account/verification?email=%s&token=%s", s.WebsiteDomain, email, token),
			},
		}
		if err := s.Queue.PublishJSON(ctx, job); err != nil {
			s.logWarn("verification email publish failed", logrus.Fields{"user_id": id.Hex(), "error": err.Error()})
		}
	}

	_ = s.IndexUser(ctx, created)
	return created, nil
}

// Verify activates the account when the submitted token matches the one
// issued at registration. The token is single-use and cleared on
// success.
func (s *UserService) Verify(ctx context.Context, email, token string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if u.IsActive {
		return nil, fmt.Errorf("account already active: %w", ErrConflict)
	}
	if u.VerifyToken == nil || *u.VerifyToken != token {
		return nil, ErrInvalidCredentials
	}
	return s.Repo.Update(ctx, u.ID, bson.M{
		"isActive":    true,
		"verifyToken": nil,
		"updatedAt":   time.Now().UTC(),
	})
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrEmailNotVerified
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	uid := u.ID.Hex()
	access, aexp, err := s.JWT.GenerateAccessToken(uid, sid)
	if err != nil {
		s.logError(err, "generate access token failed", logrus.Fields{"user_id": uid})
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(uid, sid)
	if err != nil {
		s.logError(err, "generate refresh token failed", logrus.Fields{"user_id": uid})
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(uid)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":      uid,
			"email":        u.Email,
			"display_name": u.DisplayName,
			"avatar":       u.Avatar,
			"sid":          sid,
			"logged_in":    true,
			"created_at":   nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.logWarn("redis pipeline failed", logrus.Fields{"key": key, "error": rErr.Error()})
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) {
	if s.Redis != nil {
		s.Redis.Del(ctx, sessionKey(userID.Hex()))
	}
}

// Refresh rotates the session id and both tokens after validating the
// refresh token against the current Redis session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, primitive.ObjectID, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, primitive.NilObjectID, ErrInvalidCredentials
	}
	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return TokenPair{}, primitive.NilObjectID, ErrInvalidCredentials
	}
	u, err := s.Repo.FindByID(ctx, uid)
	if err != nil || u == nil {
		return TokenPair{}, primitive.NilObjectID, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, primitive.NilObjectID, ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, primitive.NilObjectID, err
	}
	return pair, u.ID, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*entity.User, error) {
	key := profileKey(userID.Hex())
	if s.Redis != nil {
		var cached entity.User
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, u, 10*time.Minute); err != nil {
			s.logWarn("profile cache write failed", logrus.Fields{"key": key, "error": err.Error()})
		}
	}
	return u, nil
}

type UpdateProfileInput struct {
	DisplayName     string
	CurrentPassword string
	NewPassword     string
	Avatar          *multipart.FileHeader
}

// UpdateProfile applies a display-name edit, a password change, or an
// avatar upload. A password change requires the current password.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	fields := bson.M{"updatedAt": time.Now().UTC()}
	if in.NewPassword != "" {
		if !helpers.CompareHashAndPassword(u.Password, in.CurrentPassword) {
			return nil, ErrInvalidCredentials
		}
		hash, err := helpers.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if in.DisplayName != "" {
		fields["displayName"] = in.DisplayName
	}
	if in.Avatar != nil {
		if s.Uploader == nil {
			return nil, fmt.Errorf("uploads not configured: %w", ErrUpstream)
		}
		url, err := s.Uploader.Upload(ctx, "avatars/"+userID.Hex(), in.Avatar)
		if err != nil {
			return nil, fmt.Errorf("avatar upload: %w", ErrUpstream)
		}
		fields["avatar"] = url
	}

	updated, err := s.Repo.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, profileKey(userID.Hex())); err != nil {
			s.logWarn("profile cache invalidation failed", logrus.Fields{"user_id": userID.Hex(), "error": err.Error()})
		}
		key := sessionKey(userID.Hex())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"display_name": updated.DisplayName,
			"avatar":       updated.Avatar,
			"updated_at":   nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			s.logWarn("redis pipeline failed", logrus.Fields{"key": key, "error": pErr.Error()})
		}
	}

	_ = s.IndexUser(ctx, updated)
	return updated, nil
}

// IndexUser writes the user's public profile to the Elasticsearch index
// backing invitation autocomplete. Indexing is best-effort.
func (s *UserService) IndexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           u.ID.Hex(),
		"email":        u.Email,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"avatar":       u.Avatar,
		"created_at":   u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logWarn("es index failed", logrus.Fields{"user_id": u.ID.Hex(), "error": err.Error()})
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.logWarn("es index response error", logrus.Fields{"status": res.Status(), "user_id": u.ID.Hex()})
	}
	return nil
}

// SearchUsers performs a multi_match search on email, username, and
// display name, used for invitation autocomplete.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username", "display_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, fmt.Errorf("user search: %w", ErrUpstream)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *UserService) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}

func (s *UserService) logError(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Error(msg)
	}
}
