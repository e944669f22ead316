package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/internal/domain/repository"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
	"github.com/frontfolio/frontfolio-api/pkg/mailer"
	mailtpl "github.com/frontfolio/frontfolio-api/pkg/mailer/templates"
)

// EmailEnqueuer hands rendered-mail jobs to the delivery collaborator.
// Satisfied by helpers.RabbitPublisher.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// Service orchestrates the identity flows: registration, login, email
// confirmation and password reset. It composes the credential hasher, the OTP
// service and the token manager; Redis, Elasticsearch and GCS are optional
// caches/side-channels and every use is nil-guarded.
type Service struct {
	Users        repository.UserRepository
	OTPs         *OTPService
	JWT          *helpers.JWTManager
	Mail         EmailEnqueuer
	AppName      string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	GCS          *storage.Client
	GCSBucket    string
}

func NewService(users repository.UserRepository, otps *OTPService, jwt *helpers.JWTManager, mail EmailEnqueuer, appName string) *Service {
	return &Service{
		Users:   users,
		OTPs:    otps,
		JWT:     jwt,
		Mail:    mail,
		AppName: appName,
	}
}

// UserView is the public shape of a user; the password hash never leaves the service.
type UserView struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	AvatarURL  string      `json:"avatar_url"`
	Role       entity.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
	CreatedAt  time.Time   `json:"created_at"`
}

func ViewOf(u *entity.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func sessionKey(userID string) string { return "user:session:" + userID }

func verifiedKey(userID string) string { return "user:verified:" + userID }

func viewKey(userID string) string { return "user:view:" + userID }

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an unverified user with the default role. The email must not
// already be taken; comparison is byte-exact against the stored value.
func (s *Service) Register(ctx context.Context, name, email, password string) (UserView, error) {
	_, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return UserView{}, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return UserView{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return UserView{}, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:      email,
		Password:   hash,
		Name:       name,
		Role:       entity.RoleUser,
		IsVerified: false,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return UserView{}, fmt.Errorf("create user: %w", err)
	}
	_ = s.indexUser(ctx, u)
	return ViewOf(u), nil
}

// Login authenticates email/password and returns a 72-hour access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, ErrPasswordIncorrect
	}

	token, exp, err := s.JWT.GenerateAccessToken(u)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return "", time.Time{}, err
	}
	s.cacheSession(ctx, u)
	return token, exp, nil
}

// IssueAccessToken loads the user and signs a fresh access token for them.
// Exposed separately from Login for callers that already hold a user id.
func (s *Service) IssueAccessToken(ctx context.Context, userID string) (string, time.Time, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, err
	}
	return s.JWT.GenerateAccessToken(u)
}

// RequestEmailConfirmation issues an OTP and enqueues a "verify your email"
// message carrying the plaintext code. A queue failure propagates to the
// caller; the already-stored OTP simply expires unredeemed.
func (s *Service) RequestEmailConfirmation(ctx context.Context, email string) error {
	return s.requestOTP(ctx, email, mailtpl.VerifyEmail)
}

// RequestPasswordReset issues an OTP and enqueues a "reset your password" message.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestOTP(ctx, email, mailtpl.ForgotPassword)
}

func (s *Service) requestOTP(ctx context.Context, email, template string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	code, err := s.OTPs.IssueFor(ctx, u)
	if err != nil {
		return err
	}
	// Keys match the fields of the EmailData the worker templates render.
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Name":           u.Name,
			"AppName":        s.AppName,
			"Code":           code,
			"ExpiresMinutes": int(OTPTTL.Minutes()),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue %s mail: %w", template, err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Info("otp issued")
	}
	return nil
}

// ConfirmEmail consumes the active OTP for email and flips the owner's
// verified flag.
func (s *Service) ConfirmEmail(ctx context.Context, email, submittedCode string) error {
	otp, err := s.OTPs.Verify(ctx, email, submittedCode)
	if err != nil {
		return err
	}
	if err := s.Users.SetVerified(ctx, otp.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Redis != nil {
		if rErr := s.Redis.Set(ctx, verifiedKey(otp.UserID), "1", 0).Err(); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).Warn("verified cache write failed")
		}
	}
	s.dropCachedView(ctx, otp.UserID)
	return nil
}

// VerifyResetOTP consumes the active OTP for email and exchanges it for a
// short-lived reset token. The token, not the OTP, authorizes the password
// change: proving email receipt and setting a new password stay decoupled.
func (s *Service) VerifyResetOTP(ctx context.Context, email, submittedCode string) (string, time.Time, error) {
	otp, err := s.OTPs.Verify(ctx, email, submittedCode)
	if err != nil {
		return "", time.Time{}, err
	}
	u, err := s.Users.GetByID(ctx, otp.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, err
	}
	return s.JWT.GenerateResetToken(u)
}

// ResetPassword validates the reset token and overwrites the subject's
// password hash unconditionally; holding a valid reset token is the
// authorization, no old password is required.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.JWT.Parse(resetToken)
	if err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset")
	}
	return nil
}

// GetProfile returns the user behind an authenticated request.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// viewTTL bounds staleness of the cached public view should an invalidation be
// lost.
const viewTTL = 10 * time.Minute

// CachedView returns the public view of a user, served from Redis when a fresh
// copy exists. The cache is dropped whenever the view's fields change.
func (s *Service) CachedView(ctx context.Context, userID string) (UserView, error) {
	if s.Redis != nil {
		var view UserView
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, viewKey(userID), &view); err == nil && ok {
			return view, nil
		}
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	view := ViewOf(u)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, viewKey(userID), view, viewTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("view cache write failed")
		}
	}
	return view, nil
}

func (s *Service) dropCachedView(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, viewKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("view cache invalidation failed")
	}
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	s.dropCachedView(ctx, u.ID)

	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar stores an avatar in GCS and records its public URL on the profile.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
	}
	s.dropCachedView(ctx, u.ID)
	_ = s.indexUser(ctx, u)
	return url, nil
}

func (s *Service) cacheSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"logged_in":  true,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
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
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
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
