package store

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinstream/kinstream/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("password or email is incorrect")
	ErrInvalidResetToken  = errors.New("reset token is invalid or expired")
)

const resetTokenTTL = 10 * time.Minute

// Users is a Redis-backed account store. Accounts live in user:<id> hashes;
// email:<email> and username:<name> keys index into them.
type Users struct {
	rdb *redis.Client
}

func NewUsers(rdb *redis.Client) *Users {
	return &Users{rdb: rdb}
}

// NewUser is the registration input.
type NewUser struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Create registers an account with a bcrypt password hash and a
// gravatar-derived default avatar.
func (u *Users) Create(ctx context.Context, nu NewUser) (models.User, error) {
	email := normEmail(nu.Email)
	if email == "" || nu.Password == "" || nu.Username == "" {
		return models.User{}, errors.New("missing username, email or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     email,
		Avatar:    AvatarURL(email),
		Bio:       fmt.Sprintf("My name is %s", nu.Name),
		CreatedAt: time.Now().UTC(),
	}

	// Reserve both index keys atomically so two concurrent registrations
	// cannot claim the same email or username.
	ok, err := u.rdb.SetNX(ctx, emailKey(email), user.ID, 0).Result()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to store user: %w", err)
	}
	if !ok {
		return models.User{}, ErrEmailTaken
	}
	ok, err = u.rdb.SetNX(ctx, usernameKey(nu.Username), user.ID, 0).Result()
	if err != nil || !ok {
		u.rdb.Del(ctx, emailKey(email))
		if err != nil {
			return models.User{}, fmt.Errorf("failed to store user: %w", err)
		}
		return models.User{}, ErrUsernameTaken
	}

	if err := u.rdb.HSet(ctx, userKey(user.ID), map[string]interface{}{
		"id":         user.ID,
		"name":       user.Name,
		"username":   user.Username,
		"email":      user.Email,
		"avatar":     user.Avatar,
		"bio":        user.Bio,
		"password":   string(hash),
		"created_at": user.CreatedAt.Format(time.RFC3339),
	}).Err(); err != nil {
		u.rdb.Del(ctx, emailKey(email), usernameKey(nu.Username))
		return models.User{}, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

// Authenticate verifies email + password and returns the account. Lookup and
// hash failures collapse into one error so a caller cannot distinguish an
// unknown email from a wrong password.
func (u *Users) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, hash, err := u.getWithHash(ctx, normEmail(email))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads an account by id.
func (u *Users) GetByID(ctx context.Context, id string) (models.User, error) {
	fields, err := u.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil || len(fields) == 0 {
		return models.User{}, ErrUserNotFound
	}
	return userFromFields(fields), nil
}

// GetByEmail loads an account through the email index.
func (u *Users) GetByEmail(ctx context.Context, email string) (models.User, error) {
	user, _, err := u.getWithHash(ctx, normEmail(email))
	return user, err
}

// CreateResetToken mints a password-reset token for the account. Only the
// sha256 of the token is stored, with a ten minute expiry; the plaintext goes
// into the emailed link and is seen once.
func (u *Users) CreateResetToken(ctx context.Context, email string) (string, error) {
	user, _, err := u.getWithHash(ctx, normEmail(email))
	if err != nil {
		return "", err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	if err := u.rdb.Set(ctx, resetKey(hashToken(token)), user.ID, resetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// ClearResetToken invalidates a previously issued token, used when the reset
// mail could not be sent.
func (u *Users) ClearResetToken(ctx context.Context, token string) {
	u.rdb.Del(ctx, resetKey(hashToken(token)))
}

// ResetPassword redeems a reset token and replaces the account password.
// The token is single-use.
func (u *Users) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return errors.New("missing password")
	}
	key := resetKey(hashToken(token))
	userID, err := u.rdb.Get(ctx, key).Result()
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	pipe := u.rdb.TxPipeline()
	pipe.HSet(ctx, userKey(userID), "password", string(hash))
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (u *Users) getWithHash(ctx context.Context, email string) (models.User, string, error) {
	id, err := u.rdb.Get(ctx, emailKey(email)).Result()
	if err != nil {
		return models.User{}, "", ErrUserNotFound
	}
	fields, err := u.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil || len(fields) == 0 {
		return models.User{}, "", ErrUserNotFound
	}
	return userFromFields(fields), fields["password"], nil
}

func userFromFields(fields map[string]string) models.User {
	created, _ := time.Parse(time.RFC3339, fields["created_at"])
	return models.User{
		ID:        fields["id"],
		Name:      fields["name"],
		Username:  fields["username"],
		Email:     fields["email"],
		Avatar:    fields["avatar"],
		Bio:       fields["bio"],
		CreatedAt: created,
	}
}

// AvatarURL builds the default gravatar URL for an email.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(normEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func userKey(id string) string       { return "user:" + id }
func emailKey(email string) string   { return "email:" + email }
func usernameKey(name string) string { return "username:" + name }
func resetKey(hash string) string    { return "reset:" + hash }
