package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"cellaret.dev/Cellaret/configs"
	"cellaret.dev/Cellaret/pkg/model"
)

type UserKey struct{}

type Manager struct {
	conf   *configs.Config
	users  userRepository
	logger *zap.Logger
}

type userRepository interface {
	GetOrCreateUserByLineID(ctx context.Context, lineUserID string, displayName string) (*model.User, error)
}

func NewAuthManager(conf *configs.Config, users userRepository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, users: users, logger: logger}
}

// Middleware resolves the LINE account behind each request. The normal path
// verifies a LIFF ID token (an HS256 JWT signed with the channel secret);
// development setups can instead send a bare X-Line-User-Id header when
// AllowHeaderAuth is on. Users are provisioned on first contact.
func (a *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		lineUserID, displayName, err := a.identify(request)
		if err != nil {
			a.logger.Warn("rejecting unauthenticated request", zap.String("path", request.URL.Path), zap.Error(err))
			unauthorized(writer, err)

			return
		}

		user, err := a.users.GetOrCreateUserByLineID(request.Context(), lineUserID, displayName)
		if err != nil {
			a.logger.Error("error resolving user", zap.String("line_user_id", lineUserID), zap.Error(err))
			http.Error(writer, "error resolving user", http.StatusInternalServerError)

			return
		}

		ctx := context.WithValue(request.Context(), UserKey{}, user)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (a *Manager) identify(request *http.Request) (string, string, error) {
	if a.conf.Auth.AllowHeaderAuth {
		if lineUserID := request.Header.Get("X-Line-User-Id"); lineUserID != "" {
			return lineUserID, "", nil
		}
	}

	accessToken, err := a.extractTokenFromHeader(request.Header)
	if err != nil {
		return "", "", err
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(a.conf.Auth.ChannelSecret), nil
	}

	token, err := jwt.ParseWithClaims(*accessToken, jwt.MapClaims{}, keyFunc)
	if err != nil {
		return "", "", fmt.Errorf("error parsing token: %w", err)
	}

	claims, found := token.Claims.(jwt.MapClaims)
	if !found || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	lineUserID, found := claims["sub"].(string)
	if !found || lineUserID == "" {
		return "", "", fmt.Errorf("no subject in token")
	}

	displayName, _ := claims["name"].(string)

	return lineUserID, displayName, nil
}

func (a *Manager) extractTokenFromHeader(header http.Header) (*string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		return nil, fmt.Errorf("authorization header not found")
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return nil, fmt.Errorf("authorization format must be Bearer {token}")
	}

	return &token, nil
}

// UserFromContext pulls the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey{}).(*model.User)

	return user, ok
}

func unauthorized(writer http.ResponseWriter, err error) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(writer).Encode(map[string]string{"error": err.Error()})
}
