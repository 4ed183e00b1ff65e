package service

import (
	"context"
	"fmt"
	"time"

	"go-dental-clinic/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// TokenStore tracks issued tokens in Redis. A token is valid while its key exists.
type TokenStore interface {
	Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error
	IsValid(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type tokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenStore(redisClient *redis.Client, log *logrus.Logger) TokenStore {
	return &tokenStore{redisClient: redisClient, log: log}
}

func tokenKey(userID uuid.UUID, tokenType jwt.TokenType, tokenID string) string {
	prefix := accessTokenKeyPrefix
	if tokenType == jwt.RefreshToken {
		prefix = refreshTokenKeyPrefix
	}
	return fmt.Sprintf("%s:%s:%s", prefix, userID.String(), tokenID)
}

func (s *tokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	if err := s.redisClient.Set(ctx, tokenKey(userID, tokenType, tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store %s token in Redis: %+v", tokenType, err)
		return fmt.Errorf("store %s token: %w", tokenType, err)
	}
	return nil
}

func (s *tokenStore) IsValid(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, tokenKey(userID, tokenType, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *tokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	if err := s.redisClient.Del(ctx, tokenKey(userID, tokenType, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to revoke %s token: %+v", tokenType, err)
		return err
	}
	return nil
}

// RevokeAll deletes every token of the user, e.g. after the account is removed
func (s *tokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID.String())
		iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan %s keys: %+v", prefix, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete %s keys: %+v", prefix, err)
			return err
		}
	}
	return nil
}
