package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/settings"
)

// Gate 是单用户本地安装的口令门禁。
// 没有用户体系：设置了口令就要求解锁，没设置就直接放行。
// 会话令牌用 HS256 签名，密钥随安装生成并保存在设置表里 ——
// 本地安装没有分发 RSA 密钥对的环节。
type Gate struct {
	repo       settings.Repository
	secret     []byte
	hash       string
	sessionTTL time.Duration
}

// SessionClaims 是会话令牌的载荷。
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

var (
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrInvalidToken    = errors.New("invalid session token")
)

// NewGate 加载（或初始化）门禁状态。首次启动会生成并持久化签名密钥。
func NewGate(ctx context.Context, repo settings.Repository, sessionTTL time.Duration) (*Gate, error) {
	g := &Gate{repo: repo, sessionTTL: sessionTTL}

	var stored settings.GateSetting
	data, err := repo.GetSetting(ctx, settings.GateSettingName)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, fmt.Errorf("decode gate setting: %w", err)
		}
	case errors.Is(err, database.ErrSettingNotFound):
		// first run
	default:
		return nil, fmt.Errorf("load gate setting: %w", err)
	}

	if stored.TokenSecret == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		stored.TokenSecret = base64.StdEncoding.EncodeToString(raw)
		if err := g.persist(ctx, stored); err != nil {
			return nil, err
		}
	}

	secret, err := base64.StdEncoding.DecodeString(stored.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("decode token secret: %w", err)
	}

	g.secret = secret
	g.hash = stored.PassphraseHash
	return g, nil
}

// Enabled 报告是否设置了口令。
func (g *Gate) Enabled() bool {
	return g.hash != ""
}

// Unlock 校验口令并签发会话令牌。
func (g *Gate) Unlock(passphrase string) (string, error) {
	if !g.Enabled() {
		return "", errors.New("gate is not enabled")
	}
	if !CheckPassphraseHash(passphrase, g.hash) {
		return "", ErrWrongPassphrase
	}

	now := time.Now()
	claims := SessionClaims{
		TokenType: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken 解析并验证会话令牌。
func (g *Gate) ValidateToken(tokenString string) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.TokenType != "session" {
		return ErrInvalidToken
	}
	return nil
}

// SetPassphrase 设置（或更换）口令。
func (g *Gate) SetPassphrase(ctx context.Context, passphrase string) error {
	hash, err := HashPassphrase(passphrase)
	if err != nil {
		return err
	}
	stored := settings.GateSetting{
		PassphraseHash: hash,
		TokenSecret:    base64.StdEncoding.EncodeToString(g.secret),
	}
	if err := g.persist(ctx, stored); err != nil {
		return err
	}
	g.hash = hash
	return nil
}

// ClearPassphrase 关闭门禁。
func (g *Gate) ClearPassphrase(ctx context.Context) error {
	stored := settings.GateSetting{
		PassphraseHash: "",
		TokenSecret:    base64.StdEncoding.EncodeToString(g.secret),
	}
	if err := g.persist(ctx, stored); err != nil {
		return err
	}
	g.hash = ""
	return nil
}

func (g *Gate) persist(ctx context.Context, stored settings.GateSetting) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode gate setting: %w", err)
	}
	if err := g.repo.PutSetting(ctx, settings.GateSettingName, data); err != nil {
		return fmt.Errorf("persist gate setting: %w", err)
	}
	return nil
}
