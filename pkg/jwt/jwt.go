package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Identity 写入 Token 的主体身份快照
// 学生登录时额外携带导师信息（TutorID / TutorName），
// 该快照即后续提交请假单时的审批人依据，不在提交时重算。
type Identity struct {
	ID        string
	Kind      string // admin | student | faculty
	Name      string
	Dept      string
	Email     string
	TutorID   string
	TutorName string
}

// Claims 自定义 JWT 声明
type Claims struct {
	PrincipalID string `json:"principal_id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Dept        string `json:"dept,omitempty"`
	Email       string `json:"email,omitempty"`
	TutorID     string `json:"tutor_id,omitempty"`
	TutorName   string `json:"tutor_name,omitempty"`
	TokenType   string `json:"token_type"` // "access" | "refresh"
	jwtv5.RegisteredClaims
}

// Identity 从声明还原身份快照
func (c *Claims) Identity() Identity {
	return Identity{
		ID:        c.PrincipalID,
		Kind:      c.Kind,
		Name:      c.Name,
		Dept:      c.Dept,
		Email:     c.Email,
		TutorID:   c.TutorID,
		TutorName: c.TutorName,
	}
}

// Manager JWT 管理器
type Manager struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:          []byte(cfg.JWTSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// GenerateAccessToken 生成 Access Token
func (m *Manager) GenerateAccessToken(id Identity) (string, error) {
	return m.generate(id, "access", m.accessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func (m *Manager) GenerateRefreshToken(id Identity) (string, error) {
	return m.generate(id, "refresh", m.refreshTokenTTL)
}

func (m *Manager) generate(id Identity, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		PrincipalID: id.ID,
		Kind:        id.Kind,
		Name:        id.Name,
		Dept:        id.Dept,
		Email:       id.Email,
		TutorID:     id.TutorID,
		TutorName:   id.TutorName,
		TokenType:   tokenType,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			Issuer:    "college-leave",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
