package jwt

import (
	"testing"
	"time"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func studentIdentity() Identity {
	return Identity{
		ID:        "CS2021001",
		Kind:      "student",
		Name:      "Karthika",
		Dept:      "CSE",
		Email:     "karthika@college.edu",
		TutorID:   "F001",
		TutorName: "Prof. Ramesh",
	}
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(studentIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.PrincipalID != "CS2021001" {
		t.Errorf("期望 PrincipalID=CS2021001，实际=%s", claims.PrincipalID)
	}
	if claims.Kind != "student" {
		t.Errorf("期望 Kind=student，实际=%s", claims.Kind)
	}
	if claims.TutorID != "F001" {
		t.Errorf("期望 TutorID=F001，实际=%s", claims.TutorID)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.Issuer != "college-leave" {
		t.Errorf("期望 Issuer=college-leave，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	m := newTestManager()

	want := studentIdentity()
	token, err := m.GenerateAccessToken(want)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if got := claims.Identity(); got != want {
		t.Errorf("身份快照往返不一致: 期望 %+v，实际 %+v", want, got)
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken(studentIdentity())
	if err != nil {
		t.Fatalf("GenerateRefreshToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 TokenType=refresh，实际=%s", claims.TokenType)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "another-secret-key-entirely-xxxx",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken(studentIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  -1 * time.Minute, // 生成即过期
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken(studentIdentity())
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not.a.token"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
