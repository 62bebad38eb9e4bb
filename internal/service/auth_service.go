package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/dto"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/repository"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/jwt"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/redis"
)

var (
	// ErrInvalidCredentials 认证失败的唯一出口：
	// 用户名不存在 / 密码错误 / 输入为空均返回同一错误，不泄露失败环节
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTokenInvalid 刷新令牌无效、过期或已吊销
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// AuthService 认证业务接口
type AuthService interface {
	// Login 按 Admin → Student → Faculty 的固定优先级解析用户名并验证密码
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// RefreshToken 用 Refresh Token 换取新的 Token 对（重新快照主体身份）
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将 Token 加入黑名单（Redis 不可用时降级为空操作）
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	// 固定优先级逐类匹配；某一类密码不符时继续尝试下一类，
	// 与各类标识符命名空间独立的前提保持一致
	session, err := s.resolveAdmin(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if session == nil {
		if session, err = s.resolveStudent(ctx, username, password); err != nil {
			return nil, err
		}
	}
	if session == nil {
		if session, err = s.resolveFaculty(ctx, username, password); err != nil {
			return nil, err
		}
	}
	if session == nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(session)
}

// resolveAdmin 尝试按管理员匹配；不匹配返回 (nil, nil)
func (s *authService) resolveAdmin(ctx context.Context, username, password string) (*dto.Session, error) {
	admin, err := s.repo.Admin.GetByAdminID(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &dto.Session{
		Kind:  model.KindAdmin,
		ID:    admin.AdminID,
		Name:  admin.Name,
		Email: admin.Email,
	}, nil
}

// resolveStudent 尝试按学生匹配
// 导师记录缺失时视为不匹配：没有审批人的会话无效
func (s *authService) resolveStudent(ctx context.Context, username, password string) (*dto.Session, error) {
	student, err := s.repo.Student.GetByRollNo(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	if student.Tutor == nil {
		s.logger.Warn("学生无对应导师记录，拒绝登录", zap.String("roll_no", student.RollNo))
		return nil, nil
	}
	return &dto.Session{
		Kind:      model.KindStudent,
		ID:        student.RollNo,
		Name:      student.Name,
		Dept:      student.Dept,
		Email:     student.Email,
		TutorID:   student.TutorID,
		TutorName: student.Tutor.Name,
	}, nil
}

// resolveFaculty 尝试按导师匹配
func (s *authService) resolveFaculty(ctx context.Context, username, password string) (*dto.Session, error) {
	faculty, err := s.repo.Faculty.GetByTutorID(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询导师失败", zap.Error(err))
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(faculty.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &dto.Session{
		Kind:  model.KindFaculty,
		ID:    faculty.TutorID,
		Name:  faculty.Name,
		Dept:  faculty.Dept,
		Email: faculty.Email,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrTokenInvalid
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenInvalid
		}
	}

	// 重新查询主体，拿到当前身份快照（导师调整后刷新即生效）
	session, err := s.resolveByID(ctx, model.PrincipalKind(claims.Kind), claims.PrincipalID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(session)
}

// resolveByID 按主体类型与 ID 重建会话（刷新 Token 用）
func (s *authService) resolveByID(ctx context.Context, kind model.PrincipalKind, id string) (*dto.Session, error) {
	switch kind {
	case model.KindAdmin:
		admin, err := s.repo.Admin.GetByAdminID(ctx, id)
		if err != nil {
			return nil, s.lookupErr(err)
		}
		return &dto.Session{Kind: model.KindAdmin, ID: admin.AdminID, Name: admin.Name, Email: admin.Email}, nil
	case model.KindStudent:
		student, err := s.repo.Student.GetByRollNo(ctx, id)
		if err != nil {
			return nil, s.lookupErr(err)
		}
		if student.Tutor == nil {
			return nil, ErrInvalidCredentials
		}
		return &dto.Session{
			Kind:      model.KindStudent,
			ID:        student.RollNo,
			Name:      student.Name,
			Dept:      student.Dept,
			Email:     student.Email,
			TutorID:   student.TutorID,
			TutorName: student.Tutor.Name,
		}, nil
	case model.KindFaculty:
		faculty, err := s.repo.Faculty.GetByTutorID(ctx, id)
		if err != nil {
			return nil, s.lookupErr(err)
		}
		return &dto.Session{Kind: model.KindFaculty, ID: faculty.TutorID, Name: faculty.Name, Dept: faculty.Dept, Email: faculty.Email}, nil
	default:
		return nil, ErrTokenInvalid
	}
}

func (s *authService) lookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCredentials
	}
	s.logger.Error("查询主体失败", zap.Error(err))
	return err
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

// issueTokens 为会话签发 Access/Refresh Token 对
func (s *authService) issueTokens(session *dto.Session) (*dto.TokenResponse, error) {
	identity := jwt.Identity{
		ID:        session.ID,
		Kind:      string(session.Kind),
		Name:      session.Name,
		Dept:      session.Dept,
		Email:     session.Email,
		TutorID:   session.TutorID,
		TutorName: session.TutorName,
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(identity)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(identity)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Session:      *session,
	}, nil
}
