package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/data/repos"
	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/apierr"
	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/dbctx"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

const (
	minPasswordLength = 4
	// bcrypt ignores input past 72 bytes and x/crypto rejects it outright.
	maxPasswordLength = 72
)

var errNotAuthenticated = apierr.Unauthorized("unauthenticated", "Não autenticado")

type JWTClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string
	Login    string
	Password string
	Role     string
}

type LoginResult struct {
	Professional *types.Professional
	Token        string
	ExpiresAt    time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.Professional, error)
	Login(ctx context.Context, login, password string) (*LoginResult, error)
	// Logout drops the login session behind tokenString. Unknown or invalid tokens are ignored.
	Logout(ctx context.Context, tokenString string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// CurrentProfessional returns nil when ctx carries no authenticated caller.
	CurrentProfessional(ctx context.Context) (*types.Professional, error)
	SessionTTL() time.Duration
}

type authService struct {
	log              *logger.Logger
	professionalRepo repos.ProfessionalRepo
	sessions         LoginSessionStore
	jwtSecretKey     []byte
	sessionTTL       time.Duration
	now              func() time.Time
}

func NewAuthService(
	log *logger.Logger,
	professionalRepo repos.ProfessionalRepo,
	sessions LoginSessionStore,
	jwtSecretKey string,
	sessionTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	return &authService{
		log:              serviceLog,
		professionalRepo: professionalRepo,
		sessions:         sessions,
		jwtSecretKey:     []byte(jwtSecretKey),
		sessionTTL:       sessionTTL,
		now:              time.Now,
	}
}

func (as *authService) SessionTTL() time.Duration { return as.sessionTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.Professional, error) {
	name := strings.TrimSpace(in.Name)
	login := strings.TrimSpace(in.Login)
	password := strings.TrimSpace(in.Password)
	role := strings.TrimSpace(in.Role)

	if name == "" || login == "" || password == "" {
		return nil, apierr.BadRequest("missing_fields", "Nome, login e senha são obrigatórios")
	}
	if len(password) < minPasswordLength {
		return nil, apierr.BadRequest("password_too_short", "Senha deve ter pelo menos 4 dígitos")
	}
	if !isDigits(password) {
		return nil, apierr.BadRequest("password_not_numeric", "Senha deve conter apenas números")
	}
	if len(password) > maxPasswordLength {
		return nil, apierr.BadRequest("password_too_long", "Senha deve ter no máximo 72 dígitos")
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := as.professionalRepo.LoginExists(dbc, login)
	if err != nil {
		return nil, fmt.Errorf("check login: %w", err)
	}
	if exists {
		return nil, errLoginTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	prof, err := as.professionalRepo.Create(dbc, &types.Professional{
		Name:     name,
		Login:    login,
		Password: hash,
		Role:     role,
		Active:   true,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errLoginTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create professional: %w", err)
	}
	as.log.Info("Professional registered", "professional_id", prof.ID, "login", prof.Login)
	return prof, nil
}

var errLoginTaken = apierr.BadRequest("login_taken", "Este login já está em uso")

func (as *authService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return nil, apierr.BadRequest("missing_credentials", "Login e senha são obrigatórios")
	}

	dbc := dbctx.Context{Ctx: ctx}
	prof, err := as.professionalRepo.GetActiveByLogin(dbc, login)
	if err != nil {
		return nil, fmt.Errorf("load professional: %w", err)
	}
	if prof == nil {
		return nil, apierr.Unauthorized("user_not_found", "Usuário não encontrado")
	}
	ok, legacy := CheckPassword(prof.Password, password)
	if !ok {
		return nil, apierr.Unauthorized("wrong_password", "Senha incorreta")
	}
	if legacy {
		as.upgradeLegacyPassword(dbc, prof, password)
	}

	now := as.now().UTC()
	ls := &types.LoginSession{
		ID:             uuid.New(),
		ProfessionalID: prof.ID,
		ExpiresAt:      now.Add(as.sessionTTL),
		CreatedAt:      now,
	}
	if err := as.sessions.Create(ctx, ls); err != nil {
		return nil, fmt.Errorf("create login session: %w", err)
	}
	token, err := as.signToken(prof.ID, ls.ID, now, ls.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	as.log.Info("Professional logged in", "professional_id", prof.ID)
	return &LoginResult{Professional: prof, Token: token, ExpiresAt: ls.ExpiresAt}, nil
}

// upgradeLegacyPassword replaces a plain-text password with its bcrypt hash. Failures only cost a retry on the next login.
func (as *authService) upgradeLegacyPassword(dbc dbctx.Context, prof *types.Professional, password string) {
	hash, err := HashPassword(password)
	if err != nil {
		as.log.Warn("Failed to hash legacy password", "professional_id", prof.ID, "error", err)
		return
	}
	if err := as.professionalRepo.UpdatePassword(dbc, prof.ID, hash); err != nil {
		as.log.Warn("Failed to upgrade legacy password", "professional_id", prof.ID, "error", err)
		return
	}
	prof.Password = hash
}

func (as *authService) Logout(ctx context.Context, tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return nil
	}
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return nil
	}
	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}
	if err := as.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete login session: %w", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, errNotAuthenticated
	}
	claims, err := as.parseToken(tokenString)
	if err != nil {
		as.log.Debug("Rejected token", "error", err)
		return ctx, errNotAuthenticated
	}
	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ctx, errNotAuthenticated
	}
	professionalID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || professionalID == 0 {
		return ctx, errNotAuthenticated
	}

	ls, err := as.sessions.Get(ctx, sid)
	if err != nil {
		return ctx, fmt.Errorf("load login session: %w", err)
	}
	if ls == nil || ls.ProfessionalID != uint(professionalID) {
		return ctx, errNotAuthenticated
	}
	prof, err := as.professionalRepo.GetByID(dbctx.Context{Ctx: ctx}, ls.ProfessionalID)
	if err != nil {
		return ctx, fmt.Errorf("load professional: %w", err)
	}
	if prof == nil || !prof.Active {
		if err := as.sessions.Delete(ctx, sid); err != nil {
			as.log.Warn("Failed to drop login session of inactive professional", "session_id", sid, "error", err)
		}
		return ctx, errNotAuthenticated
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		ProfessionalID: ls.ProfessionalID,
		SessionID:      ls.ID,
		TokenString:    tokenString,
	}), nil
}

func (as *authService) CurrentProfessional(ctx context.Context) (*types.Professional, error) {
	id := ctxutil.ProfessionalID(ctx)
	if id == 0 {
		return nil, nil
	}
	prof, err := as.professionalRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load professional: %w", err)
	}
	if prof == nil || !prof.Active {
		return nil, nil
	}
	return prof, nil
}

func (as *authService) signToken(professionalID uint, sessionID uuid.UUID, issuedAt, expiresAt time.Time) (string, error) {
	claims := JWTClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(professionalID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

func (as *authService) parseToken(tokenString string) (*JWTClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) { return as.jwtSecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares against a bcrypt hash. Rows created before hashing
// was introduced hold the plain password; those match with legacy=true.
func CheckPassword(stored, plain string) (ok bool, legacy bool) {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	}
	if stored == "" {
		return false, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
