// Package auth はローカル認証、Google OAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/raihan/pesonabangka/internal/model"
	"github.com/raihan/pesonabangka/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーが検証済みのユーザー情報を表す。
// トークン署名の検証はプロバイダー側の責務であり、このサービスは再検証しない。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、検証済みユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// PasswordVerifier はパスワードのハッシュと照合のインターフェース。
type PasswordVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// ログイン試行の解決（ローカル/連携）、セッションの発行・破棄を担う。
type Service struct {
	oauth       OAuthProvider
	verifier    PasswordVerifier
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	verifier PasswordVerifier,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		verifier:    verifier,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// RegisterLocal はemailとパスワードでユーザーを登録する。
// 同一emailの同時登録はusersテーブルの一意制約が裁定し、
// 敗者はmodel.ErrDuplicateEmailを受け取る。
func (s *Service) RegisterLocal(ctx context.Context, email, plaintext string) (*model.User, error) {
	credential, err := s.verifier.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:         uuid.New().String(),
		Email:      email,
		Credential: credential,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("local user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// ResolveLocal はemailとパスワードによるログイン試行を解決する。
// 拒否ポリシー: 未登録emailとパスワード不一致は区別せず、
// どちらもmodel.ErrBadCredentialを返す（アカウント列挙対策）。
// ストアI/O障害はSTORE_UNAVAILABLEとしてそのまま伝播し、拒否には変換しない。
func (s *Service) ResolveLocal(ctx context.Context, email, plaintext string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrBadCredential
	}

	// 連携専用センチネルはVerifier側で必ず不一致になる
	if !s.verifier.Verify(plaintext, user.Credential) {
		return nil, model.ErrBadCredential
	}

	return user, nil
}

// ResolveFederated は外部プロバイダーが検証済みのemailによるログイン試行を解決する。
// 既存レコードがあればローカル登録かどうかに関わらずそれを再利用する。
// emailがローカル・連携両方式をまたぐ唯一のIDキーであることは意図した設計であり、
// 同一emailのアカウントは暗黙にマージされる。
// レコードがなければ連携専用センチネルを持つ新規レコードを作成する。
// 同時作成の競合ではINSERT敗者が既存レコードを引き直すため、
// 同じemailに対して常に同じIDへ冪等に解決される。
func (s *Service) ResolveFederated(ctx context.Context, info *OAuthUserInfo) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	now := time.Now()
	newUser := &model.User{
		ID:         uuid.New().String(),
		Email:      info.Email,
		Name:       info.Name,
		Credential: model.FederatedCredential,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.userRepo.Create(ctx, newUser)
	if err == nil {
		slog.Info("new federated user created",
			slog.String("user_id", newUser.ID),
			slog.String("provider", info.Provider),
		)
		return newUser, nil
	}

	if errors.Is(err, model.ErrDuplicateEmail) {
		// 同時ログインの競合でINSERTに敗れた。勝者のレコードを引き直す。
		existing, findErr := s.userRepo.FindByEmail(ctx, info.Email)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, model.NewStoreUnavailableError(
				fmt.Errorf("duplicate email reported but record not found: %s", info.Email))
		}
		return existing, nil
	}

	return nil, err
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	user, err := s.ResolveFederated(ctx, userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve federated identity: %w", err)
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// CreateSession はセッションを作成し永続化する。
// トークンは256ビットの暗号乱数で生成され、衝突チェックは行わない
// （衝突確率は構成上無視できる）。
func (s *Service) CreateSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Logout はセッションを破棄する。冪等であり、既に破棄済みの
// セッションIDを渡してもエラーにならない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// セッションが存在しない・期限切れ・参照先ユーザーが削除済みの場合は
// model.ErrSessionAbsentを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.ErrSessionAbsent
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrSessionAbsent
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// セッション発行後にユーザーが削除された。未認証として扱う。
		return nil, model.ErrSessionAbsent
	}

	return user, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
