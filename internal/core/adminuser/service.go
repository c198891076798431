package adminuser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

// RoutingKeyCreated は管理ユーザー作成イベントのルーティングキーです。
const RoutingKeyCreated = "admin_user.created"

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// EventPublisher はドメインイベントの発行先です。
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

// CreatedEvent は管理ユーザー作成時に発行されるイベントです。
type CreatedEvent struct {
	UserID    string    `json:"user_id"`
	CompanyID *string   `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Service は管理ユーザー作成フォームの送信を扱います。
type Service struct {
	users     user.Repository
	tx        TransactionManager
	publisher EventPublisher
	clock     Clock
	logger    *zap.Logger
	hashCost  int
	inflight  singleflight.Group
}

// UseCase は管理ユーザー作成ユースケースの公開インターフェースです。
type UseCase interface {
	Validate(in FormInput) FieldErrors
	Submit(ctx context.Context, in SubmitInput) (*user.User, error)
}

// NewService は Service を生成します。nil の依存はデフォルト実装で補われます。
func NewService(users user.Repository, tx TransactionManager, publisher EventPublisher, clock Clock, logger *zap.Logger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:     users,
		tx:        tx,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// SubmitInput は管理ユーザー作成の送信内容です。
type SubmitInput struct {
	Form FormInput
	// CompanyID は作成者が所属する会社です。新しい管理ユーザーも同じ会社に所属します。
	CompanyID *string
}

// Validate は FormInput を検証します。
func (s *Service) Validate(in FormInput) FieldErrors {
	return Validate(in)
}

// Submit はフォームを検証し、問題がなければ管理ユーザーを作成します。
// 同じ会社・メールアドレスの送信が処理中の場合は、その結果を共有し二重作成を防ぎます。再試行は行いません。
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*user.User, error) {
	if fields := Validate(in.Form); !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	email := strings.ToLower(strings.TrimSpace(in.Form.Email))

	// 共有される作成処理は最初の呼び出し元のキャンセルに左右されないよう切り離して実行し、
	// 各呼び出し元は自身の ctx で待機を打ち切る
	ch := s.inflight.DoChan(inflightKey(email, in.CompanyID), func() (any, error) {
		return s.create(context.WithoutCancel(ctx), email, in)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		created := *(res.Val.(*user.User))
		return &created, nil
	}
}

func inflightKey(email string, companyID *string) string {
	if companyID == nil {
		return email
	}
	return email + "\x00" + *companyID
}

func (s *Service) create(ctx context.Context, email string, in SubmitInput) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Form.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrSubmitFailed, err)
	}

	var created *user.User
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.users.FindByEmail(txCtx, email)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}

		now := s.clock.Now()
		result, err := s.users.Create(txCtx, &user.User{
			ID:           uuid.NewString(),
			CompanyID:    in.CompanyID,
			Email:        email,
			FirstName:    strings.TrimSpace(in.Form.FirstName),
			LastName:     strings.TrimSpace(in.Form.LastName),
			Phone:        strings.TrimSpace(in.Form.Phone),
			PasswordHash: string(hash),
			Role:         user.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken), errors.Is(err, user.ErrEmailAlreadyExists):
			return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, ErrEmailTaken)
		default:
			return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
	}

	s.logger.Info("admin user created", zap.String("user_id", created.ID), zap.String("email", created.Email))

	event := CreatedEvent{
		UserID:    created.ID,
		CompanyID: created.CompanyID,
		Email:     created.Email,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		CreatedAt: created.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, RoutingKeyCreated, event); err != nil {
		s.logger.Warn("publish admin user created event", zap.String("user_id", created.ID), zap.Error(err))
	}

	return created, nil
}
