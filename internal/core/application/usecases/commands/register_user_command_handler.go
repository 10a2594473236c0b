package commands

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
)

// RegisterUserResult identifies the created account.
type RegisterUserResult struct {
	UserID kernel.UUID
}

// RegisterUserCommandHandler creates unverified customer accounts and sends
// the verification link once the account is committed.
//
// Example:
//
//	handler := NewRegisterUserCommandHandler(uowFactory, hasher, tokens, notifier, verifyURL, logger)
//	_, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, user.ErrDuplicateEmail) {
//	    // 409
//	}
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	tokens     ports.TokenManager
	notifier   ports.Notifier
	verifyURL  string
	logger     *slog.Logger
}

// NewRegisterUserCommandHandler creates the handler. verifyURL is the
// address the verification token is appended to as the "token" query parameter.
func NewRegisterUserCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	notifier ports.Notifier,
	verifyURL string,
	logger *slog.Logger,
) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
		notifier:   notifier,
		verifyURL:  verifyURL,
		logger:     logger.With("component", "register_user"),
	}
}

// Handle stores the account and, after commit, issues a verification token
// and hands it to the notifier. Token or notification failures are logged;
// the registration itself has already succeeded.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return RegisterUserResult{}, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return RegisterUserResult{}, err
	}

	account, err := user.NewUser(kernel.NewUUID(), cmd.Email(), hash, user.RoleCustomer, time.Now())
	if err != nil {
		return RegisterUserResult{}, err
	}

	if err = addNewUser(ctx, h.uowFactory, account); err != nil {
		return RegisterUserResult{}, err
	}

	h.sendVerification(ctx, account)

	return RegisterUserResult{UserID: account.ID()}, nil
}

func (h RegisterUserCommandHandler) sendVerification(ctx context.Context, account *user.User) {
	token, err := h.tokens.Issue(account.ID(), account.Role(), user.ScopeEmailVerification)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification token not issued", "user_id", account.ID().String(), "error", err)
		return
	}

	msg := ports.VerificationMessage{
		UserID: account.ID(),
		Email:  account.Email().String(),
		Token:  token,
		Link:   verificationLink(h.verifyURL, token),
	}
	if err = h.notifier.SendVerification(ctx, msg); err != nil {
		h.logger.WarnContext(ctx, "verification notification failed", "user_id", account.ID().String(), "error", err)
	}
}

func verificationLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
