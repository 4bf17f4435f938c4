package access

import (
	"context"

	"glimpse/internal/models"
	"glimpse/internal/remote"

	"github.com/google/uuid"
)

// NewAccount is the sign-up input. All fields are required.
type NewAccount struct {
	Name     string
	Username string
	Email    string
	Password string
}

// CreateAccount registers an auth principal, derives a placeholder avatar
// from the name's initials, and creates the matching user document.
//
// If the document creation fails the principal is NOT compensated: the auth
// surface exposes no delete-principal primitive, so the principal stays
// orphaned until a profile is created for it out of band.
func (s *Service) CreateAccount(ctx context.Context, in NewAccount) (*models.User, error) {
	ctx, span := tracer().Start(ctx, "access.CreateAccount")
	defer span.End()

	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, username, email and password are required")
	}

	account, err := s.store.CreateAccount(ctx, uuid.NewString(), in.Email, in.Password, in.Name)
	if err != nil {
		return nil, models.NewAccountCreationError(err)
	}

	avatarURL := s.store.InitialsURL(in.Name)

	doc, err := s.store.CreateDocument(ctx, s.cfg.UsersCollectionID, uuid.NewString(), map[string]any{
		"accountId": account.ID,
		"name":      account.Name,
		"email":     account.Email,
		"username":  in.Username,
		"bio":       "",
		"imageUrl":  avatarURL,
		"imageId":   "",
	})
	if err != nil {
		return nil, mapRemote(err, "User profile not created")
	}
	return docToUser(*doc), nil
}

// SignIn creates a session for the given credentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*remote.Session, error) {
	ctx, span := tracer().Start(ctx, "access.SignIn")
	defer span.End()

	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	session, err := s.store.CreateSession(ctx, email, password)
	if err != nil {
		return nil, models.NewAuthError("Invalid email or password", err)
	}
	return session, nil
}

// SignOut ends the current session.
func (s *Service) SignOut(ctx context.Context) error {
	ctx, span := tracer().Start(ctx, "access.SignOut")
	defer span.End()

	if err := s.store.DeleteSession(ctx, "current"); err != nil {
		return models.NewAuthError("No active session", err)
	}
	return nil
}

// CurrentUser resolves the active session's principal to its user document.
// No session or no matching document resolves to (nil, nil): being logged
// out is a recoverable state, not a failure.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	ctx, span := tracer().Start(ctx, "access.CurrentUser")
	defer span.End()

	account, err := s.store.CurrentAccount(ctx)
	if err != nil {
		return nil, mapRemote(err, "Account lookup failed")
	}
	if account == nil {
		return nil, nil
	}

	docs, err := s.store.ListDocuments(ctx, s.cfg.UsersCollectionID,
		remote.Equal("accountId", account.ID),
		remote.Limit(1),
	)
	if err != nil {
		return nil, mapRemote(err, "User lookup failed")
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docToUser(docs[0]), nil
}
