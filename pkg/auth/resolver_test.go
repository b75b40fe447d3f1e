package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestResolver(users *MockUserStore, profiles *MockProfileStore, invites *MockInviteStore, settings SettingsSource) *Resolver {
	return NewResolver(users, profiles, invites, settings, WithBcryptCost(bcrypt.MinCost))
}

func TestResolver_CompleteLoginOrSignup_ExistingUser(t *testing.T) {
	t.Parallel()

	users := &MockUserStore{}
	resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

	existing := &User{ID: uuid.New(), Email: "known@example.com", Username: "someuser"}
	users.On("GetUserByEmail", mock.Anything, "known@example.com").Return(existing, nil)
	users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.ID == existing.ID &&
			u.LastLoginMedium == ProviderMagicCode &&
			u.LastLoginIP == "203.0.113.7" &&
			u.LastLoginUserAgent == "test-agent" &&
			!u.LastLoginTime.IsZero() &&
			!u.TokenUpdatedAt.IsZero()
	})).Return(nil)

	login := LoginContext{IPAddress: "203.0.113.7", UserAgent: "test-agent"}
	user, created, err := resolver.CompleteLoginOrSignup(context.Background(),
		UserData{Email: "known@example.com", User: UserAttributes{IsPasswordAutoset: true}},
		nil, ProviderMagicCode, login, nil)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, user.ID)
	users.AssertExpectations(t)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestResolver_CompleteLoginOrSignup_SignupAutoset(t *testing.T) {
	t.Parallel()

	users := &MockUserStore{}
	profiles := &MockProfileStore{}
	resolver := newTestResolver(users, profiles, &MockInviteStore{}, nil)

	users.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, ErrUserNotFound)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email == "new@example.com" &&
			len(u.Username) == 32 &&
			u.IsPasswordAutoset &&
			u.IsEmailVerified &&
			u.IsActive &&
			len(u.PasswordHash) > 0
	})).Return(nil)
	profiles.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.UserID != uuid.Nil
	})).Return(nil)
	users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

	user, created, err := resolver.CompleteLoginOrSignup(context.Background(),
		UserData{Email: "new@example.com", User: UserAttributes{IsPasswordAutoset: true}},
		nil, ProviderMagicCode, LoginContext{}, nil)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ProviderMagicCode, user.LastLoginMedium)
	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestResolver_CompleteLoginOrSignup_SignupWithPassword(t *testing.T) {
	t.Parallel()

	t.Run("strong password accepted", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		profiles := &MockProfileStore{}
		resolver := newTestResolver(users, profiles, &MockInviteStore{}, nil)

		const password = "kT9#vLq2$mXw7!pR"

		users.On("GetUserByEmail", mock.Anything, "chooser@example.com").Return(nil, ErrUserNotFound)
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return !u.IsPasswordAutoset &&
				!u.IsEmailVerified &&
				bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
		})).Return(nil)
		profiles.On("CreateProfile", mock.Anything, mock.Anything).Return(nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

		_, created, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "chooser@example.com", Password: password},
			nil, ProviderCredentials, LoginContext{}, nil)

		require.NoError(t, err)
		assert.True(t, created)
		users.AssertExpectations(t)
	})

	t.Run("weak password rejected before any write", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

		users.On("GetUserByEmail", mock.Anything, "weak@example.com").Return(nil, ErrUserNotFound)

		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "weak@example.com", Password: "letmein"},
			nil, ProviderCredentials, LoginContext{}, nil)

		require.ErrorIs(t, err, ErrInvalidPassword)
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestResolver_CompleteLoginOrSignup_SignupPolicy(t *testing.T) {
	t.Parallel()

	t.Run("disabled instance rejects uninvited email", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		invites := &MockInviteStore{}
		resolver := newTestResolver(users, &MockProfileStore{}, invites, staticSettings{KeyEnableSignup: "0"})

		users.On("GetUserByEmail", mock.Anything, "stranger@example.com").Return(nil, ErrUserNotFound)
		invites.On("HasInviteForEmail", mock.Anything, "stranger@example.com").Return(false, nil)

		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "stranger@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			nil, ProviderMagicCode, LoginContext{}, nil)

		require.ErrorIs(t, err, ErrSignupDisabled)
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		invites.AssertExpectations(t)
	})

	t.Run("invitation overrides disabled instance", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		profiles := &MockProfileStore{}
		invites := &MockInviteStore{}
		resolver := newTestResolver(users, profiles, invites, staticSettings{KeyEnableSignup: "0"})

		users.On("GetUserByEmail", mock.Anything, "invited@example.com").Return(nil, ErrUserNotFound)
		invites.On("HasInviteForEmail", mock.Anything, "invited@example.com").Return(true, nil)
		users.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
		profiles.On("CreateProfile", mock.Anything, mock.Anything).Return(nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

		_, created, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "invited@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			nil, ProviderMagicCode, LoginContext{}, nil)

		require.NoError(t, err)
		assert.True(t, created)
		invites.AssertExpectations(t)
	})

	t.Run("existing user unaffected by disabled signup", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		invites := &MockInviteStore{}
		resolver := newTestResolver(users, &MockProfileStore{}, invites, staticSettings{KeyEnableSignup: "0"})

		existing := &User{ID: uuid.New(), Email: "old@example.com"}
		users.On("GetUserByEmail", mock.Anything, "old@example.com").Return(existing, nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

		_, created, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "old@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			nil, ProviderMagicCode, LoginContext{}, nil)

		require.NoError(t, err)
		assert.False(t, created)
		invites.AssertNotCalled(t, "HasInviteForEmail", mock.Anything, mock.Anything)
	})
}

func TestResolver_CompleteLoginOrSignup_ConcurrentSignup(t *testing.T) {
	t.Parallel()

	users := &MockUserStore{}
	profiles := &MockProfileStore{}
	resolver := newTestResolver(users, profiles, &MockInviteStore{}, nil)

	winner := &User{ID: uuid.New(), Email: "race@example.com"}
	users.On("GetUserByEmail", mock.Anything, "race@example.com").Return(nil, ErrUserNotFound).Once()
	users.On("CreateUser", mock.Anything, mock.Anything).Return(ErrEmailAlreadyExists)
	users.On("GetUserByEmail", mock.Anything, "race@example.com").Return(winner, nil).Once()
	users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

	user, created, err := resolver.CompleteLoginOrSignup(context.Background(),
		UserData{Email: "race@example.com", User: UserAttributes{IsPasswordAutoset: true}},
		nil, ProviderMagicCode, LoginContext{}, nil)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, user.ID)
	profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestResolver_CompleteLoginOrSignup_ProfileFailureRollsBack(t *testing.T) {
	t.Parallel()

	users := &MockUserStore{}
	profiles := &MockProfileStore{}
	resolver := newTestResolver(users, profiles, &MockInviteStore{}, nil)

	users.On("GetUserByEmail", mock.Anything, "broken@example.com").Return(nil, ErrUserNotFound)
	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	profiles.On("CreateProfile", mock.Anything, mock.Anything).Return(errors.New("db down"))
	users.On("DeleteUser", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
		UserData{Email: "broken@example.com", User: UserAttributes{IsPasswordAutoset: true}},
		nil, ProviderMagicCode, LoginContext{}, nil)

	require.Error(t, err)
	users.AssertCalled(t, "DeleteUser", mock.Anything, mock.AnythingOfType("uuid.UUID"))
}

func TestResolver_CompleteLoginOrSignup_AccountLinking(t *testing.T) {
	t.Parallel()

	t.Run("linker invoked when token present", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		linker := &MockAccountLinker{}
		resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

		existing := &User{ID: uuid.New(), Email: "oauth@example.com"}
		users.On("GetUserByEmail", mock.Anything, "oauth@example.com").Return(existing, nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)
		linker.On("CreateUpdateAccount", mock.Anything, existing).Return(nil)

		token := &TokenData{AccessToken: "at", AccessTokenExpiresAt: time.Now().Add(time.Hour)}
		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "oauth@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			token, ProviderGoogle, LoginContext{}, linker)

		require.NoError(t, err)
		linker.AssertExpectations(t)
	})

	t.Run("linker skipped without token", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		linker := &MockAccountLinker{}
		resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

		existing := &User{ID: uuid.New(), Email: "plain@example.com"}
		users.On("GetUserByEmail", mock.Anything, "plain@example.com").Return(existing, nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)

		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "plain@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			nil, ProviderMagicCode, LoginContext{}, linker)

		require.NoError(t, err)
		linker.AssertNotCalled(t, "CreateUpdateAccount", mock.Anything, mock.Anything)
	})
}

func TestResolver_CompleteLoginOrSignup_StorageErrors(t *testing.T) {
	t.Parallel()

	t.Run("lookup failure surfaces", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

		users.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("conn refused"))

		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "x@example.com"}, nil, ProviderMagicCode, LoginContext{}, nil)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("provenance update failure surfaces", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		resolver := newTestResolver(users, &MockProfileStore{}, &MockInviteStore{}, nil)

		existing := &User{ID: uuid.New(), Email: "y@example.com"}
		users.On("GetUserByEmail", mock.Anything, mock.Anything).Return(existing, nil)
		users.On("UpdateUser", mock.Anything, mock.Anything).Return(errors.New("conn refused"))

		_, _, err := resolver.CompleteLoginOrSignup(context.Background(),
			UserData{Email: "y@example.com", User: UserAttributes{IsPasswordAutoset: true}},
			nil, ProviderMagicCode, LoginContext{}, nil)
		require.ErrorIs(t, err, ErrFailedToUpdateUser)
	})
}
