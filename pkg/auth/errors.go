package auth

import "errors"

// Storage-tier sentinels. Store implementations translate their driver
// errors into these so the resolver can branch without knowing the backend.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrFailedToCreateUser = errors.New("failed to create user")
	ErrFailedToUpdateUser = errors.New("failed to update user")
)

// Error is a user-safe authentication failure. Code is a stable,
// machine-readable identifier; Message is suitable for direct display and
// never leaks account state beyond what the flow already implies.
type Error struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrInvalidEmail is returned when the submitted email fails validation.
	ErrInvalidEmail = &Error{
		Code:    "INVALID_EMAIL",
		Message: "A valid email address is required",
	}

	// ErrInvalidPassword is returned when a user-chosen password does not
	// meet the strength requirement.
	ErrInvalidPassword = &Error{
		Code:    "INVALID_PASSWORD",
		Message: "The password is too weak, please choose a stronger one",
	}

	// ErrInvalidCredentials is returned on email/password sign-in failures.
	// It is deliberately generic so callers cannot probe which emails have
	// accounts.
	ErrInvalidCredentials = &Error{
		Code:    "INVALID_CREDENTIALS",
		Message: "The email or password is incorrect",
	}

	// ErrInvalidMagicCode is returned when a submitted one-time code does
	// not match the pending code for its key.
	ErrInvalidMagicCode = &Error{
		Code:    "INVALID_MAGIC_CODE",
		Message: "The sign-in code is incorrect, please check your email and try again",
	}

	// ErrMagicCodeExpired is returned when no pending code exists for the
	// key, whether it expired, was consumed, or was discarded after too
	// many failed attempts.
	ErrMagicCodeExpired = &Error{
		Code:    "MAGIC_CODE_EXPIRED",
		Message: "The sign-in code has expired, please request a new one",
	}

	// ErrSignupDisabled is returned when account creation is switched off
	// for the instance and the email holds no standing invitation.
	ErrSignupDisabled = &Error{
		Code:    "SIGNUP_DISABLED",
		Message: "Account creation is disabled on this instance, please contact your administrator",
	}

	// ErrInvalidAuthorizationCode is returned when an OAuth authorization
	// code cannot be exchanged for a token.
	ErrInvalidAuthorizationCode = &Error{
		Code:    "INVALID_AUTHORIZATION_CODE",
		Message: "Sign-in with the external provider failed, please try again",
	}

	// ErrProviderEmailMissing is returned when an OAuth provider does not
	// expose a usable email address for the account.
	ErrProviderEmailMissing = &Error{
		Code:    "PROVIDER_EMAIL_MISSING",
		Message: "The external provider did not share an email address for your account",
	}

	// ErrInstanceNotConfigured is returned by surfaces that require the
	// instance to be set up before any sign-in is allowed.
	ErrInstanceNotConfigured = &Error{
		Code:    "INSTANCE_NOT_CONFIGURED",
		Message: "This instance is not yet configured",
	}
)
