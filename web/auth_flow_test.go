package web

import (
	"context"
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/icoltex/storefront/client"
	"github.com/stretchr/testify/assert"
)

// stubAuthAPI records calls and plays back canned answers.
type stubAuthAPI struct {
	loginRequestErr   error
	loginVerifyResult *client.AuthResult
	loginVerifyErr    error

	registerRequestErr   error
	registerVerifyResult *client.AuthResult
	registerVerifyErr    error

	loginRequests    []string
	verifyCalls      []string
	registerRequests []string
	registerVerifies []client.RegisterVerifyInput
}

func (s *stubAuthAPI) LoginRequest(ctx context.Context, email, password string) error {
	s.loginRequests = append(s.loginRequests, email)
	return s.loginRequestErr
}

func (s *stubAuthAPI) LoginVerify(ctx context.Context, email, code string) (*client.AuthResult, error) {
	s.verifyCalls = append(s.verifyCalls, email+":"+code)
	if s.loginVerifyErr != nil {
		return nil, s.loginVerifyErr
	}
	return s.loginVerifyResult, nil
}

func (s *stubAuthAPI) RegisterRequest(ctx context.Context, email string) error {
	s.registerRequests = append(s.registerRequests, email)
	return s.registerRequestErr
}

func (s *stubAuthAPI) RegisterVerify(ctx context.Context, input client.RegisterVerifyInput) (*client.AuthResult, error) {
	s.registerVerifies = append(s.registerVerifies, input)
	if s.registerVerifyErr != nil {
		return nil, s.registerVerifyErr
	}
	return s.registerVerifyResult, nil
}

func (s *stubAuthAPI) Logout(ctx context.Context, token string) error { return nil }

func backendErr(msg string, code int) error {
	return goerrors.New(msg, goerrors.CategoryOperation).WithCode(code)
}

func TestAdvanceLogin_CredentialsToOTP(t *testing.T) {
	api := &stubAuthAPI{}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage:    StageCredentials,
		Email:    "ana@example.com",
		Password: "secreto",
	})

	assert.Equal(t, StageOTP, result.Stage)
	assert.Empty(t, result.Message)
	assert.Equal(t, []string{"ana@example.com"}, api.loginRequests)
}

func TestAdvanceLogin_BadCredentialsStay(t *testing.T) {
	api := &stubAuthAPI{loginRequestErr: backendErr("Credenciales inválidas", http.StatusBadRequest)}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage:    StageCredentials,
		Email:    "ana@example.com",
		Password: "mal",
	})

	assert.Equal(t, StageCredentials, result.Stage)
	assert.Equal(t, "Credenciales inválidas", result.Message)
}

func TestAdvanceLogin_InvalidEmailNeverReachesBackend(t *testing.T) {
	api := &stubAuthAPI{}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage:    StageCredentials,
		Email:    "no-es-correo",
		Password: "secreto",
	})

	assert.Equal(t, StageCredentials, result.Stage)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, api.loginRequests)
}

func TestAdvanceLogin_OTPSuccess(t *testing.T) {
	api := &stubAuthAPI{loginVerifyResult: &client.AuthResult{Token: "fresh-token"}}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage: StageOTP,
		Email: "ana@example.com",
		Code:  "123456",
	})

	assert.True(t, result.Finished)
	assert.Equal(t, "fresh-token", result.Token)
	assert.Equal(t, []string{"ana@example.com:123456"}, api.verifyCalls)
}

func TestAdvanceLogin_OTPRejectedStays(t *testing.T) {
	api := &stubAuthAPI{loginVerifyErr: backendErr("Código incorrecto", http.StatusBadRequest)}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage: StageOTP,
		Email: "ana@example.com",
		Code:  "000000",
	})

	assert.False(t, result.Finished)
	assert.Equal(t, StageOTP, result.Stage)
	assert.Equal(t, "Código incorrecto", result.Message)
}

func TestAdvanceLogin_BackPreservesEmail(t *testing.T) {
	api := &stubAuthAPI{}

	result := advanceLogin(context.Background(), api, LoginForm{
		Stage:  StageOTP,
		Email:  "ana@example.com",
		Code:   "123",
		Action: actionBack,
	})

	assert.Equal(t, StageCredentials, result.Stage)
	assert.Empty(t, result.Message)
	assert.Empty(t, api.verifyCalls)
}

func TestAdvanceRegister_EmailToOTP(t *testing.T) {
	api := &stubAuthAPI{}

	result := advanceRegister(context.Background(), api, RegisterForm{
		Stage: StageEmail,
		Email: "ana@example.com",
	})

	assert.Equal(t, StageOTP, result.Stage)
	assert.Equal(t, []string{"ana@example.com"}, api.registerRequests)
}

func TestAdvanceRegister_OTPIsLocalOnly(t *testing.T) {
	api := &stubAuthAPI{}

	result := advanceRegister(context.Background(), api, RegisterForm{
		Stage: StageOTP,
		Email: "ana@example.com",
		Code:  " 12-34 56 ",
	})

	assert.Equal(t, StagePassword, result.Stage)
	assert.Empty(t, api.verifyCalls)
	assert.Empty(t, api.registerVerifies)
}

func TestAdvanceRegister_OTPWrongShape(t *testing.T) {
	api := &stubAuthAPI{}

	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		result := advanceRegister(context.Background(), api, RegisterForm{
			Stage: StageOTP,
			Email: "ana@example.com",
			Code:  code,
		})

		assert.Equal(t, StageOTP, result.Stage, "code %q", code)
		assert.Equal(t, "El código debe tener 6 dígitos", result.Message)
	}

	assert.Empty(t, api.registerVerifies)
}

func TestAdvanceRegister_PasswordRulesCheckedLocally(t *testing.T) {
	api := &stubAuthAPI{}

	short := advanceRegister(context.Background(), api, RegisterForm{
		Stage:           StagePassword,
		Email:           "ana@example.com",
		Code:            "123456",
		Password:        "corta",
		ConfirmPassword: "corta",
	})
	assert.Equal(t, StagePassword, short.Stage)
	assert.NotEmpty(t, short.Message)

	mismatch := advanceRegister(context.Background(), api, RegisterForm{
		Stage:           StagePassword,
		Email:           "ana@example.com",
		Code:            "123456",
		Password:        "secreto1",
		ConfirmPassword: "secreto2",
	})
	assert.Equal(t, StagePassword, mismatch.Stage)
	assert.NotEmpty(t, mismatch.Message)

	assert.Empty(t, api.registerVerifies)
}

func TestAdvanceRegister_VerifySendsEverything(t *testing.T) {
	api := &stubAuthAPI{registerVerifyResult: &client.AuthResult{Token: "new-token"}}

	result := advanceRegister(context.Background(), api, RegisterForm{
		Stage:           StagePassword,
		Email:           "ana@example.com",
		Code:            "123 456",
		Password:        "secreto1",
		ConfirmPassword: "secreto1",
		FirstName:       "Ana",
	})

	assert.True(t, result.Finished)
	assert.Equal(t, "new-token", result.Token)

	if assert.Len(t, api.registerVerifies, 1) {
		sent := api.registerVerifies[0]
		assert.Equal(t, "ana@example.com", sent.Email)
		assert.Equal(t, "123456", sent.Code)
		assert.Equal(t, "secreto1", sent.Password)
		assert.Equal(t, "Ana", sent.FirstName)
	}
}

func TestAdvanceRegister_BackActions(t *testing.T) {
	api := &stubAuthAPI{}

	fromOTP := advanceRegister(context.Background(), api, RegisterForm{
		Stage:  StageOTP,
		Email:  "ana@example.com",
		Action: actionBack,
	})
	assert.Equal(t, StageEmail, fromOTP.Stage)

	fromPassword := advanceRegister(context.Background(), api, RegisterForm{
		Stage:  StagePassword,
		Email:  "ana@example.com",
		Code:   "123456",
		Action: actionBack,
	})
	assert.Equal(t, StageOTP, fromPassword.Stage)

	assert.Empty(t, api.registerRequests)
	assert.Empty(t, api.registerVerifies)
}

func TestAdvanceLogin_UnknownStageFallsBack(t *testing.T) {
	api := &stubAuthAPI{loginRequestErr: errors.New("should not matter")}

	result := advanceLogin(context.Background(), api, LoginForm{Stage: "???"})

	assert.Equal(t, StageCredentials, result.Stage)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, api.loginRequests)
}
