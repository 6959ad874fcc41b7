package web

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/icoltex/storefront/client"
)

// Login and registration advance through fixed stages carried in a hidden
// form field. A stage only renders when its predecessor completed, and the
// back action walks one stage back keeping the email.
const (
	StageCredentials = "credentials"
	StageOTP         = "otp"
	StageEmail       = "email"
	StagePassword    = "password"

	actionBack = "back"
)

// authAPI is the slice of the API client the auth flows need.
type authAPI interface {
	LoginRequest(ctx context.Context, email, password string) error
	LoginVerify(ctx context.Context, email, code string) (*client.AuthResult, error)
	RegisterRequest(ctx context.Context, email string) error
	RegisterVerify(ctx context.Context, input client.RegisterVerifyInput) (*client.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// stepResult tells the controller what to do after one form submission:
// render Stage again (optionally with an inline Message), or persist Token
// and redirect.
type stepResult struct {
	Stage    string
	Message  string
	Token    string
	Finished bool
}

// LoginForm is the superset of fields the login form posts across stages.
type LoginForm struct {
	Stage    string `form:"stage" json:"stage"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Code     string `form:"code" json:"code"`
	Action   string `form:"action" json:"action"`
}

func (f LoginForm) validateCredentials() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Stage, validation.Required, validation.In(StageCredentials)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required),
	)
}

func (f LoginForm) validateCode() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Stage, validation.Required, validation.In(StageOTP)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Code, validation.Required),
	)
}

// advanceLogin runs one login submission. Credentials go to the request
// endpoint; the code goes to verify. Failures stay on their stage with an
// inline message.
func advanceLogin(ctx context.Context, api authAPI, form LoginForm) stepResult {
	switch form.Stage {
	case StageOTP:
		if form.Action == actionBack {
			return stepResult{Stage: StageCredentials}
		}

		if err := form.validateCode(); err != nil {
			return stepResult{Stage: StageOTP, Message: firstValidationMessage(err)}
		}

		result, err := api.LoginVerify(ctx, form.Email, form.Code)
		if err != nil {
			return stepResult{Stage: StageOTP, Message: client.Message(err)}
		}

		return stepResult{Finished: true, Token: result.Token}

	default:
		if err := form.validateCredentials(); err != nil {
			return stepResult{Stage: StageCredentials, Message: firstValidationMessage(err)}
		}

		if err := api.LoginRequest(ctx, form.Email, form.Password); err != nil {
			return stepResult{Stage: StageCredentials, Message: client.Message(err)}
		}

		return stepResult{Stage: StageOTP}
	}
}

// RegisterForm is the superset of fields the signup form posts across
// stages.
type RegisterForm struct {
	Stage           string `form:"stage" json:"stage"`
	Email           string `form:"email" json:"email"`
	Code            string `form:"code" json:"code"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	FirstName       string `form:"nombre" json:"nombre"`
	Action          string `form:"action" json:"action"`
}

func (f RegisterForm) validateEmail() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Stage, validation.Required, validation.In(StageEmail)),
		validation.Field(&f.Email, validation.Required, is.Email),
	)
}

func (f RegisterForm) validateCode() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Stage, validation.Required, validation.In(StageOTP)),
		validation.Field(&f.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (f RegisterForm) validatePassword() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Stage, validation.Required, validation.In(StagePassword)),
		validation.Field(&f.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&f.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(f.Password)),
		),
	)
}

// digitsOnly strips everything but digits, so pasted codes with spaces or
// dashes still count.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// advanceRegister runs one signup submission. The OTP stage is local only:
// the code is checked for shape here and sent to the backend together with
// the password at the final stage.
func advanceRegister(ctx context.Context, api authAPI, form RegisterForm) stepResult {
	switch form.Stage {
	case StageOTP:
		if form.Action == actionBack {
			return stepResult{Stage: StageEmail}
		}

		form.Code = digitsOnly(form.Code)
		if err := form.validateCode(); err != nil {
			return stepResult{Stage: StageOTP, Message: "El código debe tener 6 dígitos"}
		}

		return stepResult{Stage: StagePassword}

	case StagePassword:
		if form.Action == actionBack {
			return stepResult{Stage: StageOTP}
		}

		if err := form.validatePassword(); err != nil {
			return stepResult{Stage: StagePassword, Message: firstValidationMessage(err)}
		}

		result, err := api.RegisterVerify(ctx, client.RegisterVerifyInput{
			Email:           form.Email,
			Code:            digitsOnly(form.Code),
			Password:        form.Password,
			ConfirmPassword: form.ConfirmPassword,
			FirstName:       form.FirstName,
		})
		if err != nil {
			return stepResult{Stage: StagePassword, Message: client.Message(err)}
		}

		return stepResult{Finished: true, Token: result.Token}

	default:
		if err := form.validateEmail(); err != nil {
			return stepResult{Stage: StageEmail, Message: firstValidationMessage(err)}
		}

		if err := api.RegisterRequest(ctx, form.Email); err != nil {
			return stepResult{Stage: StageEmail, Message: client.Message(err)}
		}

		return stepResult{Stage: StageOTP}
	}
}
