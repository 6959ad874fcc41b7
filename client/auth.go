package client

import "context"

// Account is the customer profile as the backend stores it. JSON tags keep
// the backend's Spanish field names.
type Account struct {
	ID            string `json:"id"`
	RawID         string `json:"_id"`
	Email         string `json:"email"`
	FirstName     string `json:"nombre"`
	MiddleName    string `json:"segundoNombre"`
	LastName      string `json:"apellidos"`
	NationalID    string `json:"cedula"`
	Phone         string `json:"telefono"`
	HousingType   string `json:"tipoVivienda"`
	HomeAddress   string `json:"direccionCasa"`
	Apartment     string `json:"apartamento"`
	OfficeAddress string `json:"direccionOficina"`
	OfficeFloor   string `json:"pisoOficina"`
	OfficeNumber  string `json:"numeroOficina"`
}

// Key returns whichever identifier the backend populated. Directory
// listings carry Mongo's _id, the auth endpoints a plain id.
func (a Account) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.RawID
}

// Admin is a back-office operator record.
type Admin struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	Name      string `json:"nombre"`
	Active    bool   `json:"activo"`
	CreatedAt string `json:"createdAt"`
}

// Identity is the answer to "who holds this token". Exactly one of Admin or
// User is set; neither means the backend recognized the token but attached no
// principal to it.
type Identity struct {
	Admin *Admin   `json:"admin"`
	User  *Account `json:"user"`
}

func (i Identity) IsAdmin() bool { return i.Admin != nil }
func (i Identity) IsUser() bool  { return i.User != nil }

// Email returns the principal's email regardless of kind.
func (i Identity) Email() string {
	if i.Admin != nil {
		return i.Admin.Email
	}
	if i.User != nil {
		return i.User.Email
	}
	return ""
}

// AuthResult is what both verify endpoints return. Token may be empty when
// the backend delivers the session through a cookie instead.
type AuthResult struct {
	User  *Account `json:"user"`
	Token string   `json:"token"`
}

// LoginRequest starts the login flow: the backend checks the credentials and
// mails a one-time code.
func (c *Client) LoginRequest(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "/api/auth/login/request", "", body, nil)
}

// LoginVerify trades the mailed code for a session.
func (c *Client) LoginVerify(ctx context.Context, email, code string) (*AuthResult, error) {
	body := map[string]string{"email": email, "code": code}
	out := &AuthResult{}
	if err := c.post(ctx, "/api/auth/login/verify", "", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterRequest starts the signup flow by mailing a verification code.
func (c *Client) RegisterRequest(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/api/auth/register/request", "", body, nil)
}

// RegisterVerifyInput carries everything the final signup step submits.
type RegisterVerifyInput struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"nombre,omitempty"`
}

// RegisterVerify completes signup with the code and chosen password.
func (c *Client) RegisterVerify(ctx context.Context, input RegisterVerifyInput) (*AuthResult, error) {
	out := &AuthResult{}
	if err := c.post(ctx, "/api/auth/register/verify", "", input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me resolves the identity behind a token. A 401 here is the one signal that
// the token is dead.
func (c *Client) Me(ctx context.Context, token string) (*Identity, error) {
	out := &Identity{}
	if err := c.get(ctx, "/api/auth/me", token, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout invalidates the session server side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/api/auth/logout", token, nil, nil)
}

// ProfileUpdate is the PATCH body for the account profile form.
type ProfileUpdate struct {
	FirstName     string `json:"nombre"`
	MiddleName    string `json:"segundoNombre"`
	LastName      string `json:"apellidos"`
	NationalID    string `json:"cedula"`
	Phone         string `json:"telefono"`
	HousingType   string `json:"tipoVivienda"`
	HomeAddress   string `json:"direccionCasa"`
	Apartment     string `json:"apartamento"`
	HasOffice     bool   `json:"tieneOficina"`
	OfficeAddress string `json:"direccionOficina"`
	OfficeFloor   string `json:"pisoOficina"`
	OfficeNumber  string `json:"numeroOficina"`
}

type profileResponse struct {
	User    *Account `json:"user"`
	Message string   `json:"message"`
}

// UpdateProfile persists the profile form and returns the stored account.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Account, error) {
	out := &profileResponse{}
	if err := c.patch(ctx, "/api/auth/profile", token, update, out); err != nil {
		return nil, err
	}
	return out.User, nil
}
