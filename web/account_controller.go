package web

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/icoltex/storefront/client"
	"github.com/icoltex/storefront/session"
	"github.com/nyaruka/phonenumbers"
)

// accountAPI is the slice of the API client the account area needs.
type accountAPI interface {
	UpdateProfile(ctx context.Context, token string, update client.ProfileUpdate) (*client.Account, error)
}

// AccountController serves the customer area behind the user guard.
type AccountController struct {
	Logger session.Logger
	API    accountAPI
}

func NewAccountController(api accountAPI, logger session.Logger) *AccountController {
	if api == nil {
		panic("Missing API client in account controller...")
	}
	return &AccountController{API: api, Logger: loggerOrDefault(logger)}
}

func (a *AccountController) Home(ctx router.Context) error {
	return ctx.Render("account/home", viewData(ctx, router.ViewContext{}))
}

func (a *AccountController) ProfileShow(ctx router.Context) error {
	return ctx.Render("account/profile", viewData(ctx, router.ViewContext{
		"validation": map[string]string{},
	}))
}

// ProfileForm carries the account profile fields. The office block only
// counts when the tiene_oficina toggle came through.
type ProfileForm struct {
	FirstName     string `form:"nombre" json:"nombre"`
	MiddleName    string `form:"segundo_nombre" json:"segundo_nombre"`
	LastName      string `form:"apellidos" json:"apellidos"`
	NationalID    string `form:"cedula" json:"cedula"`
	Phone         string `form:"telefono" json:"telefono"`
	HousingType   string `form:"tipo_vivienda" json:"tipo_vivienda"`
	HomeAddress   string `form:"direccion_casa" json:"direccion_casa"`
	Apartment     string `form:"apartamento" json:"apartamento"`
	HasOffice     string `form:"tiene_oficina" json:"tiene_oficina"`
	OfficeAddress string `form:"direccion_oficina" json:"direccion_oficina"`
	OfficeFloor   string `form:"piso_oficina" json:"piso_oficina"`
	OfficeNumber  string `form:"numero_oficina" json:"numero_oficina"`
}

// Validate runs the local rules before anything reaches the backend.
func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Phone, validation.By(validateColombianPhone)),
		validation.Field(&f.HousingType, validation.In("casa", "edificio")),
	)
}

func (f ProfileForm) hasOffice() bool {
	return f.HasOffice != "" && f.HasOffice != "false"
}

func (f ProfileForm) toUpdate() client.ProfileUpdate {
	return client.ProfileUpdate{
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		NationalID:    f.NationalID,
		Phone:         f.Phone,
		HousingType:   f.HousingType,
		HomeAddress:   f.HomeAddress,
		Apartment:     f.Apartment,
		HasOffice:     f.hasOffice(),
		OfficeAddress: f.OfficeAddress,
		OfficeFloor:   f.OfficeFloor,
		OfficeNumber:  f.OfficeNumber,
	}
}

// validateColombianPhone accepts empty values and otherwise demands a number
// that parses and is valid for the CO region.
func validateColombianPhone(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "CO")
	if err != nil {
		return errors.New("el teléfono no es válido")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("el teléfono no es válido para Colombia")
	}

	return nil
}

func (a *AccountController) ProfilePost(ctx router.Context) error {
	payload := new(ProfileForm)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("profile parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render("account/profile", viewData(ctx, router.ViewContext{
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Revisa los campos marcados",
		}).Render("account/profile", viewData(ctx, router.ViewContext{
			"record":     payload,
			"validation": validationToMap(err),
		}))
	}

	token := session.TokenFromContext(ctx)
	if _, err := a.API.UpdateProfile(ctx.Context(), token, payload.toUpdate()); err != nil {
		a.Logger.Error("profile update failed: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  client.Message(err),
			"system_message": "No se pudo guardar el perfil",
		}).Render("account/profile", viewData(ctx, router.ViewContext{
			"record": payload,
		}))
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Perfil actualizado",
	}).Redirect("/account", fiber.StatusSeeOther)
}
