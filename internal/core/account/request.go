package account

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	NameMaxLength     = 50
	PasswordMinLength = 6
	PasswordMaxLength = 40
)

var emailPattern = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-.]+\.[a-z]+$`)

var (
	errBlank          = validation.NewError(CodeBlank, "can't be blank")
	errNameTooLong    = validation.NewError(CodeTooLong, "is too long (maximum is 50 characters)")
	errEmailInvalid   = validation.NewError(CodeInvalid, "is invalid")
	errPasswordLength = validation.NewError(CodeLength, "must be between 6 and 40 characters")
	errConfirmation   = validation.NewError(CodeConfirmation, "doesn't match password")
)

// TakenMessage is attached to a duplicate email.
const TakenMessage = "has already been taken"

// CreateRequest carries the fields of a new account. Password and
// PasswordConfirmation are never persisted.
type CreateRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, nameRules()...),
		validation.Field(&r.Email, emailRules()...),
		validation.Field(&r.Password, passwordRules()...),
		validation.Field(&r.PasswordConfirmation, confirmationRule(r.Password)),
	)
}

// UpdateRequest changes only the fields that are set. A password is optional;
// when either password field is present both are validated together.
type UpdateRequest struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
}

func (r UpdateRequest) ChangesPassword() bool {
	return r.Password != "" || r.PasswordConfirmation != ""
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, nameRules()...)),
		validation.Field(&r.Email, validation.When(r.Email != nil, emailRules()...)),
		validation.Field(&r.Password, validation.When(r.ChangesPassword(), passwordRules()...)),
		validation.Field(&r.PasswordConfirmation, validation.When(r.ChangesPassword(), confirmationRule(r.Password))),
	)
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.ErrorObject(errBlank),
		validation.RuneLength(0, NameMaxLength).ErrorObject(errNameTooLong),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.ErrorObject(errBlank),
		validation.Match(emailPattern).ErrorObject(errEmailInvalid),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.ErrorObject(errBlank),
		validation.RuneLength(PasswordMinLength, PasswordMaxLength).ErrorObject(errPasswordLength),
	}
}

func confirmationRule(password string) validation.Rule {
	return validation.By(func(value interface{}) error {
		if s, _ := value.(string); s != password {
			return errConfirmation
		}
		return nil
	})
}
