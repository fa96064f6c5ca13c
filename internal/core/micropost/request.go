package micropost

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"socialcore/internal/core/account"
)

type CreateRequest struct {
	Content string `json:"content"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.ErrorObject(validation.NewError(account.CodeBlank, "can't be blank")),
			validation.RuneLength(0, ContentMaxLength).ErrorObject(validation.NewError(account.CodeTooLong, "is too long (maximum is 140 characters)")),
		),
	)
}
