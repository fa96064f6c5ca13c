package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreate() CreateRequest {
	return CreateRequest{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}
}

func validate(t *testing.T, err error) *ValidationError {
	t.Helper()
	verr, err := NewValidationError(err)
	require.NoError(t, err)
	return verr
}

func TestCreateRequest_Valid(t *testing.T) {
	assert.NoError(t, validCreate().Validate())
}

func TestCreateRequest_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		field  string
		code   string
	}{
		{"blank name", func(r *CreateRequest) { r.Name = "" }, "name", CodeBlank},
		{"long name", func(r *CreateRequest) { r.Name = strings.Repeat("a", 51) }, "name", CodeTooLong},
		{"blank email", func(r *CreateRequest) { r.Email = "" }, "email", CodeBlank},
		{"email without at", func(r *CreateRequest) { r.Email = "user_at_foo.org" }, "email", CodeInvalid},
		{"email trailing dot", func(r *CreateRequest) { r.Email = "user@foo." }, "email", CodeInvalid},
		{"email digit tld", func(r *CreateRequest) { r.Email = "user@foo.c0m" }, "email", CodeInvalid},
		{"blank password", func(r *CreateRequest) { r.Password = ""; r.PasswordConfirmation = "" }, "password", CodeBlank},
		{"short password", func(r *CreateRequest) { r.Password = "abcde"; r.PasswordConfirmation = "abcde" }, "password", CodeLength},
		{"long password", func(r *CreateRequest) { r.Password = strings.Repeat("a", 41); r.PasswordConfirmation = r.Password }, "password", CodeLength},
		{"confirmation mismatch", func(r *CreateRequest) { r.PasswordConfirmation = "invalid" }, "password_confirmation", CodeConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validCreate()
			tt.mutate(&r)

			verr := validate(t, r.Validate())
			assert.True(t, verr.Has(tt.field, tt.code), "got %v", verr.Fields)
		})
	}
}

func TestCreateRequest_AcceptsEmailShapes(t *testing.T) {
	for _, email := range []string{"user@foo.com", "THE_USER@foo.bar.org", "first.last+tag@foo.jp", "A@x.com"} {
		r := validCreate()
		r.Email = email
		assert.NoError(t, r.Validate(), email)
	}
}

func TestCreateRequest_NameBoundary(t *testing.T) {
	r := validCreate()
	r.Name = strings.Repeat("é", 50)
	assert.NoError(t, r.Validate())
}

func TestCreateRequest_ReportsAllFields(t *testing.T) {
	verr := validate(t, CreateRequest{Email: "bad", Password: "abc", PasswordConfirmation: "xyz"}.Validate())

	assert.True(t, verr.Has("name", CodeBlank))
	assert.True(t, verr.Has("email", CodeInvalid))
	assert.True(t, verr.Has("password", CodeLength))
	assert.True(t, verr.Has("password_confirmation", CodeConfirmation))
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestUpdateRequest(t *testing.T) {
	name := "Bob"
	assert.NoError(t, UpdateRequest{Name: &name}.Validate())
	assert.NoError(t, UpdateRequest{}.Validate())

	empty := ""
	verr := validate(t, UpdateRequest{Name: &empty}.Validate())
	assert.True(t, verr.Has("name", CodeBlank))

	verr = validate(t, UpdateRequest{Password: "secret1"}.Validate())
	assert.True(t, verr.Has("password_confirmation", CodeConfirmation))

	verr = validate(t, UpdateRequest{PasswordConfirmation: "secret1"}.Validate())
	assert.True(t, verr.Has("password", CodeBlank))

	assert.NoError(t, UpdateRequest{Password: "secret2", PasswordConfirmation: "secret2"}.Validate())
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("name", CodeBlank, "can't be blank")
	verr.Add("email", CodeTaken, TakenMessage)

	require.Error(t, verr.OrNil())
	assert.Equal(t, "validation failed: email has already been taken; name can't be blank", verr.Error())
	assert.True(t, verr.HasField("email"))
	assert.False(t, verr.HasField("password"))
}

func TestNormalizeEmail(t *testing.T) {
	a := &Account{}
	a.SetEmail("Alice@Example.COM")
	assert.Equal(t, "Alice@Example.COM", a.Email)
	assert.Equal(t, "alice@example.com", a.EmailKey)
}
