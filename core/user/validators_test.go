package user

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func validUser(password string) NewUser {
	return NewUser{
		Email:           "awe.some@test.cd",
		Password:        password,
		PasswordConfirm: password,
		FirstName:       "Awe",
		LastName:        "Some",
		Phone:           "0812345678",
		Gender:          GenderMale,
		DateOfBirth:     time.Date(2006, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

// failedTag extracts the validation tag reported for the password field.
func failedTag(t *testing.T, err error) string {
	t.Helper()
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors; got %T: %v", err, err)
	}
	for _, fe := range vErrs {
		if fe.Field() == "Password" {
			return fe.Tag()
		}
	}
	t.Fatalf("no password error in %v", vErrs)
	return ""
}

func Test_validatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantTag  string
	}{
		{name: "too short", password: "G0od#P1", wantTag: pwdMinLenTag},
		{name: "whitespace", password: "G0od #Pass", wantTag: pwdNoSpaceTag},
		{name: "all numeric", password: "83294728222", wantTag: pwdNotAllNumTag},
		{name: "no uppercase", password: "g0od#pass", wantTag: pwdComplexityTag},
		{name: "no digit", password: "Good#Pass", wantTag: pwdComplexityTag},
		{name: "no special", password: "G0odPass1", wantTag: pwdComplexityTag},
		{name: "similar to email", password: "Awe.some@test.cd1", wantTag: pwdAttrSimTag},
		{name: "ok", password: "G0od#Pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := validUser(tt.password)
			err := nu.Validate()

			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Equal(t, tt.wantTag, failedTag(t, err))
			}
		})
	}
}

func Test_validatePassword_appliesToRegistrationBodies(t *testing.T) {
	t.Run("student", func(t *testing.T) {
		ns := NewStudent{NewUser: validUser("password"), ClassID: "c1"}
		err := ns.Validate()
		if assert.Error(t, err) {
			assert.Equal(t, pwdComplexityTag, failedTag(t, err))
		}
	})

	t.Run("teacher", func(t *testing.T) {
		nt := NewTeacher{
			NewUser:       validUser("password"),
			Qualification: "MSc",
			Experience:    5,
			Address:       "12 Main St",
			Subject:       "math",
			Bio:           "teaches math",
		}
		err := nt.Validate()
		if assert.Error(t, err) {
			assert.Equal(t, pwdComplexityTag, failedTag(t, err))
		}
	})
}
