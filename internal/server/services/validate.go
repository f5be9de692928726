package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

var userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func pastDate(now time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		t, _ := value.(time.Time)
		if t.IsZero() {
			return errors.New("cannot be blank")
		}
		if t.After(now) {
			return errors.New("must not be in the future")
		}
		return nil
	}
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

func profileFields(name, userName, email *string, dob *time.Time, now time.Time) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(name, validation.Required, validation.Length(1, 200)),
		validation.Field(userName, validation.Required, validation.Length(3, 50), validation.Match(userNamePattern)),
		validation.Field(email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(dob, validation.By(pastDate(now))),
	}
}

func validateRegistration(in *RegisterInput, now time.Time) error {
	rules := profileFields(&in.Name, &in.UserName, &in.Email, &in.DateOfBirth, now)
	rules = append(rules, validation.Field(&in.Password, validation.Required, validation.By(maxBytes(maxPasswordBytes))))
	return validationError(validation.ValidateStruct(in, rules...))
}

func validateAccount(a *models.Account, now time.Time) error {
	return validationError(validation.ValidateStruct(a, profileFields(&a.Name, &a.UserName, &a.Email, &a.DateOfBirth, now)...))
}

// validationError wraps ozzo field errors in common.ErrValidation.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}
