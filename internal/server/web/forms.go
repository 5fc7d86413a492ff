package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type RegisterForm struct {
	Username        string `form:"username" label:"Username" validate:"required,max=100,excludesall=/"`
	Password        string `form:"password" label:"Password" validate:"required,maxbytes=72"`
	ConfirmPassword string `form:"confirm_password" label:"Confirm Password" validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" label:"Username" validate:"required"`
	Password string `form:"password" label:"Password" validate:"required"`
}

type FeedbackForm struct {
	Title   string `form:"title" label:"Title" validate:"required,max=100"`
	Content string `form:"content" label:"Content" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	// bcrypt reads at most 72 bytes; "max" would count runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// decodeForm fills the string fields of dst from the request's POST body
// using their `form` tags. Values are trimmed, except password fields.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		if name == "" || v.Field(i).Kind() != reflect.String {
			continue
		}
		value := r.PostForm.Get(name)
		if !strings.Contains(name, "password") {
			value = strings.TrimSpace(value)
		}
		v.Field(i).SetString(value)
	}
	return nil
}

// validateForm returns one human readable message per failed constraint, or
// nil when the form is valid.
func validateForm(form any) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "maxbytes":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param()))
		case "eqfield":
			msgs = append(msgs, "Passwords must match")
		case "excludesall":
			msgs = append(msgs, fmt.Sprintf("%s must not contain %q", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}
