package handler

import (
    "fmt"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// Validator plugs go-playground/validator into echo's Validate hook.
type Validator struct {
    v *validator.Validate
}

// NewValidator reports fields by their json names.
func NewValidator() *Validator {
    v := validator.New()
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" || name == "" {
            return f.Name
        }
        return name
    })
    return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// bind decodes the request into dst and runs struct validation.  The
// returned message is ready to show to the caller.
func bind(c echo.Context, dst any) (string, bool) {
    if err := c.Bind(dst); err != nil {
        return "invalid request body", false
    }
    if err := c.Validate(dst); err != nil {
        return validationMessage(err), false
    }
    return "", true
}

func validationMessage(err error) string {
    errs, ok := err.(validator.ValidationErrors)
    if !ok {
        return err.Error()
    }
    msgs := make([]string, 0, len(errs))
    for _, fe := range errs {
        field := fe.Field()
        switch fe.Tag() {
        case "required":
            msgs = append(msgs, field+" is required")
        case "datetime":
            msgs = append(msgs, fmt.Sprintf("%s must be a date in %s format", field, fe.Param()))
        case "oneof":
            msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
        case "gt", "gte", "min":
            msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
        case "max", "lte":
            msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
        default:
            msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
        }
    }
    return strings.Join(msgs, "; ")
}
