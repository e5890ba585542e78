package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dailystatus/internal/form"
)

// maxHoursPerDay decimal(4,2) 列允许的合理上限
const maxHoursPerDay = 24.0

// newRecordValidator 注册日报专用规则：option=<选项集>、hours、maxwords=<n>。
// 字段名使用 JSON 键，便于直接回传给前端。
func newRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 注册失败只会源于标签名非法，属于编程错误
	mustRegister(v, "option", validateOption)
	mustRegister(v, "hours", validateHours)
	mustRegister(v, "maxwords", validateMaxWords)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func validateOption(fl validator.FieldLevel) bool {
	options, ok := form.OptionSets[fl.Param()]
	if !ok {
		return false
	}
	return form.HasOption(options, fl.Field().String())
}

func validateHours(fl validator.FieldLevel) bool {
	hours, ok := form.ParseHours(fl.Field().String())
	return ok && hours <= maxHoursPerDay
}

func validateMaxWords(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return form.WordCount(fl.Field().String()) <= limit
}

// invalidFields 将 validator 的错误转换为 字段 -> 说明
func invalidFields(err error) map[form.Field]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[form.Field]string, len(verrs))
	for _, fe := range verrs {
		out[form.Field(fe.Field())] = describeRule(fe)
	}
	return out
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "option":
		return "is not an allowed option"
	case "hours":
		return "must be a number between 0 and 24"
	case "maxwords":
		return "exceeds " + fe.Param() + " words"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "max":
		return "exceeds " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
