package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"findtern_backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion - регион для номеров без кода страны
const DefaultPhoneRegion = "IN"

var (
	ifscRegex  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правила приложение не должно запускаться
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// -----------------------------------------------------------------
	// ➡️ Правила, основанные на 'statuses.go'
	// -----------------------------------------------------------------
	mustRegister("is-user-role", enumRule(func(s string) bool { return models.UserRole(s).Valid() }))
	mustRegister("is-scope-of-work", enumRule(func(s string) bool { return models.ScopeOfWork(s).Valid() }))
	mustRegister("is-location-type", enumRule(func(s string) bool { return models.LocationType(s).Valid() }))
	mustRegister("is-flow-type", enumRule(func(s string) bool { return models.ProposalFlowType(s).Valid() }))
	mustRegister("is-proposal-status", enumRule(func(s string) bool { return models.ProposalStatus(s).Valid() }))
	mustRegister("is-interview-status", enumRule(func(s string) bool { return models.InterviewStatus(s).Valid() }))
	mustRegister("is-media-key", enumRule(func(s string) bool { return models.MediaKey(s).Valid() }))

	// -----------------------------------------------------------------
	// ➡️ Форматы
	// -----------------------------------------------------------------
	mustRegister("ifsc", regexRule(ifscRegex))
	mustRegister("gstin", regexRule(gstinRegex))
	mustRegister("phone", validatePhone)
	mustRegister("password", validatePassword)
	mustRegister("timezone", validateTimezone)
}

// enumRule - пустые значения пропускаем, для этого есть 'required'
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}

func regexRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return re.MatchString(strings.ToUpper(value))
	}
}

// validatePhone проверяет номер через libphonenumber.
// Если у структуры есть поле CountryCode ("+91"), оно подставляется перед номером.
func validatePhone(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}

	if !strings.HasPrefix(value, "+") {
		if code := siblingString(fl, "CountryCode"); code != "" {
			value = "+" + strings.TrimPrefix(code, "+") + value
		}
	}

	num, err := phonenumbers.Parse(value, DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// validatePassword - минимум 8 символов, хотя бы одна буква и одна цифра
func validatePassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len([]rune(value)) < 8 {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func validateTimezone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.LoadLocation(value)
	return err == nil
}

func siblingString(fl validator.FieldLevel, name string) string {
	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr {
		if parent.IsNil() {
			return ""
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return ""
	}

	f := parent.FieldByName(name)
	if !f.IsValid() {
		return ""
	}
	for f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	if f.Kind() != reflect.String {
		return ""
	}
	return strings.TrimSpace(f.String())
}
