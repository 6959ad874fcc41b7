package web

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/icoltex/storefront/session"
)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] WEB "+format+"\n", args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] WEB "+format+"\n", args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] WEB "+format+"\n", args...)
}

func loggerOrDefault(logger session.Logger) session.Logger {
	if logger == nil {
		return defLogger{}
	}
	return logger
}

// validateStringEquals is an ozzo rule for cross-field equality.
func validateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("las contraseñas no coinciden")
		}
		return nil
	}
}

// validationToMap flattens an ozzo validation error into field messages for
// templates.
func validationToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

// firstValidationMessage reduces a validation error to one inline message,
// deterministically picking the first field in name order.
func firstValidationMessage(err error) string {
	if err == nil {
		return ""
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for field := range verrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fields[0] + ": " + verrs[fields[0]].Error()
	}

	return err.Error()
}
