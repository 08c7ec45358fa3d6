package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/painel-supervisorio/pkg/errors"
)

const maxKeyLen = 32

var validate = validator.New()

// PathKey reads a lowercase alphanumeric key from the named chi path parameter.
func PathKey(r *http.Request, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(chi.URLParam(r, name)))
	if err := validate.Var(key, "required,alphanum"); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be alphanumeric").
			WithDetails(map[string]any{"field": name})
	}
	if len(key) > maxKeyLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter too long").
			WithDetails(map[string]any{"field": name, "max": maxKeyLen})
	}
	return key, nil
}
