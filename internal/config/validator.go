package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validateDatabase, Config{})

	return validate, trans, nil
}

// validateDatabase requires the connection settings of the selected SQL driver.
func validateDatabase(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Storage.Driver {
	case DriverMySQL:
		if cfg.Database.Host == "" {
			sl.ReportError(cfg.Database.Host, "host", "Host", "required", "")
		}
		if cfg.Database.Database == "" {
			sl.ReportError(cfg.Database.Database, "database", "Database", "required", "")
		}
	case DriverSQLite:
		if cfg.Database.SQLitePath == "" {
			sl.ReportError(cfg.Database.SQLitePath, "sqlite_path", "SQLitePath", "required", "")
		}
	}
}
