package config

import "github.com/spf13/viper"

// Logger logger config struct
type Logger struct {
	Level           string
	Format          string
	Output          string
	OutputFile      string
	Desensitization *Desensitization
}

// Desensitization controls masking of sensitive log fields.
type Desensitization struct {
	Enabled         bool
	SensitiveFields []string // matched case-insensitively as substrings of field names
	MaskChar        string
	MaskLength      int
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetString("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
		Desensitization: &Desensitization{
			Enabled: getBoolOrDefault(v, "logger.desensitization.enabled", true),
			SensitiveFields: getStringSliceOrDefault(v, "logger.desensitization.sensitive_fields",
				[]string{"password", "token", "secret", "authorization", "cookie"}),
			MaskChar:   getStringOrDefault(v, "logger.desensitization.mask_char", "*"),
			MaskLength: getIntOrDefault(v, "logger.desensitization.mask_length", 8),
		},
	}
}
