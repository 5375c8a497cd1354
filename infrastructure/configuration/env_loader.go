package configuration

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE pairs from one or more files (e.g., config.env, .env).
// Missing files are skipped and existing env vars are not overridden.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.GetLogger().WithField("file", p).WithError(err).Warn("Failed to load env file")
			}
			continue
		}
		logger.GetLogger().WithField("file", p).Debug("Loaded env file")
	}
}
