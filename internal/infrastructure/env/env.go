// Package env loads dotenv files into the process environment before the
// configuration layer reads it.
package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const DefaultAppEnv = "dev"

type EnvService struct {
	appEnv string
	loaded []string
}

// NewEnvService reads <dir>/.env and then <dir>/.env.<APP_ENV>, the latter
// overriding the former. Variables already set in the process environment
// are never replaced. Missing files are skipped.
func NewEnvService(dir string) (*EnvService, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = DefaultAppEnv
	}
	s := &EnvService{appEnv: appEnv}

	merged := make(map[string]string)
	for _, path := range []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env."+appEnv),
	} {
		vars, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			merged[k] = v
		}
		s.loaded = append(s.loaded, path)
	}

	for k, v := range merged {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (e *EnvService) AppEnv() string {
	return e.appEnv
}

// Loaded lists the files that were read, in load order.
func (e *EnvService) Loaded() []string {
	return e.loaded
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}
