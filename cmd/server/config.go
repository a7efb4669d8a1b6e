package main

import "time"

// appConfig holds the settings that belong to the binary rather than to a
// single package.
type appConfig struct {
	Name     string `env:"APP_NAME" envDefault:"tenancy"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	BaseURL  string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL"`

	SecretKey         string        `env:"SECRET_KEY,required"`
	Algorithm         string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpire time.Duration `env:"ACCESS_TOKEN_EXPIRE" envDefault:"30m"`

	VerificationTokenExpire time.Duration `env:"VERIFICATION_TOKEN_EXPIRE" envDefault:"24h"`
	BcryptCost              int           `env:"BCRYPT_COST" envDefault:"10"`
}
