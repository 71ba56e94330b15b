package web

// Config holds application settings loaded from the environment.
type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
	AppName      string `env:"APP_NAME" envDefault:"tagform"`
	GreetingFrom string `env:"GREETING_FROM" envDefault:"tagform"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	// AdminPasswordHash is a bcrypt hash. Login is refused while it is empty.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}
