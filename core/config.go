package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug            bool
	TestMode         bool
	Env              string
	Build            string
	AppName          string
	SecretKey        []byte
	DefaultFromEmail string
	SendgridAPIKey   string
	RollbarToken     string

	Server struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	Database struct {
		URI  string
		Name string
	}

	Media struct {
		Root string // lesson videos land here
	}
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// NewConfig loads the app configuration from the environment (prefixed with
// the current ENV) with sane defaults, optionally sourcing a config/.env.<env>
// file first.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("secretKey", "w#0=b$+57=dz&u0xh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8080")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 20*time.Second)
	conf.SetDefault("databaseUri", "mongodb://localhost:27017")
	conf.SetDefault("databaseName", "darasa")
	conf.SetDefault("mediaRoot", filepath.Join(Getwd(), "uploads"))

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := new(Config)
	c.Debug = conf.GetBool("debug")
	c.TestMode = conf.GetBool("testMode")
	c.Env = env
	c.Build = conf.GetString("build")
	c.AppName = conf.GetString("appName")
	c.SecretKey = []byte(conf.GetString("secretKey"))
	c.DefaultFromEmail = conf.GetString("defaultFromEmail")
	c.SendgridAPIKey = conf.GetString("sendgridApiKey")
	c.RollbarToken = conf.GetString("rollbarToken")
	c.Server.Host = conf.GetString("serverHost")
	c.Server.Port = conf.GetString("serverPort")
	c.Server.JWTExpirationDelta = conf.GetDuration("jwtExpirationDelta")
	c.Server.ShutdownTimeout = conf.GetDuration("shutdownTimeout")
	c.Database.URI = conf.GetString("databaseUri")
	c.Database.Name = conf.GetString("databaseName")
	c.Media.Root = conf.GetString("mediaRoot")
	return c
}
