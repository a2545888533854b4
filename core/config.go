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

// Config holds the portal's runtime configuration.
type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string
	Build    string

	// RemoteAPI is the base URL of the school-management REST API.
	RemoteAPI string
	// RequestTimeout bounds every outbound call to the remote API.
	RequestTimeout time.Duration
	// TokenFile is where the operator's session token is persisted.
	TokenFile string

	RollbarToken string

	Server struct {
		Addr string
	}
}

// Conf is the app-wide configuration, loaded at startup.
var Conf *Config

func init() {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Manaboard")
	conf.SetDefault("remoteAPI", "https://ancient-guillema-omaradel562-327b81ec.koyeb.app/mana")
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("tokenFile", defaultTokenFile())
	conf.SetDefault("addr", ":7500")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")

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

	Conf = &Config{
		Debug:          conf.GetBool("debug"),
		TestMode:       conf.GetBool("testMode"),
		Env:            env,
		AppName:        conf.GetString("appName"),
		Build:          conf.GetString("build"),
		RemoteAPI:      strings.TrimRight(conf.GetString("remoteAPI"), "/"),
		RequestTimeout: conf.GetDuration("requestTimeout"),
		TokenFile:      conf.GetString("tokenFile"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}
	Conf.Server.Addr = conf.GetString("addr")
}

// defaultTokenFile places the persisted session under the user's config dir,
// falling back to the working directory when none is available.
func defaultTokenFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "manaboard", "session.json")
	}
	return filepath.Join(Getwd(), ".manaboard-session.json")
}

// Getwd returns the current working directory; it dies on failure as nothing
// can be loaded without it.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}
	return wd
}
