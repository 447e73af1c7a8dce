package config

import (
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/subosito/gotenv"
)

type Configer interface {
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKeyWithDefault(key string, defaultValue int) int
}

// DotenvConfig reads keys from the process environment after loading a
// dotenv file into it.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

func (c *DotenvConfig) Load() error {
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) MustGetKey(key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	return val
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	val := c.GetKey(key)
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

// MustLoadFromTallyDotenv loads the dotenv file named by TALLY_DOTENV
// (default ".env") if one is present, and returns the resulting Configer.
// A missing file isn't an error; deployments are free to configure the
// daemon purely through the environment.
func MustLoadFromTallyDotenv() Configer {
	path := os.Getenv("TALLY_DOTENV")
	if path == "" {
		path = ".env"
	}

	c := NewDotenvConfig(path)
	if _, err := os.Stat(path); err == nil {
		if err := c.Load(); err != nil {
			log.Fatalf("Failed loading dotenv file %s: %s", path, err)
		}
	}

	return c
}
