package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Application struct {
	Server    Server    `koanf:"server"`
	Storage   Storage   `koanf:"storage"`
	SQLite    SQLite    `koanf:"sqlite"`
	Database  Database  `koanf:"db"`
	Report    Report    `koanf:"report"`
	Templates Templates `koanf:"templates"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Storage struct {
	Driver string `koanf:"driver"`
	// Key is the key the plan collection is stored under.
	Key string `koanf:"key"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Report selects the reporting window: "fixed" uses Days for every plan, "plan" uses each
// plan's stored period.
type Report struct {
	Window string `koanf:"window"`
	Days   int    `koanf:"days"`
}

type Templates struct {
	Language string `koanf:"language"`
}

func Defaults() Application {
	return Application{
		Server:  Server{Addr: ":8181"},
		Storage: Storage{Driver: DriverSQLite, Key: "monny-budgets"},
		SQLite:  SQLite{Path: "./data/monny.db"},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "monny",
			Pass:   "",
			Name:   "monny",
			Schema: "public",
		},
		Report:    Report{Window: "fixed", Days: 30},
		Templates: Templates{Language: "en"},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "MONNY_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "MONNY_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (a Application) Validate() error {
	switch a.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", a.Storage.Driver)
	}
	if a.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if a.Report.Window != "fixed" && a.Report.Window != "plan" {
		return fmt.Errorf("report window must be \"fixed\" or \"plan\", got %q", a.Report.Window)
	}
	if a.Report.Days <= 0 {
		return fmt.Errorf("report days must be positive, got %d", a.Report.Days)
	}
	return nil
}
