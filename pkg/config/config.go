// Package config loads navigator trees from TOML or YAML files.
//
// A configuration file describes the root navigator, the navigators nested
// in its screens, the store used to persist the tree, and the HTTP server:
//
//	keys = "uuid"                 # uuid | counter
//
//	[navigator]
//	router = "drawer"             # stack | tab | drawer
//	routes = ["Home", "Settings"]
//	initial = "Home"
//	back_behavior = "history"     # history | initialRoute | order | none
//
//	[navigator.params.Home]
//	greeting = "hi"
//
//	[navigator.children.Home]
//	router = "stack"
//	routes = ["Feed", "Article"]
//
//	[store]
//	backend = "file"              # file | memory | redis | mongo | none
//	key = "default"
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
//
// The format is picked from the file extension. [File.Validate] combines
// struct-tag validation with the checks that need the whole tree (initial
// route present, children and params only for configured routes), and
// [File.Build] turns a valid file into a container.Navigator.
package config

import (
	"time"

	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/persist"
)

// File is the top-level configuration document.
type File struct {
	Keys      string           `toml:"keys" yaml:"keys" validate:"omitempty,oneof=uuid counter"`
	Navigator *NavigatorConfig `toml:"navigator" yaml:"navigator" validate:"required"`
	Store     StoreConfig      `toml:"store" yaml:"store"`
	Server    ServerConfig     `toml:"server" yaml:"server"`
}

// NavigatorConfig describes one navigator and its nested navigators.
type NavigatorConfig struct {
	Router       string                      `toml:"router" yaml:"router" validate:"required,oneof=stack tab drawer"`
	Routes       []string                    `toml:"routes" yaml:"routes" validate:"required,min=1,unique,dive,required"`
	Initial      string                      `toml:"initial,omitempty" yaml:"initial,omitempty"`
	BackBehavior string                      `toml:"back_behavior,omitempty" yaml:"back_behavior,omitempty" validate:"omitempty,oneof=history initialRoute order none"`
	Params       map[string]map[string]any   `toml:"params,omitempty" yaml:"params,omitempty"`
	Children     map[string]*NavigatorConfig `toml:"children,omitempty" yaml:"children,omitempty" validate:"omitempty,dive,required"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend  string        `toml:"backend" yaml:"backend" validate:"omitempty,oneof=file memory redis mongo none"`
	Key      string        `toml:"key" yaml:"key"`
	Dir      string        `toml:"dir,omitempty" yaml:"dir,omitempty"`
	Addr     string        `toml:"addr,omitempty" yaml:"addr,omitempty" validate:"required_if=Backend redis"`
	Password string        `toml:"password,omitempty" yaml:"password,omitempty"`
	DB       int           `toml:"db,omitempty" yaml:"db,omitempty" validate:"gte=0"`
	URI      string        `toml:"uri,omitempty" yaml:"uri,omitempty" validate:"required_if=Backend mongo"`
	Database string        `toml:"database,omitempty" yaml:"database,omitempty"`
	Prefix   string        `toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	TTL      time.Duration `toml:"ttl,omitempty" yaml:"ttl,omitempty" validate:"gte=0"`
}

// ServerConfig configures `waypoint serve`.
type ServerConfig struct {
	Addr      string `toml:"addr" yaml:"addr"`
	QueueSize int    `toml:"queue_size,omitempty" yaml:"queue_size,omitempty" validate:"gte=0"`
}

// Defaults applied by [Load] and [Parse].
const (
	DefaultKeys       = "uuid"
	DefaultStoreKey   = "default"
	DefaultServerAddr = ":8080"
)

func (f *File) applyDefaults() {
	if f.Keys == "" {
		f.Keys = DefaultKeys
	}
	if f.Store.Backend == "" {
		f.Store.Backend = persist.BackendFile
	}
	if f.Store.Key == "" {
		f.Store.Key = DefaultStoreKey
	}
	if f.Server.Addr == "" {
		f.Server.Addr = DefaultServerAddr
	}
}

// KeyGenerator returns the generator named by the keys setting.
func (f *File) KeyGenerator() (keys.Generator, error) {
	return keys.Parse(f.Keys)
}

// Persist converts the store section for persist.Open.
func (s StoreConfig) Persist() persist.Config {
	return persist.Config{
		Backend:  s.Backend,
		Dir:      s.Dir,
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
		URI:      s.URI,
		Database: s.Database,
		Prefix:   s.Prefix,
		TTL:      s.TTL,
	}
}
