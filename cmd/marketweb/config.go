package main

import (
	"fmt"
	"time"

	"github.com/kbukum/marketweb/config"
	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/observability"
	"github.com/kbukum/marketweb/providers"
	"github.com/kbukum/marketweb/query"
	"github.com/kbukum/marketweb/redis"
	"github.com/kbukum/marketweb/server"
	"github.com/kbukum/marketweb/validation"
	"github.com/kbukum/marketweb/version"
)

// AppConfig is the full configuration of the marketweb service.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Locale        LocaleConfig         `yaml:"locale" mapstructure:"locale"`
	Providers     providers.Config     `yaml:"providers" mapstructure:"providers"`
	Cache         CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// LocaleConfig selects the supported locales and how requests pick one.
type LocaleConfig struct {
	Default   string   `yaml:"default" mapstructure:"default" validate:"required,bcp47_language_tag"`
	Supported []string `yaml:"supported" mapstructure:"supported" validate:"dive,bcp47_language_tag"`
	// DetectFromHeader consults Accept-Language before falling back to the
	// default locale.
	DetectFromHeader bool `yaml:"detect_from_header" mapstructure:"detect_from_header"`
	// ExemptPrefixes replaces the built-in list of paths served without
	// locale handling.
	ExemptPrefixes []string `yaml:"exempt_prefixes" mapstructure:"exempt_prefixes"`
}

// Set builds the locale set. The default is always a member.
func (c *LocaleConfig) Set() (*locale.Set, error) {
	others := make([]locale.Locale, 0, len(c.Supported))
	for _, s := range c.Supported {
		others = append(others, locale.Locale(s))
	}
	return locale.NewSet(locale.Locale(c.Default), others...)
}

// CacheConfig tunes the in-process query cache.
type CacheConfig struct {
	// GCInterval is how often entries past their GC time are evicted.
	GCInterval time.Duration `yaml:"gc_interval" mapstructure:"gc_interval"`
	// MaxEntries caps how many keys the cache holds.
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" validate:"gte=0"`
}

// ApplyDefaults fills zero fields across every block.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Providers.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Locale.Default == "" {
		c.Locale.Default = "en"
	}
	if c.Cache.GCInterval <= 0 {
		c.Cache.GCInterval = time.Minute
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = query.DefaultMaxEntries
	}
}

// Validate checks every block and reports the first failure.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Locale); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	if _, err := c.Locale.Set(); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	if err := c.Providers.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}
