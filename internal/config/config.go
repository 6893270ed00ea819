// Copyright 2022 Dmitry Mandrika
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config layers airgapctl's settings the way cybergarage-go-matter
// layers viper under cobra: flags win, then AIRGAP_-prefixed environment
// variables, then an optional airgapctl.yaml, then built-in defaults.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "AIRGAP"
	configFileName = "airgapctl"
)

// Config holds the resolved settings for one airgapctl invocation.
type Config struct {
	ChunkSize int    `mapstructure:"chunk-size"`
	OutDir    string `mapstructure:"out-dir"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// defaults returns the built-in fallback values, the lowest layer.
func defaults() Config {
	return Config{
		ChunkSize: 1100, // RecommendedMaxChunkSize
		OutDir:    ".",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves a Config from flags, environment, and an optional
// airgapctl.yaml found in the working directory or $HOME. flags may be nil,
// in which case only environment and file layers apply.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("chunk-size", d.ChunkSize)
	v.SetDefault("out-dir", d.OutDir)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
