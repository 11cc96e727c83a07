/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package config loads the node configuration.
//
// Values are read from an optional YAML file (entitystore.yaml by default)
// and can be overridden with ENTITYSTORE_ prefixed environment variables,
// where dots and dashes of the key become underscores:
//
//	ENTITYSTORE_ENTITY_ACTOR_ENTITIES_PER_NODE=10
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	gerrors "github.com/tochemey/entitystore/errors"
	"github.com/tochemey/entitystore/internal/validation"
	"github.com/tochemey/entitystore/log"
)

const (
	// EnvPrefix is the prefix of the environment variables
	EnvPrefix = "ENTITYSTORE"
	// DefaultFileName is the configuration file looked up in the working directory
	DefaultFileName = "entitystore"
)

// supported singleton electors
const (
	// MembershipElector elects the oldest cluster member
	MembershipElector = "membership"
	// LocalElector only elects among the nodes of a single process
	LocalElector = "local"
	// EtcdElector elects through an etcd lease
	EtcdElector = "etcd"
	// RedisElector elects through a redis lease
	RedisElector = "redis"
)

var electors = []string{MembershipElector, LocalElector, EtcdElector, RedisElector}

// Config is the node configuration
type Config struct {
	// Port is the node port, given on the command line
	Port        int               `mapstructure:"-"`
	Cluster     ClusterConfig     `mapstructure:"cluster"`
	Sharding    ShardingConfig    `mapstructure:"sharding"`
	Passivation PassivationConfig `mapstructure:"passivation"`
	EntityActor EntityActorConfig `mapstructure:"entity-actor"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Singleton   SingletonConfig   `mapstructure:"singleton"`
	Etcd        EtcdConfig        `mapstructure:"etcd"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Reporting   ReportingConfig   `mapstructure:"reporting"`
	Log         LogConfig         `mapstructure:"log"`
}

// ClusterConfig defines the cluster membership settings
type ClusterConfig struct {
	Name  string   `mapstructure:"name"`
	Host  string   `mapstructure:"host"`
	Seeds []string `mapstructure:"seeds"`
}

// ShardingConfig defines the entities placement settings
type ShardingConfig struct {
	NumberOfShards int `mapstructure:"number-of-shards"`
}

// PassivationConfig defines when idle entities are stopped
type PassivationConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle-timeout"`
}

// EntityActorConfig defines the traffic generators settings
type EntityActorConfig struct {
	EntitiesPerNode     int           `mapstructure:"entities-per-node"`
	CommandTickInterval time.Duration `mapstructure:"command-tick-interval"`
	QueryTickInterval   time.Duration `mapstructure:"query-tick-interval"`
}

// NATSConfig defines the remoting transport settings
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject-prefix"`
}

// SingletonConfig defines the singleton election settings
type SingletonConfig struct {
	Elector  string        `mapstructure:"elector"`
	LeaseTTL time.Duration `mapstructure:"lease-ttl"`
}

// EtcdConfig defines the etcd elector connection
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial-timeout"`
}

// RedisConfig defines the redis elector connection
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ReportingConfig defines the reporting sinks. An empty NATSSubject
// disables the NATS sink.
type ReportingConfig struct {
	NATSSubject string `mapstructure:"nats-subject"`
}

// LogConfig defines the logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var _ validation.Validator = (*Config)(nil)

// Load reads the configuration of the node listening on the given port.
// When path is empty the default file is looked up in the working directory
// and its absence is not an error.
func Load(path string, port int) (*Config, error) {
	if err := validation.NewPortValidator(port).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidPort, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := new(Config)
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Port = port
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns the default configuration of the node listening on the given port
func Default(port int) *Config {
	return &Config{
		Port: port,
		Cluster: ClusterConfig{
			Name: "cluster",
			Host: "127.0.0.1",
		},
		Sharding:    ShardingConfig{NumberOfShards: 100},
		Passivation: PassivationConfig{IdleTimeout: 2 * time.Minute},
		EntityActor: EntityActorConfig{
			EntitiesPerNode:     50,
			CommandTickInterval: time.Second,
			QueryTickInterval:   time.Second,
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "entitystore",
		},
		Singleton: SingletonConfig{
			Elector:  MembershipElector,
			LeaseTTL: 10 * time.Second,
		},
		Etcd: EtcdConfig{
			Endpoints:   []string{"127.0.0.1:2379"},
			DialTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{Address: "127.0.0.1:6379"},
		Log:   LogConfig{Level: log.InfoLevel.String()},
	}
}

// Validate checks the configuration
func (x *Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewPortValidator(x.Port)).
		AddValidator(validation.NewEmptyStringValidator("cluster.name", x.Cluster.Name)).
		AddValidator(validation.NewEmptyStringValidator("cluster.host", x.Cluster.Host)).
		AddAssertion(x.Sharding.NumberOfShards > 0, "sharding.number-of-shards must be greater than zero").
		AddAssertion(x.Passivation.IdleTimeout > 0, "passivation.idle-timeout must be greater than zero").
		AddAssertion(x.EntityActor.EntitiesPerNode >= 0, "entity-actor.entities-per-node must not be negative").
		AddAssertion(x.EntityActor.CommandTickInterval > 0, "entity-actor.command-tick-interval must be greater than zero").
		AddAssertion(x.EntityActor.QueryTickInterval > 0, "entity-actor.query-tick-interval must be greater than zero").
		AddValidator(validation.NewEmptyStringValidator("nats.url", x.NATS.URL)).
		AddValidator(validation.NewEmptyStringValidator("nats.subject-prefix", x.NATS.SubjectPrefix)).
		AddAssertion(slices.Contains(electors, x.Singleton.Elector),
			fmt.Sprintf("singleton.elector must be one of [%s]", strings.Join(electors, ", "))).
		AddAssertion(x.Singleton.LeaseTTL >= time.Second, "singleton.lease-ttl must be at least one second").
		AddAssertion(log.ParseLevel(x.Log.Level) != log.InvalidLevel, fmt.Sprintf("log.level %q is not supported", x.Log.Level))

	for _, seed := range x.Cluster.Seeds {
		chain.AddValidator(validation.NewTCPAddressValidator(seed))
	}

	switch x.Singleton.Elector {
	case LocalElector:
		chain.AddAssertion(len(x.Cluster.Seeds) == 0, "singleton.elector local cannot be used with cluster.seeds")
	case EtcdElector:
		chain.AddAssertion(len(x.Etcd.Endpoints) > 0, "etcd.endpoints are required by the etcd elector")
	case RedisElector:
		chain.AddValidator(validation.NewTCPAddressValidator(x.Redis.Address))
	}

	return chain.Validate()
}

// NodeID returns the identifier of the node, its host:port pair
func (x *Config) NodeID() string {
	return fmt.Sprintf("%s:%d", x.Cluster.Host, x.Port)
}

// LogLevel returns the configured log level
func (x *Config) LogLevel() log.Level {
	return log.ParseLevel(x.Log.Level)
}

func setDefaults(v *viper.Viper) {
	defaults := Default(0)
	v.SetDefault("cluster.name", defaults.Cluster.Name)
	v.SetDefault("cluster.host", defaults.Cluster.Host)
	v.SetDefault("cluster.seeds", []string{})
	v.SetDefault("sharding.number-of-shards", defaults.Sharding.NumberOfShards)
	v.SetDefault("passivation.idle-timeout", defaults.Passivation.IdleTimeout)
	v.SetDefault("entity-actor.entities-per-node", defaults.EntityActor.EntitiesPerNode)
	v.SetDefault("entity-actor.command-tick-interval", defaults.EntityActor.CommandTickInterval)
	v.SetDefault("entity-actor.query-tick-interval", defaults.EntityActor.QueryTickInterval)
	v.SetDefault("nats.url", defaults.NATS.URL)
	v.SetDefault("nats.subject-prefix", defaults.NATS.SubjectPrefix)
	v.SetDefault("singleton.elector", defaults.Singleton.Elector)
	v.SetDefault("singleton.lease-ttl", defaults.Singleton.LeaseTTL)
	v.SetDefault("etcd.endpoints", defaults.Etcd.Endpoints)
	v.SetDefault("etcd.dial-timeout", defaults.Etcd.DialTimeout)
	v.SetDefault("redis.address", defaults.Redis.Address)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("reporting.nats-subject", "")
	v.SetDefault("log.level", defaults.Log.Level)
}
