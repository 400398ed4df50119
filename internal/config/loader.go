package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从YAML文件加载配置,支持环境变量覆盖
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认配置文件搜索路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.job-accelerator")
		v.AddConfigPath("/etc/job-accelerator")
	}

	// 支持环境变量
	v.SetEnvPrefix("JOBACC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果是找不到配置文件，则使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 替换环境变量
	expandEnvVars(&config)

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Server 默认配置
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)

	// Log 默认配置
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	// Database 默认配置
	v.SetDefault("database.path", "./data/job-accelerator.db")

	// Auth 默认配置
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl", 24)

	// Cache 默认配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.db", 0)

	// AI 默认配置
	v.SetDefault("ai.local.base_url", "http://localhost:11434")
	v.SetDefault("ai.cloud.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.quota.cloud_daily", 100)
	v.SetDefault("ai.quota.cloud_minute", 30)
}

// expandEnvVars 展开配置中的环境变量
func expandEnvVars(config *Config) {
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Cache.Password = os.ExpandEnv(config.Cache.Password)
	config.AI.Cloud.APIKey = os.ExpandEnv(config.AI.Cloud.APIKey)
}
