package config

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Cache    CacheConfig    `mapstructure:"cache"`
	AI       AIConfig       `mapstructure:"ai"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// LogConfig 日志配置
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	TokenTTL  int    `mapstructure:"token_ttl"` // 小时
}

// CacheConfig 计数存储配置
// type 为 redis 时使用 Redis 作为用量计数后端,否则使用进程内存
type CacheConfig struct {
	Type     string `mapstructure:"type"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Local LocalModelConfig `mapstructure:"local"`
	Cloud CloudModelConfig `mapstructure:"cloud"`
	Quota QuotaConfig      `mapstructure:"quota"`
}

// LocalModelConfig 本地模型服务配置(Ollama 兼容)
type LocalModelConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CloudModelConfig 云端模型服务配置(OpenAI 兼容,默认 Groq)
type CloudModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// QuotaConfig 免费额度配置,-1 表示不限制
type QuotaConfig struct {
	CloudDaily  int `mapstructure:"cloud_daily"`
	CloudMinute int `mapstructure:"cloud_minute"`
}
