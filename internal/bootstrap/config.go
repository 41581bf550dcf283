package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用配置。来源优先级: 环境变量 > config.yaml > 默认值。
// 环境变量名为 key 大写并把 . 替换为 _，例如 db.host → DB_HOST。
type Config struct {
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	Server struct {
		Port         string        `mapstructure:"port"`
		CORSOrigin   string        `mapstructure:"cors_origin"`
		AuthRequired bool          `mapstructure:"auth_required"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	DB struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"db"`

	Redis struct {
		Addr      string `mapstructure:"addr"`
		Password  string `mapstructure:"password"`
		DB        int    `mapstructure:"db"`
		KeyPrefix string `mapstructure:"key_prefix"`
	} `mapstructure:"redis"`

	RateLimit struct {
		Max    int           `mapstructure:"max"`
		Window time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`

	Worker struct {
		Concurrency int `mapstructure:"concurrency"`
		MaxRetry    int `mapstructure:"max_retry"`
	} `mapstructure:"worker"`

	Class struct {
		ListConcurrency int           `mapstructure:"list_concurrency"`
		ListTaskTimeout time.Duration `mapstructure:"list_task_timeout"`
		LockWait        time.Duration `mapstructure:"lock_wait"`
	} `mapstructure:"class"`

	JWT struct {
		JumpSecret  string `mapstructure:"jump_secret"`
		LoginSecret string `mapstructure:"login_secret"`
		ExpiryHours int    `mapstructure:"expiry_hours"`
	} `mapstructure:"jwt"`

	Aliyun struct {
		AccessKeyID     string        `mapstructure:"access_key_id"`
		AccessKeySecret string        `mapstructure:"access_key_secret"`
		RegionID        string        `mapstructure:"region_id"`
		QPS             float64       `mapstructure:"qps"`
		Timeout         time.Duration `mapstructure:"timeout"`
		LiveEndpoint    string        `mapstructure:"live_endpoint"`
		VodEndpoint     string        `mapstructure:"vod_endpoint"`
		IMAppID         string        `mapstructure:"im_app_id"`
		NewIMEndpoint   string        `mapstructure:"new_im_endpoint"`
		NewIMAppID      string        `mapstructure:"new_im_app_id"`
		NewIMAppKey     string        `mapstructure:"new_im_app_key"`
		NewIMAppSign    string        `mapstructure:"new_im_app_sign"`
	} `mapstructure:"aliyun"`

	Live struct {
		PushURL         string        `mapstructure:"push_url"`
		PullURL         string        `mapstructure:"pull_url"`
		PushAuthKey     string        `mapstructure:"push_auth_key"`
		PullAuthKey     string        `mapstructure:"pull_auth_key"`
		AppName         string        `mapstructure:"app_name"`
		AuthExpires     time.Duration `mapstructure:"auth_expires"`
		MicAppID        string        `mapstructure:"mic_app_id"`
		MicAppKey       string        `mapstructure:"mic_app_key"`
		CallbackAuthKey string        `mapstructure:"callback_auth_key"`
	} `mapstructure:"live"`

	RongCloud struct {
		APIURL    string        `mapstructure:"api_url"`
		AppKey    string        `mapstructure:"app_key"`
		AppSecret string        `mapstructure:"app_secret"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"rongcloud"`

	Whiteboard struct {
		AppKey             string        `mapstructure:"app_key"`
		AppSecret          string        `mapstructure:"app_secret"`
		CreateURL          string        `mapstructure:"create_url"`
		DeleteURL          string        `mapstructure:"delete_url"`
		ChannelDestroyTime time.Duration `mapstructure:"channel_destroy_time"`
		Timeout            time.Duration `mapstructure:"timeout"`
	} `mapstructure:"whiteboard"`
}

// 没有默认值的 key 也要注册，否则 AutomaticEnv 不会在 Unmarshal 时读取对应的环境变量
var configKeys = []string{
	"db.user", "db.password", "db.host", "db.port", "db.name",
	"redis.addr", "redis.password",
	"jwt.jump_secret", "jwt.login_secret",
	"aliyun.access_key_id", "aliyun.access_key_secret", "aliyun.im_app_id",
	"aliyun.new_im_app_id", "aliyun.new_im_app_key", "aliyun.new_im_app_sign",
	"live.push_url", "live.pull_url", "live.push_auth_key", "live.pull_auth_key",
	"live.mic_app_id", "live.mic_app_key", "live.callback_auth_key",
	"rongcloud.app_key", "rongcloud.app_secret",
	"whiteboard.app_key", "whiteboard.app_secret",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.auth_required", false)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "class:")

	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "1s")

	v.SetDefault("worker.concurrency", 10)
	v.SetDefault("worker.max_retry", 3)

	v.SetDefault("class.list_concurrency", 8)
	v.SetDefault("class.list_task_timeout", "3s")
	v.SetDefault("class.lock_wait", "2s")

	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("aliyun.region_id", "cn-shanghai")
	v.SetDefault("aliyun.qps", 20)
	v.SetDefault("aliyun.timeout", "5s")
	v.SetDefault("aliyun.live_endpoint", "https://live.aliyuncs.com/")
	v.SetDefault("aliyun.vod_endpoint", "https://vod.cn-shanghai.aliyuncs.com/")
	v.SetDefault("aliyun.new_im_endpoint", "https://live-interaction.cn-shanghai.aliyuncs.com/")

	v.SetDefault("live.app_name", "live")
	v.SetDefault("live.auth_expires", "24h")

	v.SetDefault("rongcloud.api_url", "https://api-cn.ronghub.com")
	v.SetDefault("rongcloud.timeout", "5s")

	v.SetDefault("whiteboard.create_url", "https://roomkit.netease.im/v1/room/create")
	v.SetDefault("whiteboard.delete_url", "https://roomkit.netease.im/v1/room/")
	v.SetDefault("whiteboard.channel_destroy_time", "72h")
	v.SetDefault("whiteboard.timeout", "5s")
}

// LoadConfig 加载 .env、config.yaml 和环境变量
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for _, key := range configKeys {
		v.SetDefault(key, "")
	}
	// 沿用的短环境变量名
	_ = v.BindEnv("server.auth_required", "AUTH_REQUIRED", "SERVER_AUTH_REQUIRED")
	_ = v.BindEnv("server.cors_origin", "CORS_ALLOWED_ORIGIN", "SERVER_CORS_ORIGIN")
	_ = v.BindEnv("class.lock_wait", "LOCK_WAIT", "CLASS_LOCK_WAIT")

	if err := v.ReadInConfig(); err != nil {
		// 配置文件是可选的
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 检查必填项并修正非法的日志级别
func (c *Config) validate() error {
	if c.Redis.Addr == "" {
		return fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if c.DB.Host == "" {
		return fmt.Errorf("environment variable DB_HOST must be set")
	}
	if c.JWT.JumpSecret == "" {
		return fmt.Errorf("environment variable JWT_JUMP_SECRET must be set")
	}
	if c.JWT.LoginSecret == "" {
		return fmt.Errorf("environment variable JWT_LOGIN_SECRET must be set")
	}
	if c.Live.MicAppID == "" || c.Live.MicAppKey == "" {
		return fmt.Errorf("environment variables LIVE_MIC_APP_ID and LIVE_MIC_APP_KEY must be set")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", c.LogLevel)
		c.LogLevel = "info"
	}
	return nil
}
