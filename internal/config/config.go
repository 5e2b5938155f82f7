package config

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	BaseURL  string `mapstructure:"base_url"`  // 静态资源外链前缀
	AssetDir string `mapstructure:"asset_dir"` // 头像/KYC 文件存储目录
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	LedgerEvent string `mapstructure:"ledger_event"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"` // 会话令牌有效期，24 小时
}

// BusinessConfig 业务参数
// 金额阈值在配置文件中为字符串，加载时解析为 decimal，避免浮点误差
type BusinessConfig struct {
	AdminEmail            string `mapstructure:"admin_email"`
	FrontendURL           string `mapstructure:"frontend_url"`
	MinWithdrawAmount     string `mapstructure:"min_withdraw_amount"`
	DepositBonusThreshold string `mapstructure:"deposit_bonus_threshold"`
	DepositBonusRate      string `mapstructure:"deposit_bonus_rate"`
	RequireEmailVerify    bool   `mapstructure:"require_email_verify"`
	MaxRetryCount         int    `mapstructure:"max_retry_count"`

	MinWithdraw    decimal.Decimal `mapstructure:"-"`
	BonusThreshold decimal.Decimal `mapstructure:"-"`
	BonusRate      decimal.Decimal `mapstructure:"-"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	if err := config.Business.ParseAmounts(); err != nil {
		log.Fatalf("解析业务金额配置失败: %v", err)
	}

	return config
}

// ParseAmounts 解析金额阈值字符串
func (b *BusinessConfig) ParseAmounts() error {
	var err error
	if b.MinWithdraw, err = decimal.NewFromString(b.MinWithdrawAmount); err != nil {
		return err
	}
	if b.BonusThreshold, err = decimal.NewFromString(b.DepositBonusThreshold); err != nil {
		return err
	}
	if b.BonusRate, err = decimal.NewFromString(b.DepositBonusRate); err != nil {
		return err
	}
	return nil
}
