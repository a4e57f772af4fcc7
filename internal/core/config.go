package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Scan    models.ScanConfig `mapstructure:"scan"`
	Filter  FilterConfig      `mapstructure:"filter"`
	Logging LoggingConfig     `mapstructure:"logging"`
	Output  OutputConfig      `mapstructure:"output"`
}

// FilterConfig 过滤配置
type FilterConfig struct {
	MinEntropy     float64  `mapstructure:"min_entropy"`
	ExcludeDomains []string `mapstructure:"exclude_domains"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
	Format  string `mapstructure:"format"` // json/csv/txt/all
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configPath != "" {
		// 使用指定的配置文件
		v.SetConfigFile(configPath)
	} else {
		// 搜索默认位置
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// 添加配置搜索路径
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		// 用户主目录
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".jssecretscan"))
		}
	}

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在,使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在,使用默认值
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// filter段的熵阈值与排除域名并入扫描配置
	if config.Filter.MinEntropy > 0 {
		config.Scan.MinEntropy = config.Filter.MinEntropy
	}
	config.Scan.ExcludeDomains = append(config.Scan.ExcludeDomains, config.Filter.ExcludeDomains...)

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 扫描配置默认值
	v.SetDefault("scan.max_assets", 30)
	v.SetDefault("scan.timeout", 15)
	v.SetDefault("scan.workers", 6)
	v.SetDefault("scan.max_asset_size", 10*1024*1024)
	v.SetDefault("scan.retry_attempts", 3)
	v.SetDefault("scan.render_mode", false)

	// 过滤配置默认值
	v.SetDefault("filter.min_entropy", 3.5)
	v.SetDefault("filter.exclude_domains", []string{})

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出配置默认值
	v.SetDefault("output.base_dir", "output")
	v.SetDefault("output.format", "all")
}

// GetScanConfig 从配置中提取扫描配置
func (c *Config) GetScanConfig() models.ScanConfig {
	scan := c.Scan
	if scan.MinEntropy <= 0 {
		scan.MinEntropy = 3.5
	}
	return scan
}

// MergeCLIFlags 合并命令行参数到配置
// 命令行参数优先于配置文件
func (c *Config) MergeCLIFlags(
	maxAssets int,
	timeout int,
	workers int,
	renderMode bool,
	proxy string,
	outputFormat string,
	outputDir string,
) {
	if maxAssets > 0 {
		c.Scan.MaxAssets = maxAssets
	}
	if timeout > 0 {
		c.Scan.Timeout = timeout
	}
	if workers > 0 {
		c.Scan.Workers = workers
	}
	if renderMode {
		c.Scan.RenderMode = true
	}
	if proxy != "" {
		c.Scan.Proxy = proxy
	}
	if outputFormat != "" {
		c.Output.Format = outputFormat
	}
	if outputDir != "" {
		c.Output.BaseDir = outputDir
	}
}
