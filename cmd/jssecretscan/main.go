package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/JsSecretScan/internal/core"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 扫描参数
	target       string
	targetsFile  string
	maxAssets    int
	timeout      int
	workers      int
	renderMode   bool
	proxy        string
	outputFormat string
	outputDir    string

	// 批量处理参数
	batchDelay      int
	continueOnError bool
	resume          bool
)

var rootCmd = &cobra.Command{
	Use:   "jssecretscan",
	Short: "JS资产敏感信息扫描工具",
	Long: `JsSecretScan - JavaScript资产敏感信息扫描工具 (Go版本)

扫描目标站点引用的JavaScript资产,从中提取并过滤敏感信息,支持:
  • 密钥/JWT令牌/数据库连接等13类敏感信息识别
  • 15层质量过滤,显著降低误报
  • 相似项智能合并
  • 静态获取与浏览器渲染两种首页模式
  • 批量目标处理与断点续扫
  • 自定义HTTP请求头
  • JSON/CSV/TXT三种报告格式

使用示例:
  # 单目标扫描 (裸域名自动探测HTTPS/HTTP)
  jssecretscan -u example.com

  # SPA站点使用浏览器渲染
  jssecretscan -u https://example.com --render

  # 批量扫描并续扫
  jssecretscan -f targets.txt --resume

  # 带认证头扫描
  jssecretscan -u https://example.com -H "Authorization: Bearer token"

  # 验证HTTP头部配置
  jssecretscan --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 信号处理(Ctrl+C优雅退出)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 加载并合并配置
		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig.MergeCLIFlags(maxAssets, timeout, workers, renderMode, proxy, outputFormat, outputDir)

		// 创建HTTP头部管理器
		headerManager, err := core.NewHeaderManager("", headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		// 如果用户请求验证配置
		if validateConfig {
			return runValidateConfig(headerManager)
		}

		// 如果没有提供任何参数,显示帮助信息
		if target == "" && targetsFile == "" {
			return cmd.Help()
		}

		scanConfig := appConfig.GetScanConfig()
		if err := ValidateFlags(target, scanConfig.MaxAssets, scanConfig.Timeout, scanConfig.Workers); err != nil {
			return err
		}
		if err := scanConfig.Validate(); err != nil {
			return fmt.Errorf("扫描配置无效: %w", err)
		}

		// 批量处理模式
		if targetsFile != "" {
			if err := ValidateTargetsFile(targetsFile); err != nil {
				return err
			}
			targets, err := utils.ReadTargetsFromFile(targetsFile)
			if err != nil {
				return fmt.Errorf("读取目标文件失败: %w", err)
			}

			batchScanner := core.NewBatchScanner(scanConfig, appConfig.Output.BaseDir, appConfig.Output.Format,
				targetsFile, batchDelay, continueOnError, resume, headerManager)

			if _, err := batchScanner.ScanBatch(ctx, targets); err != nil {
				return fmt.Errorf("批量扫描失败: %w", err)
			}

			utils.Info("✨ 批量扫描任务完成!")
			return nil
		}

		// 单目标扫描模式
		scanner, err := core.NewScanner(target, scanConfig, headerManager)
		if err != nil {
			return fmt.Errorf("创建扫描器失败: %w", err)
		}

		utils.Debugf("任务ID: %s", scanner.Task().ID)
		result := scanner.Scan(ctx)
		if !result.Success {
			return fmt.Errorf("扫描失败: %s", result.Error)
		}

		// 生成报告
		reporter := utils.NewReporter(appConfig.Output.BaseDir)
		if _, err := reporter.Write(result, appConfig.Output.Format); err != nil {
			utils.Warnf("生成报告失败: %v", err)
		}

		// 显示统计结果
		stats := result.Stats
		fmt.Println("\n==================================================")
		fmt.Println("📊 扫描统计")
		fmt.Println("==================================================")
		fmt.Printf("✅ 发现JS资产: %d\n", stats.AssetsDiscovered)
		fmt.Printf("✅ 成功分析: %d\n", stats.AssetsAnalyzed)
		fmt.Printf("❌ 失败资产: %d\n", stats.AssetsFailed)
		fmt.Printf("⏭️  跳过资产: %d\n", stats.AssetsSkipped)
		fmt.Printf("🔍 敏感信息: %d 项 (%d 个类别)\n", result.Findings.Total(), result.Findings.Categories())
		fmt.Printf("⚠️  高风险项: %d\n", result.Findings.HighRiskCount())
		fmt.Printf("📦 下载大小: %.2f MB\n", float64(stats.TotalBytes)/(1024*1024))
		fmt.Printf("⏱️  总耗时: %.2f秒\n", result.ExecutionTime)
		fmt.Println("==================================================")

		utils.Info("✨ 扫描任务完成!")
		return nil
	},
}

// runValidateConfig 验证HTTP头部配置并展示结果
func runValidateConfig(headerManager *core.HeaderManager) error {
	utils.Info("🔍 验证HTTP头部配置...")
	if err := headerManager.LoadConfig(); err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := headerManager.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	// 显示合并后的头部(脱敏)
	safeHeaders := headerManager.GetSafeHeaders()
	utils.Info("✅ 配置验证通过!")
	utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
	for name, value := range safeHeaders {
		utils.Infof("  %s: %s", name, value)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("JsSecretScan %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		fmt.Println("Go实现版本 - JS资产敏感信息扫描工具")
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 扫描参数
	rootCmd.Flags().StringVarP(&target, "url", "u", "", "目标域名或URL (必需,除非使用 --file)")
	rootCmd.Flags().StringVarP(&targetsFile, "file", "f", "", "包含目标列表的文件路径")
	rootCmd.Flags().IntVar(&maxAssets, "max-assets", 0, "单次扫描JS资产上限 (默认30)")
	rootCmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "单请求超时时间(秒) (默认15)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "资产分析并发数 (默认6)")
	rootCmd.Flags().BoolVar(&renderMode, "render", false, "使用无头浏览器渲染首页 (SPA站点)")
	rootCmd.Flags().StringVar(&proxy, "proxy", "", "HTTP代理地址")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "报告格式 (json|csv|txt|all)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "报告输出目录 (默认output)")

	// 批量处理参数
	rootCmd.Flags().IntVar(&batchDelay, "batch-delay", 1, "批量处理目标间延迟(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "遇到错误继续处理")
	rootCmd.Flags().BoolVar(&resume, "resume", false, "从检查点恢复批量扫描")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
