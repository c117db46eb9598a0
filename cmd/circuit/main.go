package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	circuit "github.com/groupsky/game-4-sub001"
	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/mna"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "circuit",
		Short: "教学电路引擎",
		Long: `circuit 按拍推进由电池、电阻、电容、LED 与灯泡连成的电路。

场景文件(YAML 或 JSON)给出初始元件、导线以及按步执行的拓扑修改,
可以输出每拍的元件状态、HTML 曲线页面或 PNG 曲线图。`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "引擎常数配置文件 (YAML)")
	rootCmd.PersistentFlags().String("log-level", "warn", "日志级别: debug, info, warn, error")
	rootCmd.AddCommand(
		newRunCmd(),
		newChartCmd(),
		newPlotCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// parseLevel 日志级别,未知值按 warn 处理
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// newLogger 文本日志输出到 w
func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// loadConfig 默认值 -> 配置文件 -> 环境变量
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return cfg, fmt.Errorf("环境变量: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}

// newCircuit 按命令行参数创建模拟器
func newCircuit(cmd *cobra.Command, debug mna.Debug) (*circuit.Circuit, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	return circuit.New(
		circuit.WithConfig(cfg),
		circuit.WithLogger(newLogger(level, cmd.ErrOrStderr())),
		circuit.WithDebug(debug),
	), nil
}
