package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/screenhelper/screenhelper/internal/logger"
	"github.com/screenhelper/screenhelper/pkg/action"
	"github.com/screenhelper/screenhelper/pkg/actions"
	"github.com/screenhelper/screenhelper/pkg/auto/locate"
	"github.com/screenhelper/screenhelper/pkg/config"
	"github.com/screenhelper/screenhelper/pkg/vision/ocr"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		scriptPath  = flag.String("script", "", "操作脚本文件 (JSON 数组)")
		checkpoint  = flag.String("checkpoint", "", "检查点文件路径 (默认: <script>.checkpoint.json)")
		resume      = flag.Bool("resume", false, "从检查点恢复执行")
		debug       = flag.Bool("debug", false, "调试模式，执行失败立即退出")
		snapshotDir = flag.String("snapshot-dir", "", "截图留档目录")
		saveConfig  = flag.Bool("save", false, "保存当前配置到本地")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}
	if *showHelp {
		printHelp()
		return
	}

	manager := config.NewManager()
	settings, err := manager.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败: %v\n", err)
	}
	if *debug {
		settings.SetDebug(true)
	}

	if *saveConfig {
		if err := manager.Save(settings); err != nil {
			fmt.Printf("[WARN] 保存配置失败: %v\n", err)
		} else {
			fmt.Printf("[INFO] 配置已保存到 %s\n", manager.GetConfigFile())
		}
	}

	if *scriptPath == "" {
		fmt.Println("[ERROR] 缺少操作脚本，请使用 -script 参数指定")
		printHelp()
		os.Exit(1)
	}

	checkpointPath := *checkpoint
	if checkpointPath == "" {
		checkpointPath = *scriptPath + ".checkpoint.json"
	}

	log, err := logger.New(logger.Config{
		Level:    logger.ParseLevel(settings.LogLevel),
		Enabled:  true,
		Console:  true,
		FilePath: settings.LogFile,
	})
	if err != nil {
		fmt.Printf("[ERROR] 初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	// OCR 引擎可选，模型文件齐备时启用文字定位
	locatorOpts := []locate.LocatorOption{locate.WithLogger(log)}
	ocrConfig := ocr.DefaultConfig()
	if ocrConfig.Available() {
		recognizer, err := ocr.NewRecognizer(ocrConfig, ocr.WithLogger(log))
		if err != nil {
			log.Warn("OCR 引擎初始化失败，文字定位不可用: %v", err)
		} else {
			locatorOpts = append(locatorOpts, locate.WithRecognizer(recognizer))
		}
	} else {
		log.Warn("OCR 模型文件缺失，文字定位不可用")
	}

	locator := locate.NewLocator(settings, locatorOpts...)
	defer locator.Close()

	registry := action.NewRegistry()
	if err := registry.RegisterAll(actions.Standard(actions.Deps{
		Locator:     locator,
		Settings:    settings,
		Log:         log,
		SnapshotDir: *snapshotDir,
	})); err != nil {
		log.Error("注册标准操作失败: %v", err)
		os.Exit(1)
	}

	queue := action.NewQueue(registry,
		action.WithLogger(log),
		action.WithDebug(settings.Debug),
	)

	items, err := loadItems(*scriptPath, checkpointPath, *resume)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("开始执行 %d 个操作 (debug=%v)", len(items), settings.Debug)
	result, runErr := queue.Run(items)

	printLedger(result)

	if result.Completed() {
		// 全部完成后清除检查点
		if err := os.Remove(checkpointPath); err != nil && !os.IsNotExist(err) {
			log.Warn("清除检查点失败: %v", err)
		}
		log.Info("全部操作执行完成")
		return
	}

	if err := saveCheckpoint(checkpointPath, result.Pending); err != nil {
		log.Error("写入检查点失败: %v", err)
		os.Exit(1)
	}
	log.Warn("队列停机，剩余 %d 个操作已写入检查点 %s，使用 -resume 恢复",
		len(result.Pending), checkpointPath)

	if runErr != nil {
		log.Error("%v", runErr)
	}
	os.Exit(1)
}

// loadItems 从脚本或检查点加载操作列表
func loadItems(scriptPath, checkpointPath string, resume bool) ([]action.Item, error) {
	path := scriptPath
	if resume {
		if _, err := os.Stat(checkpointPath); err != nil {
			return nil, fmt.Errorf("检查点文件不存在: %s", checkpointPath)
		}
		path = checkpointPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取操作脚本失败: %w", err)
	}

	var items []action.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("解析操作脚本失败: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("操作脚本为空: %s", path)
	}
	return items, nil
}

// saveCheckpoint 将剩余操作写入检查点文件
func saveCheckpoint(path string, pending []action.Item) error {
	data, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// printLedger 输出执行台账
func printLedger(result *action.Result) {
	data, err := json.MarshalIndent(result.Ledger, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("ScreenHelper v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("ScreenHelper - 屏幕元素定位与操作编排工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  screenhelper -script <文件> [选项]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -script string        操作脚本文件 (JSON 数组)")
	fmt.Println("  -checkpoint string    检查点文件路径 (默认: <script>.checkpoint.json)")
	fmt.Println("  -resume               从检查点恢复执行")
	fmt.Println("  -debug                调试模式，执行失败立即退出")
	fmt.Println("  -snapshot-dir string  截图留档目录")
	fmt.Println("  -save                 保存当前配置到本地")
	fmt.Println("  -version              显示版本信息")
	fmt.Println("  -help                 显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 执行操作脚本")
	fmt.Println("  screenhelper -script flow.json")
	fmt.Println()
	fmt.Println("  # 队列停机后从检查点恢复")
	fmt.Println("  screenhelper -script flow.json -resume")
	fmt.Println()
	fmt.Println("脚本格式:")
	fmt.Println(`  [{"action_type": "find_image", "options": {"template_path": "ok.png", "click": true}},`)
	fmt.Println(`   {"action_type": "apply_delay", "options": {"seconds": 1}}]`)
}
