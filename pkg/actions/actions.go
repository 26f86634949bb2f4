package actions

import (
	"fmt"
	"runtime"
	"time"

	"github.com/screenhelper/screenhelper/internal/logger"
	"github.com/screenhelper/screenhelper/pkg/action"
	"github.com/screenhelper/screenhelper/pkg/auto"
	"github.com/screenhelper/screenhelper/pkg/auto/input"
	"github.com/screenhelper/screenhelper/pkg/auto/locate"
	"github.com/screenhelper/screenhelper/pkg/auto/screen"
	"github.com/screenhelper/screenhelper/pkg/auto/window"
	"github.com/screenhelper/screenhelper/pkg/config"
	"github.com/screenhelper/screenhelper/pkg/fileio"
	"github.com/screenhelper/screenhelper/pkg/process"
	"github.com/screenhelper/screenhelper/pkg/vision/ocr"
)

// 标准操作类型
const (
	TypeTakeScreenshot     = "take_screenshot"
	TypeFindImage          = "find_image"
	TypeFindText           = "find_text"
	TypePerformMouseAction = "perform_mouse_action"
	TypeSendText           = "send_text"
	TypeSendHotkey         = "send_hotkey"
	TypeApplyDelay         = "apply_delay"
	TypeManageFile         = "manage_file"
	TypeHandleWindow       = "handle_window"
	TypeExitApplication    = "exit_application"
	TypeCopyText           = "copy_text"
	TypePasteText          = "paste_text"
)

// Deps 操作处理函数的依赖
type Deps struct {
	// Locator 屏幕元素定位器
	Locator *locate.Locator
	// Settings 运行配置，文件操作的编码与换行约定取自此处
	Settings *config.Settings
	// Log 日志器，nil 时不输出
	Log *logger.Logger
	// SnapshotDir 截图留档目录，空值表示不留档
	SnapshotDir string
}

// Standard 返回标准操作集合，供注册表批量注册
func Standard(deps Deps) map[string]action.Handler {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}

	return map[string]action.Handler{
		TypeTakeScreenshot:     deps.takeScreenshot,
		TypeFindImage:          deps.findImage,
		TypeFindText:           deps.findText,
		TypePerformMouseAction: deps.performMouseAction,
		TypeSendText:           deps.sendText,
		TypeSendHotkey:         deps.sendHotkey,
		TypeApplyDelay:         deps.applyDelay,
		TypeManageFile:         deps.manageFile,
		TypeHandleWindow:       deps.handleWindow,
		TypeExitApplication:    deps.exitApplication,
		TypeCopyText:           deps.copyText,
		TypePasteText:          deps.pasteText,
	}
}

// parseOptions 从参数中解析定位与点击配置
func parseOptions(payload map[string]interface{}) []auto.Option {
	var opts []auto.Option

	if threshold, ok := floatParam(payload, "threshold"); ok {
		opts = append(opts, auto.WithThreshold(threshold))
	}
	if timeout, ok := floatParam(payload, "timeout"); ok {
		opts = append(opts, auto.WithTimeout(time.Duration(timeout*float64(time.Second))))
	}
	if distance, ok := floatParam(payload, "min_match_distance"); ok {
		opts = append(opts, auto.WithMinMatchDistance(distance))
	}
	if confidence, ok := floatParam(payload, "min_confidence"); ok {
		opts = append(opts, auto.WithMinConfidence(confidence))
	}
	if optionalBool(payload, "require_all") {
		opts = append(opts, auto.WithRequireAll())
	}
	if optionalBool(payload, "double_click") {
		opts = append(opts, auto.WithDoubleClick())
	}
	if optionalBool(payload, "right_click") {
		opts = append(opts, auto.WithRightClick())
	}

	offsetX, hasX := intParam(payload, "offset_x")
	offsetY, hasY := intParam(payload, "offset_y")
	if hasX || hasY {
		opts = append(opts, auto.WithClickOffset(offsetX, offsetY))
	}

	if region, ok := payload["region"].(map[string]interface{}); ok {
		x, _ := intParam(region, "x")
		y, _ := intParam(region, "y")
		w, _ := intParam(region, "width")
		h, _ := intParam(region, "height")
		opts = append(opts, auto.WithRegion(x, y, w, h))
	}

	return opts
}

// takeScreenshot 截取屏幕，返回 Base64 图像与留档路径
func (d Deps) takeScreenshot(payload map[string]interface{}) (interface{}, error) {
	o := auto.ApplyOptions(parseOptions(payload)...)

	img, err := screen.CaptureOptions(o)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{}
	if d.SnapshotDir != "" && optionalBool(payload, "save") {
		path, err := screen.SaveSnapshot(img, d.SnapshotDir)
		if err != nil {
			return nil, err
		}
		result["path"] = path
	}

	if width, ok := intParam(payload, "thumbnail_width"); ok {
		img = screen.Thumbnail(img, width)
	}

	quality, _ := intParam(payload, "quality")
	encoded, err := screen.ImageToBase64(img, optionalString(payload, "format"), quality)
	if err != nil {
		return nil, err
	}
	result["image"] = encoded
	return result, nil
}

// findImage 查找模板图像，可选点击第一个结果
func (d Deps) findImage(payload map[string]interface{}) (interface{}, error) {
	templatePath, err := stringParam(payload, "template_path")
	if err != nil {
		return nil, err
	}
	opts := parseOptions(payload)

	// 带上下文约束的定位
	if rawContexts, ok := payload["contexts"].([]interface{}); ok && len(rawContexts) > 0 {
		contexts := make([]locate.ImageContext, 0, len(rawContexts))
		for _, raw := range rawContexts {
			ctx, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("contexts 元素应为对象")
			}
			ctxPath, err := stringParam(ctx, "template_path")
			if err != nil {
				return nil, err
			}
			threshold, _ := floatParam(ctx, "threshold")
			contexts = append(contexts, locate.ImageContext{
				TemplatePath: ctxPath,
				Offset:       offsetParam(ctx),
				Threshold:    threshold,
			})
		}

		result, found, err := d.Locator.FindImageWithContexts(templatePath, contexts, opts...)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("未找到满足上下文约束的图像: %s", templatePath)
		}

		if optionalBool(payload, "click") {
			o := auto.ApplyOptions(opts...)
			pos := result.Candidate.Position
			if err := input.ClickAt(pos.X+o.ClickOffset.X, pos.Y+o.ClickOffset.Y, o); err != nil {
				return nil, err
			}
		}
		return map[string]interface{}{
			"x":     result.Candidate.Position.X,
			"y":     result.Candidate.Position.Y,
			"score": result.Candidate.Score,
		}, nil
	}

	if optionalBool(payload, "click") {
		if err := d.Locator.ClickImage(templatePath, opts...); err != nil {
			return nil, err
		}
		x, y := input.MousePosition()
		return map[string]interface{}{"clicked": true, "x": x, "y": y}, nil
	}

	candidates, err := d.Locator.FindImage(templatePath, opts...)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"matches": candidatePositions(candidates)}, nil
}

// findText 查找文字，可选点击第一个结果
func (d Deps) findText(payload map[string]interface{}) (interface{}, error) {
	text, err := stringParam(payload, "text")
	if err != nil {
		return nil, err
	}
	opts := parseOptions(payload)

	query := ocr.TokenQuery{
		Text:          text,
		Mode:          ocr.MatchMode(optionalString(payload, "mode")),
		CaseSensitive: optionalBool(payload, "case_sensitive"),
	}
	if confidence, ok := floatParam(payload, "min_confidence"); ok {
		query.MinConfidence = confidence
	}

	if rawContexts, ok := payload["contexts"].([]interface{}); ok && len(rawContexts) > 0 {
		contexts := make([]locate.TextContext, 0, len(rawContexts))
		for _, raw := range rawContexts {
			ctx, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("contexts 元素应为对象")
			}
			ctxText, err := stringParam(ctx, "text")
			if err != nil {
				return nil, err
			}
			contexts = append(contexts, locate.TextContext{
				Query: ocr.TokenQuery{
					Text: ctxText,
					Mode: ocr.MatchMode(optionalString(ctx, "mode")),
				},
				Offset: offsetParam(ctx),
			})
		}

		result, found, err := d.Locator.FindTextWithContexts(query, contexts, opts...)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("未找到满足上下文约束的文字: %s", text)
		}

		if optionalBool(payload, "click") {
			o := auto.ApplyOptions(opts...)
			pos := result.Candidate.Position
			if err := input.ClickAt(pos.X+o.ClickOffset.X, pos.Y+o.ClickOffset.Y, o); err != nil {
				return nil, err
			}
		}
		return map[string]interface{}{
			"x":    result.Candidate.Position.X,
			"y":    result.Candidate.Position.Y,
			"text": result.Candidate.SourceRef,
		}, nil
	}

	if optionalBool(payload, "click") {
		if err := d.Locator.ClickText(query, opts...); err != nil {
			return nil, err
		}
		return map[string]interface{}{"clicked": true}, nil
	}

	candidates, err := d.Locator.FindText(query, opts...)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"matches": candidatePositions(candidates)}, nil
}

// performMouseAction 执行鼠标操作
func (d Deps) performMouseAction(payload map[string]interface{}) (interface{}, error) {
	mouseAction, err := stringParam(payload, "action")
	if err != nil {
		return nil, err
	}

	// 滚动以外的操作必须给定目标坐标
	x, y := 0, 0
	switch mouseAction {
	case input.MouseMove, input.MouseClick, input.MouseDoubleClick,
		input.MouseRightClick, input.MouseDrag:
		if x, err = requireInt(payload, "x"); err != nil {
			return nil, err
		}
		if y, err = requireInt(payload, "y"); err != nil {
			return nil, err
		}
	}

	amount, ok := intParam(payload, "amount")
	if !ok {
		amount = 3
	}

	if err := input.PerformMouse(mouseAction, x, y, amount); err != nil {
		return nil, err
	}
	return map[string]interface{}{"performed": true}, nil
}

// sendText 输入文字
func (d Deps) sendText(payload map[string]interface{}) (interface{}, error) {
	text, ok := payload["text"].(string)
	if !ok {
		return nil, fmt.Errorf("缺少 text 参数")
	}

	input.TypeText(text)
	return map[string]interface{}{"typed": true}, nil
}

// sendHotkey 发送组合键，最后一个为主键
func (d Deps) sendHotkey(payload map[string]interface{}) (interface{}, error) {
	rawKeys, ok := payload["keys"].([]interface{})
	if !ok || len(rawKeys) == 0 {
		return nil, fmt.Errorf("缺少 keys 参数")
	}

	keys := make([]string, 0, len(rawKeys))
	for _, raw := range rawKeys {
		key, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("keys 元素应为字符串")
		}
		keys = append(keys, key)
	}

	input.HotKey(keys...)
	return map[string]interface{}{"keys": keys}, nil
}

// applyDelay 延时等待
func (d Deps) applyDelay(payload map[string]interface{}) (interface{}, error) {
	if ms, ok := intParam(payload, "milliseconds"); ok {
		auto.MilliSleep(ms)
		return map[string]interface{}{"waited_ms": ms}, nil
	}
	if seconds, ok := floatParam(payload, "seconds"); ok {
		auto.Sleep(time.Duration(seconds * float64(time.Second)))
		return map[string]interface{}{"waited_ms": int(seconds * 1000)}, nil
	}
	return nil, fmt.Errorf("缺少 seconds 或 milliseconds 参数")
}

// manageFile 文本文件操作
// 编码与换行约定取自运行配置，参数可覆盖
func (d Deps) manageFile(payload map[string]interface{}) (interface{}, error) {
	operation, err := stringParam(payload, "operation")
	if err != nil {
		return nil, err
	}
	path, err := stringParam(payload, "path")
	if err != nil {
		return nil, err
	}

	fileOpts := fileio.Options{}
	if d.Settings != nil {
		fileOpts.Encoding = d.Settings.Encoding
		fileOpts.LineEnding = d.Settings.LineEnding
	}
	if encoding := optionalString(payload, "encoding"); encoding != "" {
		fileOpts.Encoding = encoding
	}

	switch operation {
	case "read":
		content, err := fileio.ReadText(path, fileOpts)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"content": content}, nil
	case "write":
		content, ok := payload["content"].(string)
		if !ok {
			return nil, fmt.Errorf("缺少 content 参数")
		}
		if err := fileio.WriteText(path, content, fileOpts); err != nil {
			return nil, err
		}
		return map[string]interface{}{"written": true}, nil
	case "append":
		content, ok := payload["content"].(string)
		if !ok {
			return nil, fmt.Errorf("缺少 content 参数")
		}
		if err := fileio.AppendText(path, content, fileOpts); err != nil {
			return nil, err
		}
		return map[string]interface{}{"appended": true}, nil
	case "delete":
		if err := fileio.Delete(path); err != nil {
			return nil, err
		}
		return map[string]interface{}{"deleted": true}, nil
	default:
		return nil, fmt.Errorf("未知文件操作: %s", operation)
	}
}

// handleWindow 窗口操作
func (d Deps) handleWindow(payload map[string]interface{}) (interface{}, error) {
	operation, err := stringParam(payload, "operation")
	if err != nil {
		return nil, err
	}

	// PID 优先，否则按标题查找
	pid, hasPID := intParam(payload, "pid")
	if !hasPID {
		title, err := stringParam(payload, "title")
		if err != nil {
			return nil, fmt.Errorf("缺少 pid 或 title 参数")
		}

		if operation == "wait" {
			info, err := window.WaitFor(title, parseOptions(payload)...)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"pid": info.PID, "title": info.Title}, nil
		}

		info, err := window.FindByTitle(title)
		if err != nil {
			return nil, err
		}
		pid = info.PID
	}

	switch operation {
	case "activate":
		if err := window.Activate(pid); err != nil {
			return nil, err
		}
	case "minimize":
		window.Minimize(pid)
	case "maximize":
		window.Maximize(pid)
	case "close":
		window.Close(pid)
	case "wait":
		// 按 PID 等待没有意义，视为存在性检查
		if !process.IsRunning(pid) {
			return nil, fmt.Errorf("进程不存在: PID=%d", pid)
		}
	default:
		return nil, fmt.Errorf("未知窗口操作: %s", operation)
	}
	return map[string]interface{}{"operation": operation, "pid": pid}, nil
}

// exitApplication 终止应用进程
func (d Deps) exitApplication(payload map[string]interface{}) (interface{}, error) {
	name, err := stringParam(payload, "name")
	if err != nil {
		return nil, err
	}

	killed, err := process.KillByName(name)
	if err != nil {
		return nil, err
	}
	d.Log.Info("已终止进程 %s: %v", name, killed)
	return map[string]interface{}{"killed": killed}, nil
}

// copyText 复制文字到剪贴板
func (d Deps) copyText(payload map[string]interface{}) (interface{}, error) {
	text, ok := payload["text"].(string)
	if !ok {
		return nil, fmt.Errorf("缺少 text 参数")
	}

	if err := input.CopyToClipboard(text); err != nil {
		return nil, err
	}
	return map[string]interface{}{"copied": true}, nil
}

// pasteText 粘贴剪贴板内容
// 提供 text 参数时先写入剪贴板再粘贴
func (d Deps) pasteText(payload map[string]interface{}) (interface{}, error) {
	if text, ok := payload["text"].(string); ok {
		if err := input.CopyToClipboard(text); err != nil {
			return nil, err
		}
	}

	modifier := "ctrl"
	if runtime.GOOS == "darwin" {
		modifier = "cmd"
	}
	input.HotKey(modifier, "v")

	content, err := input.ReadClipboard()
	if err != nil {
		return map[string]interface{}{"pasted": true}, nil
	}
	return map[string]interface{}{"pasted": true, "text": content}, nil
}
