package pagez

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// 默认的子进程超时时间
const (
	defaultListTimeout    = 30 * time.Second
	defaultExtractTimeout = 5 * time.Minute
)

// ArchiveTool 压缩工具调用能力接口
// 超时与失败均以CommandResult表达，不跨边界抛错
type ArchiveTool interface {
	// ListEntries 列出压缩包条目（7z l -slt）
	ListEntries(ctx context.Context, archivePath string) *CommandResult

	// Extract 解压压缩包到目标目录
	// codepageParam为-mcp=<id>形式的参数，passwordParam可为空
	Extract(ctx context.Context, archivePath, targetDir, codepageParam, passwordParam string) *CommandResult
}

// sevenZipTool 基于7z命令行的压缩工具实现
type sevenZipTool struct {
	binary         string
	listTimeout    time.Duration
	extractTimeout time.Duration
	logger         *slog.Logger
}

// NewSevenZipTool 创建7z命令行工具调用器
// binary为空时使用PATH中的"7z"
func NewSevenZipTool(binary string, logger *slog.Logger) ArchiveTool {
	return newSevenZipToolWithTimeouts(binary, 0, 0, logger)
}

// newSevenZipToolWithTimeouts 创建7z调用器并指定超时
// 超时为0或负值时使用默认值
func newSevenZipToolWithTimeouts(binary string, listTimeout, extractTimeout time.Duration, logger *slog.Logger) ArchiveTool {
	if binary == "" {
		binary = "7z"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if listTimeout <= 0 {
		listTimeout = defaultListTimeout
	}
	if extractTimeout <= 0 {
		extractTimeout = defaultExtractTimeout
	}
	return &sevenZipTool{
		binary:         binary,
		listTimeout:    listTimeout,
		extractTimeout: extractTimeout,
		logger:         logger,
	}
}

// ListEntries 列出压缩包条目
func (t *sevenZipTool) ListEntries(ctx context.Context, archivePath string) *CommandResult {
	return t.run(ctx, t.listTimeout, "l", "-slt", archivePath)
}

// Extract 解压压缩包到目标目录
func (t *sevenZipTool) Extract(ctx context.Context, archivePath, targetDir, codepageParam, passwordParam string) *CommandResult {
	args := []string{"x", archivePath, "-o" + targetDir, "-aou", "-y"}
	if codepageParam != "" {
		args = append(args, codepageParam)
	}
	if passwordParam != "" {
		args = append(args, "-p"+passwordParam)
	}
	return t.run(ctx, t.extractTimeout, args...)
}

// run 执行7z命令，超时记为失败而非错误
func (t *sevenZipTool) run(ctx context.Context, timeout time.Duration, args ...string) *CommandResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{
		ReturnCode: 0,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ReturnCode = exitErr.ExitCode()
		default:
			// 无法启动（如7z不存在）也按失败结果处理
			result.ReturnCode = -1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
		if ctx.Err() == context.DeadlineExceeded {
			result.TimedOut = true
			t.logger.Warn("7z命令执行超时", "args", strings.Join(args, " "))
		}
	}

	return result
}

// parseArchiveList 解析7z l -slt的输出
//
// 输出为空行分隔的key = value块，条目块以"Path = <名称>"开头；
// Attributes以D开头表示目录，Size累加为总大小，Encrypted为+表示加密
func parseArchiveList(stdout string) *ArchiveInfo {
	info := &ArchiveInfo{}

	// 条目列表在"----------"分隔线之后，之前是压缩包自身的属性块
	body := stdout
	if idx := strings.Index(stdout, "----------"); idx >= 0 {
		body = stdout[idx:]
	}

	var current *ArchiveEntry
	flush := func() {
		if current != nil {
			info.Entries = append(info.Entries, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if name, ok := strings.CutPrefix(trimmed, "Path = "); ok {
			flush()
			current = &ArchiveEntry{Path: name}
			continue
		}

		if current == nil {
			continue
		}

		key, value, found := strings.Cut(trimmed, " = ")
		if !found {
			continue
		}

		switch key {
		case "Attributes":
			current.IsDirectory = strings.HasPrefix(value, "D")
		case "Size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				current.Size = size
				info.TotalSize += size
			}
		case "Encrypted":
			if value == "+" {
				current.Encrypted = true
				info.Encrypted = true
			}
		}
	}
	flush()

	return info
}
