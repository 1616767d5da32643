package pagez

import (
	"fmt"
)

// Codepage 代码页信息
// 相等性只看ID，名称和描述仅用于展示
type Codepage struct {
	ID          int    `json:"id"`          // Windows代码页数字标识符
	Name        string `json:"name"`        // 显示名称
	Description string `json:"description"` // 描述
}

// String 返回代码页的可读表示
func (c Codepage) String() string {
	return fmt.Sprintf("%s (ID: %d)", c.Name, c.ID)
}

// MCPParam 返回7-zip格式的代码页参数
func (c Codepage) MCPParam() string {
	return fmt.Sprintf("-mcp=%d", c.ID)
}

// Equal 判断两个代码页是否相同（仅比较ID）
func (c Codepage) Equal(other Codepage) bool {
	return c.ID == other.ID
}

// LanguageTag 语言标签枚举
type LanguageTag string

const (
	LangZhCN  LanguageTag = "zh-cn" // 简体中文
	LangZhTW  LanguageTag = "zh-tw" // 繁体中文
	LangJa    LanguageTag = "ja"    // 日文
	LangKo    LanguageTag = "ko"    // 韩文
	LangOther LanguageTag = "other" // 其他/未知
)

// String 返回语言标签字符串
func (t LanguageTag) String() string {
	return string(t)
}

// VoteTally 代码页投票计数
// 键为代码页ID，计数总和等于已分类名称数，计数不为负
type VoteTally map[int]int

// Add 为指定代码页增加一票
func (t VoteTally) Add(cp Codepage) {
	t[cp.ID]++
}

// Total 返回总票数
func (t VoteTally) Total() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}

// ArchiveEntry 压缩包内单个条目
type ArchiveEntry struct {
	Path        string `json:"path"`         // 条目路径
	IsDirectory bool   `json:"is_directory"` // 是否为目录
	Size        int64  `json:"size"`         // 未压缩大小
	Encrypted   bool   `json:"encrypted"`    // 是否加密
}

// ArchiveInfo 压缩包列表结果
type ArchiveInfo struct {
	Entries   []ArchiveEntry `json:"entries"`    // 条目列表（保持原始顺序）
	TotalSize int64          `json:"total_size"` // 累计未压缩大小
	Encrypted bool           `json:"encrypted"`  // 是否包含加密条目
}

// FileNames 返回所有非目录条目的路径
func (info *ArchiveInfo) FileNames() []string {
	names := make([]string, 0, len(info.Entries))
	for _, e := range info.Entries {
		if !e.IsDirectory {
			names = append(names, e.Path)
		}
	}
	return names
}

// RepairConfidence 修复结果置信度
type RepairConfidence string

const (
	// ConfidenceExact 精确修复：修复结果经正向转换可完整还原输入
	ConfidenceExact RepairConfidence = "exact"

	// ConfidencePartial 部分修复：文本有变化但无法完整还原
	ConfidencePartial RepairConfidence = "partial"

	// ConfidenceUnresolved 未修复：没有转换链能改变文本
	ConfidenceUnresolved RepairConfidence = "unresolved"
)

// RepairResult 乱码修复结果
type RepairResult struct {
	Original     string           `json:"original"`      // 原始文本
	Repaired     string           `json:"repaired"`      // 修复后文本
	MatchedChain string           `json:"matched_chain"` // 命中的转换链名称（未命中为空）
	Confidence   RepairConfidence `json:"confidence"`    // 置信度
}

// CommandResult 外部命令执行结果
// 超时表现为TimedOut=true且ReturnCode非零，不作为error传播
type CommandResult struct {
	ReturnCode int    // 进程退出码
	Stdout     string // 标准输出
	Stderr     string // 标准错误
	TimedOut   bool   // 是否因超时被终止
}

// Success 判断命令是否成功
func (r *CommandResult) Success() bool {
	return r != nil && r.ReturnCode == 0 && !r.TimedOut
}

// DetectError 检测错误
type DetectError struct {
	Type    ErrorType
	Message string
	Path    string
	Cause   error
}

// Error 实现error接口
func (e *DetectError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Type, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap 返回原始错误
func (e *DetectError) Unwrap() error {
	return e.Cause
}

// ErrorType 错误类型枚举
type ErrorType string

const (
	// ErrArchiveNotFound 压缩包不存在或不可读（唯一对调用方可见的失败）
	ErrArchiveNotFound ErrorType = "ARCHIVE_NOT_FOUND"

	// ErrArchiveUnreadable 列表或解压子进程失败/超时（内部降级处理，不上抛）
	ErrArchiveUnreadable ErrorType = "ARCHIVE_UNREADABLE"

	// ErrUnsupportedFormat 无法识别的压缩格式
	ErrUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"

	// ErrToolNotFound 7z可执行文件不存在
	ErrToolNotFound ErrorType = "TOOL_NOT_FOUND"
)

// String 返回错误类型字符串
func (et ErrorType) String() string {
	return string(et)
}

// NewDetectError 创建检测错误 (内部使用)
func NewDetectError(errType ErrorType, message, path string, cause error) *DetectError {
	return &DetectError{
		Type:    errType,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}
