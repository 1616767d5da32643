package pagez

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// 检测结果缓存容量
const (
	filenameCacheSize = 256
	contentCacheSize  = 128
)

// Option SmartDetector配置选项
type Option func(*SmartDetector)

// WithSevenZipPath 指定7z可执行文件路径
func WithSevenZipPath(path string) Option {
	return func(d *SmartDetector) {
		d.sevenZipPath = path
	}
}

// WithSubprocessTimeouts 指定7z子进程的列表/解压超时
// 为0或负值的项保持默认值；对WithArchiveTool传入的自定义实现无效
func WithSubprocessTimeouts(list, extract time.Duration) Option {
	return func(d *SmartDetector) {
		d.listTimeout = list
		d.extractTimeout = extract
	}
}

// WithArchiveTool 替换压缩工具调用实现（主要用于测试）
func WithArchiveTool(tool ArchiveTool) Option {
	return func(d *SmartDetector) {
		d.tool = tool
	}
}

// WithNativeLister 替换原生列表器实现
func WithNativeLister(lister ArchiveLister) Option {
	return func(d *SmartDetector) {
		d.lister = lister
	}
}

// WithStatisticalDetector 替换统计语言检测能力
// 传入NewNoopStatisticalDetector()可完全关闭统计回退
func WithStatisticalDetector(detector StatisticalDetector) Option {
	return func(d *SmartDetector) {
		d.classifier = NewLanguageClassifier(detector)
	}
}

// WithSystemLocale 替换系统区域查询实现
func WithSystemLocale(locale SystemLocale) Option {
	return func(d *SmartDetector) {
		d.locale = locale
	}
}

// WithLogger 指定日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(d *SmartDetector) {
		d.logger = logger
	}
}

// WithParallelism 指定批量检测的最大并行度
func WithParallelism(n int) Option {
	return func(d *SmartDetector) {
		d.parallelism = n
	}
}

// WithPreferContent 调整文件名与内容检测的相对信任度
//
// 默认文件名优先：试解压先测文件名候选，全部失败时也回退到文件名候选。
// 置为true时反转，内容候选优先
func WithPreferContent(prefer bool) Option {
	return func(d *SmartDetector) {
		d.preferContent = prefer
	}
}

// WithUserCodepages 注册用户自定义代码页
// 自定义代码页排在内置目录之后参与试解压
func WithUserCodepages(codepages ...Codepage) Option {
	return func(d *SmartDetector) {
		d.catalog = append(d.catalog, codepages...)
	}
}

// SmartDetector 智能代码页检测器
//
// 结合文件名和压缩包内容的语言分类进行代码页推断，
// 两者不一致时通过试解压验证。可安全地被多个goroutine并发使用
type SmartDetector struct {
	sevenZipPath   string
	listTimeout    time.Duration
	extractTimeout time.Duration

	tool          ArchiveTool
	lister        ArchiveLister
	classifier    LanguageClassifier
	locale        SystemLocale
	repair        RepairEngine
	logger        *slog.Logger
	parallelism   int
	preferContent bool
	catalog       []Codepage

	filenameCache *lru.Cache[string, Codepage]
	contentCache  *lru.Cache[string, Codepage]

	infoMu      sync.Mutex
	archiveInfo map[string]*ArchiveInfo
}

// NewSmartDetector 创建智能代码页检测器
func NewSmartDetector(opts ...Option) *SmartDetector {
	d := &SmartDetector{
		catalog: append([]Codepage(nil), CatalogCodepages...),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.tool == nil {
		d.tool = newSevenZipToolWithTimeouts(d.sevenZipPath, d.listTimeout, d.extractTimeout, d.logger)
	}
	if d.lister == nil {
		d.lister = NewNativeLister()
	}
	if d.classifier == nil {
		d.classifier = NewLanguageClassifier(nil)
	}
	if d.locale == nil {
		d.locale = NewSystemLocale()
	}
	if d.repair == nil {
		d.repair = NewRepairEngine()
	}
	if d.parallelism <= 0 {
		d.parallelism = runtime.GOMAXPROCS(0)
	}

	d.filenameCache, _ = lru.New[string, Codepage](filenameCacheSize)
	d.contentCache, _ = lru.New[string, Codepage](contentCacheSize)
	d.archiveInfo = make(map[string]*ArchiveInfo)

	return d
}

// DetectFromFilename 从单个文件名检测代码页（带缓存）
func (d *SmartDetector) DetectFromFilename(filename string) Codepage {
	if cp, ok := d.filenameCache.Get(filename); ok {
		return cp
	}

	cp := d.VoteForNames([]string{filename})
	d.filenameCache.Add(filename, cp)
	return cp
}

// VoteForNames 对一组名称投票选出代码页
//
// 每个名称分类后映射到代码页并计一票；票数最多者胜出，
// 平局按目录顺序；空输入返回系统默认代码页。
// 计票可交换，结果与输入顺序无关
func (d *SmartDetector) VoteForNames(names []string) Codepage {
	tally := make(VoteTally)
	for _, name := range names {
		tag := d.classifier.Classify(name)
		tally.Add(TagToCodepage(tag))
	}

	if winner, ok := voteWinner(tally, d.catalog); ok {
		d.logger.Debug("名称投票完成", "names", len(names), "winner", winner.ID)
		return winner
	}

	return SystemDefaultCodepage(d.locale)
}

// ArchiveInfo 获取压缩包条目信息（带缓存）
//
// 优先调用7z子进程列表，失败时回退到进程内格式库；
// 缓存按绝对路径键控，只能显式失效，没有TTL
func (d *SmartDetector) ArchiveInfo(ctx context.Context, archivePath string) (*ArchiveInfo, error) {
	key := absPath(archivePath)

	d.infoMu.Lock()
	if info, ok := d.archiveInfo[key]; ok {
		d.infoMu.Unlock()
		return info, nil
	}
	d.infoMu.Unlock()

	info, err := d.listArchive(ctx, archivePath)
	if err != nil {
		return nil, err
	}

	d.infoMu.Lock()
	d.archiveInfo[key] = info
	d.infoMu.Unlock()

	return info, nil
}

// listArchive 列出压缩包条目：7z子进程优先，原生库回退
func (d *SmartDetector) listArchive(ctx context.Context, archivePath string) (*ArchiveInfo, error) {
	result := d.tool.ListEntries(ctx, archivePath)
	if result.Success() {
		return parseArchiveList(result.Stdout), nil
	}
	d.logger.Debug("7z列表失败，回退到原生列表器",
		"path", archivePath, "returncode", result.ReturnCode, "timeout", result.TimedOut)

	info, err := d.lister.ListEntries(archivePath)
	if err != nil {
		d.logger.Warn("无法读取压缩包信息", "path", archivePath, "error", err)
		return nil, NewDetectError(ErrArchiveUnreadable, "无法读取压缩包信息", archivePath, err)
	}
	return info, nil
}

// DetectFromArchiveContent 从压缩包内容检测代码页（带缓存）
// 无法读取压缩包时降级为按压缩包自身文件名检测
func (d *SmartDetector) DetectFromArchiveContent(ctx context.Context, archivePath string) Codepage {
	key := absPath(archivePath)
	if cp, ok := d.contentCache.Get(key); ok {
		return cp
	}

	var cp Codepage
	info, err := d.ArchiveInfo(ctx, archivePath)
	if err != nil {
		cp = d.DetectFromFilename(filepath.Base(archivePath))
	} else {
		cp = d.VoteForNames(info.FileNames())
	}

	d.contentCache.Add(key, cp)
	return cp
}

// DetectCodepage 智能检测压缩包的代码页
//
// 文件名检测与内容检测一致时直接返回；不一致时按信任顺序
// 试解压验证，接受第一个成功的候选；全部失败时回退到
// 信任度更高的候选（默认为文件名候选）。
// 只有压缩包路径不存在或不可读时才返回错误
func (d *SmartDetector) DetectCodepage(ctx context.Context, archivePath string) (Codepage, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return Codepage{}, NewDetectError(ErrArchiveNotFound, "文件不存在或不可读", archivePath, err)
	}

	filenameCP := d.DetectFromFilename(filepath.Base(archivePath))
	contentCP := d.DetectFromArchiveContent(ctx, archivePath)

	if filenameCP.Equal(contentCP) {
		return filenameCP, nil
	}

	d.logger.Debug("文件名与内容检测不一致，开始试解压验证",
		"path", archivePath, "filename_cp", filenameCP.ID, "content_cp", contentCP.ID)

	first, second := filenameCP, contentCP
	if d.preferContent {
		first, second = contentCP, filenameCP
	}

	if d.testExtract(ctx, archivePath, first) {
		return first, nil
	}
	if d.testExtract(ctx, archivePath, second) {
		return second, nil
	}

	// 两个候选都失败，遍历目录中未尝试过的代码页
	for _, cp := range d.catalog {
		if cp.Equal(first) || cp.Equal(second) {
			continue
		}
		if d.testExtract(ctx, archivePath, cp) {
			return cp, nil
		}
	}

	// 全部失败，回退到信任度更高的候选
	return first, nil
}

// testExtract 用指定代码页试解压，验证其是否可用
//
// 解压到一次性临时目录，进程退出码为0且至少产出一个文件才算成功；
// 超时计为失败；临时目录无论成败都会被删除
func (d *SmartDetector) testExtract(ctx context.Context, archivePath string, cp Codepage) bool {
	tempDir, err := os.MkdirTemp("", "pagez_trial_")
	if err != nil {
		d.logger.Warn("无法创建试解压临时目录", "error", err)
		return false
	}
	defer os.RemoveAll(tempDir)

	result := d.tool.Extract(ctx, archivePath, tempDir, cp.MCPParam(), "")
	if !result.Success() {
		d.logger.Debug("试解压失败",
			"path", archivePath, "codepage", cp.ID,
			"returncode", result.ReturnCode, "timeout", result.TimedOut)
		return false
	}

	entries, err := os.ReadDir(tempDir)
	success := err == nil && len(entries) > 0
	d.logger.Debug("试解压完成", "path", archivePath, "codepage", cp.ID, "success", success)
	return success
}

// CodepageForFiles 为一批压缩包选出统一的代码页
//
// 对每个可访问的文件并行执行检测，每个压缩包计一票
// （不是每个内部条目一票），按同样的计票规则选出胜者；
// 没有可访问文件时返回系统默认代码页。
// 单个文件的超时或失败只影响该文件的一票，不会取消其他任务
func (d *SmartDetector) CodepageForFiles(ctx context.Context, paths []string) Codepage {
	var valid []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		d.logger.Warn("没有可访问的文件")
		return SystemDefaultCodepage(d.locale)
	}

	var (
		mu    sync.Mutex
		tally = make(VoteTally)
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.parallelism)
	for _, path := range valid {
		path := path
		group.Go(func() error {
			cp, err := d.DetectCodepage(groupCtx, path)
			if err != nil {
				d.logger.Warn("批量检测中跳过文件", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			tally.Add(cp)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	if winner, ok := voteWinner(tally, d.catalog); ok {
		return winner
	}
	return SystemDefaultCodepage(d.locale)
}

// CodepageParamForFiles 为一批压缩包生成7z代码页参数
func (d *SmartDetector) CodepageParamForFiles(ctx context.Context, paths []string) string {
	return d.CodepageForFiles(ctx, paths).MCPParam()
}

// RepairName 修复乱码文件名
// chainName为空时按声明顺序尝试全部转换链
func (d *SmartDetector) RepairName(name, chainName string) RepairResult {
	return d.repair.Repair(name, chainName)
}

// InvalidateArchiveInfo 使单个压缩包的条目缓存失效
func (d *SmartDetector) InvalidateArchiveInfo(archivePath string) {
	key := absPath(archivePath)
	d.infoMu.Lock()
	delete(d.archiveInfo, key)
	d.infoMu.Unlock()

	d.contentCache.Remove(key)
}

// ClearCaches 清除全部缓存
// 幂等，可在检测进行中调用，只会让后续查询重新计算
func (d *SmartDetector) ClearCaches() {
	d.classifier.ClearCache()
	d.filenameCache.Purge()
	d.contentCache.Purge()

	d.infoMu.Lock()
	d.archiveInfo = make(map[string]*ArchiveInfo)
	d.infoMu.Unlock()

	d.logger.Debug("缓存已清除")
}

// absPath 规范化缓存键，失败时退回原路径
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
