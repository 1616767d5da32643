package pagez

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArchiveTool 脚本化的压缩工具实现 (测试用)
// 按代码页参数决定试解压的成败，并记录调用序列
type fakeArchiveTool struct {
	mu        sync.Mutex
	list      CommandResult
	listCalls int
	succeed   map[string]bool // 退出码0并产出文件
	emptyOn   map[string]bool // 退出码0但不产出任何文件
	timeoutOn map[string]bool // 超时终止
	extracted []string
}

func (f *fakeArchiveTool) ListEntries(_ context.Context, _ string) *CommandResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	result := f.list
	return &result
}

func (f *fakeArchiveTool) Extract(_ context.Context, _, targetDir, codepageParam, _ string) *CommandResult {
	f.mu.Lock()
	f.extracted = append(f.extracted, codepageParam)
	f.mu.Unlock()

	switch {
	case f.timeoutOn[codepageParam]:
		return &CommandResult{ReturnCode: -1, TimedOut: true}
	case f.emptyOn[codepageParam]:
		return &CommandResult{ReturnCode: 0}
	case f.succeed[codepageParam]:
		if err := os.WriteFile(filepath.Join(targetDir, "extracted.txt"), []byte("ok"), 0o644); err != nil {
			return &CommandResult{ReturnCode: -1, Stderr: err.Error()}
		}
		return &CommandResult{ReturnCode: 0}
	default:
		return &CommandResult{ReturnCode: 2, Stderr: "Cannot open archive"}
	}
}

func (f *fakeArchiveTool) extractedParams() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.extracted...)
}

// fakeLocale 固定返回值的系统区域查询 (测试用)
type fakeLocale struct {
	id int
	ok bool
}

func (l fakeLocale) ActiveCodepage() (int, bool) {
	return l.id, l.ok
}

// sltOutput 构造7z l -slt形式的输出
func sltOutput(names ...string) string {
	var b strings.Builder
	b.WriteString("7-Zip 23.01 (x64)\n\n")
	b.WriteString("Listing archive: a.zip\n\n")
	b.WriteString("--\nPath = a.zip\nType = zip\n\n")
	b.WriteString("----------\n")
	for _, name := range names {
		fmt.Fprintf(&b, "Path = %s\nFolder = -\nSize = 10\nPacked Size = 5\nAttributes = A\nEncrypted = -\n\n", name)
	}
	return b.String()
}

// writeArchiveStub 在临时目录里创建指定名称的占位文件
func writeArchiveStub(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func TestVoteForNamesMajority(t *testing.T) {
	d := NewSmartDetector(WithStatisticalDetector(NewNoopStatisticalDetector()))

	cp := d.VoteForNames([]string{"テスト.txt", "ファイル.txt", "文件一.txt"})
	assert.Equal(t, CodepageShiftJIS, cp)
}

func TestVoteForNamesTieBrokenByCatalogOrder(t *testing.T) {
	d := NewSmartDetector(WithStatisticalDetector(NewNoopStatisticalDetector()))

	// 三个名称各得一票：GBK、ShiftJIS、UTF-8平局，目录中GBK先声明
	names := []string{"测试1.zip", "テスト2.rar", "test3.7z"}
	assert.Equal(t, CodepageGBK, d.VoteForNames(names))
}

func TestVoteForNamesOrderInvariance(t *testing.T) {
	d := NewSmartDetector(WithStatisticalDetector(NewNoopStatisticalDetector()))

	names := []string{"テスト.txt", "文件一.txt", "ファイル.txt", "안녕.txt"}
	reversed := []string{"안녕.txt", "ファイル.txt", "文件一.txt", "テスト.txt"}

	assert.Equal(t, d.VoteForNames(names), d.VoteForNames(reversed))
}

func TestVoteForNamesTieDeterministic(t *testing.T) {
	stub := stubStatDetector{tags: map[string]LanguageTag{
		"tw-one": LangZhTW,
		"tw-two": LangZhTW,
	}}
	d := NewSmartDetector(WithStatisticalDetector(stub))

	// GBK与Big5各两票，平局必须每次都按目录顺序选GBK
	names := []string{"tw-one", "文件一", "tw-two", "文件二"}
	for i := 0; i < 10; i++ {
		assert.Equal(t, CodepageGBK, d.VoteForNames(names), "run %d", i)
	}
}

func TestVoteForNamesEmptyUsesSystemDefault(t *testing.T) {
	d := NewSmartDetector(
		WithStatisticalDetector(NewNoopStatisticalDetector()),
		WithSystemLocale(fakeLocale{id: 949, ok: true}),
	)

	assert.Equal(t, CodepageEUCKR, d.VoteForNames(nil))
	assert.Equal(t, CodepageEUCKR, d.VoteForNames([]string{}))
}

func TestDetectCodepageNotFound(t *testing.T) {
	d := NewSmartDetector(WithArchiveTool(&fakeArchiveTool{}))

	_, err := d.DetectCodepage(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)

	var detectErr *DetectError
	require.ErrorAs(t, err, &detectErr)
	assert.Equal(t, ErrArchiveNotFound, detectErr.Type)
}

func TestDetectCodepageAgreementSkipsExtraction(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 0, Stdout: sltOutput("文件一.txt", "文件二.txt")},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, CodepageGBK, cp)
	assert.Empty(t, tool.extractedParams(), "文件名与内容一致时不应试解压")
}

func TestDetectCodepageConflictValidatedByExtraction(t *testing.T) {
	// 文件名判为中文(936)，内容判为日文(932)，只有932能成功解压
	tool := &fakeArchiveTool{
		list:    CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt", "ソフト.txt")},
		succeed: map[string]bool{"-mcp=932": true},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, CodepageShiftJIS, cp)
	assert.Equal(t, []string{"-mcp=936", "-mcp=932"}, tool.extractedParams())
}

func TestDetectCodepageExhaustionFallsBackToFilename(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt", "ソフト.txt")},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	// 全部候选失败，回退到文件名候选；候选顺序为两个冲突者优先，再按目录顺序补全
	assert.Equal(t, CodepageGBK, cp)
	assert.Equal(t,
		[]string{"-mcp=936", "-mcp=932", "-mcp=950", "-mcp=949", "-mcp=65001"},
		tool.extractedParams())
}

func TestDetectCodepagePreferContent(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt", "ソフト.txt")},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
		WithPreferContent(true),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	// 内容优先时，试解压先测内容候选，耗尽后也回退到内容候选
	assert.Equal(t, CodepageShiftJIS, cp)
	params := tool.extractedParams()
	require.GreaterOrEqual(t, len(params), 2)
	assert.Equal(t, "-mcp=932", params[0])
	assert.Equal(t, "-mcp=936", params[1])
}

func TestDetectCodepageTimeoutCountsAsFailure(t *testing.T) {
	tool := &fakeArchiveTool{
		list:      CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt", "ソフト.txt")},
		timeoutOn: map[string]bool{"-mcp=936": true},
		succeed:   map[string]bool{"-mcp=932": true},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, CodepageShiftJIS, cp)
}

func TestDetectCodepageEmptyExtractionCountsAsFailure(t *testing.T) {
	// 退出码0但没有产出任何文件，同样不算成功
	tool := &fakeArchiveTool{
		list:    CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt", "ソフト.txt")},
		emptyOn: map[string]bool{"-mcp=936": true},
		succeed: map[string]bool{"-mcp=932": true},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, CodepageShiftJIS, cp)
}

func TestDetectCodepageUnreadableFallsBackToFilename(t *testing.T) {
	// 7z列表失败且原生列表器无法识别格式时，降级为按压缩包文件名检测
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 2, Stderr: "Cannot open archive"},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "テスト.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, CodepageShiftJIS, cp)
	assert.Empty(t, tool.extractedParams())
}

func TestArchiveInfoCacheAndInvalidate(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 0, Stdout: sltOutput("a.txt")},
	}
	d := NewSmartDetector(WithArchiveTool(tool))

	path := writeArchiveStub(t, "cache.zip")
	ctx := context.Background()

	info1, err := d.ArchiveInfo(ctx, path)
	require.NoError(t, err)
	info2, err := d.ArchiveInfo(ctx, path)
	require.NoError(t, err)

	assert.Same(t, info1, info2)
	assert.Equal(t, 1, tool.listCalls, "第二次查询应命中缓存")

	d.InvalidateArchiveInfo(path)
	_, err = d.ArchiveInfo(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, tool.listCalls, "失效后应重新列表")
}

func TestCodepageForFilesMajority(t *testing.T) {
	// 列表全部失败，每个压缩包按自身文件名计一票：日文2票、中文1票
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 2, Stderr: "Cannot open archive"},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
		WithParallelism(2),
	)

	paths := []string{
		writeArchiveStub(t, "テスト一.zip"),
		writeArchiveStub(t, "テスト二.zip"),
		writeArchiveStub(t, "压缩文件.zip"),
	}

	assert.Equal(t, CodepageShiftJIS, d.CodepageForFiles(context.Background(), paths))
	assert.Equal(t, "-mcp=932", d.CodepageParamForFiles(context.Background(), paths))
}

func TestCodepageForFilesSkipsInaccessible(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 2},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	paths := []string{
		writeArchiveStub(t, "テスト.zip"),
		filepath.Join(t.TempDir(), "missing.zip"),
	}

	assert.Equal(t, CodepageShiftJIS, d.CodepageForFiles(context.Background(), paths))
}

func TestCodepageForFilesNoAccessibleUsesSystemDefault(t *testing.T) {
	d := NewSmartDetector(
		WithArchiveTool(&fakeArchiveTool{}),
		WithSystemLocale(fakeLocale{id: 936, ok: true}),
	)

	paths := []string{filepath.Join(t.TempDir(), "missing.zip")}
	assert.Equal(t, CodepageGBK, d.CodepageForFiles(context.Background(), paths))
}

func TestWithUserCodepages(t *testing.T) {
	custom := Codepage{ID: 1251, Name: "Cyrillic (Windows-1251)"}
	tool := &fakeArchiveTool{
		list:    CommandResult{ReturnCode: 0, Stdout: sltOutput("テスト.txt")},
		succeed: map[string]bool{"-mcp=1251": true},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
		WithUserCodepages(custom),
	)

	// 内置候选全部失败后，自定义代码页参与试解压并胜出
	path := writeArchiveStub(t, "测试文件.zip")
	cp, err := d.DetectCodepage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, custom.ID, cp.ID)
}

func TestClearCachesIdempotent(t *testing.T) {
	tool := &fakeArchiveTool{
		list: CommandResult{ReturnCode: 0, Stdout: sltOutput("文件一.txt")},
	}
	d := NewSmartDetector(
		WithArchiveTool(tool),
		WithStatisticalDetector(NewNoopStatisticalDetector()),
	)

	path := writeArchiveStub(t, "测试.zip")
	ctx := context.Background()

	cpBefore, err := d.DetectCodepage(ctx, path)
	require.NoError(t, err)

	d.ClearCaches()
	d.ClearCaches()

	cpAfter, err := d.DetectCodepage(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, cpBefore, cpAfter)
	assert.Equal(t, 2, tool.listCalls, "清缓存后应重新列表")
}

func TestDetectFromFilenameCached(t *testing.T) {
	d := NewSmartDetector(WithStatisticalDetector(NewNoopStatisticalDetector()))

	first := d.DetectFromFilename("テスト.zip")
	second := d.DetectFromFilename("テスト.zip")
	assert.Equal(t, CodepageShiftJIS, first)
	assert.Equal(t, first, second)
}
