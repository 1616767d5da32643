package pagez

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
	encryptedzip "github.com/yeka/zip"
)

// archiveFormat 压缩格式枚举 (内部使用)
type archiveFormat string

const (
	formatZIP     archiveFormat = "zip"
	formatRAR     archiveFormat = "rar"
	format7Z      archiveFormat = "7z"
	formatUnknown archiveFormat = "unknown"
)

// ArchiveLister 进程内压缩包列表器接口
// 7z子进程不可用时的原生回退路径
type ArchiveLister interface {
	// ListEntries 列出压缩包条目
	ListEntries(archivePath string) (*ArchiveInfo, error)
}

// nativeLister 基于压缩格式库的原生列表器实现
type nativeLister struct {
	maxMagicBytes int
}

// NewNativeLister 创建原生压缩包列表器
func NewNativeLister() ArchiveLister {
	return &nativeLister{maxMagicBytes: 8}
}

// ListEntries 列出压缩包条目
// 按魔数识别格式后分派到对应的格式库
func (l *nativeLister) ListEntries(archivePath string) (*ArchiveInfo, error) {
	format, err := l.detectFormat(archivePath)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatZIP:
		return l.listZip(archivePath)
	case formatRAR:
		return l.listRar(archivePath)
	case format7Z:
		return l.list7z(archivePath)
	default:
		return nil, NewDetectError(ErrUnsupportedFormat, "无法识别的压缩格式", archivePath, nil)
	}
}

// detectFormat 通过魔数检测压缩格式
func (l *nativeLister) detectFormat(archivePath string) (archiveFormat, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return formatUnknown, NewDetectError(ErrArchiveNotFound, "无法打开文件", archivePath, err)
	}
	defer file.Close()

	buffer := make([]byte, l.maxMagicBytes)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return formatUnknown, NewDetectError(ErrArchiveNotFound, "无法读取文件头", archivePath, err)
	}

	return detectFormatFromBytes(buffer[:n]), nil
}

// detectFormatFromBytes 从字节数组检测格式
func detectFormatFromBytes(data []byte) archiveFormat {
	switch {
	case isZipMagic(data):
		return formatZIP
	case isRarMagic(data):
		return formatRAR
	case is7zMagic(data):
		return format7Z
	default:
		return formatUnknown
	}
}

// isZipMagic 检测ZIP魔数: PK\x03\x04 / PK\x05\x06 / PK\x07\x08
func isZipMagic(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) ||
		bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x05, 0x06}) ||
		bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x07, 0x08})
}

// isRarMagic 检测RAR魔数: v4.x为Rar!\x1A\x07\x00，v5.x为Rar!\x1A\x07\x01\x00
func isRarMagic(data []byte) bool {
	if len(data) < 7 {
		return false
	}
	if bytes.HasPrefix(data, []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}) {
		return true
	}
	return len(data) >= 8 && bytes.HasPrefix(data, []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00})
}

// is7zMagic 检测7Z魔数: 7z\xBC\xAF\x27\x1C
func is7zMagic(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	return bytes.HasPrefix(data, []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C})
}

// listZip 列出ZIP条目
// 未置EFS标志的条目名称保持原始字节，交由投票阶段的统计检测判断编码
func (l *nativeLister) listZip(archivePath string) (*ArchiveInfo, error) {
	reader, err := encryptedzip.OpenReader(archivePath)
	if err != nil {
		return nil, NewDetectError(ErrArchiveUnreadable, "无法读取ZIP文件", archivePath, err)
	}
	defer reader.Close()

	info := &ArchiveInfo{}
	for _, file := range reader.File {
		entry := ArchiveEntry{
			Path:        file.Name,
			IsDirectory: file.FileInfo().IsDir(),
			Size:        int64(file.UncompressedSize64),
			Encrypted:   file.IsEncrypted(),
		}
		info.Entries = append(info.Entries, entry)
		info.TotalSize += entry.Size
		if entry.Encrypted {
			info.Encrypted = true
		}
	}
	return info, nil
}

// listRar 列出RAR条目
func (l *nativeLister) listRar(archivePath string) (*ArchiveInfo, error) {
	reader, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return nil, NewDetectError(ErrArchiveUnreadable, "无法读取RAR文件", archivePath, err)
	}
	defer reader.Close()

	info := &ArchiveInfo{}
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewDetectError(ErrArchiveUnreadable, "读取RAR条目失败", archivePath, err)
		}

		entry := ArchiveEntry{
			Path:        header.Name,
			IsDirectory: header.IsDir,
			Size:        header.UnPackedSize,
		}
		info.Entries = append(info.Entries, entry)
		if !entry.IsDirectory {
			info.TotalSize += entry.Size
		}
	}
	return info, nil
}

// list7z 列出7Z条目
func (l *nativeLister) list7z(archivePath string) (*ArchiveInfo, error) {
	reader, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, NewDetectError(ErrArchiveUnreadable, "无法读取7z文件", archivePath, err)
	}
	defer reader.Close()

	info := &ArchiveInfo{}
	for _, file := range reader.File {
		stat := file.FileInfo()
		entry := ArchiveEntry{
			Path:        file.Name,
			IsDirectory: stat.IsDir(),
			Size:        stat.Size(),
		}
		info.Entries = append(info.Entries, entry)
		if !entry.IsDirectory {
			info.TotalSize += entry.Size
		}
	}
	return info, nil
}
