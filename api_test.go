package pagez

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTextPackageLevel(t *testing.T) {
	assert.Equal(t, LangJa, ClassifyText("テスト"))
	assert.Equal(t, LangKo, ClassifyText("한국어"))
	assert.Equal(t, LangZhCN, ClassifyText("测试文件"))
	assert.Equal(t, LangOther, ClassifyText(""))
}

func TestRepairNamePackageLevel(t *testing.T) {
	result := RepairName("ãƒ¡ã‚«ãƒ–.txt", ChainUTF8Latin1)
	assert.Equal(t, "メカブ.txt", result.Repaired)
	assert.Equal(t, ConfidenceExact, result.Confidence)
}

func TestDetectCodepagePackageLevelMissingFile(t *testing.T) {
	_, err := DetectCodepage("/nonexistent/archive.zip")
	require.Error(t, err)

	var detectErr *DetectError
	require.ErrorAs(t, err, &detectErr)
	assert.Equal(t, ErrArchiveNotFound, detectErr.Type)
}
