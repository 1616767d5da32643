package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mirbf/pagez"
)

const usage = `pagez - 压缩包代码页检测与乱码修复工具

用法:
  pagez detect [-7z path] [-v] <archive>...   检测压缩包的代码页
  pagez param  [-7z path] [-v] <archive>...   为一批压缩包生成7z的-mcp参数
  pagez repair [-chain name] [-v] <text>...   修复乱码文本
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	sevenZip := flags.String("7z", "", "7z可执行文件路径（默认使用PATH中的7z）")
	chain := flags.String("chain", "", "指定乱码转换链名称")
	verbose := flags.Bool("v", false, "输出调试日志")
	flags.Parse(os.Args[2:])

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	args := flags.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch command {
	case "detect":
		os.Exit(runDetect(args, *sevenZip, logger))
	case "param":
		os.Exit(runParam(args, *sevenZip, logger))
	case "repair":
		os.Exit(runRepair(args, *chain))
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// runDetect 逐个检测压缩包的代码页并打印结果
func runDetect(paths []string, sevenZip string, logger *slog.Logger) int {
	detector := pagez.NewSmartDetector(
		pagez.WithSevenZipPath(sevenZip),
		pagez.WithLogger(logger),
	)

	exitCode := 0
	for _, path := range paths {
		cp, err := detector.DetectCodepage(context.Background(), path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", path, cp, cp.MCPParam())
	}
	return exitCode
}

// runParam 为整批压缩包输出统一的-mcp参数
func runParam(paths []string, sevenZip string, logger *slog.Logger) int {
	detector := pagez.NewSmartDetector(
		pagez.WithSevenZipPath(sevenZip),
		pagez.WithLogger(logger),
	)

	fmt.Println(detector.CodepageParamForFiles(context.Background(), paths))
	return 0
}

// runRepair 修复乱码文本，修复失败时输出清理后的安全名称
func runRepair(texts []string, chain string) int {
	engine := pagez.NewRepairEngine()
	sanitizer := pagez.NewFilenameSanitizer()

	for _, text := range texts {
		result := engine.Repair(text, chain)
		if result.Confidence == pagez.ConfidenceUnresolved {
			fmt.Printf("%s\t%s\t(%s)\n", text, sanitizer.Sanitize(text), result.Confidence)
			continue
		}
		fmt.Printf("%s\t%s\t(%s, %s)\n", result.Original, result.Repaired, result.MatchedChain, result.Confidence)
	}
	return 0
}
