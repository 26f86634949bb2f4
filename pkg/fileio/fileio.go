// Package fileio 提供带编码与换行约定的文本文件操作
package fileio

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// 支持的文本编码
const (
	EncodingUTF8 = "utf-8"
	EncodingGBK  = "gbk"
)

// 支持的换行约定
const (
	LineEndingCRLF = "\r\n"
	LineEndingLF   = "\n"
)

// Options 文本文件读写约定
type Options struct {
	// Encoding 文本编码，空值按 utf-8 处理
	Encoding string
	// LineEnding 写入时使用的换行符，空值按 \n 处理
	LineEnding string
}

func (o Options) codec() (encoding.Encoding, error) {
	switch strings.ToLower(o.Encoding) {
	case "", EncodingUTF8:
		return unicode.UTF8, nil
	case EncodingGBK:
		return simplifiedchinese.GBK, nil
	default:
		return nil, fmt.Errorf("不支持的编码: %s", o.Encoding)
	}
}

func (o Options) lineEnding() string {
	if o.LineEnding == "" {
		return LineEndingLF
	}
	return o.LineEnding
}

// ReadText 读取文本文件并解码为 UTF-8 字符串
func ReadText(path string, opts Options) (string, error) {
	codec, err := opts.codec()
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}

	decoded, err := codec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("解码文件内容失败 (%s): %w", opts.Encoding, err)
	}
	return string(decoded), nil
}

// WriteText 按编码与换行约定写入文本文件（覆盖）
func WriteText(path, content string, opts Options) error {
	return writeText(path, content, opts, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendText 按编码与换行约定追加文本
func AppendText(path, content string, opts Options) error {
	return writeText(path, content, opts, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func writeText(path, content string, opts Options, flag int) error {
	codec, err := opts.codec()
	if err != nil {
		return err
	}

	// 统一换行后按目标约定重写
	content = strings.ReplaceAll(content, LineEndingCRLF, LineEndingLF)
	if opts.lineEnding() != LineEndingLF {
		content = strings.ReplaceAll(content, LineEndingLF, opts.lineEnding())
	}

	encoded, err := codec.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return fmt.Errorf("编码文件内容失败 (%s): %w", opts.Encoding, err)
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(encoded); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

// Delete 删除文件
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
