package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDebugJSON 将排版、场景或候选构图写成缩进 JSON，父目录不存在时自动创建。
// v 为 nil 时不写文件。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
