package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

const promptHeader = `你是美食分類專家，請將餐廳列表按照「具體食物類型」進行分類。

核心原則：
1. 分類到具體食物（如「牛肉麵」、「炒飯」），而非大分類（如「麵食」）。
2. 根據餐廳名稱判斷最主要的食物類型。
3. 每間餐廳只歸類到一個最適合的類別。
4. **在每個分類名稱的最後，加上一個最能代表該分類的 Emoji**。

常見分類範例：
牛肉麵 🍜, 餛飩麵 🥟, 拉麵 🍜, 義大利麵 🍝, 炒飯 🍚, 滷肉飯 🍚, 壽司 🍣, 火鍋 🍲, 燒肉 🍖, 咖啡廳 ☕️, 手搖飲 🍹, 素食 🥗

餐廳資料：
`

const promptFooter = `

輸出格式（只要JSON，無其他文字）：
{
  "牛肉麵 🍜": ["餐廳A"],
  "餛飩麵 🥟": ["餐廳B"],
  "炒飯 🍚": ["餐廳C"]
}
`

// BuildPrompt renders the classification prompt for one chunk.
// The chunk is embedded as indented JSON with non-ASCII text left as is.
func BuildPrompt(chunk []domain.ClassifyItem) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunk); err != nil {
		return "", fmt.Errorf("encode chunk: %w", err)
	}

	var b strings.Builder
	b.Grow(len(promptHeader) + buf.Len() + len(promptFooter))
	b.WriteString(promptHeader)
	b.WriteString(strings.TrimRight(buf.String(), "\n"))
	b.WriteString(promptFooter)
	return b.String(), nil
}
