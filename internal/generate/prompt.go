package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/testgest/internal/model"
)

// SystemPrompt sets the tester persona for every completion.
const SystemPrompt = "你是一个专业的汽车电子测试工程师，擅长根据功能规范和CAN信号矩阵生成全面的测试用例。"

const instructions = `请基于以上信息，生成符合以下要求的测试用例：
1. 测试用例描述简洁，直接说明测试场景和验证内容，如“挂R档，倒车灯点亮”。
2. 覆盖所有功能需求，包括正常、异常和边界情况
3. 每个测试用例必须包含：
   - 测试描述（简明扼要地说明测试内容）
   - 覆盖的需求ID/信号ID
   - 详细测试步骤（使用序号开头，如"1. 操作内容"）
   - 预期结果（明确的预期行为）
   - 输入信号（使用信号名称和有效值）
   - 输出信号（预期的信号变化）
   - 前置条件（执行测试前必须满足的条件）
4. 输出格式：[
  {
    "description": "测试描述",
    "coverage": ["需求ID/信号ID"],
    "input_signal": {
      "信号名称": "信号值"
    },
    "output_signal": "输出信号变化",
    "precondition": ["前置条件1", "前置条件2"],
    "steps": ["步骤1", "步骤2"],
    "expected": ["预期结果1", "预期结果2"]
  }
]
只输出JSON数组，不要输出其他内容。`

// BuildPrompt renders the user prompt for one batch of requirements. The
// records are embedded as indented JSON with non-ASCII text kept verbatim.
func BuildPrompt(reqs []model.Requirement, signals model.SignalDict) (string, error) {
	reqJSON, err := marshalIndent(reqs)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	if signals == nil {
		signals = model.SignalDict{}
	}
	sigJSON, err := marshalIndent(signals)
	if err != nil {
		return "", fmt.Errorf("encode signals: %w", err)
	}
	example, err := marshalIndent(ExampleTestCases()[:1])
	if err != nil {
		return "", fmt.Errorf("encode example: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(SystemPrompt)
	sb.WriteString("\n\n【功能规范】\n")
	sb.WriteString(reqJSON)
	sb.WriteString("\n\n【CAN信号矩阵】\n")
	sb.WriteString(sigJSON)
	sb.WriteString("\n\n")
	sb.WriteString(instructions)
	sb.WriteString("\n以下是一个测试用例的示例格式：\n【测试用例格式】")
	sb.WriteString(example)
	sb.WriteString("\n")
	return sb.String(), nil
}

func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
