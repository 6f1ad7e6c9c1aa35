package testcase

import (
	"fmt"

	"github.com/donutnomad/flowcase/flowchart"
)

// stepTemplates 按节点类型生成测试步骤，%s 为节点标签
var stepTemplates = map[flowchart.NodeType]string{
	flowchart.NodeTypeInput:      `Input: enter the information required for "%s"`,
	flowchart.NodeTypeProcess:    `Process: execute "%s"`,
	flowchart.NodeTypeDecision:   `Decision: check the condition "%s"`,
	flowchart.NodeTypeOutput:     `Output: verify the output of "%s"`,
	flowchart.NodeTypeSubroutine: `Subroutine: run the subroutine "%s"`,
	flowchart.NodeTypeDatabase:   `Database: perform the data operation "%s"`,
	flowchart.NodeTypeStart:      `Start: begin the flow from "%s"`,
	flowchart.NodeTypeEnd:        `End: finish the flow at "%s"`,
}

const (
	fallbackStepTemplate = `Execute: perform "%s"`
	branchStepTemplate   = `Take the branch where condition "%s" applies`
)

// StepFor 生成单个节点的测试步骤
func StepFor(n flowchart.Node) string {
	tpl, ok := stepTemplates[n.Type]
	if !ok {
		tpl = fallbackStepTemplate
	}
	return fmt.Sprintf(tpl, n.Label)
}

var (
	basePreconditions = []string{
		"The system is running normally",
		"The entry condition of the flow is satisfied",
	}
	loginPreconditions = []string{
		"A user account has been created",
		"The login screen is accessible",
	}
	registrationPreconditions = []string{
		"The information required for registration is prepared",
	}
)

var (
	errorPathResults = []string{
		"An appropriate error message is displayed",
		"The error state is handled correctly",
	}
	reentryResult       = "Re-entry of input is possible"
	displayUpdateResult = "The screen display is updated appropriately"
)

// 关键字均为小写，与小写化的标签做包含匹配
var (
	negativeEdgeMarkers  = []string{"no", "ng"}
	errorMarkers         = []string{"error", "エラー"}
	inputMarkers         = []string{"input", "入力"}
	loginMarkers         = []string{"login", "log in", "sign in", "ログイン"}
	registrationMarkers  = []string{"regist", "sign up", "登録"}
	descriptionSeparator = " → "
)
