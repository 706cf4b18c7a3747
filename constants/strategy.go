package constants

import "fmt"

// Strategy selects which extractor(s) the orchestrator runs for a detect
// request. The set is closed: switches over Strategy list every constant.
type Strategy string

const (
	StrategyManual  Strategy = "manual"
	StrategyOCROnly Strategy = "ocr_only"
	StrategyRule    Strategy = "rule"
	StrategyAI      Strategy = "ai"
	StrategyHybrid  Strategy = "hybrid"
)

// DefaultStrategy is used when the caller sends no strategy.
const DefaultStrategy = StrategyRule

// ParseStrategy validates a caller-supplied strategy string. The empty
// string maps to DefaultStrategy; anything else unknown is rejected.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return DefaultStrategy, nil
	case StrategyManual, StrategyOCROnly, StrategyRule, StrategyAI, StrategyHybrid:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy: %q", s)
	}
}

// RequiresAdapter reports whether the strategy needs the external model
// adapter to produce detected fields.
func (s Strategy) RequiresAdapter() bool {
	return s == StrategyAI || s == StrategyHybrid
}
