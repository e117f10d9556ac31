package analysis

import (
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/internal/prompts"
)

// Runtime bundles the dependencies that analysis graph nodes require.
// It is constructed by higher-level composition code from Infrastructure and
// Domain systems.
type Runtime struct {
	Agent   gaconfig.AgentConfig
	Cases   cases.System
	Prompts prompts.System
	Logger  *slog.Logger
}
