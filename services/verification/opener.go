package verification

import (
	"os/exec"
	"runtime"

	"poolchill/utils"

	"go.uber.org/zap"
)

// Opener is the capability to put a URL in front of the user. Open reports
// whether a window actually appeared; false means the attempt was blocked and
// the session URL must be surfaced as a manual fallback link.
type Opener interface {
	Open(url string) bool
}

// ExecOpener launches the system browser.
type ExecOpener struct{}

func (ExecOpener) Open(url string) bool {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		utils.GetLogger().Warn("Failed to open browser window", zap.Error(err))
		return false
	}
	return true
}
