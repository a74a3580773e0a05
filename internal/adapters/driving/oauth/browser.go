package oauth

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
)

// Ensure Browser implements the opener port.
var _ driven.BrowserOpener = (*Browser)(nil)

// Browser opens URLs in the user's default browser.
type Browser struct{}

// NewBrowser creates a browser opener for the current platform.
func NewBrowser() *Browser {
	return &Browser{}
}

// Open launches the default browser at the given URL without waiting for
// it to exit.
func (b *Browser) Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
