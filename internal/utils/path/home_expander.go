package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const tildeSymbolConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading "~" with the user's home directory.
type HomeExpander struct {
	provider      HomeDirectoryProvider
	resolveOnce   sync.Once
	homeDirectory string
}

// NewHomeExpander constructs a HomeExpander backed by the XDG home directory.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(xdgHomeDirectory)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = xdgHomeDirectory
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves "~" and "~/<path>". Paths naming another user's home ("~other") are returned unchanged,
// as is every path when the home directory cannot be determined.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil {
		return candidatePath
	}

	remainder, hasTilde := strings.CutPrefix(candidatePath, tildeSymbolConstant)
	if !hasTilde {
		return candidatePath
	}
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory := expander.home()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

func (expander *HomeExpander) home() string {
	expander.resolveOnce.Do(func() {
		resolvedHome, resolveError := expander.provider()
		if resolveError == nil {
			expander.homeDirectory = resolvedHome
		}
	})
	return expander.homeDirectory
}

func xdgHomeDirectory() (string, error) {
	if len(xdg.Home) > 0 {
		return xdg.Home, nil
	}
	return os.UserHomeDir()
}
