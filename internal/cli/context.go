// Package cli provides the command-line interface for the mwprofile tool.
package cli

import (
	"github.com/maker-tools/mwprofile/internal/app"
)

// Global reference - commands run one at a time, so a single slot is enough.
var globalApp *app.Application

// SetApp stores the Application for commands to access.
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application.
func GetApp() *app.Application {
	return globalApp
}
