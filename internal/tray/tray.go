package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnOpen          func()
	OnQuit          func()
	OnLaunchAtLogin func(enabled bool) error
}

// State is what the menu shows on creation
type State struct {
	Profile       string
	LaunchAtLogin bool
}

// Setup installs the tray menu. It returns false when the app has no system tray.
func Setup(app fyne.App, state State, callbacks Callbacks) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		return false
	}

	openItem := fyne.NewMenuItem("Show Keypad", func() {
		if callbacks.OnOpen != nil {
			callbacks.OnOpen()
		}
	})

	profileItem := fyne.NewMenuItem("Profile: "+state.Profile, nil)
	profileItem.Disabled = true

	loginItem := fyne.NewMenuItem("Open at Login", nil)
	loginItem.Checked = state.LaunchAtLogin

	quitItem := fyne.NewMenuItem("Quit", func() {
		if callbacks.OnQuit != nil {
			callbacks.OnQuit()
		}
	})
	quitItem.IsQuit = true

	menu := fyne.NewMenu("GopherKeypad",
		openItem,
		fyne.NewMenuItemSeparator(),
		profileItem,
		loginItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	// Set the action after menu is created so we can refresh it
	loginItem.Action = func() {
		want := !loginItem.Checked
		if callbacks.OnLaunchAtLogin != nil {
			if err := callbacks.OnLaunchAtLogin(want); err != nil {
				return
			}
		}
		loginItem.Checked = want
		menu.Refresh()
	}

	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.GridIcon())
	return true
}
