// Package startup registers the keypad bridge to launch at login.
package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

const (
	appID   = "com.pixpmusic.gopherkeypad"
	appName = "GopherKeypad"
)

// Entry describes the command launched at login
type Entry struct {
	Exec string
	Args []string
}

// Current returns an entry for the running executable with args
func Current(args ...string) (Entry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Entry{}, fault.Wrap(err, fmsg.With("locate executable"))
	}
	return Entry{Exec: execPath, Args: args}, nil
}

func (e Entry) argv() []string {
	return append([]string{e.Exec}, e.Args...)
}

// Enable registers the entry to launch at login
func Enable(e Entry) error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = writeFile(macOSPlistPath(), macOSPlist(e))
	case "linux":
		err = writeFile(linuxDesktopPath(), linuxDesktopEntry(e))
	case "windows":
		err = enableWindows(e)
	default:
		return fault.New("unsupported platform: " + runtime.GOOS)
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("enable launch at login"))
	}
	return nil
}

// Disable removes the login entry
func Disable() error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = removeFile(macOSPlistPath())
	case "linux":
		err = removeFile(linuxDesktopPath())
	case "windows":
		err = disableWindows()
	default:
		return fault.New("unsupported platform: " + runtime.GOOS)
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("disable launch at login"))
	}
	return nil
}

// IsEnabled checks if a login entry exists
func IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return exists(macOSPlistPath())
	case "linux":
		return exists(linuxDesktopPath())
	case "windows":
		return exec.Command("reg", "query", windowsRegistryKey, "/v", appName).Run() == nil
	default:
		return false
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func removeFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil // Already disabled
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- macOS ---

func macOSPlistPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", appID+".plist")
}

func macOSPlist(e Entry) string {
	var args strings.Builder
	for _, a := range e.argv() {
		fmt.Fprintf(&args, "        <string>%s</string>\n", a)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, appID, args.String())
}

// --- Linux ---

func linuxDesktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", "gopher-keypad.desktop")
}

func linuxDesktopEntry(e Entry) string {
	argv := e.argv()
	for i, a := range argv {
		if strings.ContainsAny(a, " \t\"") {
			argv[i] = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, appName, strings.Join(argv, " "))
}

// --- Windows ---

const windowsRegistryKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableWindows(e Entry) error {
	argv := e.argv()
	for i, a := range argv {
		argv[i] = `"` + a + `"`
	}
	return exec.Command("reg", "add", windowsRegistryKey,
		"/v", appName,
		"/t", "REG_SZ",
		"/d", strings.Join(argv, " "),
		"/f").Run()
}

func disableWindows() error {
	output, err := exec.Command("reg", "delete", windowsRegistryKey, "/v", appName, "/f").CombinedOutput()
	// Missing key means already disabled
	if err != nil && !strings.Contains(string(output), "unable to find") {
		return err
	}
	return nil
}
