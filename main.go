package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/PixPMusic/gopher-keypad/internal/config"
	"github.com/PixPMusic/gopher-keypad/internal/engine"
	"github.com/PixPMusic/gopher-keypad/internal/keypad"
	"github.com/PixPMusic/gopher-keypad/internal/midi"
	"github.com/PixPMusic/gopher-keypad/internal/serial"
	"github.com/PixPMusic/gopher-keypad/internal/startup"
	"github.com/PixPMusic/gopher-keypad/internal/terminal"
	"github.com/PixPMusic/gopher-keypad/internal/tray"
	"github.com/PixPMusic/gopher-keypad/internal/window"
)

const appTitle = "GopherKeypad"

func main() {
	configPath := flag.String("config", "", "config file (.json, .yaml or .yml)")
	debug := flag.Bool("debug", false, "log at debug level")
	list := flag.Bool("list", false, "list MIDI ports and exit")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	midiManager := midi.NewManager(log)
	defer midiManager.Close()

	if *list {
		printPorts(midiManager)
		return
	}

	if err := run(*configPath, log, midiManager); err != nil {
		log.WithError(err).Error("gopher-keypad stopped")
		midiManager.Close()
		os.Exit(1)
	}
}

func printPorts(m *midi.Manager) {
	fmt.Println("MIDI inputs:")
	for _, name := range m.ListInPorts() {
		fmt.Println("  " + name)
	}
	fmt.Println("MIDI outputs:")
	for _, name := range m.ListOutPorts() {
		fmt.Println("  " + name)
	}
}

func run(configPath string, log *logrus.Logger, midiManager *midi.Manager) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"config": cfg.Path(), "profile": cfg.Profile}).Info("config loaded")

	transport, err := midiManager.OpenTransport(cfg.MIDI.InPort, cfg.MIDI.OutPort, settings.Channel)
	if err != nil {
		log.WithError(err).Warn("DAW ports unavailable, notes will not be sent")
		transport = midi.NewTransport(nil, settings.Channel, log)
	}
	defer transport.Close()

	pad, err := keypad.New(settings, transport, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev := cfg.Device
	switch dev.Type {
	case config.DeviceTypeClassic, config.DeviceTypeColorful:
		grid, err := midiManager.OpenGrid(dev.InPort, dev.OutPort, midi.DeviceType(dev.Type))
		if err != nil {
			return err
		}
		defer grid.Close()
		engine.New(pad, grid, transport, grid, log).Run(ctx)
		return nil

	case config.DeviceTypeSerial:
		kp, err := serial.Open(dev.SerialPort, dev.Baud, log)
		if err != nil {
			return err
		}
		defer kp.Close()
		engine.New(pad, kp, transport, kp, log).Run(ctx)
		return nil

	case config.DeviceTypeTerminal:
		return runTerminal(ctx, cfg, pad, transport, log)

	case config.DeviceTypeVirtual:
		runVirtual(ctx, cfg, pad, transport, log)
		return nil

	default:
		return keypad.ConfigError("unknown device type %q", dev.Type)
	}
}

// runTerminal moves logging to a file while the terminal keypad owns the screen
func runTerminal(ctx context.Context, cfg *config.Config, pad *keypad.Keypad, transport *midi.Transport, log *logrus.Logger) error {
	if path, err := config.LogPath(); err == nil {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				defer f.Close()
				log.SetOutput(f)
			}
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tk := terminal.New(appTitle+" - "+cfg.Profile, log)
	go func() {
		<-ctx.Done()
		tk.Quit()
	}()
	go engine.New(pad, tk, transport, tk, log).Run(ctx)

	return tk.Run()
}

func runVirtual(ctx context.Context, cfg *config.Config, pad *keypad.Keypad, transport *midi.Transport, log *logrus.Logger) {
	fyneApp := app.NewWithID("com.pixpmusic.gopherkeypad")

	vk := window.NewVirtualKeypad(fyneApp, appTitle, log)
	vk.SetStatus("%s  in: %s  out: %s", cfg.Profile, cfg.MIDI.InPort, cfg.MIDI.OutPort)

	// The login entry was removed outside the app
	if cfg.OpenAtLogin && !startup.IsEnabled() {
		_ = setLaunchAtLogin(cfg, true, log)
	}

	hasTray := tray.Setup(fyneApp, tray.State{
		Profile:       cfg.Profile,
		LaunchAtLogin: startup.IsEnabled(),
	}, tray.Callbacks{
		OnOpen: vk.Show,
		OnQuit: fyneApp.Quit,
		OnLaunchAtLogin: func(enabled bool) error {
			return setLaunchAtLogin(cfg, enabled, log)
		},
	})
	if !hasTray {
		vk.Window().SetMaster()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	fyneApp.Lifecycle().SetOnStarted(func() {
		go engine.New(pad, vk, transport, vk, log).Run(loopCtx)
	})

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(fyneApp.Quit)
		case <-finished:
		}
	}()

	vk.Show()
	fyneApp.Run()
}

func setLaunchAtLogin(cfg *config.Config, enabled bool, log logrus.FieldLogger) error {
	var err error
	if enabled {
		var entry startup.Entry
		if entry, err = startup.Current("-config", cfg.Path()); err == nil {
			err = startup.Enable(entry)
		}
	} else {
		err = startup.Disable()
	}
	if err != nil {
		log.WithError(err).Warn("launch at login not changed")
		return err
	}

	cfg.OpenAtLogin = enabled
	if err := cfg.Save(); err != nil {
		log.WithError(err).Warn("failed to save config")
	}
	return nil
}
