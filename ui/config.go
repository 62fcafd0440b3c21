package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/calvinmclean/challengerwifi/controller"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func()
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", cfg.SerialPort)
	cfg.BaudRate = prefs.StringWithFallback("baudRate", "115200")
	cfg.Network.Hostname = prefs.StringWithFallback("hostname", "Challenger")
	cfg.Network.SSID = prefs.StringWithFallback("ssid", cfg.Network.SSID)
	cfg.Network.RemoteIP = prefs.StringWithFallback("remoteIP", cfg.Network.RemoteIP)
	cfg.EchoResponses = prefs.BoolWithFallback("echoResponses", cfg.EchoResponses)
}

// the WiFi password is never persisted
func (cw *ConfigWindow) saveConfigToPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetString("baudRate", cfg.BaudRate)
	prefs.SetString("hostname", cfg.Network.Hostname)
	prefs.SetString("ssid", cfg.Network.SSID)
	prefs.SetString("remoteIP", cfg.Network.RemoteIP)
	prefs.SetBool("echoResponses", cfg.EchoResponses)
}

func (cw *ConfigWindow) Show(cfg *controller.Config) {
	window := cw.app.NewWindow("Challenger WiFi - Configuration")
	window.Resize(fyne.NewSize(400, 300))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&cfg.BaudRate))

	hostnameEntry := widget.NewEntry()
	hostnameEntry.Bind(binding.BindString(&cfg.Network.Hostname))

	ssidEntry := widget.NewEntry()
	ssidEntry.Bind(binding.BindString(&cfg.Network.SSID))

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.Bind(binding.BindString(&cfg.Network.Password))

	remoteIPEntry := widget.NewEntry()
	remoteIPEntry.SetPlaceHolder("192.168.1.10")
	remoteIPEntry.Bind(binding.BindString(&cfg.Network.RemoteIP))

	echoCheck := widget.NewCheckWithData("Echo module responses", binding.BindBool(&cfg.EchoResponses))

	errorLabel := widget.NewLabel("")

	submitButton := widget.NewButton("Submit", func() {
		cw.saveConfigToPreferences(cfg)
		cw.OnSubmit()
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		allFieldsSet := cfg.SerialPort != "" &&
			cfg.BaudRate != "" &&
			cfg.Network.SSID != "" &&
			cfg.Network.RemoteIP != ""
		if !allFieldsSet {
			errorLabel.SetText("")
			submitButton.Disable()
			return
		}

		err := cfg.Validate()
		if err != nil {
			errorLabel.SetText(err.Error())
			submitButton.Disable()
			return
		}

		errorLabel.SetText("")
		submitButton.Enable()
	}

	// Add listeners to field changes
	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	hostnameEntry.OnChanged = func(_ string) { validateForm() }
	ssidEntry.OnChanged = func(_ string) { validateForm() }
	passwordEntry.OnChanged = func(_ string) { validateForm() }
	remoteIPEntry.OnChanged = func(_ string) { validateForm() }

	// Initial validation
	validateForm()

	form := container.NewVBox(
		widget.NewCard("Serial", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			echoCheck,
		)),
		widget.NewCard("Network", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Hostname:"),
				hostnameEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("SSID:"),
				ssidEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Password:"),
				passwordEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Remote IP:"),
				remoteIPEntry,
			),
		)),
		errorLabel,
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
