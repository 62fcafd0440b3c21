package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/calvinmclean/challengerwifi"
	"github.com/calvinmclean/challengerwifi/controller"
	"github.com/calvinmclean/challengerwifi/sequencer"
)

const maxLogLines = 200

// MonitorUI shows the progress of a running sequence. It is written to as the transcript
// and observes the sequencer for step changes
type MonitorUI struct {
	overallTimer *timer
	triggerTimer *timer

	stepText    *canvas.Text
	ordinalText *widget.Label
	statusText  *widget.Label
	errorText   *widget.Label
	logContent  *widget.Label
	logScroll   *container.Scroll

	startOnce sync.Once

	mtx     sync.Mutex
	partial string
	lines   []string
}

func NewMonitorUI() *MonitorUI {
	return &MonitorUI{}
}

// Write appends complete lines to the log
func (m *MonitorUI) Write(p []byte) (int, error) {
	m.mtx.Lock()
	data := m.partial + string(p)
	newLines := strings.Split(data, "\n")
	m.partial = newLines[len(newLines)-1]
	m.lines = append(m.lines, newLines[:len(newLines)-1]...)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	text := strings.Join(m.lines, "\n")
	m.mtx.Unlock()

	if m.logContent != nil {
		fyne.Do(func() {
			m.logContent.SetText(text)
			m.logScroll.ScrollToBottom()
		})
	}

	return len(p), nil
}

// Observe implements sequencer.Observer
func (m *MonitorUI) Observe(e sequencer.Event) {
	if m.stepText == nil {
		return
	}

	now := time.Now()
	m.startOnce.Do(func() {
		m.overallTimer.Set(now)
	})
	m.triggerTimer.Set(now)

	fyne.Do(func() {
		m.stepText.Text = stepText(e.Step)
		m.stepText.Color = stepColor(e.Step)
		m.stepText.Refresh()
		m.ordinalText.SetText(fmt.Sprintf("Trigger %d: %s", e.Ordinal, e.Step))
		// the status is only visible to observers through the payload
		if status, err := challengerwifi.ParsePayload(e.Data); err == nil {
			m.statusText.SetText(fmt.Sprintf("Status: %d", status))
		}
		if e.Err != nil {
			m.errorText.SetText(e.Err.Error())
		}
	})
}

func (m *MonitorUI) createLogAccordion() *widget.Accordion {
	m.logContent = widget.NewLabel("")
	m.logContent.TextStyle = fyne.TextStyle{Monospace: true}
	m.logScroll = container.NewVScroll(m.logContent)
	m.logScroll.SetMinSize(fyne.NewSize(400, 150))

	accordion := widget.NewAccordion(
		widget.NewAccordionItem("Transcript", m.logScroll),
	)
	accordion.Open(0)
	return accordion
}

// Run shows the config window and then the monitor. start is called in a new goroutine with
// the submitted config and its error, if any, is shown before quitting
func (m *MonitorUI) Run(ctx context.Context, start func(context.Context, controller.Config) error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	application := app.NewWithID("com.calvinmclean.challengerwifi")
	window := application.NewWindow("Challenger WiFi")

	m.overallTimer = newTimer(false)
	m.triggerTimer = newTimer(true)
	m.overallTimer.Go(ctx)
	m.triggerTimer.Go(ctx)

	m.stepText = canvas.NewText(stepText(challengerwifi.StepUnknown), stepColor(challengerwifi.StepUnknown))
	m.stepText.TextSize = 24
	m.ordinalText = widget.NewLabel("")
	m.statusText = widget.NewLabel("Status: -")
	m.errorText = widget.NewLabel("")

	contentContainer := container.NewVBox(
		container.NewHBox(
			container.NewPadded(m.overallTimer.text),
			layout.NewSpacer(),
			container.NewPadded(m.triggerTimer.text),
		),
		m.stepText,
		container.NewHBox(m.ordinalText, layout.NewSpacer(), m.statusText),
		m.errorText,
		m.createLogAccordion(),
	)

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(420, 300))

	var cfg controller.Config
	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func() {
		window.Show()
		go func() {
			err := start(ctx, cfg)
			if err != nil {
				fyne.Do(func() {
					showError(application, window, err)
				})
			}
		}()
	}
	configWindow.Show(&cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}
