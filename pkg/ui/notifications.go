package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"instaviewer/pkg/config"
	"instaviewer/pkg/viewer"
)

const appTitle = "InstaViewer"

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender uses notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender uses osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleQuote(message), appleQuote(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// WindowsNotificationSender uses a PowerShell toast
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$template = [Windows.UI.Notifications.ToastTemplateType]::ToastText02
		$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent($template)
		$text = $xml.GetElementsByTagName("text")
		$text.Item(0).AppendChild($xml.CreateTextNode(%s)) | Out-Null
		$text.Item(1).AppendChild($xml.CreateTextNode(%s)) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast)
	`, psQuote(title), psQuote(message), psQuote(appTitle))

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// platformSender returns the sender for the running OS, or nil
func platformSender() NotificationSender {
	switch runtime.GOOS {
	case "linux":
		return &LinuxNotificationSender{}
	case "darwin":
		return &MacOSNotificationSender{}
	case "windows":
		return &WindowsNotificationSender{}
	}
	return nil
}

// Notifier prints notices to the console and optionally raises a desktop
// notification. It implements viewer.Notifier.
type Notifier struct {
	out     io.Writer
	sender  NotificationSender
	enabled bool
}

// NewNotifier builds a Notifier from the notification settings
func NewNotifier(cfg config.NotificationConfig) *Notifier {
	n := &Notifier{out: os.Stderr, enabled: cfg.Enabled}
	if cfg.Enabled && cfg.Desktop {
		n.sender = platformSender()
	}
	return n
}

// NewNotifierWithSender is NewNotifier with explicit output and sender
func NewNotifierWithSender(out io.Writer, sender NotificationSender) *Notifier {
	return &Notifier{out: out, sender: sender, enabled: true}
}

// Notify shows a viewer notice as an error line
func (n *Notifier) Notify(notice viewer.Notice) {
	title := appTitle
	if notice.Category != "" {
		title = notice.Category.Title()
	}
	n.SendError(title, notice.Text)
}

// SendNotification shows an informational notice
func (n *Notifier) SendNotification(title, message string) {
	n.send(Cyan(title)+": "+Yellow(message), title, message)
}

// SendError shows a failure notice
func (n *Notifier) SendError(title, message string) {
	n.send(Red(title+": "+message), title, message)
}

// SendSuccess shows a success notice
func (n *Notifier) SendSuccess(title, message string) {
	n.send(Green(title+": "+message), title, message)
}

func (n *Notifier) send(line, title, message string) {
	if !n.enabled {
		return
	}
	fmt.Fprintln(n.out, line)

	// Desktop notifications are best effort
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}

var _ viewer.Notifier = (*Notifier)(nil)
