// Package report renders the installation report and appends it to the
// project log.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohowland/beyond_core/internal/pkg/device"
)

const (
	// NoDevices is reported when the model has no device families at all.
	NoDevices = "Não há famílias Beyond instaladas no projeto."

	workingHeader = "Dispositivo(s) com instalação elétrica adequada:\n"
	faultyHeader  = "Dispositivo(s) com problemas de instalação elétrica no projeto:\n"
	header        = " - Relatório de instalação Beyond"
	timeLayout    = "02-01-2006 15:04:05"

	// DefaultLogName is the log file written next to the model.
	DefaultLogName = "beyond_log.txt"
)

// Build renders working devices first and faulty devices second, each in
// the order given. A nil slice means no devices were found.
func Build(devices []*device.Device) string {
	if devices == nil {
		return NoDevices
	}

	working := make([]string, 0, len(devices))
	faulty := make([]string, 0, len(devices))
	for _, d := range devices {
		entry := d.String()
		if d.HasIssue() {
			faulty = append(faulty, entry+" - "+strings.Join(d.Issues(), " / "))
			continue
		}
		working = append(working, entry)
	}

	return workingHeader + strings.Join(working, "\n") + "\n\n" +
		faultyHeader + strings.Join(faulty, "\n")
}

// Logger appends timestamped reports to a log file.
type Logger struct {
	path string
	now  func() time.Time
}

// NewLogger returns a Logger writing to path.
func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// LogPath returns the log file path in the directory of the model file.
func LogPath(modelPath, name string) string {
	if name == "" {
		name = DefaultLogName
	}
	return filepath.Join(filepath.Dir(modelPath), name)
}

// Path returns the file the Logger appends to.
func (l *Logger) Path() string {
	return l.path
}

// Write appends message under a timestamped header, creating the file if
// needed.
func (l *Logger) Write(message string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	entry := fmt.Sprintf("%s%s\n\n%s\n\n", l.now().Format(timeLayout), header, message)
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
