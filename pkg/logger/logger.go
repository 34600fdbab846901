// Package logger provides a small colored console logger used across the
// application. Requests are logged separately by the middleware package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	cInf  = color.New(color.FgCyan, color.Bold).SprintFunc()
	cWarn = color.New(color.FgYellow, color.Bold).SprintFunc()
	cErr  = color.New(color.FgRed, color.Bold).SprintFunc()
	cSucc = color.New(color.FgGreen, color.Bold).SprintFunc()
	cFatl = color.New(color.BgRed, color.FgWhite, color.Bold).SprintFunc()
	cTime = color.New(color.FgHiBlack).SprintFunc()
)

func init() {
	log.SetFlags(0)
}

func emit(w io.Writer, tag string, format string, v ...interface{}) {
	ts := cTime(time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "%s %s %s\n", ts, tag, fmt.Sprintf(format, v...))
}

func LogInfo(format string, v ...interface{}) {
	emit(os.Stdout, cInf("[INFO]"), format, v...)
}

func LogSuccess(format string, v ...interface{}) {
	emit(os.Stdout, cSucc("[OK]"), format, v...)
}

func LogWarn(format string, v ...interface{}) {
	emit(os.Stdout, cWarn("[WARN]"), format, v...)
}

func LogError(format string, v ...interface{}) {
	emit(os.Stderr, cErr("[ERR]"), format, v...)
}

func LogFatal(format string, v ...interface{}) {
	emit(os.Stderr, cFatl("[FATAL]"), format, v...)
	os.Exit(1)
}

// LogServerStart prints the startup banner once the listener is about to bind.
func LogServerStart(port int, baseURL string) {
	fmt.Println()
	fmt.Printf("   %s  %s\n", cSucc("Server is active"), cTime("waiting for requests..."))
	fmt.Printf("   %s  %s\n", cInf("Local:"), fmt.Sprintf("http://localhost:%d", port))
	fmt.Printf("   %s  %s\n", cInf("Public:"), color.New(color.FgHiBlue, color.Underline).Sprint(baseURL))
	fmt.Println()
}
