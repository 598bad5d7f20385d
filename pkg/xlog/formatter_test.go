package xlog

import (
	"bytes"
	"io/ioutil"
	"os"
	"strings"
	"testing"
)

func TestDefaultFormatterLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	SetFormatter(NewDefaultFormatter(buf))

	logger := NewLogger("test", INFO)
	logger.Println("Hello World!")
	logger.Debugln("DO NOT PRINT THIS")

	txt := buf.String()
	if !strings.Contains(txt, "Hello World!") {
		t.Fatalf("unexpected log %q", txt)
	}
	if strings.Contains(txt, "DO NOT PRINT THIS") {
		t.Fatalf("unexpected log %q", txt)
	}
}

func TestJSONFormatterLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	SetFormatter(NewJSONFormatter(buf))

	logger := NewLogger("test", INFO)
	logger.Info("Hello World!")
	logger.Info("Hello World!")
	logger.Info("Hello World!")

	logger.Debugln("DO NOT PRINT THIS")

	txt := buf.String()
	if !strings.Contains(txt, "Hello World!") {
		t.Fatalf("unexpected log %q", txt)
	}
	if strings.Contains(txt, "DO NOT PRINT THIS") {
		t.Fatalf("unexpected log %q", txt)
	}
}

func TestDefaultFormatterLoggerGlobalLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	SetFormatter(NewDefaultFormatter(buf))

	logger := NewLogger("test", DEBUG)
	logger.Println("Hello World!")

	SetGlobalMaxLevel(INFO)
	logger.Debugln("DO NOT PRINT THIS")

	txt := buf.String()
	if !strings.Contains(txt, "Hello World!") {
		t.Fatalf("unexpected log %q", txt)
	}
	if strings.Contains(txt, "DO NOT PRINT THIS") {
		t.Fatalf("unexpected log %q", txt)
	}
}

func TestDefaultFormatterLoggerFile(t *testing.T) {
	fpath := "test.log"
	defer os.RemoveAll(fpath)

	f, err := openAppendOnly(fpath)
	if err != nil {
		t.Fatal(err)
	}
	SetFormatter(NewDefaultFormatter(f))

	logger := NewLogger("test", DEBUG)
	logger.Println("Hello World!")
	logger.Debugln("TEST")

	if err = f.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := ioutil.ReadFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	txt := string(b)

	if !strings.Contains(txt, "Hello World!") {
		t.Fatalf("unexpected log %q", txt)
	}
	if !strings.Contains(txt, "TEST") {
		t.Fatalf("unexpected log %q", txt)
	}
}

func TestJSONFormatterLoggerFile(t *testing.T) {
	fpath := "test.log"
	defer os.RemoveAll(fpath)

	f, err := openAppendOnly(fpath)
	if err != nil {
		t.Fatal(err)
	}
	SetFormatter(NewJSONFormatter(f))

	logger := NewLogger("test", DEBUG)
	logger.Info("Hello World!")
	logger.Debug("TEST")

	if err = f.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := ioutil.ReadFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	txt := string(b)

	if !strings.Contains(txt, "Hello World!") {
		t.Fatalf("unexpected log %q", txt)
	}
	if !strings.Contains(txt, "TEST") {
		t.Fatalf("unexpected log %q", txt)
	}
}

func openAppendOnly(fpath string) (*os.File, error) {
	return os.OpenFile(fpath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
}
