// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"lightmix/conlog"
)

func capture(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	f := func(format string, v ...interface{}) {
		fmt.Fprintf(&b, format, v...)
	}
	conlog.SetPrintf(f)
	conlog.SetSavePrintf(f)
	return &b
}

func TestRegister(t *testing.T) {
	cv, err := Register("test_register", "2.5", ARCHIVE)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if cv.Value() != 2.5 || cv.String() != "2.5" || !cv.Archive() {
		t.Errorf("cvar = %v %q %v", cv.Value(), cv.String(), cv.Archive())
	}
	if _, err := Register("test_register", "1", NONE); err == nil {
		t.Errorf("second Register succeeded")
	}
	if got, ok := Get("test_register"); !ok || got != cv {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestValues(t *testing.T) {
	cv := MustRegister("test_values", "0", NONE)
	tests := []struct {
		s     string
		value float32
		i     int
		b     bool
	}{
		{"3", 3, 3, true},
		{"-2.5", -2.5, -2, true},
		{"0", 0, 0, false},
		{"abc", 0, 0, true},
	}
	for _, tc := range tests {
		cv.SetByString(tc.s)
		if cv.Value() != tc.value || cv.Int() != tc.i || cv.Bool() != tc.b {
			t.Errorf("%q: Value %v Int %d Bool %v, want %v %d %v", tc.s, cv.Value(), cv.Int(), cv.Bool(), tc.value, tc.i, tc.b)
		}
	}
	cv.SetByString("7")
	cv.Reset()
	if cv.String() != "0" {
		t.Errorf("Reset = %q", cv.String())
	}
}

func TestReadOnly(t *testing.T) {
	cv := MustRegister("test_rom", "1", ROM)
	cv.SetByString("5")
	if cv.Value() != 1 {
		t.Errorf("ROM cvar changed to %v", cv.Value())
	}
}

func TestSetAssignment(t *testing.T) {
	cv := MustRegister("test_assign", "0", NONE)
	if err := SetAssignment("test_assign = 12"); err != nil {
		t.Fatalf("SetAssignment: %v", err)
	}
	if cv.Value() != 12 {
		t.Errorf("value = %v", cv.Value())
	}
	if err := SetAssignment("test_assign"); err == nil {
		t.Errorf("assignment without value accepted")
	}
	if err := SetAssignment("test_missing=1"); errors.Cause(err) != ErrUnknown {
		t.Errorf("unknown cvar error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	out := capture(t)
	cv := MustRegister("test_execute", "3", NONE)
	if !Execute([]string{"test_execute"}) {
		t.Fatalf("Execute did not find cvar")
	}
	if want := "\"test_execute\" is \"3\"\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if !Execute([]string{"test_execute", "9"}) || cv.Value() != 9 {
		t.Errorf("Execute set = %v", cv.Value())
	}
	if Execute([]string{"test_nothing"}) || Execute(nil) {
		t.Errorf("Execute accepted unknown input")
	}
}

func TestExecConfig(t *testing.T) {
	capture(t)
	a := MustRegister("test_cfg_a", "1", ARCHIVE)
	b := MustRegister("test_cfg_b", "2", NONE)
	b.SetByString("5")
	cfg := "// saved settings\n\ntest_cfg_a \"4\"\n"
	if err := ExecConfig(strings.NewReader(cfg)); err != nil {
		t.Fatalf("ExecConfig: %v", err)
	}
	if a.String() != "4" || b.String() != "2" {
		t.Errorf("after config a = %q b = %q, want 4 and 2", a.String(), b.String())
	}
	err := ExecConfig(strings.NewReader("test_cfg_a 1\ntest_cfg_missing 3\n"))
	if errors.Cause(err) != ErrUnknown {
		t.Errorf("unknown line error = %v", err)
	}
}

func TestWriteArchive(t *testing.T) {
	capture(t)
	cv := MustRegister("test_archive", "1", ARCHIVE)
	MustRegister("test_not_archived", "1", NONE)
	cv.SetByString("0.25")
	var b strings.Builder
	if err := WriteArchive(&b); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if !strings.Contains(b.String(), "test_archive \"0.25\"\n") {
		t.Errorf("archive = %q", b.String())
	}
	if strings.Contains(b.String(), "test_not_archived") {
		t.Errorf("archive has a non-archived cvar: %q", b.String())
	}
	saved := b.String()
	cv.SetByString("9")
	if err := ExecConfig(strings.NewReader(saved)); err != nil {
		t.Fatalf("ExecConfig: %v", err)
	}
	if cv.String() != "0.25" {
		t.Errorf("reloaded value = %q", cv.String())
	}
}

func TestNotify(t *testing.T) {
	out := capture(t)
	cv := MustRegister("test_notify", "0", NOTIFY)
	cv.SetByString("1")
	if !strings.Contains(out.String(), "\"test_notify\" changed to \"1\"") {
		t.Errorf("output = %q", out.String())
	}
}

func TestList(t *testing.T) {
	out := capture(t)
	MustRegister("test_list_b", "2", NONE)
	MustRegister("test_list_a", "1", ARCHIVE)
	List("test_list_")
	want := "*  test_list_a \"1\"\n" +
		"   test_list_b \"2\"\n" +
		"2 cvars beginning with \"test_list_\"\n"
	if out.String() != want {
		t.Errorf("List output = %q, want %q", out.String(), want)
	}
}
