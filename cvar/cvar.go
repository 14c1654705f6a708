// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar is a registry of named runtime tunables.
package cvar

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"lightmix/conlog"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
)

var ErrUnknown = errors.New("unknown cvar")

type Cvar struct {
	archive bool
	notify  bool
	rom     bool
	name    string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Notify() bool {
	return cv.notify
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.notify {
		conlog.Printf("\"%s\" changed to \"%s\"\n", cv.name, s)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

// Int returns the value truncated to an integer.
func (cv *Cvar) Int() int {
	return int(cv.value)
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0"
}

func Get(name string) (*Cvar, bool) {
	cv, ok := cvarByName[name]
	return cv, ok
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, errors.Errorf("can't register variable %s, already defined", name)
	}

	cv := create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&NOTIFY != 0 {
		cv.notify = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}
	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}

// Set assigns value to the named cvar.
func Set(name, value string) error {
	cv, ok := Get(name)
	if !ok {
		return errors.Wrap(ErrUnknown, name)
	}
	cv.SetByString(value)
	return nil
}

// SetAssignment parses "name=value" and sets the cvar.
func SetAssignment(a string) error {
	name, value, ok := strings.Cut(a, "=")
	if !ok {
		return errors.Errorf("%q is not of the form name=value", a)
	}
	return Set(strings.TrimSpace(name), strings.TrimSpace(value))
}

// Execute runs a console line: a cvar name alone prints its value, a name
// followed by a value sets it. It reports whether args named a cvar.
func Execute(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cv, ok := Get(args[0])
	if !ok {
		return false
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true
	}
	cv.SetByString(args[1])
	return true
}

// ResetAll sets every cvar back to its default.
func ResetAll() {
	for _, cv := range All() {
		cv.Reset()
	}
}

// ExecConfig resets every cvar to its default and then runs the lines of
// r through Execute. Blank lines and // comments are skipped.
func ExecConfig(r io.Reader) error {
	ResetAll()
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line, _, _ := strings.Cut(s.Text(), "//")
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		for i, a := range args {
			args[i] = strings.Trim(a, "\"")
		}
		if !Execute(args) {
			return errors.Wrapf(ErrUnknown, "line %d: %s", n, args[0])
		}
	}
	return errors.Wrap(s.Err(), "read config")
}

// WriteArchive writes every archived cvar as a line ExecConfig reads back.
func WriteArchive(w io.Writer) error {
	for _, cv := range All() {
		if !cv.Archive() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s \"%s\"\n", cv.name, cv.stringValue); err != nil {
			return err
		}
	}
	return nil
}

// List prints all cvars whose name starts with prefix.
func List(prefix string) {
	cvars := make([]*Cvar, 0, len(cvarArray))
	for _, cv := range All() {
		if strings.HasPrefix(cv.name, prefix) {
			cvars = append(cvars, cv)
		}
	}
	sort.Slice(cvars, func(i, j int) bool { return cvars[i].name < cvars[j].name })
	for _, v := range cvars {
		a := " "
		if v.Archive() {
			a = "*"
		}
		n := " "
		if v.Notify() {
			n = "s"
		}
		conlog.SafePrintf("%s%s %s \"%s\"\n", a, n, v.Name(), v.String())
	}
	if prefix != "" {
		conlog.SafePrintf("%v cvars beginning with \"%s\"\n", len(cvars), prefix)
		return
	}
	conlog.SafePrintf("%v cvars\n", len(cvars))
}
