package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
}

// assertLogMatches will fuzzy match log lines. It checks the time format but ignores the exact
// time, and expects a match on the filename while accepting any line number.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))

	// Use the length of the first string as a weak verification that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level and logger name.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])
	if len(actualParts) == 5 {
		return
	}

	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[5]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[5]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := &impl{"chomp", NewAtomicLevelAt(DEBUG), true, []Appender{NewWriterAppender(notStdout)}}

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	chomp	logging/impl_test.go:61	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	chomp	logging/impl_test.go:65	impl infof log`)

	logger.Debugw("impl logw", "key", "value", "joint", 3)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	DEBUG	chomp	logging/impl_test.go:69	impl logw	{"key":"value","joint":3}`)

	// Only public fields are serialized.
	logger.Warnw("struct", "BasicStruct", BasicStruct{1, "alice"})
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	WARN	chomp	logging/impl_test.go:74	struct	{"BasicStruct":{"X":1}}`)

	// An unpaired key is reported rather than dropped.
	logger.Errorw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	ERROR	chomp	logging/impl_test.go:79	unpaired	{"lonely":"unpaired log key"}`)
}

func TestLevels(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := &impl{"", NewAtomicLevelAt(WARN), true, []Appender{NewWriterAppender(notStdout)}}

	logger.Info("dropped")
	logger.Debugw("dropped", "a", 1)
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.CDebugf(EnableDebugMode(context.Background(), ""), "forced %d", 1)
	test.That(t, notStdout.Len(), test.ShouldBeGreaterThan, 0)
	notStdout.Reset()

	logger.SetLevel(DEBUG)
	logger.Debug("kept")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "kept")

	for _, name := range []string{"debug", "INFO", "Warn", "warning", "error"} {
		_, err := LevelFromString(name)
		test.That(t, err, test.ShouldBeNil)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var lvl Level
	test.That(t, json.Unmarshal([]byte(`"warn"`), &lvl), test.ShouldBeNil)
	test.That(t, lvl, test.ShouldEqual, WARN)
}

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("chomp").Sublogger("init")

	sub.Infow("filled", "method", "linear")
	entries := observed.All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "chomp.init")
	test.That(t, entries[0].ContextMap()["method"], test.ShouldEqual, "linear")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}
