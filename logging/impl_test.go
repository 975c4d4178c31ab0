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

type User struct {
	Name string
}

type StructWithStruct struct {
	x int
	Y User
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	// Logger name.
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
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

func newBufferLogger(name string, level Level) (Logger, *bytes.Buffer) {
	notStdout := &bytes.Buffer{}
	return newRoot(name, level, true, NewWriterAppender(notStdout)), notStdout
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, notStdout := newBufferLogger("impl", DEBUG)

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:67	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764Z	INFO	impl	logging/impl_test.go:131	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806Z	INFO	impl	logging/impl_test.go:132	impl logw	{"key":"value"}`)

	logger.Infow("StructWithStruct", "key", "val", "StructWithStruct", StructWithStruct{1, User{"alice"}})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	INFO	impl	logging/impl_test.go:123	StructWithStruct	{"StructWithStruct":{"Y":{"Name":"alice"}},"key":"val"}`)

	logger.Warnw("BasicStruct", "oneKey", "1val", "BasicStruct", BasicStruct{1, "alice"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	WARN	impl	logging/impl_test.go:125	BasicStruct	{"BasicStruct":{"X":1},"oneKey":"1val"}`)

	// An unpaired key is still logged rather than silently dropped.
	logger.Errorw("unpaired", "lonely")
	output, err := notStdout.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	test.That(t, output, test.ShouldContainSubstring, "unpaired log key")
}

func TestLevelFiltering(t *testing.T) {
	logger, notStdout := newBufferLogger("filtered", WARN)

	logger.Debug("dropped")
	logger.Info("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.Warn("kept")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "kept")

	logger.SetLevel(DEBUG)
	logger.Debugf("now %s", "kept too")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "now kept too")
}

func TestDebugModeContext(t *testing.T) {
	logger, notStdout := newBufferLogger("ctx", INFO)

	logger.CDebugw(context.Background(), "hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	ctx := EnableDebugMode(context.Background(), "once")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, GetName(ctx), test.ShouldEqual, "once")
	logger.CDebugw(ctx, "sample", "sensor", 2)
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "sample")

	test.That(t, IsDebugMode(EnableDebugMode(context.Background(), "")), test.ShouldBeTrue)
}

func TestSublogger(t *testing.T) {
	logger, notStdout := newBufferLogger("sensorctl", INFO)

	mux := logger.Sublogger("mux")
	mux.Info("selected")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "sensorctl.mux")

	// The same name hands back the same logger so a level change is seen by every holder.
	again := logger.Sublogger("mux")
	again.SetLevel(ERROR)
	test.That(t, mux.GetLevel(), test.ShouldEqual, ERROR)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Sublogger("wallscan").Infow("node", "node", 1, "cm", 17.0)

	entries := logs.FilterMessage("node").All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "wallscan")
	test.That(t, entries[0].ContextMap()["node"], test.ShouldEqual, int64(1))
}

func TestAddAppenderReachesSubloggers(t *testing.T) {
	logger, _ := newBufferLogger("sensorctl", INFO)
	mux := logger.Sublogger("mux")

	late := &bytes.Buffer{}
	logger.AddAppender(NewWriterAppender(late))
	mux.Infow("selected", "channel", 2)
	test.That(t, late.String(), test.ShouldContainSubstring, "sensorctl.mux")
	test.That(t, late.String(), test.ShouldContainSubstring, `{"channel":2}`)

	// an appender added through a sublogger is shared with the root too
	fromSub := &bytes.Buffer{}
	mux.AddAppender(NewWriterAppender(fromSub))
	logger.Info("root line")
	test.That(t, fromSub.String(), test.ShouldContainSubstring, "root line")
}

func TestDesugarTeesIntoObserver(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.SetLevel(WARN)

	zl := logger.Sublogger("utils").Desugar()
	zl.Info("dropped")
	zl.Warn("kept")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("kept").All()[0].LoggerName, test.ShouldEqual, "utils")
}
