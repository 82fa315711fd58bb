package e2e

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// tools are the commands built once in TestMain
var tools = []string{"starforge", "jpg2raw", "pgmview", "tracksim"}

// binDir holds the compiled binaries (set once in TestMain)
var binDir string

// testContext holds state for a single scenario
type testContext struct {
	tmpDir   string
	exitCode int
	output   string
}

// buildBinaries compiles every tool once
func buildBinaries() (string, error) {
	dir, err := os.MkdirTemp("", "starforge-bin-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	// Get the directory of this test file to find the project root
	_, thisFile, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	for _, tool := range tools {
		cmd := exec.Command("go", "build", "-o", filepath.Join(dir, tool), "./cmd/"+tool)
		cmd.Dir = projectRoot
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			_ = os.RemoveAll(dir)
			return "", fmt.Errorf("build %s failed: %w\n%s", tool, err, stderr.String())
		}
	}

	return dir, nil
}

// TestMain compiles the binaries once before running all tests
func TestMain(m *testing.M) {
	var err error
	binDir, err = buildBinaries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binaries: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	// Setup: every scenario runs in its own working directory
	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "starforge-e2e-*")
		if err != nil {
			return ctx, err
		}
		tc.tmpDir = tmpDir
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.tmpDir != "" {
			_ = os.RemoveAll(tc.tmpDir)
		}
		return ctx, nil
	})

	sc.Step(`^the tools are built$`, tc.theToolsAreBuilt)
	sc.Step(`^a file "([^"]*)" containing "([^"]*)"$`, tc.aFileContaining)
	sc.Step(`^I run "([^"]*)"$`, tc.iRun)
	sc.Step(`^I run "([^"]*)" with "([^"]*)"$`, tc.iRunWith)
	sc.Step(`^the exit code should be (\d+)$`, tc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, tc.theOutputShouldNotContain)
	sc.Step(`^"([^"]*)" should exist$`, tc.shouldExist)
	sc.Step(`^"([^"]*)" should not exist$`, tc.shouldNotExist)
	sc.Step(`^"([^"]*)" should be (\d+) bytes$`, tc.shouldBeBytes)
	sc.Step(`^"([^"]*)" should equal "([^"]*)"$`, tc.shouldEqual)
	sc.Step(`^"([^"]*)" should be a grayscale JPEG of (\d+)x(\d+)$`, tc.shouldBeGrayscaleJPEG)
	sc.Step(`^"([^"]*)" should be a DICOM image of (\d+)x(\d+)$`, tc.shouldBeDICOMImage)
}

func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tmpDir, name)
}

func (tc *testContext) theToolsAreBuilt() error {
	for _, tool := range tools {
		if _, err := os.Stat(filepath.Join(binDir, tool)); err != nil {
			return fmt.Errorf("binary %s not built: %w", tool, err)
		}
	}
	return nil
}

func (tc *testContext) aFileContaining(name, content string) error {
	content = strings.ReplaceAll(content, `\n`, "\n")
	return os.WriteFile(tc.path(name), []byte(content), 0644)
}

func (tc *testContext) iRun(tool string) error {
	return tc.iRunWith(tool, "")
}

func (tc *testContext) iRunWith(tool, args string) error {
	cmd := exec.Command(filepath.Join(binDir, tool), splitArgs(args)...)
	cmd.Dir = tc.tmpDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tc.output = output.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		tc.exitCode = exitErr.ExitCode()
	} else if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	} else {
		tc.exitCode = 0
	}

	return nil
}

func (tc *testContext) theExitCodeShouldBe(expected int) error {
	if tc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, tc.exitCode, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output, expected) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(tc.output, unexpected) {
		return fmt.Errorf("output contains %q\nOutput:\n%s", unexpected, tc.output)
	}
	return nil
}

func (tc *testContext) shouldExist(name string) error {
	if _, err := os.Stat(tc.path(name)); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", name)
	}
	return nil
}

func (tc *testContext) shouldNotExist(name string) error {
	if _, err := os.Stat(tc.path(name)); err == nil {
		return fmt.Errorf("path should not exist: %s", name)
	}
	return nil
}

func (tc *testContext) shouldBeBytes(name string, size int64) error {
	info, err := os.Stat(tc.path(name))
	if err != nil {
		return err
	}
	if info.Size() != size {
		return fmt.Errorf("expected %s to be %d bytes, got %d", name, size, info.Size())
	}
	return nil
}

func (tc *testContext) shouldEqual(a, b string) error {
	da, err := os.ReadFile(tc.path(a))
	if err != nil {
		return err
	}
	db, err := os.ReadFile(tc.path(b))
	if err != nil {
		return err
	}
	if !bytes.Equal(da, db) {
		return fmt.Errorf("%s and %s differ", a, b)
	}
	return nil
}

func (tc *testContext) shouldBeGrayscaleJPEG(name string, width, height int) error {
	f, err := os.Open(tc.path(name))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if cfg.ColorModel != color.GrayModel {
		return fmt.Errorf("%s is not a single-channel JPEG", name)
	}
	if cfg.Width != width || cfg.Height != height {
		return fmt.Errorf("expected %dx%d, got %dx%d", width, height, cfg.Width, cfg.Height)
	}
	return nil
}

func (tc *testContext) shouldBeDICOMImage(name string, width, height int) error {
	ds, err := dicom.ParseFile(tc.path(name), nil)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	checks := []struct {
		t    tag.Tag
		want int
	}{
		{tag.Rows, height},
		{tag.Columns, width},
		{tag.BitsAllocated, 8},
	}
	for _, c := range checks {
		elem, err := ds.FindElementByTag(c.t)
		if err != nil {
			return fmt.Errorf("%s: missing %v", name, c.t)
		}
		if got := dicom.MustGetInts(elem.Value)[0]; got != c.want {
			return fmt.Errorf("%s: %v is %d, expected %d", name, c.t, got, c.want)
		}
	}
	return nil
}

// splitArgs splits a command line string into arguments
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
