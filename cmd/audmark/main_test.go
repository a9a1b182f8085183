// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats/wav"
)

func writeWAV(t *testing.T, dir, name string, sig *audio.Signal) string {
	t.Helper()

	data, err := wav.EncodeSignal(sig)
	if err != nil {
		t.Fatalf("EncodeSignal() error = %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(t.Context(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func samples(t *testing.T, path string) []int16 {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(data) < wav.HeaderSize {
		t.Fatalf("%s is %d bytes, shorter than a header", path, len(data))
	}

	out := make([]int16, (len(data)-wav.HeaderSize)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[wav.HeaderSize+2*i:]))
	}

	return out
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if !strings.Contains(stdout, "Version:") || !strings.Contains(stdout, version) {
		t.Errorf("stdout = %q, want version line", stdout)
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	for _, cmd := range []string{"apply", "serve", "version"} {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

func TestRun_Apply(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", &audio.Signal{SampleRate: 44100, Data: [][]float32{{0.2, -0.3}}})
	mark := writeWAV(t, dir, "mark.wav", &audio.Signal{SampleRate: 8000, Data: [][]float32{{1}}})
	out := filepath.Join(dir, "out.wav")

	code, stdout, stderr := runCLI(t, "apply", in, out, "--watermark", mark)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	if got := samples(t, out); len(got) != 2 || got[0] != 9829 || got[1] != -6553 {
		t.Errorf("samples = %v, want [9829 -6553]", got)
	}

	if !strings.Contains(stdout, "Watermark applied") {
		t.Errorf("stdout = %q, want summary", stdout)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".audmark-") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestRun_Apply_Flags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", &audio.Signal{SampleRate: 8000, Data: [][]float32{{0.5, -0.5}, {0.25, -0.25}}})

	// input samples decode one step below their nominal values
	tests := []struct {
		name string
		args []string
		want []int16
	}{
		{"ZeroGain", []string{"--gain", "0"}, []int16{16382, 8190, -16382, -8190}},
		{"MonoZeroGain", []string{"--gain", "0", "--mono"}, []int16{12286, -12286}},
		{"OddBufferSize", []string{"--gain", "0", "--buffer-size", "3"}, []int16{16382, 8190, -16382, -8190}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := filepath.Join(t.TempDir(), "out.wav")
			args := append([]string{"apply", in, out}, tt.args...)

			code, _, stderr := runCLI(t, args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr %q", code, stderr)
			}

			got := samples(t, out)
			if len(got) != len(tt.want) {
				t.Fatalf("samples = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("samples = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestRun_Apply_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", &audio.Signal{SampleRate: 8000, Data: [][]float32{{0.5}}})
	out := filepath.Join(dir, "out.wav")

	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("gain: 0\nlog_level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI(t, "--config", cfg, "apply", in, out)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	if got := samples(t, out); len(got) != 1 || got[0] != 16382 {
		t.Errorf("samples = %v, want [16382]", got)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", &audio.Signal{SampleRate: 8000, Data: [][]float32{{0.5}}})

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	corrupt := filepath.Join(dir, "corrupt.wav")
	if err := os.WriteFile(corrupt, []byte("not a wav file at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.wav")

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"NoCommand", nil, 2, "Error:"},
		{"MissingInput", []string{"apply", filepath.Join(dir, "missing.wav"), out}, 2, "Error:"},
		{"UnknownFormat", []string{"apply", text, out}, 1, "supported:"},
		{"CorruptInput", []string{"apply", corrupt, out}, 1, "not a WAV file"},
		{"BadQuality", []string{"apply", in, out, "--quality", "ultra"}, 1, "invalid configuration"},
		{"BadGain", []string{"apply", in, out, "--gain", "100"}, 1, "invalid configuration"},
		{"BadBufferSize", []string{"apply", in, out, "--buffer-size", "0"}, 1, "invalid configuration"},
		{"BadLogLevel", []string{"--log-level", "loud", "version"}, 2, "log level"},
		{"MissingWatermark", []string{"apply", in, out, "--watermark", filepath.Join(dir, "nope.wav")}, 1, "opening watermark"},
	}

	// runs once the parallel subtests are done
	t.Cleanup(func() {
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Errorf("failed runs created %s", out)
		}
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr)
			}

			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	sig := audio.NewSignal(8000, 2, 100)

	size, err := writeAtomic(path, sig)
	if err != nil {
		t.Fatalf("writeAtomic() error = %v", err)
	}

	if want := int64(wav.HeaderSize + 100*2*2); size != want {
		t.Errorf("size = %d, want %d", size, want)
	}

	if _, err := writeAtomic(path, &audio.Signal{}); err == nil {
		t.Error("writeAtomic(invalid) error = nil")
	}

	if info, err := os.Stat(path); err != nil || info.Size() != size {
		t.Errorf("invalid write replaced the existing output")
	}
}
