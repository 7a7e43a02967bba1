package replay

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type fakeSleeper struct {
	slept []time.Duration
}

func (fs *fakeSleeper) Sleep(d time.Duration) {
	fs.slept = append(fs.slept, d)
}

func TestReaderReadAll(t *testing.T) {
	in := strings.NewReader(`
# comment

START
0, $GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A
10, $GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47
`)

	recs, err := NewReader(in).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if !recs[0].Marker() {
		t.Fatalf("expected START marker, got %+v", recs[0])
	}
	if recs[1].At != 0 {
		t.Fatalf("expected At=0, got %s", recs[1].At)
	}
	if !strings.HasPrefix(recs[1].Sentence, "$GPRMC,") {
		t.Fatalf("unexpected sentence 1: %q", recs[1].Sentence)
	}
	if recs[2].At != 10*time.Nanosecond {
		t.Fatalf("expected At=10ns, got %s", recs[2].At)
	}
	if !strings.HasPrefix(recs[2].Sentence, "$GPGGA,") {
		t.Fatalf("unexpected sentence 2: %q", recs[2].Sentence)
	}
}

func TestReaderReadAll_InvalidLines(t *testing.T) {
	cases := []string{
		"not-a-valid-line\n",
		"10,no-dollar-sentence\n",
		"-5,$GPRMC,x*00\n",
		"abc,$GPRMC,x*00\n",
	}
	for _, in := range cases {
		if _, err := NewReader(strings.NewReader(in)).ReadAll(); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestPlay_RespectsTimingAndStart(t *testing.T) {
	var sentences []string
	fs := &fakeSleeper{}

	recs := []Record{
		{At: 1 * time.Second},
		{At: 1 * time.Second, Sentence: "$A*00"},
		{At: 1*time.Second + 100*time.Nanosecond, Sentence: "$B*00"},
		{At: 2 * time.Second},
		{At: 2*time.Second + 50*time.Nanosecond, Sentence: "$C*00"},
	}

	err := Play(recs, 1.0, false, fs, func(sentence string) error {
		sentences = append(sentences, sentence)
		return nil
	})
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}

	want := []string{"$A*00", "$B*00", "$C*00"}
	if !reflect.DeepEqual(sentences, want) {
		t.Fatalf("sentences = %v, want %v", sentences, want)
	}
	if !reflect.DeepEqual(fs.slept, []time.Duration{100 * time.Nanosecond}) {
		t.Fatalf("slept = %v, want [100ns]", fs.slept)
	}
}

func TestPlay_SpeedMultiplier(t *testing.T) {
	fs := &fakeSleeper{}
	recs := []Record{
		{At: 0, Sentence: "$A*00"},
		{At: 100 * time.Nanosecond, Sentence: "$B*00"},
	}

	err := Play(recs, 2.0, false, fs, func(string) error { return nil })
	if err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if !reflect.DeepEqual(fs.slept, []time.Duration{50 * time.Nanosecond}) {
		t.Fatalf("slept = %v, want [50ns]", fs.slept)
	}
}

func TestPlay_InvalidSpeed(t *testing.T) {
	recs := []Record{{At: 0, Sentence: "$A*00"}}
	if err := Play(recs, 0, false, nil, func(string) error { return nil }); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriter_WritesExpectedFormat(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out.log")

	w, err := CreateWriter(path)
	if err != nil {
		t.Fatalf("CreateWriter() error: %v", err)
	}
	w.start = time.Unix(0, 0)

	if err := w.WriteSentence(time.Unix(0, 20), "$GPRMC,x*00\r\n"); err != nil {
		t.Fatalf("WriteSentence() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(b) != "START\n20,$GPRMC,x*00\n" {
		t.Fatalf("unexpected file contents: %q", string(b))
	}
}

func TestWriter_RejectsBadSentences(t *testing.T) {
	tmp := t.TempDir()
	w, err := CreateWriter(filepath.Join(tmp, "out.log"))
	if err != nil {
		t.Fatalf("CreateWriter() error: %v", err)
	}
	defer w.Close()

	if err := w.WriteSentence(time.Now(), "\r\n"); err == nil {
		t.Fatalf("expected error for empty sentence")
	}
	if err := w.WriteSentence(time.Now(), "GPRMC,x*00"); err == nil {
		t.Fatalf("expected error for missing $")
	}
}

func TestStream_DeliversSentenceBytes(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "session.log")
	content := "START\n0,$GPRMC,x*00\n1000,$GPGGA,y*00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	s, err := NewStream(path, 1000.0, false)
	if err != nil {
		t.Fatalf("NewStream() error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Close()

	var got []string
	for b := range s.Bytes() {
		got = append(got, string(b))
	}
	want := []string{"$GPRMC,x*00\r\n", "$GPGGA,y*00\r\n"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bytes = %q, want %q", got, want)
	}
	if err := s.LastError(); err != nil {
		t.Fatalf("LastError() = %v", err)
	}
}

func TestStream_RejectsMissingFile(t *testing.T) {
	if _, err := NewStream(filepath.Join(t.TempDir(), "missing.log"), 1.0, false); err == nil {
		t.Fatalf("expected error")
	}
}
