package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/qrmosaic/pkg/envelope"
	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/wire"
)

// fakeSymbols stands in for the QR renderer/scanner pair: Render records
// each frame string instead of drawing a symbol, Scan replays whatever was
// recorded (or injected). This exercises the full codec without depending on
// actual QR detection.
type fakeSymbols struct {
	frames []string
}

func (f *fakeSymbols) Render(frame string) (image.Image, error) {
	f.frames = append(f.frames, frame)
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func (f *fakeSymbols) Scan(img image.Image) ([]string, error) {
	return f.frames, nil
}

// pngBytes returns a minimal valid PNG for decode-side tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newFakeRunner() (*Runner, *fakeSymbols) {
	fake := &fakeSymbols{}
	return NewRunner(fake, fake, nil), fake
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		passphrase string
	}{
		{"single fragment", "short", 500, ""},
		{"many fragments", "hello world", 5, ""},
		{"encrypted", "attack at dawn", 20, "hunter2"},
		{"unicode", "ünïcødé ✓ 漢字テスト", 7, ""},
		{"encrypted unicode", "漢字 with secrets", 10, "påss✓"},
		{"text containing separators", "a|b||c|||d", 3, ""},
		{"whitespace only", "   \n\t", 500, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newFakeRunner()
			ctx := context.Background()

			data, err := runner.Encode(ctx, tt.text, Options{ChunkSize: tt.chunkSize, Passphrase: tt.passphrase})
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if _, err := png.Decode(bytes.NewReader(data)); err != nil {
				t.Fatalf("Encode output is not a PNG: %v", err)
			}

			res, err := runner.Decode(ctx, data, tt.passphrase)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if res.Text != tt.text {
				t.Errorf("Text = %q, want %q", res.Text, tt.text)
			}
			if res.SHA256 != envelope.Hash(tt.text) {
				t.Errorf("SHA256 = %q, want %q", res.SHA256, envelope.Hash(tt.text))
			}
		})
	}
}

func TestEncodeValidation(t *testing.T) {
	runner, _ := newFakeRunner()
	ctx := context.Background()

	if _, err := runner.Encode(ctx, "", Options{ChunkSize: 10}); !qrerrors.Is(err, qrerrors.ErrCodeValidation) {
		t.Errorf("empty text: error = %v, want VALIDATION", err)
	}
	for _, size := range []int{0, -1} {
		if _, err := runner.Encode(ctx, "text", Options{ChunkSize: size}); !qrerrors.Is(err, qrerrors.ErrCodeValidation) {
			t.Errorf("chunk size %d: error = %v, want VALIDATION", size, err)
		}
	}
}

func TestEncodeFrameMetadata(t *testing.T) {
	// The concrete scenario: "hello world" at chunk size 5 without a
	// passphrase. Fragments cover the checksum-wrapped JSON payload, so the
	// fragment count follows the wrapped length, not the raw input length.
	runner, fake := newFakeRunner()
	ctx := context.Background()

	if _, err := runner.Encode(ctx, "hello world", Options{ChunkSize: 5}); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	wrapped := envelope.Wrap("hello world")
	wantTotal := (len(wrapped) + 4) / 5
	if len(fake.frames) != wantTotal {
		t.Fatalf("rendered %d frames, want %d", len(fake.frames), wantTotal)
	}

	first, ok := wire.ParseFrame(fake.frames[0])
	if !ok {
		t.Fatal("first frame does not parse")
	}
	for i, s := range fake.frames {
		frame, ok := wire.ParseFrame(s)
		if !ok {
			t.Fatalf("frame %d does not parse: %q", i, s)
		}
		if frame.MsgID != first.MsgID {
			t.Errorf("frame %d has msg id %q, want %q", i, frame.MsgID, first.MsgID)
		}
		if frame.Index != i || frame.Total != wantTotal {
			t.Errorf("frame %d metadata = %d/%d, want %d/%d", i, frame.Index, frame.Total, i, wantTotal)
		}
	}
}

func TestMessageIDsFreshPerCall(t *testing.T) {
	runner, fake := newFakeRunner()
	ctx := context.Background()

	if _, err := runner.Encode(ctx, "first", Options{ChunkSize: 500}); err != nil {
		t.Fatal(err)
	}
	firstID, _ := wire.ParseFrame(fake.frames[0])

	fake.frames = nil
	if _, err := runner.Encode(ctx, "second", Options{ChunkSize: 500}); err != nil {
		t.Fatal(err)
	}
	secondID, _ := wire.ParseFrame(fake.frames[0])

	if firstID.MsgID == secondID.MsgID {
		t.Error("two encode calls shared a message id")
	}
}

func TestDecodeWrongPassphrase(t *testing.T) {
	runner, _ := newFakeRunner()
	ctx := context.Background()

	data, err := runner.Encode(ctx, "secret", Options{ChunkSize: 500, Passphrase: "right"})
	if err != nil {
		t.Fatal(err)
	}

	res, err := runner.Decode(ctx, data, "wrong")
	if !qrerrors.Is(err, qrerrors.ErrCodeDecryption) {
		t.Errorf("error = %v, want DECRYPTION_FAILED", err)
	}
	if res.Text != "" {
		t.Errorf("Decode returned text %q alongside error", res.Text)
	}
}

func TestDecodeMissingChunk(t *testing.T) {
	runner, fake := newFakeRunner()
	ctx := context.Background()

	data, err := runner.Encode(ctx, "hello world", Options{ChunkSize: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(fake.frames) < 3 {
		t.Fatalf("need a multi-fragment message, got %d frames", len(fake.frames))
	}

	// Remove the frame for index 2 before "scanning".
	fake.frames = append(fake.frames[:2], fake.frames[3:]...)

	_, err = runner.Decode(ctx, data, "")
	var missing *qrerrors.MissingChunksError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingChunksError", err)
	}
	if len(missing.Indices) != 1 || missing.Indices[0] != 2 {
		t.Errorf("Indices = %v, want [2]", missing.Indices)
	}
}

func TestDecodeTamperedEnvelope(t *testing.T) {
	fake := &fakeSymbols{}
	runner := NewRunner(fake, fake, nil)
	ctx := context.Background()

	// Hand-build a frame whose envelope text was altered without
	// recomputing the hash.
	wrapped := envelope.Wrap("original")
	tampered := bytes.Replace([]byte(wrapped), []byte("original"), []byte("0riginal"), 1)
	fake.frames = []string{wire.EncodeFrame("aaaa1111", 0, 1, string(tampered))}

	_, err := runner.Decode(ctx, pngBytes(t), "")
	var integrity *qrerrors.IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("error = %v, want IntegrityError", err)
	}
	if integrity.StoredHash != envelope.Hash("original") {
		t.Errorf("StoredHash = %q, want hash of the original text", integrity.StoredHash)
	}
}

func TestDecodeLegacyPlaintext(t *testing.T) {
	fake := &fakeSymbols{}
	runner := NewRunner(fake, fake, nil)
	ctx := context.Background()

	fake.frames = []string{wire.EncodeFrame("aaaa1111", 0, 1, "a payload from before checksums")}

	res, err := runner.Decode(ctx, pngBytes(t), "")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if res.Text != "a payload from before checksums" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.SHA256 != "" {
		t.Errorf("SHA256 = %q, want empty for legacy payload", res.SHA256)
	}
}

func TestDecodeNoSymbols(t *testing.T) {
	fake := &fakeSymbols{} // scan returns nothing
	runner := NewRunner(fake, fake, nil)

	_, err := runner.Decode(context.Background(), pngBytes(t), "")
	if !qrerrors.Is(err, qrerrors.ErrCodeScan) {
		t.Errorf("error = %v, want SCAN_FAILED", err)
	}
}

func TestDecodeInvalidImage(t *testing.T) {
	runner, _ := newFakeRunner()

	_, err := runner.Decode(context.Background(), []byte("definitely not a PNG"), "")
	if !qrerrors.Is(err, qrerrors.ErrCodeImage) {
		t.Errorf("error = %v, want INVALID_IMAGE", err)
	}
}

func TestEncodeHonorsContext(t *testing.T) {
	runner, _ := newFakeRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Encode(ctx, "hello world", Options{ChunkSize: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
