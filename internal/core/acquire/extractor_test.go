package acquire

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

// scriptedRunner answers tesseract calls by language and fakes pdftoppm output.
type scriptedRunner struct {
	byLang map[string]string
	fail   map[string]bool
	pages  int
	calls  []string
}

func (s *scriptedRunner) Run(_ context.Context, _ io.Reader, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name+" "+strings.Join(args, " "))
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(prefix+"-"+strconv.Itoa(i)+".png", []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		lang := ""
		for i, a := range args {
			if a == "-l" && i+1 < len(args) {
				lang = args[i+1]
			}
		}
		if s.fail[lang] {
			return nil, []byte("failed loading language"), errors.New("exit status 1")
		}
		return []byte(s.byLang[lang]), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExtractText(t *testing.T) {
	p := writeFile(t, "notice.txt", "PAN: ABCDE1234F\nDemand notice")
	e := NewExtractor(Config{}, &scriptedRunner{}, nil)
	res, err := e.Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "text", res.Method)
	assert.Equal(t, "PAN: ABCDE1234F\nDemand notice", res.Text)
	assert.Greater(t, res.Confidence, float32(0.2))
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor(Config{}, &scriptedRunner{}, nil)
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "notice.docx", "x")
	e := NewExtractor(Config{}, &scriptedRunner{}, nil)
	_, err := e.Extract(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestExtractImageUsesMultiLanguagePack(t *testing.T) {
	p := writeFile(t, "scan.png", "png")
	r := &scriptedRunner{byLang: map[string]string{"eng+hin+tel": "Notice under section 143(2) to ABCDE1234F"}}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "eng+hin+tel", res.Language)
	assert.Len(t, r.calls, 1)
}

func TestExtractImageFallsBackToEnglish(t *testing.T) {
	tests := []struct {
		name string
		r    *scriptedRunner
		want string
	}{
		{
			name: "short multi-language output",
			r: &scriptedRunner{byLang: map[string]string{
				"eng+hin+tel": "ab  c",
				"eng":         "Demand notice issued to the assessee",
			}},
			want: "Demand notice issued to the assessee",
		},
		{
			name: "language pack missing",
			r: &scriptedRunner{
				fail:   map[string]bool{"eng+hin+tel": true},
				byLang: map[string]string{"eng": "Demand notice issued to the assessee"},
			},
			want: "Demand notice issued to the assessee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, "scan.jpg", "jpg")
			res, err := NewExtractor(Config{}, tt.r, nil).Extract(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, "eng", res.Language)
			assert.Len(t, tt.r.calls, 2)
		})
	}
}

func TestExtractImageKeepsLongerResult(t *testing.T) {
	p := writeFile(t, "scan.png", "png")
	r := &scriptedRunner{byLang: map[string]string{"eng+hin+tel": "abcdef", "eng": "ab"}}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", res.Text)
}

func TestExtractImageAllEnginesFail(t *testing.T) {
	p := writeFile(t, "scan.png", "png")
	r := &scriptedRunner{fail: map[string]bool{"eng+hin+tel": true, "eng": true}}
	_, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadable)
	assert.Equal(t, "OCR_FAILED", common.CodeOf(err))
	assert.Contains(t, err.Error(), "tesseract: exit status 1")
}

func TestExtractScannedPDF(t *testing.T) {
	// not a real PDF, so the text layer fails and pages are rasterised
	p := writeFile(t, "notice.pdf", "garbage")
	r := &scriptedRunner{
		pages:  2,
		byLang: map[string]string{"eng+hin+tel": "Page text for a scanned notice"},
	}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Page text for a scanned notice\nPage text for a scanned notice", res.Text)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractPDFMaxPages(t *testing.T) {
	p := writeFile(t, "notice.pdf", "garbage")
	r := &scriptedRunner{pages: 3, byLang: map[string]string{"eng+hin+tel": "Page text for a scanned notice"}}
	res, err := NewExtractor(Config{MaxPages: 1, SkipTextLayer: true}, r, nil).Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestExtractPDFNoPagesRendered(t *testing.T) {
	p := writeFile(t, "notice.pdf", "garbage")
	_, err := NewExtractor(Config{SkipTextLayer: true}, &scriptedRunner{}, nil).Extract(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, "OCR_FAILED", common.CodeOf(err))
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("hello")
	high := heuristicConfidence("Notice dated 05/03/2024 to ABCDE1234F for Rs. 1,50,000.00 " + strings.Repeat("x", 120))
	assert.Equal(t, float32(0.2), low)
	assert.Greater(t, high, low)
	assert.LessOrEqual(t, high, float32(1.0))
}

func TestPageNum(t *testing.T) {
	assert.Equal(t, 10, pageNum("/tmp/x/page-10.png"))
	assert.Equal(t, 2, pageNum("/tmp/x/page-02.png"))
}
