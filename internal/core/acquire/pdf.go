package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	var warns []string
	if !e.cfg.SkipTextLayer {
		text, pages, err := textLayer(path)
		switch {
		case err != nil:
			warns = append(warns, "text layer: "+err.Error())
		case visibleLen(text) >= e.cfg.MinChars:
			return Result{Text: text, Pages: pages, SourceType: constants.PDF, Method: "pdf-text"}, nil
		default:
			e.logger.Debug("pdf has no usable text layer; rasterising", "path", path, "pages", pages)
		}
	}

	text, pages, lang, w, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return Result{SourceType: constants.PDF, Warnings: warns}, err
	}
	return Result{
		Text:       text,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   lang,
		Warnings:   warns,
	}, nil
}

// textLayer reads embedded text page by page. Malformed pages are skipped.
func textLayer(path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pages = r.NumPage()
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		func() {
			defer func() { _ = recover() }()
			p := r.Page(i)
			if p.V.IsNull() {
				return
			}
			s, err := p.GetPlainText(nil)
			if err != nil {
				return
			}
			if b.Len() > 0 {
				b.WriteString("\f")
			}
			b.WriteString(s)
		}()
	}
	return b.String(), pages, nil
}

// pdfToOCR rasterises every page with pdftoppm and OCRs each image.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (string, int, string, []string, error) {
	tmpDir, err := os.MkdirTemp("", "notice-pp-*")
	if err != nil {
		return "", 0, "", nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, nil, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, "", []string{string(errb)}, common.WrapError(err, "pdftoppm")
	}

	// prefix-1.png, prefix-2.png, ...
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Slice(matches, func(i, j int) bool { return pageNum(matches[i]) < pageNum(matches[j]) })
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, "", []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var (
		b     strings.Builder
		warns []string
		lang  string
	)
	for _, img := range matches {
		txt, l, w, err := e.ocrWithFallback(ctx, img)
		warns = append(warns, w...)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if lang == "" {
			lang = l
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), len(matches), lang, warns, nil
}

func pageNum(p string) int {
	base := strings.TrimSuffix(filepath.Base(p), ".png")
	i := strings.LastIndex(base, "-")
	n, _ := strconv.Atoi(base[i+1:])
	return n
}
