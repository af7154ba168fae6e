package acquire

import (
	"context"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, lang, warn, err := e.ocrWithFallback(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   lang,
		Warnings:   warn,
	}, nil
}

// ocrWithFallback runs tesseract with the multi-language pack and retries
// with the fallback language when that yields fewer than MinChars
// non-space characters. The longer of the two results wins.
func (e *Extractor) ocrWithFallback(ctx context.Context, path string) (string, string, []string, error) {
	txt, warn, err := e.tesseractOCR(ctx, path, e.cfg.Languages)
	if err == nil && visibleLen(txt) >= e.cfg.MinChars {
		return txt, e.cfg.Languages, warn, nil
	}
	if e.cfg.FallbackLanguage == e.cfg.Languages {
		return txt, e.cfg.Languages, warn, err
	}
	if err != nil {
		warn = append(warn, err.Error())
	}
	e.logger.Debug("ocr output too short; retrying", "path", path, "lang", e.cfg.FallbackLanguage, "chars", visibleLen(txt))

	alt, warn2, err2 := e.tesseractOCR(ctx, path, e.cfg.FallbackLanguage)
	warn = append(warn, warn2...)
	if err2 != nil {
		if err != nil {
			return "", e.cfg.FallbackLanguage, warn, err2
		}
		return txt, e.cfg.Languages, warn, nil
	}
	if visibleLen(alt) >= visibleLen(txt) {
		return alt, e.cfg.FallbackLanguage, warn, nil
	}
	return txt, e.cfg.Languages, warn, nil
}

// tesseract <file> stdout -l <lang>
func (e *Extractor) tesseractOCR(ctx context.Context, path, lang string) (string, []string, error) {
	args := []string{path, "stdout", "-l", lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, nil, e.cfg.Tesseract, args...)
	if err != nil {
		var warn []string
		if s := strings.TrimSpace(string(errb)); s != "" {
			warn = append(warn, s)
		}
		return "", warn, common.WrapError(err, "tesseract")
	}
	return string(out), nil, nil
}

func visibleLen(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' && r != '\f' {
			n++
		}
	}
	return n
}
